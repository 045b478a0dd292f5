package balance

import (
	"context"
	"fmt"
	"log/slog"

	"zaim/internal/core"
	"zaim/internal/ledger"
)

// CurrentBalance replays the account's history over the lookback window and
// sums the signed effect of every involved record. Paging is strictly
// sequential; a failed page fetch aborts the computation and the partial sum
// is discarded, never returned.
func (m *Manager) CurrentBalance(ctx context.Context, accountID int64) (core.BalanceSnapshot, error) {
	end := core.DateOf(m.opts.Now())
	start := end.AddDays(-m.opts.LookbackDays)

	var records []core.MoneyRecord
	for page := 1; ; page++ {
		res, err := m.ledger.ListRecords(ctx, ledger.RecordFilter{
			StartDate: start,
			EndDate:   end,
			Order:     "date",
			Page:      page,
			Limit:     pageLimit,
		})
		if err != nil {
			return core.BalanceSnapshot{}, fmt.Errorf("list records page %d: %w", page, err)
		}
		if len(res.Records) == 0 {
			break
		}
		records = append(records, res.Records...)
		if len(res.Records) < pageLimit {
			break
		}
	}

	snap := core.BalanceSnapshot{AccountID: accountID}
	for _, r := range records {
		delta, involved := core.Classify(r, accountID)
		if !involved {
			continue
		}
		snap.NetChange += delta
		snap.TransactionCount++
	}

	slog.DebugContext(ctx, "Computed balance snapshot",
		"account_id", accountID,
		"net_change", snap.NetChange,
		"transactions", snap.TransactionCount,
		"window_days", m.opts.LookbackDays)

	return snap, nil
}
