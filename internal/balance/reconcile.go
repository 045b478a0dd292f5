package balance

import (
	"context"
	"fmt"
	"log/slog"

	"zaim/internal/core"
	"zaim/internal/ledger"
)

// SetBalance moves the named account to the target balance by creating a
// single adjustment record (income when the balance must grow, payment when
// it must shrink). With dryRun set, the intended adjustment is reported but
// nothing is submitted.
//
// Errors before the balance is known (account lookup, history paging) are
// returned as errors. Failures during category resolution or submission are
// folded into the result with Action set to core.ActionError, since by then
// the caller wants a report of the computed balance, not a crash.
func (m *Manager) SetBalance(ctx context.Context, accountQuery string, targetAmount int64, comment string, dryRun bool) (core.AdjustmentResult, error) {
	account, err := m.FindAccount(ctx, accountQuery)
	if err != nil {
		return core.AdjustmentResult{}, err
	}

	snap, err := m.CurrentBalance(ctx, account.ID)
	if err != nil {
		return core.AdjustmentResult{}, err
	}

	adjustment := targetAmount - snap.NetChange
	result := core.AdjustmentResult{
		AccountName:      account.Name,
		AccountID:        account.ID,
		CurrentBalance:   snap.NetChange,
		TargetBalance:    targetAmount,
		AdjustmentNeeded: adjustment,
		TransactionCount: snap.TransactionCount,
	}

	if adjustment == 0 {
		result.Action = core.ActionNoChange
		return result, nil
	}

	if comment == "" {
		comment = fmt.Sprintf("%s: balance adjustment (%+d)", m.opts.CommentPrefix, adjustment)
	}
	result.Comment = comment

	if dryRun {
		result.Action = core.ActionDryRun
		if adjustment > 0 {
			result.PlannedAction = fmt.Sprintf("would create an income of %d", adjustment)
		} else {
			result.PlannedAction = fmt.Sprintf("would create a payment of %d", -adjustment)
		}
		return result, nil
	}

	rec, err := m.createAdjustment(ctx, account.ID, adjustment, comment)
	if err != nil {
		slog.WarnContext(ctx, "Adjustment submission failed",
			"account", account.Name, "adjustment", adjustment, "error", err)
		result.Action = core.ActionError
		result.Err = err.Error()
		return result, nil
	}

	result.Action = core.ActionCompleted
	result.TransactionID = rec.ID
	result.TransactionType = rec.Mode

	slog.InfoContext(ctx, "Adjustment submitted",
		"account", account.Name,
		"adjustment", adjustment,
		"transaction_id", rec.ID,
		"transaction_type", rec.Mode)

	return result, nil
}

// AddBalance raises the account's balance by amount. It is a composition:
// compute the current balance, then delegate to SetBalance with
// current+amount, inheriting its semantics and failure modes.
func (m *Manager) AddBalance(ctx context.Context, accountQuery string, amount int64, comment string, dryRun bool) (core.AdjustmentResult, error) {
	account, err := m.FindAccount(ctx, accountQuery)
	if err != nil {
		return core.AdjustmentResult{}, err
	}
	snap, err := m.CurrentBalance(ctx, account.ID)
	if err != nil {
		return core.AdjustmentResult{}, err
	}
	return m.SetBalance(ctx, accountQuery, snap.NetChange+amount, comment, dryRun)
}

// SubtractBalance lowers the account's balance by amount. Same composition
// as AddBalance.
func (m *Manager) SubtractBalance(ctx context.Context, accountQuery string, amount int64, comment string, dryRun bool) (core.AdjustmentResult, error) {
	account, err := m.FindAccount(ctx, accountQuery)
	if err != nil {
		return core.AdjustmentResult{}, err
	}
	snap, err := m.CurrentBalance(ctx, account.ID)
	if err != nil {
		return core.AdjustmentResult{}, err
	}
	return m.SetBalance(ctx, accountQuery, snap.NetChange-amount, comment, dryRun)
}

// createAdjustment submits the single adjustment record. Positive
// adjustments credit the account as an income; negative ones debit it as a
// payment of the absolute amount. At most one record is ever created per
// call and a failed attempt is never retried.
func (m *Manager) createAdjustment(ctx context.Context, accountID, adjustment int64, comment string) (core.MoneyRecord, error) {
	today := core.DateOf(m.opts.Now())

	if adjustment > 0 {
		target, err := m.resolveIncomeTarget(ctx)
		if err != nil {
			return core.MoneyRecord{}, err
		}
		rec, err := m.ledger.CreateIncome(ctx, ledger.IncomeParams{
			CategoryID:  target.categoryID,
			Amount:      adjustment,
			Date:        today,
			ToAccountID: accountID,
			Comment:     comment,
		})
		if err != nil {
			return core.MoneyRecord{}, fmt.Errorf("create income: %w", err)
		}
		return rec, nil
	}

	target, err := m.resolveExpenseTarget(ctx)
	if err != nil {
		return core.MoneyRecord{}, err
	}
	rec, err := m.ledger.CreatePayment(ctx, ledger.PaymentParams{
		CategoryID:    target.categoryID,
		GenreID:       target.genreID,
		Amount:        -adjustment,
		Date:          today,
		FromAccountID: accountID,
		Comment:       comment,
	})
	if err != nil {
		return core.MoneyRecord{}, fmt.Errorf("create payment: %w", err)
	}
	return rec, nil
}
