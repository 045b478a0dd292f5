// Package output renders balance listings and adjustment results as a
// table, CSV, or JSON.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"zaim/internal/core"
)

type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat accepts table, csv, or json.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatCSV, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, csv, or json)", s)
}

// Renderer writes results in one format with the configured display
// preferences.
type Renderer struct {
	w              io.Writer
	format         Format
	currencyFormat string
	showCount      bool
}

func NewRenderer(w io.Writer, format Format, currencyFormat string, showCount bool) *Renderer {
	return &Renderer{w: w, format: format, currencyFormat: currencyFormat, showCount: showCount}
}

// AccountBalances renders a balance listing with a grand total in table mode.
func (r *Renderer) AccountBalances(balances []core.AccountBalance) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(map[string]any{"accounts": balances})
	case FormatCSV:
		rows := [][]string{{"id", "name", "balance", "transaction_count"}}
		for _, b := range balances {
			rows = append(rows, []string{
				strconv.FormatInt(b.ID, 10),
				b.Name,
				strconv.FormatInt(b.Balance, 10),
				strconv.Itoa(b.TransactionCount),
			})
		}
		return csv.NewWriter(r.w).WriteAll(rows)
	default:
		tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
		if r.showCount {
			fmt.Fprintln(tw, "ACCOUNT\tBALANCE\tTRANSACTIONS")
		} else {
			fmt.Fprintln(tw, "ACCOUNT\tBALANCE")
		}
		var total int64
		for _, b := range balances {
			total += b.Balance
			if r.showCount {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", b.Name, r.amount(b.Balance), b.TransactionCount)
			} else {
				fmt.Fprintf(tw, "%s\t%s\n", b.Name, r.amount(b.Balance))
			}
		}
		fmt.Fprintf(tw, "TOTAL\t%s\n", r.amount(total))
		return tw.Flush()
	}
}

// AdjustmentResult renders the outcome of a reconciliation call.
func (r *Renderer) AdjustmentResult(res core.AdjustmentResult) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(res)
	case FormatCSV:
		rows := [][]string{
			{"account_name", "current_balance", "target_balance", "adjustment_needed", "action", "transaction_id", "error"},
			{
				res.AccountName,
				strconv.FormatInt(res.CurrentBalance, 10),
				strconv.FormatInt(res.TargetBalance, 10),
				strconv.FormatInt(res.AdjustmentNeeded, 10),
				string(res.Action),
				formatOptionalID(res.TransactionID),
				res.Err,
			},
		}
		return csv.NewWriter(r.w).WriteAll(rows)
	default:
		tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Account:\t%s\n", res.AccountName)
		fmt.Fprintf(tw, "Current balance:\t%s\n", r.amount(res.CurrentBalance))
		fmt.Fprintf(tw, "Target balance:\t%s\n", r.amount(res.TargetBalance))
		if res.AdjustmentNeeded > 0 {
			fmt.Fprintf(tw, "Adjustment:\t+%s\n", r.amount(res.AdjustmentNeeded))
		} else {
			fmt.Fprintf(tw, "Adjustment:\t%s\n", r.amount(res.AdjustmentNeeded))
		}
		if r.showCount {
			fmt.Fprintf(tw, "Transactions:\t%d\n", res.TransactionCount)
		}
		switch res.Action {
		case core.ActionNoChange:
			fmt.Fprintln(tw, "Result:\tno change needed")
		case core.ActionDryRun:
			fmt.Fprintf(tw, "Result:\tdry run (%s)\n", res.PlannedAction)
		case core.ActionCompleted:
			fmt.Fprintf(tw, "Result:\tcompleted (transaction %d, %s)\n", res.TransactionID, res.TransactionType)
		case core.ActionError:
			fmt.Fprintf(tw, "Result:\terror: %s\n", res.Err)
		}
		return tw.Flush()
	}
}

// Accounts renders the raw account list.
func (r *Renderer) Accounts(accounts []core.Account) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(map[string]any{"accounts": accounts})
	case FormatCSV:
		rows := [][]string{{"id", "name", "active"}}
		for _, a := range accounts {
			rows = append(rows, []string{
				strconv.FormatInt(a.ID, 10),
				a.Name,
				strconv.Itoa(a.Active),
			})
		}
		return csv.NewWriter(r.w).WriteAll(rows)
	default:
		tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSTATUS")
		for _, a := range accounts {
			status := "inactive"
			if a.IsActive() {
				status = "active"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\n", a.ID, a.Name, status)
		}
		return tw.Flush()
	}
}

// JSON renders any value as indented JSON, regardless of the configured
// format. Used for whoami and config output.
func (r *Renderer) JSON(v any) error {
	return r.writeJSON(v)
}

func (r *Renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// amount formats a minor-unit value per the configured currency style.
func (r *Renderer) amount(n int64) string {
	if r.currencyFormat == "yen" {
		return groupDigits(n) + "円"
	}
	return "¥" + groupDigits(n)
}

// groupDigits inserts comma separators every three digits.
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

func formatOptionalID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
