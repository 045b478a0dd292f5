package core

// Classify reports how a record moves the balance of the target account.
// The returned delta is signed: incomes crediting the account contribute
// +Amount, payments debiting it contribute -Amount, and transfers contribute
// per direction. The second return value is false when the record does not
// involve the account at all.
func Classify(r MoneyRecord, targetAccountID int64) (int64, bool) {
	if targetAccountID == 0 {
		return 0, false
	}
	switch r.Mode {
	case ModeIncome:
		if r.ToAccountID == targetAccountID {
			return r.Amount, true
		}
	case ModePayment:
		if r.FromAccountID == targetAccountID {
			return -r.Amount, true
		}
	case ModeTransfer:
		// A transfer onto itself is degenerate and cannot move a balance.
		if r.FromAccountID == r.ToAccountID {
			return 0, false
		}
		if r.FromAccountID == targetAccountID {
			return -r.Amount, true
		}
		if r.ToAccountID == targetAccountID {
			return r.Amount, true
		}
	}
	return 0, false
}
