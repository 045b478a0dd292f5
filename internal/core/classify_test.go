package core

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		record   MoneyRecord
		target   int64
		wantSum  int64
		involved bool
	}{
		{
			name:     "income into target credits",
			record:   MoneyRecord{Mode: ModeIncome, Amount: 5000, ToAccountID: 1},
			target:   1,
			wantSum:  5000,
			involved: true,
		},
		{
			name:     "income into other account ignored",
			record:   MoneyRecord{Mode: ModeIncome, Amount: 5000, ToAccountID: 2},
			target:   1,
			wantSum:  0,
			involved: false,
		},
		{
			name:     "payment from target debits",
			record:   MoneyRecord{Mode: ModePayment, Amount: 1200, FromAccountID: 1},
			target:   1,
			wantSum:  -1200,
			involved: true,
		},
		{
			name:     "payment from other account ignored",
			record:   MoneyRecord{Mode: ModePayment, Amount: 1200, FromAccountID: 2},
			target:   1,
			wantSum:  0,
			involved: false,
		},
		{
			name:     "transfer out of target debits",
			record:   MoneyRecord{Mode: ModeTransfer, Amount: 3000, FromAccountID: 1, ToAccountID: 2},
			target:   1,
			wantSum:  -3000,
			involved: true,
		},
		{
			name:     "transfer into target credits",
			record:   MoneyRecord{Mode: ModeTransfer, Amount: 3000, FromAccountID: 2, ToAccountID: 1},
			target:   1,
			wantSum:  3000,
			involved: true,
		},
		{
			name:     "transfer between other accounts ignored",
			record:   MoneyRecord{Mode: ModeTransfer, Amount: 3000, FromAccountID: 2, ToAccountID: 3},
			target:   1,
			wantSum:  0,
			involved: false,
		},
		{
			name:     "degenerate self transfer never involves the account",
			record:   MoneyRecord{Mode: ModeTransfer, Amount: 3000, FromAccountID: 1, ToAccountID: 1},
			target:   1,
			wantSum:  0,
			involved: false,
		},
		{
			name:     "zero target id matches nothing",
			record:   MoneyRecord{Mode: ModeIncome, Amount: 5000, ToAccountID: 0},
			target:   0,
			wantSum:  0,
			involved: false,
		},
		{
			name:     "unknown mode ignored",
			record:   MoneyRecord{Mode: "refund", Amount: 500, FromAccountID: 1, ToAccountID: 1},
			target:   1,
			wantSum:  0,
			involved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, involved := Classify(tt.record, tt.target)
			if got != tt.wantSum || involved != tt.involved {
				t.Errorf("Classify() = (%d, %v), want (%d, %v)", got, involved, tt.wantSum, tt.involved)
			}
		})
	}
}

func TestModeValid(t *testing.T) {
	for _, m := range []Mode{ModePayment, ModeIncome, ModeTransfer} {
		if !m.Valid() {
			t.Errorf("Mode(%q).Valid() = false, want true", m)
		}
	}
	for _, m := range []Mode{"", "refund", "Payment"} {
		if m.Valid() {
			t.Errorf("Mode(%q).Valid() = true, want false", m)
		}
	}
}
