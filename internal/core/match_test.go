package core

import "testing"

func TestNameMatches(t *testing.T) {
	tests := []struct {
		name  string
		query string
		cand  string
		want  bool
	}{
		{"exact", "Wallet", "Wallet", true},
		{"case insensitive", "wallet", "WALLET", true},
		{"query contained in name", "wall", "My Wallet", true},
		{"name contained in query", "my wallet extra", "my wallet", true},
		{"japanese name", "現金", "現金（財布）", true},
		{"unrelated", "bank", "wallet", false},
		{"empty query", "", "wallet", false},
		{"empty name", "wallet", "", false},
		{"whitespace only query", "   ", "wallet", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NameMatches(tt.query, tt.cand); got != tt.want {
				t.Errorf("NameMatches(%q, %q) = %v, want %v", tt.query, tt.cand, got, tt.want)
			}
		})
	}
}

func TestContainsAnyFold(t *testing.T) {
	markers := DefaultAdjustmentMarkers

	tests := []struct {
		name string
		s    string
		want bool
	}{
		{"japanese marker", "残高調整", true},
		{"marker embedded", "口座の残高調整用", true},
		{"english marker", "Balance Adjustment", true},
		{"short marker", "Manual Adjust", true},
		{"no marker", "Groceries", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsAnyFold(tt.s, markers); got != tt.want {
				t.Errorf("ContainsAnyFold(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}

	if ContainsAnyFold("anything", []string{""}) {
		t.Error("empty marker must not match")
	}
}
