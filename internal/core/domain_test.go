package core

import (
	"encoding/json"
	"testing"
)

func TestDateJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain date", `"2025-03-14"`, "2025-03-14", false},
		{"date with time part", `"2025-03-14 12:34:56"`, "2025-03-14", false},
		{"empty string is zero date", `""`, "", false},
		{"garbage", `"not-a-date"`, "", true},
		{"unquoted literal", `2025`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.in), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if d.String() != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, d.String(), tt.want)
			}
		})
	}
}

func TestDateMarshal(t *testing.T) {
	b, err := json.Marshal(NewDate(2025, 1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-01-02"` {
		t.Errorf("Marshal = %s, want %q", b, `"2025-01-02"`)
	}

	b, err = json.Marshal(Date{})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `""` {
		t.Errorf("Marshal zero date = %s, want %q", b, `""`)
	}
}

func TestDateAddDays(t *testing.T) {
	d := NewDate(2025, 3, 1)
	if got := d.AddDays(-1).String(); got != "2025-02-28" {
		t.Errorf("AddDays(-1) = %q, want 2025-02-28", got)
	}
	if got := d.AddDays(31).String(); got != "2025-04-01" {
		t.Errorf("AddDays(31) = %q, want 2025-04-01", got)
	}
}

func TestAccountIsActive(t *testing.T) {
	if !(Account{Active: 1}).IsActive() {
		t.Error("Active=1 should be active")
	}
	if (Account{Active: -1}).IsActive() {
		t.Error("Active=-1 should be inactive")
	}
	if (Account{}).IsActive() {
		t.Error("zero Active should be inactive")
	}
}
