package core

import (
	"errors"
	"strings"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"income", Income, false},
		{"expense", Expense, false},
		{"INCOME", Income, false},
		{" expense ", Expense, false},
		{"transfer", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidKind) {
				t.Errorf("ParseKind(%q): want ErrInvalidKind, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got := d.String(); got != "2024-03-15" {
		t.Errorf("String() = %q, want %q", got, "2024-03-15")
	}

	for _, in := range []string{"", "15/03/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q): want ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Title:    "Mercado",
		Amount:   Money{Cents: 12345},
		Kind:     Expense,
		Category: "food",
		Date:     NewDate(2024, 3, 15),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"empty title", func(tx *Transaction) { tx.Title = "  " }, ErrEmptyTitle},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = Money{Cents: -100} }, ErrInvalidAmount},
		{"bad kind", func(tx *Transaction) { tx.Kind = "transfer" }, ErrInvalidKind},
		{"empty category", func(tx *Transaction) { tx.Category = "" }, ErrEmptyCategory},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	long := valid
	long.Title = strings.Repeat("a", 201)
	if err := long.Validate(); err == nil {
		t.Error("Validate() accepted a 201-character title")
	}
}
