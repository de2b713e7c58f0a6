package core

import (
	"testing"
	"time"
)

var testNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func tx(id int64, kind Kind, cents int64, category string, y, m, d int) Transaction {
	return Transaction{
		ID:       id,
		Title:    "tx",
		Amount:   Money{Cents: cents},
		Kind:     kind,
		Category: category,
		Date:     NewDate(y, m, d),
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in   string
		want Window
	}{
		{"today", WindowToday},
		{"7", WindowLast7Days},
		{"current_month", WindowCurrentMonth},
		{"this_year", WindowThisYear},
		{"all", WindowAll},
		{"", WindowAll},
		{"garbage", WindowAll},
		{"90", WindowAll},
	}
	for _, tt := range tests {
		if got := ParseWindow(tt.in); got != tt.want {
			t.Errorf("ParseWindow(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWindowRange(t *testing.T) {
	tests := []struct {
		w        Window
		from, to time.Time
	}{
		{WindowToday, NewDate(2024, 3, 15).Time, endOfDay(NewDate(2024, 3, 15).Time)},
		{WindowLast7Days, NewDate(2024, 3, 9).Time, endOfDay(NewDate(2024, 3, 15).Time)},
		{WindowLast15Days, NewDate(2024, 3, 1).Time, endOfDay(NewDate(2024, 3, 15).Time)},
		{WindowLast30Days, NewDate(2024, 2, 15).Time, endOfDay(NewDate(2024, 3, 15).Time)},
		{WindowCurrentMonth, NewDate(2024, 3, 1).Time, endOfDay(NewDate(2024, 3, 15).Time)},
		{WindowLastMonth, NewDate(2024, 2, 1).Time, endOfDay(NewDate(2024, 2, 29).Time)},
		{WindowThisYear, NewDate(2024, 1, 1).Time, endOfDay(NewDate(2024, 3, 15).Time)},
	}
	for _, tt := range tests {
		from, to, bounded := tt.w.Range(testNow)
		if !bounded {
			t.Errorf("%v: want bounded range", tt.w)
			continue
		}
		if !from.Equal(tt.from) || !to.Equal(tt.to) {
			t.Errorf("%v: range [%v, %v], want [%v, %v]", tt.w, from, to, tt.from, tt.to)
		}
	}

	if _, _, bounded := WindowAll.Range(testNow); bounded {
		t.Error("WindowAll: want unbounded")
	}
}

func TestFilterTransactions(t *testing.T) {
	txs := []Transaction{
		tx(1, Expense, 100, "food", 2024, 3, 15),  // today
		tx(2, Expense, 200, "food", 2024, 3, 10),  // inside 7d
		tx(3, Expense, 300, "home", 2024, 3, 8),   // outside 7d, inside 15d
		tx(4, Income, 400, "income", 2024, 2, 20), // last month
		tx(5, Expense, 500, "food", 2023, 12, 31), // last year
	}

	tests := []struct {
		w    Window
		want []int64
	}{
		{WindowToday, []int64{1}},
		{WindowLast7Days, []int64{1, 2}},
		{WindowLast15Days, []int64{1, 2, 3}},
		{WindowLastMonth, []int64{4}},
		{WindowThisYear, []int64{1, 2, 3, 4}},
		{WindowAll, []int64{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		got := FilterTransactions(txs, tt.w, testNow)
		ids := make([]int64, len(got))
		for i, g := range got {
			ids[i] = g.ID
		}
		if len(ids) != len(tt.want) {
			t.Errorf("%v: got %v, want %v", tt.w, ids, tt.want)
			continue
		}
		for i := range ids {
			if ids[i] != tt.want[i] {
				t.Errorf("%v: got %v, want %v", tt.w, ids, tt.want)
				break
			}
		}
	}
}

func TestCurrentMonthExcludesFutureDates(t *testing.T) {
	txs := []Transaction{
		tx(1, Expense, 100, "food", 2024, 3, 15), // today
		tx(2, Expense, 200, "food", 2024, 3, 20), // later this month
		tx(3, Income, 300, "income", 2024, 3, 1),
	}
	got := FilterTransactions(txs, WindowCurrentMonth, testNow)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (got %v)", len(got), got)
	}
	for _, g := range got {
		if g.ID == 2 {
			t.Fatal("future-dated transaction included in current month")
		}
	}
}

func TestFilterSortsDateDescending(t *testing.T) {
	txs := []Transaction{
		tx(1, Expense, 100, "food", 2024, 1, 5),
		tx(2, Expense, 100, "food", 2024, 3, 1),
		tx(3, Expense, 100, "food", 2024, 2, 10),
		tx(4, Expense, 100, "food", 2024, 3, 1), // same day as 2, must stay after it
	}
	got := FilterTransactions(txs, WindowAll, testNow)
	wantOrder := []int64{2, 4, 3, 1}
	for i, w := range wantOrder {
		if got[i].ID != w {
			t.Fatalf("order = %v at %d, want %v", got[i].ID, i, wantOrder)
		}
	}
}

func TestFilterDoesNotModifyInput(t *testing.T) {
	txs := []Transaction{
		tx(1, Expense, 100, "food", 2024, 1, 5),
		tx(2, Expense, 100, "food", 2024, 3, 1),
	}
	FilterTransactions(txs, WindowAll, testNow)
	if txs[0].ID != 1 || txs[1].ID != 2 {
		t.Error("input slice was reordered")
	}
}
