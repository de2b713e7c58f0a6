package core

import (
	"math"
	"testing"
)

func TestSummarizeScenario(t *testing.T) {
	txs := []Transaction{
		tx(1, Income, 100000, "income", 2024, 1, 1),
		tx(2, Expense, 30000, "food", 2024, 1, 2),
	}
	s := Summarize(txs, WindowAll, testNow)

	if s.TotalBalance != 70000 {
		t.Errorf("TotalBalance = %d, want 70000", s.TotalBalance)
	}
	if s.PeriodIncome.Cents != 100000 {
		t.Errorf("PeriodIncome = %d, want 100000", s.PeriodIncome.Cents)
	}
	if s.PeriodExpense.Cents != 30000 {
		t.Errorf("PeriodExpense = %d, want 30000", s.PeriodExpense.Cents)
	}
	if len(s.Breakdown) != 1 {
		t.Fatalf("Breakdown = %v, want one row", s.Breakdown)
	}
	row := s.Breakdown[0]
	if row.Category != "food" || row.Total.Cents != 30000 || row.Percent != 100 {
		t.Errorf("Breakdown[0] = %+v, want food/30000/100%%", row)
	}
}

func TestSummarizeBalanceIgnoresWindow(t *testing.T) {
	txs := []Transaction{
		tx(1, Income, 50000, "income", 2023, 6, 1),
		tx(2, Expense, 20000, "food", 2024, 3, 15),
	}
	for _, w := range []Window{WindowToday, WindowCurrentMonth, WindowThisYear, WindowAll} {
		s := Summarize(txs, w, testNow)
		if s.TotalBalance != 30000 {
			t.Errorf("window %v: TotalBalance = %d, want 30000", w, s.TotalBalance)
		}
	}

	// Period figures do respect the window: the 2023 income is outside today.
	s := Summarize(txs, WindowToday, testNow)
	if s.PeriodIncome.Cents != 0 || s.PeriodExpense.Cents != 20000 {
		t.Errorf("today: income %d expense %d, want 0/20000", s.PeriodIncome.Cents, s.PeriodExpense.Cents)
	}
}

func TestSummarizeBreakdownSortedAndComplete(t *testing.T) {
	txs := []Transaction{
		tx(1, Expense, 10000, "home", 2024, 3, 14),
		tx(2, Expense, 25000, "food", 2024, 3, 14),
		tx(3, Expense, 5000, "transport", 2024, 3, 15),
		tx(4, Expense, 5000, "food", 2024, 3, 15),
		tx(5, Income, 90000, "income", 2024, 3, 15),
	}
	s := Summarize(txs, WindowLast7Days, testNow)

	wantOrder := []string{"food", "home", "transport"}
	if len(s.Breakdown) != len(wantOrder) {
		t.Fatalf("Breakdown has %d rows, want %d", len(s.Breakdown), len(wantOrder))
	}
	var sum int64
	var pct float64
	for i, row := range s.Breakdown {
		if row.Category != wantOrder[i] {
			t.Errorf("Breakdown[%d] = %q, want %q", i, row.Category, wantOrder[i])
		}
		sum += row.Total.Cents
		pct += row.Percent
	}
	if sum != s.PeriodExpense.Cents {
		t.Errorf("breakdown sum = %d, want %d", sum, s.PeriodExpense.Cents)
	}
	if math.Abs(pct-100) > 1e-9 {
		t.Errorf("percent sum = %f, want 100", pct)
	}

	top, ok := s.TopExpenseCategory()
	if !ok || top.Category != "food" || top.Total.Cents != 30000 {
		t.Errorf("TopExpenseCategory = %+v/%v, want food/30000", top, ok)
	}
}

func TestSummarizeNoExpenses(t *testing.T) {
	txs := []Transaction{tx(1, Income, 10000, "income", 2024, 3, 15)}
	s := Summarize(txs, WindowAll, testNow)
	if len(s.Breakdown) != 0 {
		t.Errorf("Breakdown = %v, want empty", s.Breakdown)
	}
	if _, ok := s.TopExpenseCategory(); ok {
		t.Error("TopExpenseCategory: want ok=false with no expenses")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, WindowAll, testNow)
	if s.TotalBalance != 0 || s.PeriodIncome.Cents != 0 || s.PeriodExpense.Cents != 0 || len(s.Breakdown) != 0 {
		t.Errorf("empty summary = %+v, want zeros", s)
	}
}
