package core

import (
	"sort"
	"time"
)

// CategoryTotal is one row of the expense breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    Money   `json:"total"`
	Percent  float64 `json:"percent"`
}

// Summary aggregates a user's transactions for one window. TotalBalance
// always spans the full history; the period figures and the breakdown span
// only the window.
type Summary struct {
	TotalBalance  int64           `json:"total_balance_cents"`
	PeriodIncome  Money           `json:"period_income_cents"`
	PeriodExpense Money           `json:"period_expense_cents"`
	Breakdown     []CategoryTotal `json:"breakdown"`
}

// Summarize computes the dashboard figures for a window. Zero-total
// categories are dropped from the breakdown, which is sorted by total
// descending with category key as tiebreaker.
func Summarize(txs []Transaction, w Window, now time.Time) Summary {
	var s Summary
	for _, tx := range txs {
		switch tx.Kind {
		case Income:
			s.TotalBalance += tx.Amount.Cents
		case Expense:
			s.TotalBalance -= tx.Amount.Cents
		}
	}

	byCategory := make(map[string]int64)
	for _, tx := range FilterTransactions(txs, w, now) {
		switch tx.Kind {
		case Income:
			s.PeriodIncome.Cents += tx.Amount.Cents
		case Expense:
			s.PeriodExpense.Cents += tx.Amount.Cents
			byCategory[tx.Category] += tx.Amount.Cents
		}
	}

	s.Breakdown = make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		if total == 0 {
			continue
		}
		percent := 0.0
		if s.PeriodExpense.Cents > 0 {
			percent = float64(total) / float64(s.PeriodExpense.Cents) * 100
		}
		s.Breakdown = append(s.Breakdown, CategoryTotal{
			Category: category,
			Total:    Money{Cents: total},
			Percent:  percent,
		})
	}
	sort.Slice(s.Breakdown, func(i, j int) bool {
		if s.Breakdown[i].Total.Cents != s.Breakdown[j].Total.Cents {
			return s.Breakdown[i].Total.Cents > s.Breakdown[j].Total.Cents
		}
		return s.Breakdown[i].Category < s.Breakdown[j].Category
	})
	return s
}

// TopExpenseCategory returns the largest expense category of a summary, or
// false when the window had no expenses.
func (s Summary) TopExpenseCategory() (CategoryTotal, bool) {
	if len(s.Breakdown) == 0 {
		return CategoryTotal{}, false
	}
	return s.Breakdown[0], true
}
