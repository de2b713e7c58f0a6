package core

import (
	"sort"
	"time"
)

// Window names a relative date range anchored at "now". Unrecognized values
// resolve to WindowAll.
type Window string

const (
	WindowToday        Window = "today"
	WindowLast7Days    Window = "7"
	WindowLast15Days   Window = "15"
	WindowLast30Days   Window = "30"
	WindowCurrentMonth Window = "current_month"
	WindowLastMonth    Window = "last_month"
	WindowThisYear     Window = "this_year"
	WindowAll          Window = "all"
)

// ParseWindow normalizes a raw window value, falling back to WindowAll for
// anything it does not recognize.
func ParseWindow(s string) Window {
	switch w := Window(s); w {
	case WindowToday, WindowLast7Days, WindowLast15Days, WindowLast30Days,
		WindowCurrentMonth, WindowLastMonth, WindowThisYear, WindowAll:
		return w
	default:
		return WindowAll
	}
}

// Label returns the display name used in reports.
func (w Window) Label() string {
	switch w {
	case WindowToday:
		return "Hoje"
	case WindowLast7Days:
		return "7 dias"
	case WindowLast15Days:
		return "15 dias"
	case WindowLast30Days:
		return "30 dias"
	case WindowCurrentMonth:
		return "Mês Atual"
	case WindowLastMonth:
		return "Mês Passado"
	case WindowThisYear:
		return "Este Ano"
	default:
		return "Tudo"
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// Range resolves the window to an inclusive [from, to] interval at day
// granularity. The second return value is false for WindowAll, which has no
// bounds.
func (w Window) Range(now time.Time) (from, to time.Time, bounded bool) {
	switch w {
	case WindowToday:
		return startOfDay(now), endOfDay(now), true
	case WindowLast7Days:
		return startOfDay(now.AddDate(0, 0, -6)), endOfDay(now), true
	case WindowLast15Days:
		return startOfDay(now.AddDate(0, 0, -14)), endOfDay(now), true
	case WindowLast30Days:
		return startOfDay(now.AddDate(0, 0, -29)), endOfDay(now), true
	case WindowCurrentMonth:
		// Capped at today, not at the end of the month, so future-dated
		// entries stay out of the current period.
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, endOfDay(now), true
	case WindowLastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		return first, endOfDay(first.AddDate(0, 1, -1)), true
	case WindowThisYear:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return first, endOfDay(now), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Contains reports whether a transaction date falls inside the window as
// resolved at now.
func (w Window) Contains(d Date, now time.Time) bool {
	from, to, bounded := w.Range(now)
	if !bounded {
		return true
	}
	t := d.Time
	return !t.Before(from) && !t.After(to)
}

// FilterTransactions returns the transactions inside the window, sorted by
// date descending. The sort is stable so same-day transactions keep their
// relative order. The input slice is not modified.
func FilterTransactions(txs []Transaction, w Window, now time.Time) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if w.Contains(tx.Date, now) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Time.After(out[j].Date.Time)
	})
	return out
}
