// Package report renders transaction exports: PDF, CSV and XLSX. All three
// formats share the same five columns and row order as the dashboard list.
package report

import (
	"errors"
	"fmt"
	"time"

	"rege/internal/core"
)

// ErrNoTransactions means the requested window has nothing to export.
var ErrNoTransactions = errors.New("no transactions to export")

var columns = []string{"Data", "Descricao", "Categoria", "Tipo", "Valor"}

// Row is one rendered export line.
type Row struct {
	Date     string // dd/mm/yyyy
	Title    string
	Category string // resolved display label
	Kind     string // "Entrada" or "Saida"
	Amount   core.Money
}

// BuildRows converts filtered transactions into export rows, resolving
// category keys to labels.
func BuildRows(txs []core.Transaction, categories map[string]core.Category) []Row {
	rows := make([]Row, len(txs))
	for i, tx := range txs {
		kind := "Saida"
		if tx.Kind == core.Income {
			kind = "Entrada"
		}
		rows[i] = Row{
			Date:     tx.Date.Format("02/01/2006"),
			Title:    tx.Title,
			Category: core.CategoryLabel(categories, tx.Category),
			Kind:     kind,
			Amount:   tx.Amount,
		}
	}
	return rows
}

// Filename builds the download name for a format, e.g.
// "rege-relatorio-2024-03-15.pdf".
func Filename(format string, now time.Time) string {
	stem := "rege-transacoes"
	if format == "pdf" {
		stem = "rege-relatorio"
	}
	return fmt.Sprintf("%s-%s.%s", stem, now.Format("2006-01-02"), format)
}
