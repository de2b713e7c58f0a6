package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV renders rows as semicolon-separated CSV with decimal-comma
// amounts, the format Brazilian spreadsheet locales open cleanly.
func WriteCSV(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return ErrNoTransactions
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.Date, r.Title, r.Category, r.Kind, r.Amount.Decimal()}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
