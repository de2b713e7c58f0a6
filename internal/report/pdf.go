package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// Brand violet used for the title and table header.
const (
	violetR = 124
	violetG = 58
	violetB = 237
)

// WritePDF renders rows as a gridded table under the report title and the
// period label.
func WritePDF(w io.Writer, rows []Row, periodLabel string) error {
	if len(rows) == 0 {
		return ErrNoTransactions
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(violetR, violetG, violetB)
	pdf.Text(20, 20, "Relatorio Financeiro Rege")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(20, 28, tr("Periodo: "+periodLabel))

	widths := []float64{25, 60, 35, 22, 28}
	pdf.SetY(50)
	pdf.SetX(20)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(violetR, violetG, violetB)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(200, 200, 200)
	for i, col := range columns {
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)
	for _, r := range rows {
		pdf.SetX(20)
		cells := []string{r.Date, r.Title, r.Category, r.Kind, r.Amount.BRL()}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
