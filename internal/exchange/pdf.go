package exchange

import (
	"bytes"
	"fmt"
	"time"

	"exchpoint/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

const receiptDateLayout = "2006-01-02 15:04:05 MST"

func operationTypeLabel(t domain.OperationType) string {
	switch t {
	case domain.ClientSellsToExchange:
		return "Client sells currency"
	case domain.ClientBuysFromExchange:
		return "Client buys currency"
	default:
		return string(t)
	}
}

// ReceiptDocument renders an A6 PDF receipt from the stored operation fields.
// printedAt is stamped into the footer and the document metadata; the clock
// is never read here, so rendering the same operation at the same printedAt
// yields identical bytes.
func ReceiptDocument(rec domain.OperationRecord, printedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A6", "")
	pdf.SetCreationDate(printedAt)
	pdf.SetModificationDate(printedAt)
	pdf.SetTitle("Receipt "+rec.ReceiptReference, false)
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, "Currency Exchange Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, rec.ReceiptReference, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	line := func(label, value string) {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(30, 5, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(0, 5, value, "", 1, "L", false, 0, "")
	}

	line("Date", rec.CreatedAt.Format(receiptDateLayout))
	line("Client", rec.ClientName)
	line("Passport", rec.ClientPassportNumber)
	line("Operation", operationTypeLabel(rec.OperationType))
	line("Currency", fmt.Sprintf("%s (%s)", rec.CurrencyCode, rec.CurrencyName))
	line("Amount "+rec.CurrencyCode, rec.AmountCurrency.StringFixed(domain.AmountScale))
	line("Amount RUB", rec.AmountRub.StringFixed(domain.AmountScale))
	line("Rate", rec.EffectiveRate.StringFixed(domain.RateScale))

	if rec.Cancelled() {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(0, 6, "CANCELLED "+rec.CancelledAt.Format(receiptDateLayout), "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(0, 4, "Printed "+printedAt.Format(receiptDateLayout), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
