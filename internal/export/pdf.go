package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/quoteflow-app/quoteflow/internal/entity"
)

// DocumentPDF renders a persisted quote/invoice as a single-page A4 PDF.
func DocumentPDF(doc *entity.Document, issuer *entity.Profile) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header: document type and number
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, strings.ToUpper(string(doc.Type)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if doc.Number != "" {
		pdf.CellFormat(0, 5, "No. "+doc.Number, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, "Issued "+doc.IssueDate.Format("2006-01-02"), "", 1, "L", false, 0, "")
	if doc.DueDate != nil {
		pdf.CellFormat(0, 5, "Due "+doc.DueDate.Format("2006-01-02"), "", 1, "L", false, 0, "")
	}
	if doc.ValidUntil != nil {
		pdf.CellFormat(0, 5, "Valid until "+doc.ValidUntil.Format("2006-01-02"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Issuer and client blocks
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(95, 5, "From", "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 5, "To", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	issuerLines := partyLines(issuer)
	clientLines := []string{doc.ClientName}
	for i := 0; i < len(issuerLines) || i < len(clientLines); i++ {
		var left, right string
		if i < len(issuerLines) {
			left = issuerLines[i]
		}
		if i < len(clientLines) {
			right = clientLines[i]
		}
		pdf.CellFormat(95, 5, left, "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 5, right, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Items table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(90, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range doc.Items {
		pdf.CellFormat(90, 7, it.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmtOptional(it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmtOptional(it.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmtOptional(it.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// Totals block, right-aligned
	totalLine := func(label string, v *float64) {
		if v == nil {
			return
		}
		pdf.CellFormat(145, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%s %.2f", doc.CurrencyCode, *v), "", 1, "R", false, 0, "")
	}
	totalLine("Subtotal", doc.Subtotal)
	totalLine("Tax", doc.TaxAmount)
	totalLine("Delivery", doc.DeliveryCharge)
	pdf.SetFont("Helvetica", "B", 11)
	total := doc.Total
	totalLine("Total", &total)
	pdf.SetFont("Helvetica", "", 10)

	if doc.PaymentTerms != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 5, "Payment terms", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, doc.PaymentTerms, "", "L", false)
	}
	if doc.Notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 5, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, doc.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func partyLines(p *entity.Profile) []string {
	if p == nil {
		return nil
	}
	lines := []string{p.BusinessName}
	if p.Address != "" {
		lines = append(lines, p.Address)
	}
	if p.Phone != "" {
		lines = append(lines, p.Phone)
	}
	if p.Email != "" {
		lines = append(lines, p.Email)
	}
	return lines
}

func fmtOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
