package gateway

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"giro-settlement/internal/autogiro"
	"giro-settlement/internal/domain"
)

type reportTable struct {
	sheet  string
	header []string
	rows   [][]any
}

type summaryRow struct {
	label string
	value any
}

func kronor(ore int64) float64 {
	f, _ := decimal.New(ore, -2).Float64()
	return f
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func optionalDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return day(*t)
}

func reportSummary(name string, parsed *autogiro.ParsedFile, report *domain.AutoGiroProcessReport) []summaryRow {
	rows := []summaryRow{
		{"File", name},
		{"Layout", parsed.Kind().String()},
		{"Written", day(parsed.Opening.Written)},
		{"Bankgiro number", parsed.Opening.BankgiroNumber},
	}
	if report != nil {
		rows = append(rows,
			summaryRow{"Charges updated", report.ChargesUpdated},
			summaryRow{"Mandates updated", report.MandatesUpdated},
			summaryRow{"Payments confirmed", report.PaymentsConfirmed},
			summaryRow{"Unmatched", strings.Join(report.Unmatched, ", ")},
			summaryRow{"Rejected", strings.Join(report.Rejected, ", ")},
		)
	}
	return rows
}

func reportTables(parsed *autogiro.ParsedFile) []reportTable {
	switch r := parsed.Report.(type) {
	case *autogiro.PaymentSpecification:
		payments := reportTable{
			sheet:  "payments",
			header: []string{"Direction", "Payment date", "Payer number", "Reference", "Amount", "Status"},
		}
		add := func(direction string, batches []autogiro.Batch) {
			for _, b := range batches {
				for _, p := range b.Payments {
					payments.rows = append(payments.rows, []any{direction, day(p.PaymentDate), p.PayerNumber, p.Reference, kronor(p.Amount), int(p.Status)})
				}
			}
		}
		add("deposit", r.Deposits)
		add("withdrawal", r.Withdrawals)
		refunds := reportTable{
			sheet:  "refunds",
			header: []string{"Refund date", "Payer number", "Original reference", "Original amount", "Refund code"},
		}
		for _, b := range r.Refunds {
			for _, rf := range b.Refunds {
				refunds.rows = append(refunds.rows, []any{day(rf.RefundDate), rf.PayerNumber, rf.OriginalReference, kronor(rf.OriginalAmount), rf.RefundCode})
			}
		}
		return []reportTable{payments, refunds}
	case *autogiro.MandateReport:
		t := reportTable{sheet: "mandates", header: []string{"Payer number", "Bank account", "SSN", "Info code", "Comment code", "Accepted"}}
		for _, m := range r.Mandates {
			t.rows = append(t.rows, []any{m.PayerNumber, m.BankAccount, m.SSN, m.InfoCode, m.CommentCode, optionalDay(m.Accepted)})
		}
		return []reportTable{t}
	case *autogiro.EMandateReport:
		t := reportTable{sheet: "emandates", header: []string{"Payer number", "Bank account", "SSN", "Info code", "Name and address"}}
		for _, e := range r.EMandates {
			t.rows = append(t.rows, []any{e.PayerNumber, e.BankAccount, e.SSN, e.InfoCode, e.NameAndAddress})
		}
		return []reportTable{t}
	case *autogiro.RejectedChargeReport:
		t := reportTable{sheet: "rejected", header: []string{"Code", "Payment date", "Payer number", "Reference", "Amount", "Comment code"}}
		for _, c := range r.RejectedCharges {
			t.rows = append(t.rows, []any{c.Code, day(c.PaymentDate), c.PayerNumber, c.Reference, kronor(c.Amount), c.CommentCode})
		}
		return []reportTable{t}
	case *autogiro.CancellationReport:
		t := reportTable{sheet: "cancellations", header: []string{"Code", "Payment date", "Payer number", "Reference", "Amount", "Comment code"}}
		for _, c := range r.Cancellations {
			t.rows = append(t.rows, []any{c.Code, day(c.PaymentDate), c.PayerNumber, c.Reference, kronor(c.Amount), c.CommentCode})
		}
		return []reportTable{t}
	}
	return nil
}

// BuildAutoGiroReportXLSX renders a parsed AutoGiro file, and what
// processing it changed when report is not nil, as a workbook with a summary
// sheet and one sheet per record kind.
func BuildAutoGiroReportXLSX(name string, parsed *autogiro.ParsedFile, report *domain.AutoGiroProcessReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	summarySheet := "summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("could not name summary sheet: %w", err)
	}
	for i, row := range reportSummary(name, parsed, report) {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &[]any{row.label, row.value}); err != nil {
			return nil, fmt.Errorf("could not write summary row %d: %w", i+1, err)
		}
	}

	for _, t := range reportTables(parsed) {
		if _, err := f.NewSheet(t.sheet); err != nil {
			return nil, fmt.Errorf("could not add sheet %s: %w", t.sheet, err)
		}
		header := make([]any, len(t.header))
		for i, h := range t.header {
			header[i] = h
		}
		if err := f.SetSheetRow(t.sheet, "A1", &header); err != nil {
			return nil, fmt.Errorf("could not write header of %s: %w", t.sheet, err)
		}
		for i, row := range t.rows {
			row := row
			if err := f.SetSheetRow(t.sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
				return nil, fmt.Errorf("could not write row %d of %s: %w", i+1, t.sheet, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("could not write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildAutoGiroReportPDF renders the same content as the workbook on A4
// landscape pages.
func BuildAutoGiroReportPDF(name string, parsed *autogiro.ParsedFile, report *domain.AutoGiroProcessReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 12)
	pdf.AddPage()
	pdf.Cell(0, 8, "AutoGiro report")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	for _, row := range reportSummary(name, parsed, report) {
		pdf.Cell(50, 6, tr(row.label))
		pdf.Cell(0, 6, tr(fmt.Sprint(row.value)))
		pdf.Ln(5)
	}

	for _, t := range reportTables(parsed) {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, t.sheet)
		pdf.Ln(7)
		width := 270.0 / float64(len(t.header))
		for _, h := range t.header {
			pdf.CellFormat(width, 6, tr(h), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, row := range t.rows {
			for _, v := range row {
				text := fmt.Sprint(v)
				if f, ok := v.(float64); ok {
					text = fmt.Sprintf("%.2f", f)
				}
				pdf.CellFormat(width, 6, tr(text), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("could not write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
