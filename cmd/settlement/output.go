package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"giro-settlement/internal/autogiro"
	"giro-settlement/internal/domain"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(header ...any) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row(header))
	return tw
}

func money(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func printDueDates(today time.Time, dates []time.Time) error {
	if viper.GetBool("json") {
		out := make([]string, len(dates))
		for i, d := range dates {
			out[i] = day(d)
		}
		return printJSON(map[string]any{"date": day(today), "due_dates": out})
	}
	tw := newTable("Due date", "Weekday")
	for _, d := range dates {
		tw.AppendRow(table.Row{day(d), d.Weekday()})
	}
	tw.Render()
	return nil
}

func printClaimRun(r *domain.ClaimRunReport) error {
	if viper.GetBool("json") {
		return printJSON(r)
	}
	tw := newTable("Due date", "Shipment", "File", "Claims", "Amount", "Notified")
	for _, d := range r.DueDates {
		tw.AppendRow(table.Row{day(d.DueDate), d.ShipmentID, d.FileName, d.Claims, money(d.Amount), d.Notified})
	}
	tw.SetCaption("run %s", r.RunID)
	tw.Render()
	return nil
}

func printRetry(r *domain.RetryReport) error {
	if viper.GetBool("json") {
		return printJSON(r)
	}
	tw := newTable("Due date", "Shipments", "Acknowledged", "Resent file", "Claims")
	for _, e := range r.Entries {
		ids := make([]string, len(e.ShipmentIDs))
		for i, id := range e.ShipmentIDs {
			ids[i] = fmt.Sprint(id)
		}
		var file string
		var claims int
		if e.Resent != nil {
			file, claims = e.Resent.FileName, e.Resent.Claims
		}
		tw.AppendRow(table.Row{day(e.DueDate), strings.Join(ids, ","), e.SettledShipment, file, claims})
	}
	tw.SetCaption("run %s, %d resent", r.RunID, r.Resent())
	tw.Render()
	return nil
}

func printAgreementUpdates(r *domain.AgreementUpdateReport) error {
	if viper.GetBool("json") {
		return printJSON(r)
	}
	if r.File == "" {
		fmt.Println("no OCR file")
		return nil
	}
	tw := newTable("File", "Updates", "Created", "Updated", "Activated", "Cancelled", "Skipped", "Failed", "Transactions")
	tw.AppendRow(table.Row{r.File, r.Updates, r.Created, r.Updated, r.Activated, r.Cancelled, r.Skipped, strings.Join(r.Failed, ","), r.Transactions})
	tw.Render()
	return nil
}

func printAutoGiroRun(r *domain.AutoGiroRunReport) error {
	if viper.GetBool("json") {
		return printJSON(r)
	}
	tw := newTable("Date", "Shipment", "File", "Charges", "Amount", "Mandates", "Amended")
	tw.AppendRow(table.Row{day(r.Date), r.ShipmentID, r.FileName, r.Charges, money(r.Amount), r.MandatesConfirmed, r.Amended})
	tw.SetCaption("run %s", r.RunID)
	tw.Render()
	return nil
}

func printProcessReport(name string, r *domain.AutoGiroProcessReport) error {
	if viper.GetBool("json") {
		return printJSON(map[string]any{"file": name, "report": r})
	}
	tw := newTable("File", "Layout", "Charges", "Mandates", "Confirmed", "Unmatched", "Rejected")
	tw.AppendRow(table.Row{name, r.Layout, r.ChargesUpdated, r.MandatesUpdated, r.PaymentsConfirmed, strings.Join(r.Unmatched, ","), strings.Join(r.Rejected, ",")})
	tw.Render()
	return nil
}

// printParsed lists the records of a parsed AutoGiro file.
func printParsed(f *autogiro.ParsedFile) error {
	if viper.GetBool("json") {
		return printJSON(f)
	}
	fmt.Printf("%s file written %s for bankgiro %s\n", f.Kind(), day(f.Opening.Written), f.Opening.BankgiroNumber)
	switch r := f.Report.(type) {
	case *autogiro.PaymentSpecification:
		tw := newTable("Direction", "Date", "Payer", "Reference", "Amount", "Status")
		for _, pair := range []struct {
			direction string
			batches   []autogiro.Batch
		}{{"deposit", r.Deposits}, {"withdrawal", r.Withdrawals}} {
			for _, b := range pair.batches {
				for _, p := range b.Payments {
					tw.AppendRow(table.Row{pair.direction, day(p.PaymentDate), p.PayerNumber, p.Reference, money(p.Amount), int(p.Status)})
				}
			}
		}
		tw.Render()
	case *autogiro.MandateReport:
		tw := newTable("Payer", "Account", "Info", "Comment")
		for _, m := range r.Mandates {
			tw.AppendRow(table.Row{m.PayerNumber, m.BankAccount, m.InfoCode, m.CommentCode})
		}
		tw.Render()
	case *autogiro.EMandateReport:
		tw := newTable("Payer", "Account", "Info")
		for _, e := range r.EMandates {
			tw.AppendRow(table.Row{e.PayerNumber, e.BankAccount, e.InfoCode})
		}
		tw.Render()
	case *autogiro.RejectedChargeReport:
		tw := newTable("Code", "Date", "Payer", "Reference", "Amount", "Comment")
		for _, c := range r.RejectedCharges {
			tw.AppendRow(table.Row{c.Code, day(c.PaymentDate), c.PayerNumber, c.Reference, money(c.Amount), c.CommentCode})
		}
		tw.Render()
	case *autogiro.CancellationReport:
		tw := newTable("Code", "Date", "Payer", "Reference", "Amount", "Comment")
		for _, c := range r.Cancellations {
			tw.AppendRow(table.Row{c.Code, day(c.PaymentDate), c.PayerNumber, c.Reference, money(c.Amount), c.CommentCode})
		}
		tw.Render()
	}
	return nil
}
