package autogiro

import (
	"errors"
	"fmt"

	"giro-settlement/internal/fixedwidth"
)

var (
	// ErrUnknownLayout is returned when the opening record names no known report.
	ErrUnknownLayout = errors.New("autogiro: unknown layout")
	// ErrUnknownTransactionCode is returned for a record code the report does not allow.
	ErrUnknownTransactionCode = errors.New("autogiro: unknown transaction code")
	// ErrOrphanRecord is returned for a detail record without a preceding header.
	ErrOrphanRecord = errors.New("autogiro: record without header")
	// ErrUnsupportedAmendment is returned for payment amendment records.
	ErrUnsupportedAmendment = errors.New("autogiro: amendment records are not supported")
	// ErrBatchMismatch is returned when a batch header disagrees with its records.
	ErrBatchMismatch = errors.New("autogiro: batch totals do not match payments")
	// ErrMalformedRecord is returned when a record cannot be read.
	ErrMalformedRecord = errors.New("autogiro: malformed record")
)

// Parse decodes a report file from Bankgirot. The opening record selects the
// report; anything unrecognised rejects the whole file.
func Parse(data []byte) (*ParsedFile, error) {
	lines, err := fixedwidth.Lines(data)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnknownLayout)
	}

	p := &parser{lines: lines}
	opening, err := p.opening()
	if err != nil {
		return nil, err
	}

	var report Report
	switch {
	case opening.Code == CodeEMandateOpening:
		report, err = p.emandates()
	case opening.Content == ContentPaymentSpecification:
		report, err = p.paymentSpecification()
	case opening.Content == ContentMandates:
		report, err = p.mandates()
	case opening.Content == ContentRejectedCharges:
		report, err = p.rejectedCharges()
	case opening.Content == ContentCancellations:
		report, err = p.cancellations()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, opening.Content)
	}
	if err != nil {
		return nil, err
	}
	return &ParsedFile{Opening: opening, Report: report}, nil
}

type parser struct {
	lines []string
}

func (p *parser) malformed(i int, err error) error {
	return fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, i+1, err)
}

func (p *parser) unknown(i int, code string, kind Kind) error {
	return fmt.Errorf("%w: %q in %s report at line %d", ErrUnknownTransactionCode, code, kind, i+1)
}

func (p *parser) opening() (Opening, error) {
	rec := fixedwidth.NewRecord(p.lines[0])
	code := rec.Raw(1, 2)
	if err := rec.Err(); err != nil {
		return Opening{}, p.malformed(0, err)
	}

	var o Opening
	switch code {
	case CodeOpening:
		o = Opening{
			Code:           code,
			Layout:         rec.Text(3, 20),
			Written:        rec.Date(25, 8, fixedwidth.LayoutYYYYMMDD),
			Content:        rec.Text(45, 20),
			CustomerNumber: rec.Raw(65, 6),
			BankgiroNumber: rec.Raw(71, 10),
		}
		if rec.Err() == nil && o.Layout != LayoutAutoGiro {
			return Opening{}, fmt.Errorf("%w: layout name %q", ErrUnknownLayout, o.Layout)
		}
	case CodeEMandateOpening:
		o = Opening{
			Code:           code,
			Written:        rec.Date(3, 8, fixedwidth.LayoutYYYYMMDD),
			ClearingNumber: rec.Raw(11, 4),
			BankgiroNumber: rec.Raw(15, 10),
			Layout:         rec.Text(25, 20),
		}
		if rec.Err() == nil && o.Layout != LayoutEMandates {
			return Opening{}, fmt.Errorf("%w: layout name %q", ErrUnknownLayout, o.Layout)
		}
	default:
		return Opening{}, fmt.Errorf("%w: opening record code %q", ErrUnknownLayout, code)
	}
	if err := rec.Err(); err != nil {
		return Opening{}, p.malformed(0, err)
	}
	return o, nil
}

// body yields the records after the opening record up to the end record. A
// file without its end record is truncated and rejected.
func (p *parser) body(end string, fn func(i int, code string, rec *fixedwidth.Record) error) error {
	for i := 1; i < len(p.lines); i++ {
		rec := fixedwidth.NewRecord(p.lines[i])
		code := rec.Raw(1, 2)
		if err := rec.Err(); err != nil {
			return p.malformed(i, err)
		}
		if code == end {
			return nil
		}
		if err := fn(i, code, rec); err != nil {
			return err
		}
		if err := rec.Err(); err != nil {
			return p.malformed(i, err)
		}
	}
	return p.malformed(len(p.lines)-1, fmt.Errorf("missing end record %s", end))
}

func (p *parser) paymentSpecification() (*PaymentSpecification, error) {
	spec := &PaymentSpecification{
		Deposits:    []Batch{},
		Withdrawals: []Batch{},
		Refunds:     []RefundBatch{},
	}
	var current *Batch

	err := p.body(CodeEnd, func(i int, code string, rec *fixedwidth.Record) error {
		switch code {
		case CodeDeposit:
			spec.Deposits = append(spec.Deposits, readBatch(rec))
			current = &spec.Deposits[len(spec.Deposits)-1]
		case CodeWithdrawal:
			spec.Withdrawals = append(spec.Withdrawals, readBatch(rec))
			current = &spec.Withdrawals[len(spec.Withdrawals)-1]
		case CodeRefund:
			b := readBatch(rec)
			spec.Refunds = append(spec.Refunds, RefundBatch{
				Account:        b.Account,
				PaymentDate:    b.PaymentDate,
				SerialNumber:   b.SerialNumber,
				ApprovedAmount: b.ApprovedAmount,
				ApprovedCount:  b.ApprovedCount,
				Refunds:        []Refund{},
			})
			current = nil
		case CodeIncomingPayment, CodeOutgoingPayment:
			if current == nil {
				return fmt.Errorf("%w: payment record %s at line %d", ErrOrphanRecord, code, i+1)
			}
			current.Payments = append(current.Payments, readPayment(rec))
		case CodePaymentRefund:
			if len(spec.Refunds) == 0 {
				return fmt.Errorf("%w: refund record at line %d", ErrOrphanRecord, i+1)
			}
			last := &spec.Refunds[len(spec.Refunds)-1]
			last.Refunds = append(last.Refunds, readRefund(rec))
		default:
			return p.unknown(i, code, KindPaymentSpecification)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func readBatch(rec *fixedwidth.Record) Batch {
	return Batch{
		Account:        rec.Text(3, 35),
		PaymentDate:    rec.Date(38, 8, fixedwidth.LayoutYYYYMMDD),
		SerialNumber:   rec.Raw(46, 5),
		ApprovedAmount: rec.Int(51, 18),
		ApprovedCount:  rec.Int(72, 8),
		Payments:       []Payment{},
	}
}

func readPayment(rec *fixedwidth.Record) Payment {
	return Payment{
		PaymentDate:    rec.Date(3, 8, fixedwidth.LayoutYYYYMMDD),
		PeriodCode:     rec.Raw(11, 1),
		Renewals:       rec.Text(12, 3),
		PayerNumber:    rec.Raw(16, 16),
		Amount:         rec.Int(32, 12),
		BankgiroNumber: rec.Raw(44, 10),
		Reference:      rec.Text(54, 16),
		Status:         PaymentStatus(rec.Int(80, 1)),
	}
}

func readRefund(rec *fixedwidth.Record) Refund {
	return Refund{
		OriginalPaymentDate: rec.Date(3, 8, fixedwidth.LayoutYYYYMMDD),
		PeriodCode:          rec.Raw(11, 1),
		Renewals:            rec.Text(12, 3),
		PayerNumber:         rec.Raw(16, 16),
		OriginalAmount:      rec.Int(32, 12),
		BankgiroNumber:      rec.Raw(44, 10),
		OriginalReference:   rec.Text(54, 16),
		RefundDate:          rec.Date(70, 8, fixedwidth.LayoutYYYYMMDD),
		RefundCode:          int(rec.Int(78, 2)),
	}
}

// Validate checks every batch against its payments: approved counts and
// amounts must agree, and a refund batch carries exactly one refund of the
// approved amount.
func (s *PaymentSpecification) Validate() error {
	check := func(kind string, batches []Batch) error {
		for i, b := range batches {
			var count, sum int64
			for _, p := range b.Payments {
				if p.Status == PaymentApproved {
					count++
					sum += p.Amount
				}
			}
			if count != b.ApprovedCount || sum != b.ApprovedAmount {
				return fmt.Errorf("%w: %s %d (serial %s) reports %d payments of %d, records hold %d of %d",
					ErrBatchMismatch, kind, i+1, b.SerialNumber, b.ApprovedCount, b.ApprovedAmount, count, sum)
			}
		}
		return nil
	}
	if err := check("deposit", s.Deposits); err != nil {
		return err
	}
	if err := check("withdrawal", s.Withdrawals); err != nil {
		return err
	}
	for i, r := range s.Refunds {
		if len(r.Refunds) != 1 {
			return fmt.Errorf("%w: refund %d holds %d records, want 1", ErrBatchMismatch, i+1, len(r.Refunds))
		}
		if r.ApprovedAmount != r.Refunds[0].OriginalAmount {
			return fmt.Errorf("%w: refund %d reports %d, record holds %d",
				ErrBatchMismatch, i+1, r.ApprovedAmount, r.Refunds[0].OriginalAmount)
		}
	}
	return nil
}

func (p *parser) mandates() (*MandateReport, error) {
	report := &MandateReport{Mandates: []MandateRecord{}}
	err := p.body(CodeEnd, func(i int, code string, rec *fixedwidth.Record) error {
		if code != CodeMandate {
			return p.unknown(i, code, KindMandates)
		}
		report.Mandates = append(report.Mandates, MandateRecord{
			BankgiroNumber: rec.Raw(3, 10),
			PayerNumber:    rec.Raw(13, 16),
			BankAccount:    rec.Text(29, 16),
			SSN:            rec.Text(45, 12),
			InfoCode:       int(rec.Int(62, 2)),
			CommentCode:    int(rec.OptionalInt(64, 2)),
			Accepted:       rec.OptionalDate(66, 8, fixedwidth.LayoutYYYYMMDD),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (p *parser) emandates() (*EMandateReport, error) {
	report := &EMandateReport{EMandates: []EMandate{}}
	current := func(i int) (*EMandate, error) {
		if len(report.EMandates) == 0 {
			return nil, fmt.Errorf("%w: e-mandate detail at line %d", ErrOrphanRecord, i+1)
		}
		return &report.EMandates[len(report.EMandates)-1], nil
	}

	err := p.body(CodeEMandateEnd, func(i int, code string, rec *fixedwidth.Record) error {
		if code == CodeEMandateInfo {
			report.EMandates = append(report.EMandates, EMandate{
				BankgiroNumber: rec.Raw(3, 10),
				PayerNumber:    rec.Raw(14, 15),
				BankAccount:    rec.Text(29, 16),
				SSN:            rec.Text(45, 12),
				InfoCode:       int(rec.Int(62, 1)),
			})
			return nil
		}

		m, err := current(i)
		switch code {
		case CodeEMandateSpecial, CodeEMandateName1, CodeEMandateName2, CodeEMandatePostNumber:
			if err != nil {
				return err
			}
		default:
			return p.unknown(i, code, KindEMandates)
		}

		switch code {
		case CodeEMandateSpecial:
			m.SpecialInformation = rec.Text(3, 36)
		case CodeEMandateName1:
			m.NameAndAddress = joinNonEmpty(rec.Text(3, 36), rec.Text(39, 36))
		case CodeEMandateName2:
			m.NameAndAddress = joinNonEmpty(m.NameAndAddress, rec.Text(3, 36), rec.Text(39, 36))
		case CodeEMandatePostNumber:
			m.PostNumber = rec.Raw(3, 5)
			m.PostAddress = rec.Text(8, 31)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (p *parser) rejectedCharges() (*RejectedChargeReport, error) {
	report := &RejectedChargeReport{RejectedCharges: []RejectedCharge{}}
	err := p.body(CodeEnd, func(i int, code string, rec *fixedwidth.Record) error {
		if code != CodeIncomingPayment && code != CodeOutgoingPayment {
			return p.unknown(i, code, KindRejectedCharges)
		}
		report.RejectedCharges = append(report.RejectedCharges, RejectedCharge{
			Code:        code,
			PaymentDate: rec.Date(3, 8, fixedwidth.LayoutYYYYMMDD),
			PeriodCode:  rec.Raw(11, 1),
			Renewals:    rec.Text(12, 3),
			PayerNumber: rec.Raw(15, 16),
			Amount:      rec.Int(31, 12),
			Reference:   rec.Text(43, 16),
			CommentCode: rec.Raw(59, 2),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (p *parser) cancellations() (*CancellationReport, error) {
	report := &CancellationReport{Cancellations: []Cancellation{}}
	err := p.body(CodeEnd, func(i int, code string, rec *fixedwidth.Record) error {
		switch code {
		case CodeCancelledByPayer, CodeCancelledMandateCancelled, CodeCancelledPayeeTerminated,
			CodeCancelAllForPayer, CodeCancelAllForPaymentDate, CodeCancelOne:
		case CodeAmendAllNewDate, CodeAmendNewDateByPaymentDate, CodeAmendNewDateByDateAndPayer, CodeAmendOneNewDate:
			return fmt.Errorf("%w: code %s at line %d", ErrUnsupportedAmendment, code, i+1)
		default:
			return p.unknown(i, code, KindCancellations)
		}

		paymentCode := rec.Raw(27, 2)
		if rec.Err() == nil && paymentCode != CodeIncomingPayment && paymentCode != CodeOutgoingPayment {
			return fmt.Errorf("%w: payment code %q at line %d", ErrUnknownTransactionCode, paymentCode, i+1)
		}
		report.Cancellations = append(report.Cancellations, Cancellation{
			Code:        code,
			PaymentDate: rec.Date(3, 8, fixedwidth.LayoutYYYYMMDD),
			PayerNumber: rec.Raw(11, 16),
			PaymentCode: paymentCode,
			Amount:      rec.Int(29, 12),
			Reference:   rec.Text(57, 16),
			CommentCode: rec.Raw(73, 2),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
