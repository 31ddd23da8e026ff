package autogiro

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"giro-settlement/internal/fixedwidth"
)

// RecordWidth is the width of every AutoGiro record.
const RecordWidth = 80

// ErrInvalidConfig is returned for a malformed customer or bankgiro number.
var ErrInvalidConfig = errors.New("autogiro: invalid configuration")

// ErrReferenceTooLong is returned for a payment reference that does not fit
// its field. Payments are matched back to charges on the full reference.
var ErrReferenceTooLong = errors.New("autogiro: reference too long")

const referenceWidth = 16

func checkReference(ref string) error {
	if n := utf8.RuneCountInString(ref); n > referenceWidth {
		return fmt.Errorf("%w: %q has %d characters, at most %d fit", ErrReferenceTooLong, ref, n, referenceWidth)
	}
	return nil
}

var (
	customerNumberPattern = regexp.MustCompile(`^\d{1,6}$`)
	bankgiroPattern       = regexp.MustCompile(`^\d{1,10}$`)
)

// Config identifies the payee in outbound files.
type Config struct {
	CustomerNumber string
	BankgiroNumber string
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if !customerNumberPattern.MatchString(c.CustomerNumber) {
		return fmt.Errorf("%w: customer number %q", ErrInvalidConfig, c.CustomerNumber)
	}
	if !bankgiroPattern.MatchString(c.BankgiroNumber) {
		return fmt.Errorf("%w: bankgiro number %q", ErrInvalidConfig, c.BankgiroNumber)
	}
	return nil
}

// Withdrawal orders a single payment from a payer. Amount is in öre and the
// reference is echoed back in reports.
type Withdrawal struct {
	PaymentDate time.Time
	PayerNumber int64
	Amount      int64
	Reference   string
}

// CancellationRequest cancels one previously ordered payment.
type CancellationRequest struct {
	PaymentDate time.Time
	PayerNumber int64
	Amount      int64
	Reference   string
}

// MandateAction approves or rejects a mandate signed in an internet bank.
type MandateAction struct {
	PayerNumber int64
	BankAccount string
	SSN         string
	Approve     bool
}

// OrderBatch is everything sent to Bankgirot in one file.
type OrderBatch struct {
	Written       time.Time
	Mandates      []MandateAction
	Cancellations []CancellationRequest
	Withdrawals   []Withdrawal
}

// Empty reports whether the batch holds nothing to send.
func (b OrderBatch) Empty() bool {
	return len(b.Mandates) == 0 && len(b.Cancellations) == 0 && len(b.Withdrawals) == 0
}

// FileBuilder produces payment order files.
type FileBuilder struct {
	cfg Config
}

// NewFileBuilder creates a builder for the given payee.
func NewFileBuilder(cfg Config) (*FileBuilder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &FileBuilder{cfg: cfg}, nil
}

// Build encodes the batch. Mandate answers come first, then cancellations,
// then new withdrawals, so a reissued charge follows its cancellation. The
// output is ISO-8859-1.
func (b *FileBuilder) Build(batch OrderBatch) ([]byte, error) {
	var buf bytes.Buffer
	write := func(l *fixedwidth.Line) error {
		s, err := l.String()
		if err != nil {
			return err
		}
		buf.WriteString(s)
		buf.WriteByte('\n')
		return nil
	}

	if err := write(b.opening(batch.Written)); err != nil {
		return nil, fmt.Errorf("could not write opening record: %w", err)
	}
	for i, m := range batch.Mandates {
		if err := write(b.mandate(m)); err != nil {
			return nil, fmt.Errorf("could not write mandate %d: %w", i+1, err)
		}
	}
	for i, c := range batch.Cancellations {
		if err := checkReference(c.Reference); err != nil {
			return nil, fmt.Errorf("could not write cancellation %d: %w", i+1, err)
		}
		if err := write(b.cancellation(c)); err != nil {
			return nil, fmt.Errorf("could not write cancellation %d: %w", i+1, err)
		}
	}
	for i, w := range batch.Withdrawals {
		if err := checkReference(w.Reference); err != nil {
			return nil, fmt.Errorf("could not write withdrawal %d: %w", i+1, err)
		}
		if err := write(b.withdrawal(w)); err != nil {
			return nil, fmt.Errorf("could not write withdrawal %d: %w", i+1, err)
		}
	}
	return fixedwidth.Encode(buf.String())
}

func (b *FileBuilder) opening(written time.Time) *fixedwidth.Line {
	return fixedwidth.NewLine(RecordWidth).
		Text(CodeOpening).
		Text(fixedwidth.YYYYMMDD(written)).
		Field(LayoutAutoGiro, 52, fixedwidth.AlignLeft, ' ').
		Field(b.cfg.CustomerNumber, 6, fixedwidth.AlignRight, '0').
		Field(b.cfg.BankgiroNumber, 10, fixedwidth.AlignRight, '0').
		PadTo(RecordWidth, ' ')
}

func (b *FileBuilder) withdrawal(w Withdrawal) *fixedwidth.Line {
	return fixedwidth.NewLine(RecordWidth).
		Text(CodeIncomingPayment).
		Text(fixedwidth.YYYYMMDD(w.PaymentDate)).
		Text("0").
		PadTo(15, ' ').
		Number(w.PayerNumber, 16).
		Number(w.Amount, 12).
		Field(b.cfg.BankgiroNumber, 10, fixedwidth.AlignRight, '0').
		Field(w.Reference, referenceWidth, fixedwidth.AlignLeft, ' ').
		PadTo(RecordWidth, ' ')
}

func (b *FileBuilder) cancellation(c CancellationRequest) *fixedwidth.Line {
	return fixedwidth.NewLine(RecordWidth).
		Text(CodeCancelOne).
		Field(b.cfg.BankgiroNumber, 10, fixedwidth.AlignRight, '0').
		Number(c.PayerNumber, 16).
		Text(fixedwidth.YYYYMMDD(c.PaymentDate)).
		Number(c.Amount, 12).
		Text(CodeIncomingPayment).
		PadTo(58, ' ').
		Field(c.Reference, referenceWidth, fixedwidth.AlignLeft, ' ').
		PadTo(RecordWidth, ' ')
}

func (b *FileBuilder) mandate(m MandateAction) *fixedwidth.Line {
	action := "  "
	if !m.Approve {
		action = "AV"
	}
	return fixedwidth.NewLine(RecordWidth).
		Text(CodeMandateRequest).
		Field(b.cfg.BankgiroNumber, 10, fixedwidth.AlignRight, '0').
		Number(m.PayerNumber, 16).
		Field(m.BankAccount, 16, fixedwidth.AlignRight, '0').
		Field(m.SSN, 12, fixedwidth.AlignRight, '0').
		PadTo(76, ' ').
		Text(action).
		PadTo(RecordWidth, ' ')
}

// FileName names an outbound file for Bankgirot.
func FileName(shipmentID int64, now time.Time) string {
	return fmt.Sprintf("BFEP.IAGAG.%d.%s", shipmentID, now.Format("060102.150405"))
}
