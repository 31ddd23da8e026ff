// Package avtalegiro encodes outbound AvtaleGiro claim files for Nets and
// decodes the inbound OCR files that report agreement changes and payments.
package avtalegiro

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"giro-settlement/internal/fixedwidth"
)

// RecordWidth is the width of every record in a Nets file.
const RecordWidth = 80

const (
	markerFileStart       = "NY000010"
	markerFileEnd         = "NY000089"
	markerAssignmentStart = "NY210020"
	markerClaim           = "NY210230"
	markerName            = "NY210231"
	markerAssignmentEnd   = "NY210088"
	fileStartFiller       = "00008080"
)

var (
	// ErrTotalsMismatch is returned when written totals disagree with the transactions.
	ErrTotalsMismatch = errors.New("avtalegiro: totals do not match transactions")
	// ErrInvalidConfig is returned for a malformed customer id or account number.
	ErrInvalidConfig = errors.New("avtalegiro: invalid configuration")
	// ErrInvalidClaim is returned for a claim that cannot be encoded.
	ErrInvalidClaim = errors.New("avtalegiro: invalid claim")
)

var (
	customerIDPattern = regexp.MustCompile(`^\d{1,8}$`)
	accountPattern    = regexp.MustCompile(`^\d{11}$`)
	kidPattern        = regexp.MustCompile(`^\d{1,25}$`)
)

// Config identifies the payee in outbound files.
type Config struct {
	// CustomerID is the data owner id Nets assigned to the sender.
	CustomerID string
	// AccountNumber is the 11 digit account money is claimed to.
	AccountNumber string
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if !customerIDPattern.MatchString(c.CustomerID) {
		return fmt.Errorf("%w: customer id %q", ErrInvalidConfig, c.CustomerID)
	}
	if !accountPattern.MatchString(c.AccountNumber) {
		return fmt.Errorf("%w: account number %q", ErrInvalidConfig, c.AccountNumber)
	}
	return nil
}

// Claim is one amount to collect under an agreement. Amount is in øre.
type Claim struct {
	KID       string
	Amount    int64
	DonorName string
}

// FileBuilder produces claim files.
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

type assignment struct {
	records int
	sum     int64
	first   time.Time
	last    time.Time
}

// Build encodes a claim file for one shipment. Every claim becomes its own
// assignment of four records. An empty claim list yields a file with only the
// start and end records.
func (b *FileBuilder) Build(shipmentID int64, claims []Claim, claimDate time.Time) ([]byte, error) {
	var claimed int64
	for i, c := range claims {
		claimed += c.Amount
		if !kidPattern.MatchString(c.KID) {
			return nil, fmt.Errorf("%w: claim %d has KID %q", ErrInvalidClaim, i, c.KID)
		}
		if c.Amount <= 0 {
			return nil, fmt.Errorf("%w: claim %d has amount %d", ErrInvalidClaim, i, c.Amount)
		}
	}

	w := &fileWriter{}
	w.line(fixedwidth.NewLine(RecordWidth).
		Text(markerFileStart).
		Field(b.cfg.CustomerID, 8, fixedwidth.AlignRight, '0').
		Number(shipmentID, 7).
		Text(fileStartFiller).
		PadTo(RecordWidth, '0'))

	var (
		assignments int
		fileSum     int64
	)
	for i, c := range claims {
		a, err := b.writeAssignment(w, shipmentID, i, []Claim{c}, claimDate)
		if err != nil {
			return nil, fmt.Errorf("could not write assignment %d: %w", i+1, err)
		}
		assignments++
		fileSum += a.sum
	}

	if w.err != nil {
		return nil, w.err
	}
	// the end record counts itself
	records := w.count + 1
	if records != 2+4*len(claims) {
		return nil, fmt.Errorf("%w: %d records for %d claims", ErrTotalsMismatch, records, len(claims))
	}
	if fileSum != claimed {
		return nil, fmt.Errorf("%w: assignments sum to %d, claims to %d", ErrTotalsMismatch, fileSum, claimed)
	}
	w.line(fixedwidth.NewLine(RecordWidth).
		Text(markerFileEnd).
		Number(int64(assignments), 8).
		Number(int64(records), 8).
		Number(fileSum, 17).
		Text(fixedwidth.DDMMYY(claimDate)).
		PadTo(RecordWidth, '0'))

	if w.err != nil {
		return nil, w.err
	}
	return fixedwidth.Encode(w.buf.String())
}

func (b *FileBuilder) writeAssignment(w *fileWriter, shipmentID int64, index int, claims []Claim, dueDate time.Time) (*assignment, error) {
	number, err := assignmentNumber(shipmentID, index)
	if err != nil {
		return nil, err
	}

	start := w.count
	w.line(fixedwidth.NewLine(RecordWidth).
		Text(markerAssignmentStart).
		PadTo(17, '0').
		Text(number).
		Text(b.cfg.AccountNumber).
		PadTo(RecordWidth, '0'))

	a := &assignment{}
	for i, c := range claims {
		txn := int64(i + 1)
		w.line(fixedwidth.NewLine(RecordWidth).
			Text(markerClaim).
			Number(txn, 7).
			Text(fixedwidth.DDMMYY(dueDate)).
			PadTo(32, '0').
			Number(c.Amount, 17).
			Field(c.KID, 25, fixedwidth.AlignRight, ' ').
			PadTo(RecordWidth, '0'))
		w.line(fixedwidth.NewLine(RecordWidth).
			Text(markerName).
			Number(txn, 7).
			Text(ShortName(c.DonorName)).
			PadTo(75, ' ').
			PadTo(RecordWidth, '0'))

		a.sum += c.Amount
		if a.first.IsZero() || dueDate.Before(a.first) {
			a.first = dueDate
		}
		if dueDate.After(a.last) {
			a.last = dueDate
		}
	}

	if w.err != nil {
		return nil, w.err
	}
	// start, transactions and the end record about to be written
	a.records = w.count - start + 1
	if a.records != 2*len(claims)+2 {
		return nil, fmt.Errorf("%w: assignment %s has %d records for %d claims", ErrTotalsMismatch, number, a.records, len(claims))
	}
	w.line(fixedwidth.NewLine(RecordWidth).
		Text(markerAssignmentEnd).
		Number(int64(len(claims)), 8).
		Number(int64(a.records), 8).
		Number(a.sum, 17).
		Text(fixedwidth.DDMMYY(a.first)).
		Text(fixedwidth.DDMMYY(a.last)).
		PadTo(RecordWidth, '0'))

	return a, w.err
}

// assignmentNumber is the last three digits of the shipment followed by the
// four digit zero-based assignment index.
func assignmentNumber(shipmentID int64, index int) (string, error) {
	shipment, err := fixedwidth.ZeroPad(shipmentID%1000, 3)
	if err != nil {
		return "", err
	}
	idx, err := fixedwidth.ZeroPad(int64(index), 4)
	if err != nil {
		return "", err
	}
	return shipment + idx, nil
}

// ShortName is the 10 column abbreviation of a donor name printed on the
// payer's statement: upper case, cut to ten letters, blanks removed and
// right justified.
func ShortName(name string) string {
	cut := fixedwidth.Truncate(strings.ToUpper(name), 10)
	cut = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cut)
	return fixedwidth.PadLeft(cut, 10, ' ')
}

type fileWriter struct {
	buf   bytes.Buffer
	count int
	err   error
}

func (w *fileWriter) line(l *fixedwidth.Line) {
	if w.err != nil {
		return
	}
	s, err := l.String()
	if err != nil {
		w.err = fmt.Errorf("could not encode record %d: %w", w.count+1, err)
		return
	}
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
	w.count++
}
