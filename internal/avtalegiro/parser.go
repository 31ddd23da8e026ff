package avtalegiro

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"giro-settlement/internal/domain"
	"giro-settlement/internal/fixedwidth"
)

// ErrMalformedFile is returned when an inbound file cannot be read.
var ErrMalformedFile = errors.New("avtalegiro: malformed file")

const (
	markerAgreementInfo = "NY219470"

	serviceOCR            = "09"
	transactionGiro       = "10"
	transactionAvtaleGiro = "21"
	recordAmountItem1     = "30"
	recordAmountItem2     = "31"
)

// RegistrationType says what an agreement information record reports.
type RegistrationType int

const (
	// RegistrationTotalReadout lists an agreement as part of a full readout.
	RegistrationTotalReadout RegistrationType = 0
	// RegistrationNewOrChanged reports a new or changed agreement.
	RegistrationNewOrChanged RegistrationType = 1
	// RegistrationDeleted reports an agreement the payer has deleted.
	RegistrationDeleted RegistrationType = 2
)

// AgreementUpdate is one agreement information record from Nets.
type AgreementUpdate struct {
	FBONumber    string
	Registration RegistrationType
	KID          string
	Notice       bool
}

// TotalReadout reports whether the record is part of a full readout.
func (u AgreementUpdate) TotalReadout() bool {
	return u.Registration == RegistrationTotalReadout
}

// Terminated reports whether the payer deleted the agreement.
func (u AgreementUpdate) Terminated() bool {
	return u.Registration == RegistrationDeleted
}

// ParseAgreementUpdates reads the agreement information records of an OCR
// file. Any malformed record rejects the whole file.
func ParseAgreementUpdates(data []byte) ([]AgreementUpdate, error) {
	lines, err := fixedwidth.Lines(data)
	if err != nil {
		return nil, err
	}

	updates := make([]AgreementUpdate, 0)
	for i, line := range lines {
		if !strings.HasPrefix(line, markerAgreementInfo) {
			continue
		}
		rec := fixedwidth.NewRecord(line)
		u := AgreementUpdate{
			FBONumber: rec.Raw(9, 7),
			KID:       rec.Text(17, 25),
		}
		reg := rec.Raw(16, 1)
		notice := rec.Raw(42, 1)
		if err := rec.Err(); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedFile, i+1, err)
		}

		switch reg {
		case "0":
			u.Registration = RegistrationTotalReadout
		case "1":
			u.Registration = RegistrationNewOrChanged
		case "2":
			u.Registration = RegistrationDeleted
		default:
			return nil, fmt.Errorf("%w: line %d: registration type %q", ErrMalformedFile, i+1, reg)
		}
		if u.KID == "" {
			return nil, fmt.Errorf("%w: line %d: empty KID", ErrMalformedFile, i+1)
		}
		u.Notice = notice == "J" || notice == "1"
		updates = append(updates, u)
	}
	return updates, nil
}

// ParseOCRTransactions reads the payments of an OCR file. Each payment spans
// an amount item 1 record and the amount item 2 record following it.
func ParseOCRTransactions(data []byte) ([]domain.OCRTransaction, error) {
	lines, err := fixedwidth.Lines(data)
	if err != nil {
		return nil, err
	}

	txs := make([]domain.OCRTransaction, 0)
	for i, line := range lines {
		if len(line) < 8 || line[2:4] != serviceOCR || line[6:8] != recordAmountItem1 {
			continue
		}
		code := line[4:6]
		var typ domain.TransactionType
		switch code {
		case transactionGiro:
			typ = domain.TransactionGiro
		case transactionAvtaleGiro:
			typ = domain.TransactionAvtaleGiro
		default:
			continue
		}

		if i+1 >= len(lines) {
			return nil, fmt.Errorf("%w: line %d: missing amount item 2", ErrMalformedFile, i+1)
		}
		next := lines[i+1]
		if !strings.HasPrefix(next, "NY"+serviceOCR+code+recordAmountItem2) {
			return nil, fmt.Errorf("%w: line %d: expected amount item 2, got %q", ErrMalformedFile, i+2, fixedwidth.Truncate(next, 8))
		}

		tx, err := parseOCRTransaction(line, next, typ)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedFile, i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseOCRTransaction(item1, item2 string, typ domain.TransactionType) (domain.OCRTransaction, error) {
	rec := fixedwidth.NewRecord(item1)
	rawDate := rec.Raw(16, 6)
	date := rec.Date(16, 6, fixedwidth.LayoutDDMMYY)
	amount := rec.Int(33, 17)
	kid := rec.Text(50, 25)
	if err := rec.Err(); err != nil {
		return domain.OCRTransaction{}, err
	}

	rec2 := fixedwidth.NewRecord(item2)
	running := rec2.Int(10, 6)
	archive := rec2.Raw(26, 9)
	if err := rec2.Err(); err != nil {
		return domain.OCRTransaction{}, err
	}

	return domain.OCRTransaction{
		TransactionID: rawDate + "." + archive + strconv.FormatInt(running, 10),
		Type:          typ,
		KID:           kid,
		Amount:        decimal.New(amount, -2),
		Date:          date,
	}, nil
}
