package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType defines how a payment reached the account.
type TransactionType string

const (
	// TransactionGiro is a payment made with a KID on a giro slip or in a net bank.
	TransactionGiro TransactionType = "GIRO"
	// TransactionAvtaleGiro is a payment collected through an AvtaleGiro claim.
	TransactionAvtaleGiro TransactionType = "AVTALEGIRO"
)

// OCRTransaction is a payment reported in a Nets OCR file.
type OCRTransaction struct {
	TransactionID string          `json:"transaction_id"`
	Type          TransactionType `json:"type"`
	KID           string          `json:"kid"`
	Amount        decimal.Decimal `json:"amount"` // NOK
	Date          time.Time       `json:"date"`
}
