package domain

import "time"

// MandateStatus is the lifecycle state of an AutoGiro mandate.
type MandateStatus string

const (
	MandateNew       MandateStatus = "NEW"
	MandatePending   MandateStatus = "PENDING"
	MandateActive    MandateStatus = "ACTIVE"
	MandateRejected  MandateStatus = "REJECTED"
	MandateCancelled MandateStatus = "CANCELLED"
)

// Mandate is a payer's authorisation at Bankgirot to debit their account.
// The payer number is the donor id.
type Mandate struct {
	ID          int64         `json:"id"`
	AgreementID int64         `json:"agreement_id"`
	KID         string        `json:"kid"`
	PayerNumber string        `json:"payer_number"`
	BankAccount string        `json:"bank_account"`
	SSN         string        `json:"ssn"`
	Status      MandateStatus `json:"status"`
	Created     time.Time     `json:"created"`
	LastUpdated time.Time     `json:"last_updated"`
}
