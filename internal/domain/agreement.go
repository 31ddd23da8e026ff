package domain

import "time"

// Scheme identifies the direct debit scheme an agreement or shipment belongs to.
type Scheme string

const (
	SchemeAvtaleGiro Scheme = "AVTALEGIRO"
	SchemeAutoGiro   Scheme = "AUTOGIRO"
)

// Agreement is a donor's standing direct debit agreement.
//
// Amount is in minor units (øre). PaymentDay is 1-28, or 0 for the last day
// of the month.
type Agreement struct {
	ID          int64      `json:"id"`
	Scheme      Scheme     `json:"scheme"`
	KID         string     `json:"kid"`
	DonorID     int64      `json:"donor_id"`
	Amount      int64      `json:"amount"`
	PaymentDay  int        `json:"payment_day"`
	Notice      bool       `json:"notice"`
	Active      bool       `json:"active"`
	Created     time.Time  `json:"created"`
	LastUpdated time.Time  `json:"last_updated"`
	Cancelled   *time.Time `json:"cancelled,omitempty"`
}

// Donor is the registered payer behind an agreement.
type Donor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DueAgreement pairs an agreement with its donor for file building.
type DueAgreement struct {
	Agreement Agreement `json:"agreement"`
	Donor     Donor     `json:"donor"`
}

// Donation is a payment already registered for a donor.
type Donation struct {
	ID         int64     `json:"id"`
	DonorID    int64     `json:"donor_id"`
	KID        string    `json:"kid"`
	Amount     int64     `json:"amount"`
	Registered time.Time `json:"registered"`
}

// AmendedCharge is a pending AutoGiro charge whose agreement changed after
// the charge was ordered.
type AmendedCharge struct {
	Charge    Charge       `json:"charge"`
	Agreement DueAgreement `json:"agreement"`
}
