package domain

import (
	"fmt"
	"strings"
	"time"
)

// ChargeStatus is the lifecycle state of a single claim against an agreement.
type ChargeStatus string

const (
	ChargePending           ChargeStatus = "PENDING"
	ChargeDue               ChargeStatus = "DUE"
	ChargeProcessing        ChargeStatus = "PROCESSING"
	ChargeReserved          ChargeStatus = "RESERVED"
	ChargeCharged           ChargeStatus = "CHARGED"
	ChargeFailed            ChargeStatus = "FAILED"
	ChargeCancelled         ChargeStatus = "CANCELLED"
	ChargeRefunded          ChargeStatus = "REFUNDED"
	ChargePartiallyRefunded ChargeStatus = "PARTIALLY_REFUNDED"
)

// chargeTransitions lists the statuses each status may move forward to.
var chargeTransitions = map[ChargeStatus][]ChargeStatus{
	ChargePending:           {ChargeDue, ChargeCancelled},
	ChargeDue:               {ChargeProcessing, ChargeReserved, ChargeCharged, ChargeFailed, ChargeCancelled},
	ChargeProcessing:        {ChargeReserved, ChargeCharged, ChargeFailed, ChargeCancelled},
	ChargeReserved:          {ChargeCharged, ChargeFailed, ChargeCancelled},
	ChargeCharged:           {ChargeRefunded, ChargePartiallyRefunded},
	ChargePartiallyRefunded: {ChargeRefunded},
	ChargeFailed:            nil,
	ChargeCancelled:         nil,
	ChargeRefunded:          nil,
}

// ParseChargeStatus maps a status name onto the vocabulary.
func ParseChargeStatus(s string) (ChargeStatus, error) {
	status := ChargeStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := chargeTransitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownChargeStatus, s)
	}
	return status, nil
}

// IsFinal reports whether no further transitions leave the status.
func (s ChargeStatus) IsFinal() bool {
	return len(chargeTransitions[s]) == 0
}

// CanTransition reports whether a charge may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to ChargeStatus) bool {
	if from == to {
		_, ok := chargeTransitions[from]
		return ok
	}
	for _, next := range chargeTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ChargeType selects which mandate confirmation path a charge follows.
type ChargeType string

const (
	ChargeInitial   ChargeType = "INITIAL"
	ChargeRecurring ChargeType = "RECURRING"
)

// Charge is a single request to withdraw money under an agreement.
type Charge struct {
	ID          int64        `json:"id"`
	AgreementID int64        `json:"agreement_id"`
	ShipmentID  int64        `json:"shipment_id"`
	Amount      int64        `json:"amount"`
	ClaimDate   time.Time    `json:"claim_date"`
	Status      ChargeStatus `json:"status"`
	Type        ChargeType   `json:"type,omitempty"`
	Created     time.Time    `json:"created"`
	LastUpdated time.Time    `json:"last_updated"`
}

// NewCharge returns a pending charge.
func NewCharge(agreementID, shipmentID, amount int64, claimDate time.Time, typ ChargeType) (*Charge, error) {
	c := &Charge{
		AgreementID: agreementID,
		ShipmentID:  shipmentID,
		Amount:      amount,
		ClaimDate:   claimDate,
		Status:      ChargePending,
	}
	if err := c.SetType(typ); err != nil {
		return nil, err
	}
	return c, nil
}

// Transition moves the charge to status to. It returns whether the status
// changed.
func (c *Charge) Transition(to ChargeStatus) (bool, error) {
	if _, ok := chargeTransitions[to]; !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownChargeStatus, to)
	}
	if !CanTransition(c.Status, to) {
		return false, fmt.Errorf("%w: charge %d %s -> %s", ErrIllegalChargeTransition, c.ID, c.Status, to)
	}
	if c.Status == to {
		return false, nil
	}
	c.Status = to
	return true, nil
}

// Settle applies an outcome reported by the bank. A pending charge whose
// outcome arrives passes through DUE first, since the bank only reports on
// charges whose claim date has come.
func (c *Charge) Settle(to ChargeStatus) (bool, error) {
	if c.Status == ChargePending && to != ChargePending && to != ChargeDue && to != ChargeCancelled {
		if _, err := c.Transition(ChargeDue); err != nil {
			return false, err
		}
	}
	return c.Transition(to)
}

// SetType sets the charge type. Once set, it cannot change.
func (c *Charge) SetType(typ ChargeType) error {
	switch typ {
	case ChargeInitial, ChargeRecurring:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChargeType, typ)
	}
	if c.Type != "" && c.Type != typ {
		return fmt.Errorf("%w: charge %d is %s", ErrChargeTypeImmutable, c.ID, c.Type)
	}
	c.Type = typ
	return nil
}
