package domain

import "errors"

var (
	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("domain: not found")
	// ErrUnknownChargeStatus is returned for a status outside the charge vocabulary.
	ErrUnknownChargeStatus = errors.New("domain: unknown charge status")
	// ErrIllegalChargeTransition is returned when a charge cannot move to the requested status.
	ErrIllegalChargeTransition = errors.New("domain: illegal charge transition")
	// ErrChargeTypeImmutable is returned when a charge type is changed after being set.
	ErrChargeTypeImmutable = errors.New("domain: charge type already set")
	// ErrUnknownChargeType is returned for a type other than INITIAL or RECURRING.
	ErrUnknownChargeType = errors.New("domain: unknown charge type")
)
