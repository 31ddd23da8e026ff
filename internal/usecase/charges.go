package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"giro-settlement/internal/domain"
)

// ChargeService moves charges through their lifecycle.
type ChargeService struct {
	charges    ChargeStore
	agreements AgreementStore
	clock      Clock
	logger     *log.Logger
}

// NewChargeService creates a new instance of the service.
func NewChargeService(charges ChargeStore, agreements AgreementStore, opts ...Option) (*ChargeService, error) {
	if charges == nil {
		return nil, errors.New("charge service: nil charge store")
	}
	if agreements == nil {
		return nil, errors.New("charge service: nil agreement store")
	}
	o := applyOptions(opts)
	return &ChargeService{charges: charges, agreements: agreements, clock: o.clock, logger: o.logger}, nil
}

// UpdateStatus applies a status reported by a payment callback or an
// administrator. Unknown statuses are rejected without touching the charge.
func (s *ChargeService) UpdateStatus(ctx context.Context, chargeID int64, status string) (*domain.Charge, error) {
	to, err := domain.ParseChargeStatus(status)
	if err != nil {
		s.logger.Printf("charges: rejected status charge=%d status=%q err=%v", chargeID, status, err)
		return nil, err
	}

	charge, err := s.charges.Charge(ctx, chargeID)
	if err != nil {
		return nil, fmt.Errorf("could not get charge %d: %w", chargeID, err)
	}
	if _, err := s.apply(ctx, charge, to, false); err != nil {
		return nil, err
	}
	return charge, nil
}

// apply moves charge to status to and persists it. With settle set, a
// pending charge passes through DUE on its way to a bank outcome. An INITIAL
// charge that is CHARGED activates its agreement.
func (s *ChargeService) apply(ctx context.Context, charge *domain.Charge, to domain.ChargeStatus, settle bool) (bool, error) {
	from := charge.Status
	var (
		changed bool
		err     error
	)
	if settle {
		changed, err = charge.Settle(to)
	} else {
		changed, err = charge.Transition(to)
	}
	if err != nil {
		charge.Status = from
		s.logger.Printf("charges: rejected transition charge=%d from=%s to=%s err=%v", charge.ID, from, to, err)
		return false, err
	}
	if !changed {
		return false, nil
	}

	charge.LastUpdated = s.clock.Now()
	if err := s.charges.UpdateCharge(ctx, charge); err != nil {
		charge.Status = from
		return false, fmt.Errorf("could not update charge %d: %w", charge.ID, err)
	}
	s.logger.Printf("charges: status changed charge=%d from=%s to=%s", charge.ID, from, charge.Status)

	if charge.Type == domain.ChargeInitial && charge.Status == domain.ChargeCharged {
		if err := s.agreements.SetActive(ctx, charge.AgreementID, true); err != nil {
			return true, fmt.Errorf("could not activate agreement %d: %w", charge.AgreementID, err)
		}
	}
	return true, nil
}
