package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"giro-settlement/internal/avtalegiro"
	"giro-settlement/internal/calendar"
	"giro-settlement/internal/domain"
)

// AgreementUseCase applies the agreement changes and payments Nets reports in
// the daily OCR file.
type AgreementUseCase struct {
	agreements AgreementStore
	donations  DonationStore
	delivery   DeliveryChannel
	clock      Clock
	logger     *log.Logger
}

// NewAgreementUseCase creates a new instance of the usecase.
func NewAgreementUseCase(agreements AgreementStore, donations DonationStore, delivery DeliveryChannel, opts ...Option) (*AgreementUseCase, error) {
	if agreements == nil {
		return nil, errors.New("agreement usecase: nil agreement store")
	}
	if donations == nil {
		return nil, errors.New("agreement usecase: nil donation store")
	}
	if delivery == nil {
		return nil, errors.New("agreement usecase: nil delivery channel")
	}
	o := applyOptions(opts)
	return &AgreementUseCase{
		agreements: agreements,
		donations:  donations,
		delivery:   delivery,
		clock:      o.clock,
		logger:     o.logger,
	}, nil
}

// ApplyLatestOCRFile fetches the newest OCR file and applies it. A missing
// file, as on weekends and holidays, yields an empty report.
func (uc *AgreementUseCase) ApplyLatestOCRFile(ctx context.Context) (*domain.AgreementUpdateReport, error) {
	file, err := uc.delivery.LatestOCRFile(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not fetch OCR file: %w", err)
	}
	if file == nil {
		uc.logger.Printf("agreements: no OCR file")
		return &domain.AgreementUpdateReport{}, nil
	}
	return uc.ApplyOCRFile(ctx, file.Name, file.Data)
}

// ApplyOCRFile records the payments in an OCR file and applies its agreement
// updates. The whole file is parsed before anything is stored.
func (uc *AgreementUseCase) ApplyOCRFile(ctx context.Context, name string, data []byte) (*domain.AgreementUpdateReport, error) {
	txs, err := avtalegiro.ParseOCRTransactions(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse transactions in %s: %w", name, err)
	}
	updates, err := avtalegiro.ParseAgreementUpdates(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse agreement updates in %s: %w", name, err)
	}

	report := &domain.AgreementUpdateReport{File: name, Updates: len(updates)}
	if len(txs) > 0 {
		n, err := uc.donations.RecordTransactions(ctx, txs)
		if err != nil {
			return nil, fmt.Errorf("could not record transactions: %w", err)
		}
		report.Transactions = n
	}

	for _, u := range updates {
		if err := uc.apply(ctx, u, report); err != nil {
			return nil, fmt.Errorf("could not apply update for KID %s: %w", u.KID, err)
		}
	}
	uc.logger.Printf("agreements: applied file=%s created=%d updated=%d activated=%d cancelled=%d failed=%d",
		name, report.Created, report.Updated, report.Activated, report.Cancelled, len(report.Failed))
	return report, nil
}

func (uc *AgreementUseCase) apply(ctx context.Context, u avtalegiro.AgreementUpdate, report *domain.AgreementUpdateReport) error {
	// A total readout lists agreements already on record.
	if u.TotalReadout() {
		report.Skipped++
		return nil
	}

	agreement, err := uc.agreements.AgreementByKID(ctx, domain.SchemeAvtaleGiro, u.KID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	exists := err == nil

	if u.Terminated() {
		if !exists {
			report.Failed = append(report.Failed, u.KID)
			return nil
		}
		if err := uc.agreements.CancelAgreement(ctx, agreement.ID, uc.clock.Now()); err != nil {
			return err
		}
		report.Cancelled++
		return nil
	}

	if !exists {
		agreement, err = uc.create(ctx, u)
		if err != nil {
			return err
		}
		if agreement == nil {
			report.Failed = append(report.Failed, u.KID)
			return nil
		}
		report.Created++
	} else {
		if err := uc.agreements.UpdateNotice(ctx, agreement.ID, u.Notice); err != nil {
			return err
		}
		report.Updated++
	}

	if !agreement.Active {
		if err := uc.agreements.SetActive(ctx, agreement.ID, true); err != nil {
			return err
		}
		report.Activated++
	}
	return nil
}

// create registers an agreement signed in the donor's own bank. The amount
// is taken from the donor's latest donation with the same KID; without one
// the agreement cannot be created and nil is returned.
func (uc *AgreementUseCase) create(ctx context.Context, u avtalegiro.AgreementUpdate) (*domain.Agreement, error) {
	donation, err := uc.donations.LatestDonation(ctx, u.KID)
	if errors.Is(err, domain.ErrNotFound) {
		uc.logger.Printf("agreements: no agreement or donation kid=%s", u.KID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	day := calendar.Day(now).Day()
	if day > 28 {
		day = 0
	}
	agreement := &domain.Agreement{
		Scheme:      domain.SchemeAvtaleGiro,
		KID:         u.KID,
		DonorID:     donation.DonorID,
		Amount:      donation.Amount,
		PaymentDay:  day,
		Notice:      u.Notice,
		Created:     now,
		LastUpdated: now,
	}
	id, err := uc.agreements.CreateAgreement(ctx, agreement)
	if err != nil {
		return nil, err
	}
	agreement.ID = id
	return agreement, nil
}
