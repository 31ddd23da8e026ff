package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"giro-settlement/internal/avtalegiro"
	"giro-settlement/internal/calendar"
	"giro-settlement/internal/domain"
	"giro-settlement/internal/schedule"
)

// AvtaleGiroUseCase sends AvtaleGiro claim files to Nets and resends the ones
// the bank never acknowledged.
type AvtaleGiroUseCase struct {
	agreements AgreementStore
	shipments  ShipmentStore
	delivery   DeliveryChannel
	scheduler  *schedule.DueDateScheduler
	builder    *avtalegiro.FileBuilder
	notifier   Notifier
	clock      Clock
	logger     *log.Logger
}

// NewAvtaleGiroUseCase creates a new instance of the usecase.
func NewAvtaleGiroUseCase(
	agreements AgreementStore,
	shipments ShipmentStore,
	delivery DeliveryChannel,
	scheduler *schedule.DueDateScheduler,
	builder *avtalegiro.FileBuilder,
	opts ...Option,
) (*AvtaleGiroUseCase, error) {
	if agreements == nil {
		return nil, errors.New("avtalegiro usecase: nil agreement store")
	}
	if shipments == nil {
		return nil, errors.New("avtalegiro usecase: nil shipment store")
	}
	if delivery == nil {
		return nil, errors.New("avtalegiro usecase: nil delivery channel")
	}
	if scheduler == nil {
		return nil, errors.New("avtalegiro usecase: nil due date scheduler")
	}
	if builder == nil {
		return nil, errors.New("avtalegiro usecase: nil file builder")
	}
	o := applyOptions(opts)
	return &AvtaleGiroUseCase{
		agreements: agreements,
		shipments:  shipments,
		delivery:   delivery,
		scheduler:  scheduler,
		builder:    builder,
		notifier:   o.notifier,
		clock:      o.clock,
		logger:     o.logger,
	}, nil
}

// DueDates returns the due dates served by files sent on today.
func (uc *AvtaleGiroUseCase) DueDates(today time.Time) []time.Time {
	return uc.scheduler.DueDates(today)
}

// SendClaims produces and delivers one claim file per due date served today.
// Due dates are handled one after another; the first failure stops the run.
func (uc *AvtaleGiroUseCase) SendClaims(ctx context.Context, today time.Time, notify bool) (*domain.ClaimRunReport, error) {
	today = calendar.Day(today)
	report := &domain.ClaimRunReport{
		RunID:    uuid.NewString(),
		Date:     today,
		DueDates: make([]domain.DueDateResult, 0),
	}

	for _, due := range uc.scheduler.DueDates(today) {
		res, err := uc.sendDueDate(ctx, today, due, notify)
		if err != nil {
			return nil, fmt.Errorf("could not send claims for %s: %w", due.Format(time.DateOnly), err)
		}
		report.DueDates = append(report.DueDates, *res)
	}
	return report, nil
}

// Retry resends the claims of every due date served today that has no
// accepted shipment. The receipt directory is listed once per due date.
func (uc *AvtaleGiroUseCase) Retry(ctx context.Context, today time.Time) (*domain.RetryReport, error) {
	today = calendar.Day(today)
	report := &domain.RetryReport{
		RunID:   uuid.NewString(),
		Date:    today,
		Entries: make([]domain.RetryEntry, 0),
	}

	for _, due := range uc.scheduler.DueDates(today) {
		entry, err := uc.retryDueDate(ctx, today, due)
		if err != nil {
			return nil, fmt.Errorf("could not retry claims for %s: %w", due.Format(time.DateOnly), err)
		}
		report.Entries = append(report.Entries, *entry)
	}
	return report, nil
}

func (uc *AvtaleGiroUseCase) retryDueDate(ctx context.Context, today, due time.Time) (*domain.RetryEntry, error) {
	shipments, err := uc.shipments.ShipmentsByDueDate(ctx, domain.SchemeAvtaleGiro, due)
	if err != nil {
		return nil, fmt.Errorf("could not get shipments: %w", err)
	}
	names, err := uc.delivery.ListReceipts(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list receipts: %w", err)
	}
	receipts := avtalegiro.ReceiptIndex(names)

	entry := &domain.RetryEntry{DueDate: due, ShipmentIDs: make([]int64, 0, len(shipments))}
	for _, s := range shipments {
		entry.ShipmentIDs = append(entry.ShipmentIDs, s.ID)
		if _, ok := receipts[s.ID]; ok && entry.SettledShipment == 0 {
			entry.SettledShipment = s.ID
		}
	}
	if entry.SettledShipment != 0 {
		return entry, nil
	}

	uc.logger.Printf("avtalegiro: no receipt due_date=%s shipments=%v", due.Format(time.DateOnly), entry.ShipmentIDs)
	res, err := uc.sendDueDate(ctx, today, due, false)
	if err != nil {
		return nil, err
	}
	if res.ShipmentID != 0 {
		entry.Resent = res
	}
	return entry, nil
}

func (uc *AvtaleGiroUseCase) sendDueDate(ctx context.Context, today, due time.Time, notify bool) (*domain.DueDateResult, error) {
	res := &domain.DueDateResult{DueDate: due}

	agreements, err := uc.dueAgreements(ctx, due)
	if err != nil {
		return nil, err
	}
	if len(agreements) == 0 {
		uc.logger.Printf("avtalegiro: no agreements due due_date=%s", due.Format(time.DateOnly))
		return res, nil
	}

	if notify {
		res.Notified = uc.notify(ctx, agreements, due)
	}

	claims := make([]avtalegiro.Claim, 0, len(agreements))
	for _, a := range agreements {
		claims = append(claims, avtalegiro.Claim{
			KID:       a.Agreement.KID,
			Amount:    a.Agreement.Amount,
			DonorName: a.Donor.Name,
		})
		res.Amount += a.Agreement.Amount
	}

	id, err := uc.shipments.CreateShipment(ctx, domain.Shipment{
		Scheme:    domain.SchemeAvtaleGiro,
		NumClaims: len(claims),
		DueDate:   due,
		CreatedAt: uc.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create shipment: %w", err)
	}

	data, err := uc.builder.Build(id, claims, due)
	if err != nil {
		return nil, fmt.Errorf("could not build claim file for shipment %d: %w", id, err)
	}

	name := avtalegiro.ClaimFileName(today, due, id)
	if err := uc.delivery.Upload(ctx, name, data); err != nil {
		return nil, fmt.Errorf("could not upload %s: %w", name, err)
	}
	uc.logger.Printf("avtalegiro: sent claims file=%s shipment=%d claims=%d", name, id, len(claims))

	res.ShipmentID = id
	res.Claims = len(claims)
	res.FileName = name
	return res, nil
}

// dueAgreements returns the agreements claimed on due with a positive
// amount. Agreements charged on the last day of the month join on the final
// day.
func (uc *AvtaleGiroUseCase) dueAgreements(ctx context.Context, due time.Time) ([]domain.DueAgreement, error) {
	days := []int{due.Day()}
	if schedule.IsLastDayOfMonth(due) {
		days = append(days, 0)
	}

	var out []domain.DueAgreement
	for _, day := range days {
		agreements, err := uc.agreements.AgreementsByPaymentDay(ctx, domain.SchemeAvtaleGiro, day)
		if err != nil {
			return nil, fmt.Errorf("could not get agreements for payment day %d: %w", day, err)
		}
		for _, a := range agreements {
			if a.Agreement.Amount > 0 {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (uc *AvtaleGiroUseCase) notify(ctx context.Context, agreements []domain.DueAgreement, due time.Time) int {
	if uc.notifier == nil {
		return 0
	}
	sent := 0
	for _, a := range agreements {
		if !a.Agreement.Notice {
			continue
		}
		if err := uc.notifier.NotifyClaim(ctx, a, due); err != nil {
			uc.logger.Printf("avtalegiro: notify failed kid=%s err=%v", a.Agreement.KID, err)
			continue
		}
		sent++
	}
	return sent
}
