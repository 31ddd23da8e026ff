package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"giro-settlement/internal/autogiro"
	"giro-settlement/internal/calendar"
	"giro-settlement/internal/domain"
	"giro-settlement/internal/schedule"
)

// ErrInvalidReference is returned for a payment reference this service did
// not write.
var ErrInvalidReference = errors.New("usecase: invalid payment reference")

// ErrUnparsableFile is returned when an inbound file is not a report file.
var ErrUnparsableFile = errors.New("usecase: unparsable file")

// AutoGiroUseCase orders Swedish AutoGiro payments from Bankgirot and applies
// the reports Bankgirot sends back.
type AutoGiroUseCase struct {
	agreements AgreementStore
	charges    ChargeStore
	mandates   MandateStore
	shipments  ShipmentStore
	delivery   DeliveryChannel
	calendar   calendar.Calendar
	builder    *autogiro.FileBuilder
	service    *ChargeService
	clock      Clock
	logger     *log.Logger
}

// NewAutoGiroUseCase creates a new instance of the usecase.
func NewAutoGiroUseCase(
	agreements AgreementStore,
	charges ChargeStore,
	mandates MandateStore,
	shipments ShipmentStore,
	delivery DeliveryChannel,
	cal calendar.Calendar,
	builder *autogiro.FileBuilder,
	opts ...Option,
) (*AutoGiroUseCase, error) {
	if mandates == nil {
		return nil, errors.New("autogiro usecase: nil mandate store")
	}
	if shipments == nil {
		return nil, errors.New("autogiro usecase: nil shipment store")
	}
	if delivery == nil {
		return nil, errors.New("autogiro usecase: nil delivery channel")
	}
	if cal == nil {
		return nil, errors.New("autogiro usecase: nil calendar")
	}
	if builder == nil {
		return nil, errors.New("autogiro usecase: nil file builder")
	}
	service, err := NewChargeService(charges, agreements, opts...)
	if err != nil {
		return nil, fmt.Errorf("autogiro usecase: %w", err)
	}
	o := applyOptions(opts)
	return &AutoGiroUseCase{
		agreements: agreements,
		charges:    charges,
		mandates:   mandates,
		shipments:  shipments,
		delivery:   delivery,
		calendar:   cal,
		builder:    builder,
		service:    service,
		clock:      o.clock,
		logger:     o.logger,
	}, nil
}

// ChargeReference is the payment reference written for a charge. Bankgirot
// echoes it in every report about the payment.
func ChargeReference(shipmentID, agreementID int64) string {
	return fmt.Sprintf("%d-%d", shipmentID, agreementID)
}

// ParseChargeReference splits a reference written by ChargeReference.
func ParseChargeReference(ref string) (shipmentID, agreementID int64, err error) {
	s, a, ok := strings.Cut(strings.TrimSpace(ref), "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	shipmentID, err = strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	agreementID, err = strconv.ParseInt(a, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	return shipmentID, agreementID, nil
}

// payerKey normalises a zero-padded payer number from a report.
func payerKey(payer string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(payer), "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

type plannedClaim struct {
	agreement domain.DueAgreement
	claimDate time.Time
	amended   *domain.Charge
}

// SendClaims orders this month's payments, approves new internet bank
// mandates and reissues pending charges whose agreement changed. Nothing is
// recorded unless the file was delivered; the shipment is removed when the
// file cannot be built or sent.
func (uc *AutoGiroUseCase) SendClaims(ctx context.Context, today time.Time) (*domain.AutoGiroRunReport, error) {
	now := uc.clock.Now()
	today = calendar.Day(today)
	report := &domain.AutoGiroRunReport{RunID: uuid.NewString(), Date: today}

	due, err := uc.agreements.AgreementsToCharge(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("could not get agreements to charge: %w", err)
	}
	mandates, err := uc.mandates.MandatesByStatus(ctx, domain.MandateNew)
	if err != nil {
		return nil, fmt.Errorf("could not get new mandates: %w", err)
	}
	amended, err := uc.charges.AmendedCharges(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get amended charges: %w", err)
	}

	var claims []plannedClaim
	reissued := make(map[int64]bool)
	for _, a := range amended {
		if !schedule.CanAmend(uc.calendar, today, a.Agreement.Agreement.PaymentDay) {
			continue
		}
		charge := a.Charge
		reissued[a.Agreement.Agreement.ID] = true
		claims = append(claims, plannedClaim{
			agreement: a.Agreement,
			claimDate: uc.plan(today, a.Agreement.Agreement),
			amended:   &charge,
		})
	}
	for _, a := range due {
		if reissued[a.Agreement.ID] || a.Agreement.Amount <= 0 {
			continue
		}
		claims = append(claims, plannedClaim{agreement: a, claimDate: uc.plan(today, a.Agreement)})
	}

	if len(claims) == 0 && len(mandates) == 0 {
		uc.logger.Printf("autogiro: nothing to send date=%s", today.Format(time.DateOnly))
		return report, nil
	}

	id, err := uc.shipments.CreateShipment(ctx, domain.Shipment{
		Scheme:    domain.SchemeAutoGiro,
		NumClaims: len(claims),
		DueDate:   today,
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create shipment: %w", err)
	}

	name := autogiro.FileName(id, now)
	if err := uc.deliver(ctx, id, name, now, claims, mandates); err != nil {
		if rmErr := uc.shipments.RemoveShipment(ctx, id); rmErr != nil {
			uc.logger.Printf("autogiro: remove shipment failed shipment=%d err=%v", id, rmErr)
		}
		return nil, err
	}
	uc.logger.Printf("autogiro: sent file=%s shipment=%d claims=%d mandates=%d", name, id, len(claims), len(mandates))

	for _, c := range claims {
		if c.amended != nil {
			if _, err := uc.service.apply(ctx, c.amended, domain.ChargeCancelled, false); err != nil {
				return nil, fmt.Errorf("could not cancel amended charge %d: %w", c.amended.ID, err)
			}
			report.Amended++
		}
		typ := domain.ChargeRecurring
		if !c.agreement.Agreement.Active {
			typ = domain.ChargeInitial
		}
		charge, err := domain.NewCharge(c.agreement.Agreement.ID, id, c.agreement.Agreement.Amount, c.claimDate, typ)
		if err != nil {
			return nil, err
		}
		charge.Created = now
		charge.LastUpdated = now
		if _, err := uc.charges.CreateCharge(ctx, charge); err != nil {
			return nil, fmt.Errorf("could not create charge for agreement %d: %w", c.agreement.Agreement.ID, err)
		}
		report.Charges++
		report.Amount += charge.Amount
	}
	for _, m := range mandates {
		if err := uc.mandates.UpdateMandateStatus(ctx, m.ID, domain.MandatePending); err != nil {
			return nil, fmt.Errorf("could not update mandate %d: %w", m.ID, err)
		}
		report.MandatesConfirmed++
	}

	report.ShipmentID = id
	report.FileName = name
	return report, nil
}

func (uc *AutoGiroUseCase) plan(today time.Time, a domain.Agreement) time.Time {
	return schedule.PlanAutoGiroClaim(uc.calendar, today, a.PaymentDay, a.Created)
}

func (uc *AutoGiroUseCase) deliver(ctx context.Context, shipmentID int64, name string, now time.Time, claims []plannedClaim, mandates []domain.Mandate) error {
	batch := autogiro.OrderBatch{Written: now}
	for _, m := range mandates {
		payer, err := strconv.ParseInt(payerKey(m.PayerNumber), 10, 64)
		if err != nil {
			return fmt.Errorf("could not read payer number of mandate %d: %w", m.ID, err)
		}
		batch.Mandates = append(batch.Mandates, autogiro.MandateAction{
			PayerNumber: payer,
			BankAccount: m.BankAccount,
			SSN:         m.SSN,
			Approve:     true,
		})
	}
	for _, c := range claims {
		a := c.agreement.Agreement
		if c.amended != nil {
			batch.Cancellations = append(batch.Cancellations, autogiro.CancellationRequest{
				PaymentDate: c.amended.ClaimDate,
				PayerNumber: a.DonorID,
				Amount:      c.amended.Amount,
				Reference:   ChargeReference(c.amended.ShipmentID, c.amended.AgreementID),
			})
		}
		batch.Withdrawals = append(batch.Withdrawals, autogiro.Withdrawal{
			PaymentDate: c.claimDate,
			PayerNumber: a.DonorID,
			Amount:      a.Amount,
			Reference:   ChargeReference(shipmentID, a.ID),
		})
	}

	data, err := uc.builder.Build(batch)
	if err != nil {
		return fmt.Errorf("could not build file for shipment %d: %w", shipmentID, err)
	}
	if err := uc.delivery.Upload(ctx, name, data); err != nil {
		return fmt.Errorf("could not upload %s: %w", name, err)
	}
	return nil
}

// ProcessFile applies a report file from Bankgirot to charges and mandates.
// A file that does not parse changes nothing. Payments that match no charge
// are listed as unmatched; outcomes the charge cannot accept are listed as
// rejected.
func (uc *AutoGiroUseCase) ProcessFile(ctx context.Context, data []byte) (*autogiro.ParsedFile, *domain.AutoGiroProcessReport, error) {
	file, err := autogiro.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: could not parse autogiro file: %w", ErrUnparsableFile, err)
	}
	report := &domain.AutoGiroProcessReport{Layout: file.Kind().String()}

	switch r := file.Report.(type) {
	case *autogiro.PaymentSpecification:
		err = uc.applyPayments(ctx, r, report)
	case *autogiro.MandateReport:
		err = uc.applyMandates(ctx, r, report)
	case *autogiro.EMandateReport:
		err = uc.applyEMandates(ctx, r, report)
	case *autogiro.RejectedChargeReport:
		for _, c := range r.RejectedCharges {
			if err = uc.settle(ctx, c.Reference, domain.ChargeFailed, report); err != nil {
				break
			}
		}
	case *autogiro.CancellationReport:
		for _, c := range r.Cancellations {
			if err = uc.settle(ctx, c.Reference, domain.ChargeCancelled, report); err != nil {
				break
			}
		}
	}
	if err != nil {
		return nil, nil, err
	}
	return file, report, nil
}

func paymentOutcome(status autogiro.PaymentStatus) domain.ChargeStatus {
	switch status {
	case autogiro.PaymentApproved:
		return domain.ChargeCharged
	case autogiro.PaymentRenewedFunds:
		return domain.ChargeProcessing
	}
	return domain.ChargeFailed
}

func (uc *AutoGiroUseCase) applyPayments(ctx context.Context, spec *autogiro.PaymentSpecification, report *domain.AutoGiroProcessReport) error {
	for _, batches := range [][]autogiro.Batch{spec.Deposits, spec.Withdrawals} {
		for _, b := range batches {
			for _, p := range b.Payments {
				outcome := paymentOutcome(p.Status)
				if err := uc.settle(ctx, p.Reference, outcome, report); err != nil {
					return err
				}
				if outcome == domain.ChargeCharged {
					report.PaymentsConfirmed++
				}
			}
		}
	}
	for _, b := range spec.Refunds {
		for _, r := range b.Refunds {
			if err := uc.settle(ctx, r.OriginalReference, domain.ChargeRefunded, report); err != nil {
				return err
			}
		}
	}
	return nil
}

// settle applies a bank outcome to the charge behind ref. Only store
// failures are returned.
func (uc *AutoGiroUseCase) settle(ctx context.Context, ref string, to domain.ChargeStatus, report *domain.AutoGiroProcessReport) error {
	shipmentID, agreementID, err := ParseChargeReference(ref)
	if err != nil {
		report.Unmatched = append(report.Unmatched, ref)
		return nil
	}
	charge, err := uc.charges.ChargeByShipment(ctx, shipmentID, agreementID)
	if errors.Is(err, domain.ErrNotFound) {
		report.Unmatched = append(report.Unmatched, ref)
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not get charge %s: %w", ref, err)
	}

	changed, err := uc.service.apply(ctx, charge, to, true)
	switch {
	case errors.Is(err, domain.ErrIllegalChargeTransition):
		report.Rejected = append(report.Rejected, ref)
		return nil
	case err != nil:
		return err
	case changed:
		report.ChargesUpdated++
	}
	return nil
}

func mandateOutcome(m autogiro.MandateRecord) (domain.MandateStatus, bool) {
	if m.Cancelled() {
		return domain.MandateCancelled, true
	}
	switch m.InfoCode {
	case autogiro.MandateAddition, autogiro.MandateBankResponseNew:
		if m.Accepted != nil {
			return domain.MandateActive, true
		}
		return domain.MandateRejected, true
	}
	return "", false
}

func (uc *AutoGiroUseCase) applyMandates(ctx context.Context, r *autogiro.MandateReport, report *domain.AutoGiroProcessReport) error {
	for _, rec := range r.Mandates {
		status, ok := mandateOutcome(rec)
		if !ok {
			continue
		}
		m, err := uc.mandates.MandateByPayerNumber(ctx, payerKey(rec.PayerNumber))
		if errors.Is(err, domain.ErrNotFound) {
			report.Unmatched = append(report.Unmatched, rec.PayerNumber)
			continue
		}
		if err != nil {
			return fmt.Errorf("could not get mandate for payer %s: %w", rec.PayerNumber, err)
		}
		if m.Status == status {
			continue
		}
		if err := uc.mandates.UpdateMandateStatus(ctx, m.ID, status); err != nil {
			return fmt.Errorf("could not update mandate %d: %w", m.ID, err)
		}
		report.MandatesUpdated++
	}
	return nil
}

func (uc *AutoGiroUseCase) applyEMandates(ctx context.Context, r *autogiro.EMandateReport, report *domain.AutoGiroProcessReport) error {
	now := uc.clock.Now()
	for _, e := range r.EMandates {
		payer := payerKey(e.PayerNumber)
		_, err := uc.mandates.MandateByPayerNumber(ctx, payer)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("could not get mandate for payer %s: %w", payer, err)
		}
		_, err = uc.mandates.AddMandate(ctx, &domain.Mandate{
			PayerNumber: payer,
			BankAccount: e.BankAccount,
			SSN:         e.SSN,
			Status:      domain.MandateNew,
			Created:     now,
			LastUpdated: now,
		})
		if err != nil {
			return fmt.Errorf("could not add mandate for payer %s: %w", payer, err)
		}
		report.MandatesUpdated++
	}
	return nil
}
