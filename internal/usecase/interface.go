package usecase

import (
	"context"
	"time"

	"giro-settlement/internal/domain"
)

// The usecase layer depends on these interfaces, not on concrete stores or
// transports. Lookups of a single record return domain.ErrNotFound when the
// record does not exist.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go

// AgreementStore reads and updates direct debit agreements.
type AgreementStore interface {
	// AgreementsByPaymentDay returns active agreements of the scheme charged
	// on the given day of the month, with their donors.
	AgreementsByPaymentDay(ctx context.Context, scheme domain.Scheme, day int) ([]domain.DueAgreement, error)
	// AgreementsToCharge returns AutoGiro agreements with an active mandate
	// and no charge in the month of the given date.
	AgreementsToCharge(ctx context.Context, month time.Time) ([]domain.DueAgreement, error)
	AgreementByKID(ctx context.Context, scheme domain.Scheme, kid string) (*domain.Agreement, error)
	CreateAgreement(ctx context.Context, agreement *domain.Agreement) (int64, error)
	UpdateNotice(ctx context.Context, id int64, notice bool) error
	SetActive(ctx context.Context, id int64, active bool) error
	CancelAgreement(ctx context.Context, id int64, at time.Time) error
}

// DonationStore records money received.
type DonationStore interface {
	LatestDonation(ctx context.Context, kid string) (*domain.Donation, error)
	// RecordTransactions stores OCR transactions not seen before and returns
	// how many were new.
	RecordTransactions(ctx context.Context, txs []domain.OCRTransaction) (int, error)
}

// ShipmentStore numbers the files sent to the banks.
type ShipmentStore interface {
	CreateShipment(ctx context.Context, shipment domain.Shipment) (int64, error)
	RemoveShipment(ctx context.Context, id int64) error
	ShipmentsByDueDate(ctx context.Context, scheme domain.Scheme, dueDate time.Time) ([]domain.Shipment, error)
}

// ChargeStore persists AutoGiro charges.
type ChargeStore interface {
	CreateCharge(ctx context.Context, charge *domain.Charge) (int64, error)
	Charge(ctx context.Context, id int64) (*domain.Charge, error)
	// ChargeByShipment finds the charge ordered for an agreement in a shipment.
	ChargeByShipment(ctx context.Context, shipmentID, agreementID int64) (*domain.Charge, error)
	UpdateCharge(ctx context.Context, charge *domain.Charge) error
	// AmendedCharges returns pending charges whose agreement amount or
	// payment day changed after they were ordered.
	AmendedCharges(ctx context.Context) ([]domain.AmendedCharge, error)
}

// MandateStore persists AutoGiro mandates.
type MandateStore interface {
	MandatesByStatus(ctx context.Context, status domain.MandateStatus) ([]domain.Mandate, error)
	MandateByPayerNumber(ctx context.Context, payerNumber string) (*domain.Mandate, error)
	AddMandate(ctx context.Context, mandate *domain.Mandate) (int64, error)
	UpdateMandateStatus(ctx context.Context, id int64, status domain.MandateStatus) error
}

// DeliveryChannel moves files to and from the bank.
type DeliveryChannel interface {
	Upload(ctx context.Context, name string, data []byte) error
	// ListReceipts returns the names in the receipt directory. An empty
	// directory is not an error.
	ListReceipts(ctx context.Context) ([]string, error)
	// LatestOCRFile returns the newest inbound OCR file, or nil when there
	// is none.
	LatestOCRFile(ctx context.Context) (*domain.InboundFile, error)
}

// Notifier tells donors who asked for it that a claim is coming.
type Notifier interface {
	NotifyClaim(ctx context.Context, agreement domain.DueAgreement, dueDate time.Time) error
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
