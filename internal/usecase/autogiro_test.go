package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giro-settlement/internal/autogiro"
	"giro-settlement/internal/calendar"
	"giro-settlement/internal/domain"
	"giro-settlement/internal/usecase"
	mock_usecase "giro-settlement/internal/usecase/mocks"
)

var autoGiroNow = time.Date(2023, 6, 5, 9, 30, 0, 0, time.UTC)

type autoGiroFixture struct {
	agreements *mock_usecase.MockAgreementStore
	charges    *mock_usecase.MockChargeStore
	mandates   *mock_usecase.MockMandateStore
	shipments  *mock_usecase.MockShipmentStore
	delivery   *mock_usecase.MockDeliveryChannel
	uc         *usecase.AutoGiroUseCase
}

func newAutoGiroFixture(t *testing.T, ctrl *gomock.Controller) *autoGiroFixture {
	t.Helper()
	f := &autoGiroFixture{
		agreements: mock_usecase.NewMockAgreementStore(ctrl),
		charges:    mock_usecase.NewMockChargeStore(ctrl),
		mandates:   mock_usecase.NewMockMandateStore(ctrl),
		shipments:  mock_usecase.NewMockShipmentStore(ctrl),
		delivery:   mock_usecase.NewMockDeliveryChannel(ctrl),
	}
	clock := mock_usecase.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(autoGiroNow).AnyTimes()

	builder, err := autogiro.NewFileBuilder(autogiro.Config{CustomerNumber: "471117", BankgiroNumber: "9902346"})
	require.NoError(t, err)

	f.uc, err = usecase.NewAutoGiroUseCase(f.agreements, f.charges, f.mandates, f.shipments, f.delivery,
		calendar.NewFixed(), builder, usecase.WithClock(clock))
	require.NoError(t, err)
	return f
}

func autoGiroAgreement(id int64, amount int64, paymentDay int, active bool) domain.DueAgreement {
	return domain.DueAgreement{
		Agreement: domain.Agreement{
			ID:         id,
			Scheme:     domain.SchemeAutoGiro,
			KID:        "0000000000000" + string(rune('0'+id%10)),
			DonorID:    id,
			Amount:     amount,
			PaymentDay: paymentDay,
			Active:     active,
			Created:    day(2023, 1, 10),
		},
	}
}

func TestChargeReference(t *testing.T) {
	ref := usecase.ChargeReference(41, 12)
	assert.Equal(t, "41-12", ref)

	s, a, err := usecase.ParseChargeReference(ref + "   ")
	require.NoError(t, err)
	assert.Equal(t, int64(41), s)
	assert.Equal(t, int64(12), a)

	for _, bad := range []string{"", "4112", "x-1", "1-y", "INBETALNING1"} {
		_, _, err := usecase.ParseChargeReference(bad)
		assert.ErrorIs(t, err, usecase.ErrInvalidReference, bad)
	}
}

func TestAutoGiroUseCase_SendClaims(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newAutoGiroFixture(t, ctrl)

	recurring := autoGiroAgreement(10, 10000, 20, true)
	initial := autoGiroAgreement(11, 20000, 0, false)
	amendedAgreement := autoGiroAgreement(12, 7500, 15, true)
	amendedCharge := domain.Charge{
		ID:          99,
		AgreementID: 12,
		ShipmentID:  40,
		Amount:      5000,
		ClaimDate:   day(2023, 6, 15),
		Status:      domain.ChargePending,
		Type:        domain.ChargeRecurring,
	}

	f.agreements.EXPECT().AgreementsToCharge(gomock.Any(), day(2023, 6, 5)).
		Return([]domain.DueAgreement{recurring, initial, amendedAgreement}, nil)
	f.mandates.EXPECT().MandatesByStatus(gomock.Any(), domain.MandateNew).
		Return([]domain.Mandate{{ID: 7, PayerNumber: "42", BankAccount: "3300001234567", SSN: "198001011234", Status: domain.MandateNew}}, nil)
	f.charges.EXPECT().AmendedCharges(gomock.Any()).
		Return([]domain.AmendedCharge{{Charge: amendedCharge, Agreement: amendedAgreement}}, nil)

	f.shipments.EXPECT().CreateShipment(gomock.Any(), domain.Shipment{
		Scheme:    domain.SchemeAutoGiro,
		NumClaims: 3,
		DueDate:   day(2023, 6, 5),
		CreatedAt: autoGiroNow,
	}).Return(int64(41), nil)

	var file string
	f.delivery.EXPECT().Upload(gomock.Any(), "BFEP.IAGAG.41.230605.093000", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte) error {
			file = string(data)
			return nil
		})

	f.charges.EXPECT().UpdateCharge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *domain.Charge) error {
			assert.Equal(t, int64(99), c.ID)
			assert.Equal(t, domain.ChargeCancelled, c.Status)
			return nil
		})

	var created []domain.Charge
	f.charges.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *domain.Charge) (int64, error) {
			created = append(created, *c)
			return int64(100 + len(created)), nil
		}).Times(3)
	f.mandates.EXPECT().UpdateMandateStatus(gomock.Any(), int64(7), domain.MandatePending).Return(nil)

	report, err := f.uc.SendClaims(context.Background(), autoGiroNow)
	require.NoError(t, err)

	assert.Equal(t, int64(41), report.ShipmentID)
	assert.Equal(t, 3, report.Charges)
	assert.Equal(t, 1, report.MandatesConfirmed)
	assert.Equal(t, 1, report.Amended)
	assert.Equal(t, "BFEP.IAGAG.41.230605.093000", report.FileName)

	lines := strings.Split(strings.TrimSuffix(file, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "0120230605AUTOGIRO"))
	assert.True(t, strings.HasPrefix(lines[1], "0400099023460000000000000042"))
	assert.True(t, strings.HasPrefix(lines[2], "2500099023460000000000000012202306150000000050008"))
	assert.Contains(t, lines[2], "40-12")
	assert.True(t, strings.HasPrefix(lines[3], "82202306150"))
	assert.Contains(t, lines[3], "41-12")
	assert.True(t, strings.HasPrefix(lines[4], "82202306200"))
	assert.True(t, strings.HasPrefix(lines[5], "82202306300"))

	require.Len(t, created, 3)
	assert.Equal(t, int64(12), created[0].AgreementID)
	assert.Equal(t, int64(7500), created[0].Amount)
	assert.Equal(t, domain.ChargeRecurring, created[1].Type)
	assert.Equal(t, day(2023, 6, 20), created[1].ClaimDate)
	assert.Equal(t, domain.ChargeInitial, created[2].Type)
	assert.Equal(t, day(2023, 6, 30), created[2].ClaimDate)
	for _, c := range created {
		assert.Equal(t, int64(41), c.ShipmentID)
		assert.Equal(t, domain.ChargePending, c.Status)
	}
}

func TestAutoGiroUseCase_SendClaimsNothingToSend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newAutoGiroFixture(t, ctrl)

	f.agreements.EXPECT().AgreementsToCharge(gomock.Any(), gomock.Any()).
		Return([]domain.DueAgreement{autoGiroAgreement(10, 0, 20, true)}, nil)
	f.mandates.EXPECT().MandatesByStatus(gomock.Any(), domain.MandateNew).Return(nil, nil)
	// Claim on the 6th cannot be amended on the 5th: no banking day in between.
	f.charges.EXPECT().AmendedCharges(gomock.Any()).Return([]domain.AmendedCharge{{
		Charge:    domain.Charge{ID: 1, Status: domain.ChargePending},
		Agreement: autoGiroAgreement(12, 7500, 6, true),
	}}, nil)

	report, err := f.uc.SendClaims(context.Background(), autoGiroNow)
	require.NoError(t, err)
	assert.Zero(t, report.ShipmentID)
	assert.Zero(t, report.Charges)
}

func TestAutoGiroUseCase_SendClaimsRemovesShipmentOnFailure(t *testing.T) {
	tests := []struct {
		name     string
		mandates []domain.Mandate
		upload   error
	}{
		{
			name:     "file cannot be built",
			mandates: []domain.Mandate{{ID: 7, PayerNumber: "not-a-number"}},
		},
		{
			name:   "upload fails",
			upload: errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			f := newAutoGiroFixture(t, ctrl)

			f.agreements.EXPECT().AgreementsToCharge(gomock.Any(), gomock.Any()).
				Return([]domain.DueAgreement{autoGiroAgreement(10, 10000, 20, true)}, nil)
			f.mandates.EXPECT().MandatesByStatus(gomock.Any(), domain.MandateNew).Return(tt.mandates, nil)
			f.charges.EXPECT().AmendedCharges(gomock.Any()).Return(nil, nil)
			f.shipments.EXPECT().CreateShipment(gomock.Any(), gomock.Any()).Return(int64(41), nil)
			if tt.upload != nil {
				f.delivery.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.upload)
			}
			f.shipments.EXPECT().RemoveShipment(gomock.Any(), int64(41)).Return(nil)

			report, err := f.uc.SendClaims(context.Background(), autoGiroNow)
			assert.Error(t, err)
			assert.Nil(t, report)
		})
	}
}

var processPaymentsFile = strings.Join([]string{
	"01AUTOGIRO              20230605            BET. SPEC & STOPP TK4711170009902346",
	"1599000000000009902346               2023060500001000000000000010000   00000001 ",
	"82202306200    0000000000000010000000010000000990234641-10                     0",
	"82202306200    0000000000000011000000005000000990234641-11                     1",
	"82202306200    00000000000000130000000003000009902346bogus                     2",
	"82202306200    000000000000000900000000030000099023469-9                       2",
	"1799000000000009902346               2023060500002000000000000005000   00000001 ",
	"77202305010    0000000000000012000000005000000990234640-12           2023060301 ",
	"09202306059900                                                                  ",
}, "\n") + "\n"

func TestAutoGiroUseCase_ProcessPaymentSpecification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newAutoGiroFixture(t, ctrl)

	f.charges.EXPECT().ChargeByShipment(gomock.Any(), int64(41), int64(10)).
		Return(&domain.Charge{ID: 100, AgreementID: 10, Status: domain.ChargePending, Type: domain.ChargeInitial}, nil)
	f.charges.EXPECT().ChargeByShipment(gomock.Any(), int64(41), int64(11)).
		Return(&domain.Charge{ID: 101, AgreementID: 11, Status: domain.ChargeDue, Type: domain.ChargeRecurring}, nil)
	f.charges.EXPECT().ChargeByShipment(gomock.Any(), int64(9), int64(9)).Return(nil, domain.ErrNotFound)
	f.charges.EXPECT().ChargeByShipment(gomock.Any(), int64(40), int64(12)).
		Return(&domain.Charge{ID: 99, AgreementID: 12, Status: domain.ChargeCancelled, Type: domain.ChargeRecurring}, nil)

	statuses := map[int64]domain.ChargeStatus{}
	f.charges.EXPECT().UpdateCharge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *domain.Charge) error {
			statuses[c.ID] = c.Status
			return nil
		}).Times(2)
	f.agreements.EXPECT().SetActive(gomock.Any(), int64(10), true).Return(nil)

	file, report, err := f.uc.ProcessFile(context.Background(), []byte(processPaymentsFile))
	require.NoError(t, err)
	assert.Equal(t, autogiro.KindPaymentSpecification, file.Kind())

	assert.Equal(t, &domain.AutoGiroProcessReport{
		Layout:            "payment_specification",
		ChargesUpdated:    2,
		PaymentsConfirmed: 1,
		Unmatched:         []string{"bogus", "9-9"},
		Rejected:          []string{"40-12"},
	}, report)
	assert.Equal(t, map[int64]domain.ChargeStatus{
		100: domain.ChargeCharged,
		101: domain.ChargeFailed,
	}, statuses)
}

func TestAutoGiroUseCase_ProcessMandates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newAutoGiroFixture(t, ctrl)

	data := strings.Join([]string{
		"01AUTOGIRO              20230605            AG-MEDAVI           4711170009902346",
		"73000990234600000000000000120003300001234567198001011234     04  20230601       ",
		"73000990234600000000000000130000000000000000                 033300000000       ",
		"09202306059900                                                                  ",
	}, "\n")

	f.mandates.EXPECT().MandateByPayerNumber(gomock.Any(), "12").
		Return(&domain.Mandate{ID: 1, PayerNumber: "12", Status: domain.MandatePending}, nil)
	f.mandates.EXPECT().UpdateMandateStatus(gomock.Any(), int64(1), domain.MandateActive).Return(nil)
	f.mandates.EXPECT().MandateByPayerNumber(gomock.Any(), "13").Return(nil, domain.ErrNotFound)

	_, report, err := f.uc.ProcessFile(context.Background(), []byte(data))
	require.NoError(t, err)
	assert.Equal(t, 1, report.MandatesUpdated)
	assert.Equal(t, []string{"0000000000000013"}, report.Unmatched)
}

func TestAutoGiroUseCase_ProcessEMandates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newAutoGiroFixture(t, ctrl)

	data := strings.Join([]string{
		"512023060599000009902346AG-EMEDGIV                                              ",
		"520009902346 0000000000000420000003300001234198001011234     0                  ",
		"592023060599000000001                                                           ",
	}, "\n")

	f.mandates.EXPECT().MandateByPayerNumber(gomock.Any(), "42").Return(nil, domain.ErrNotFound)
	f.mandates.EXPECT().AddMandate(gomock.Any(), &domain.Mandate{
		PayerNumber: "42",
		BankAccount: "0000003300001234",
		SSN:         "198001011234",
		Status:      domain.MandateNew,
		Created:     autoGiroNow,
		LastUpdated: autoGiroNow,
	}).Return(int64(8), nil)

	_, report, err := f.uc.ProcessFile(context.Background(), []byte(data))
	require.NoError(t, err)
	assert.Equal(t, "emandates", report.Layout)
	assert.Equal(t, 1, report.MandatesUpdated)
}

func TestAutoGiroUseCase_ProcessCancellations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newAutoGiroFixture(t, ctrl)

	data := strings.Join([]string{
		"01AUTOGIRO              20230605            MAKULERING/ÄNDRING  4711170009902346",
		"2520230620000000000000001082000000010000                41-10           23      ",
		"09202306059900                                                                  ",
	}, "\n")

	f.charges.EXPECT().ChargeByShipment(gomock.Any(), int64(41), int64(10)).
		Return(&domain.Charge{ID: 100, AgreementID: 10, Status: domain.ChargePending, Type: domain.ChargeRecurring}, nil)
	f.charges.EXPECT().UpdateCharge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *domain.Charge) error {
			assert.Equal(t, domain.ChargeCancelled, c.Status)
			return nil
		})

	_, report, err := f.uc.ProcessFile(context.Background(), []byte(data))
	require.NoError(t, err)
	assert.Equal(t, 1, report.ChargesUpdated)
}

func TestAutoGiroUseCase_ProcessFileErrors(t *testing.T) {
	t.Run("unparseable file changes nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newAutoGiroFixture(t, ctrl)

		_, _, err := f.uc.ProcessFile(context.Background(), []byte("garbage\n"))
		assert.ErrorIs(t, err, autogiro.ErrUnknownLayout)
		assert.ErrorIs(t, err, usecase.ErrUnparsableFile)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newAutoGiroFixture(t, ctrl)

		f.charges.EXPECT().ChargeByShipment(gomock.Any(), int64(41), int64(10)).Return(nil, errors.New("db down"))

		_, _, err := f.uc.ProcessFile(context.Background(), []byte(processPaymentsFile))
		assert.ErrorContains(t, err, "db down")
	})
}
