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

	"giro-settlement/internal/domain"
	"giro-settlement/internal/usecase"
	mock_usecase "giro-settlement/internal/usecase/mocks"
)

var ocrFile = strings.Join([]string{
	"NY000010000080800000123002304560000000000000000000000000000000000000000000000000",
	"NY210020000000000000000015062995960000000000000000000000000000000000000000000000",
	"NY21947000000011          002556289731589J00000000000000000000000000000000000000",
	"NY21947000000022          000638723319577N00000000000000000000000000000000000000",
	"NY21947000000030          000675978627833N00000000000000000000000000000000000000",
	"NY090020000080800001234000000000000000000000000000000000000000000000000000000000",
	"NY09103000000011605230000000000000000000000050000          002556289731589000000",
	"NY091031000000100000000001234567890000000000000000000000000000000000000000000000",
	"NY09213000000021605230000000000000000000000340050          000638723319577000000",
	"NY092131000001200000000009876543210000000000000000000000000000000000000000000000",
	"NY000089000000040000000000000000000000000000000000000000000000000000000000000000",
}, "\r\n") + "\r\n"

var ocrNow = time.Date(2023, 5, 16, 20, 0, 0, 0, time.UTC)

type agreementFixture struct {
	agreements *mock_usecase.MockAgreementStore
	donations  *mock_usecase.MockDonationStore
	delivery   *mock_usecase.MockDeliveryChannel
	uc         *usecase.AgreementUseCase
}

func newAgreementFixture(t *testing.T, ctrl *gomock.Controller) *agreementFixture {
	t.Helper()
	f := &agreementFixture{
		agreements: mock_usecase.NewMockAgreementStore(ctrl),
		donations:  mock_usecase.NewMockDonationStore(ctrl),
		delivery:   mock_usecase.NewMockDeliveryChannel(ctrl),
	}
	clock := mock_usecase.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(ocrNow).AnyTimes()

	var err error
	f.uc, err = usecase.NewAgreementUseCase(f.agreements, f.donations, f.delivery, usecase.WithClock(clock))
	require.NoError(t, err)
	return f
}

func TestAgreementUseCase_ApplyOCRFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newAgreementFixture(t, ctrl)

	f.donations.EXPECT().RecordTransactions(gomock.Any(), gomock.Len(2)).Return(2, nil)

	f.agreements.EXPECT().AgreementByKID(gomock.Any(), domain.SchemeAvtaleGiro, "002556289731589").
		Return(&domain.Agreement{ID: 1, KID: "002556289731589", Active: false}, nil)
	f.agreements.EXPECT().UpdateNotice(gomock.Any(), int64(1), true).Return(nil)
	f.agreements.EXPECT().SetActive(gomock.Any(), int64(1), true).Return(nil)

	f.agreements.EXPECT().AgreementByKID(gomock.Any(), domain.SchemeAvtaleGiro, "000638723319577").
		Return(&domain.Agreement{ID: 2, KID: "000638723319577", Active: true}, nil)
	f.agreements.EXPECT().CancelAgreement(gomock.Any(), int64(2), ocrNow).Return(nil)

	report, err := f.uc.ApplyOCRFile(context.Background(), "OCR.D160523", []byte(ocrFile))
	require.NoError(t, err)
	assert.Equal(t, &domain.AgreementUpdateReport{
		File:         "OCR.D160523",
		Updates:      3,
		Updated:      1,
		Activated:    1,
		Cancelled:    1,
		Skipped:      1,
		Transactions: 2,
	}, report)
}

func TestAgreementUseCase_ApplyOCRFileCreatesAgreements(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newAgreementFixture(t, ctrl)

	f.donations.EXPECT().RecordTransactions(gomock.Any(), gomock.Any()).Return(0, nil)

	f.agreements.EXPECT().AgreementByKID(gomock.Any(), domain.SchemeAvtaleGiro, "002556289731589").
		Return(nil, domain.ErrNotFound)
	f.donations.EXPECT().LatestDonation(gomock.Any(), "002556289731589").
		Return(&domain.Donation{ID: 9, DonorID: 77, KID: "002556289731589", Amount: 30000}, nil)
	f.agreements.EXPECT().CreateAgreement(gomock.Any(), &domain.Agreement{
		Scheme:      domain.SchemeAvtaleGiro,
		KID:         "002556289731589",
		DonorID:     77,
		Amount:      30000,
		PaymentDay:  16,
		Notice:      true,
		Created:     ocrNow,
		LastUpdated: ocrNow,
	}).Return(int64(12), nil)
	f.agreements.EXPECT().SetActive(gomock.Any(), int64(12), true).Return(nil)

	// Terminating an agreement we never stored cannot succeed.
	f.agreements.EXPECT().AgreementByKID(gomock.Any(), domain.SchemeAvtaleGiro, "000638723319577").
		Return(nil, domain.ErrNotFound)

	report, err := f.uc.ApplyOCRFile(context.Background(), "OCR.D160523", []byte(ocrFile))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Activated)
	assert.Equal(t, []string{"000638723319577"}, report.Failed)
}

func TestAgreementUseCase_ApplyOCRFileWithoutDonation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newAgreementFixture(t, ctrl)

	f.donations.EXPECT().RecordTransactions(gomock.Any(), gomock.Any()).Return(2, nil)
	f.agreements.EXPECT().AgreementByKID(gomock.Any(), gomock.Any(), "002556289731589").Return(nil, domain.ErrNotFound)
	f.donations.EXPECT().LatestDonation(gomock.Any(), "002556289731589").Return(nil, domain.ErrNotFound)
	f.agreements.EXPECT().AgreementByKID(gomock.Any(), gomock.Any(), "000638723319577").
		Return(&domain.Agreement{ID: 2}, nil)
	f.agreements.EXPECT().CancelAgreement(gomock.Any(), int64(2), ocrNow).Return(nil)

	report, err := f.uc.ApplyOCRFile(context.Background(), "OCR.D160523", []byte(ocrFile))
	require.NoError(t, err)
	assert.Equal(t, []string{"002556289731589"}, report.Failed)
	assert.Zero(t, report.Created)
}

func TestAgreementUseCase_ApplyOCRFileErrors(t *testing.T) {
	t.Run("malformed file stores nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newAgreementFixture(t, ctrl)

		_, err := f.uc.ApplyOCRFile(context.Background(), "bad", []byte("NY21947000000011          0025562897\n"))
		assert.Error(t, err)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newAgreementFixture(t, ctrl)

		f.donations.EXPECT().RecordTransactions(gomock.Any(), gomock.Any()).Return(2, nil)
		f.agreements.EXPECT().AgreementByKID(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		_, err := f.uc.ApplyOCRFile(context.Background(), "OCR", []byte(ocrFile))
		assert.ErrorContains(t, err, "db down")
	})
}

func TestAgreementUseCase_ApplyLatestOCRFile(t *testing.T) {
	t.Run("no file", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newAgreementFixture(t, ctrl)

		f.delivery.EXPECT().LatestOCRFile(gomock.Any()).Return(nil, nil)

		report, err := f.uc.ApplyLatestOCRFile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &domain.AgreementUpdateReport{}, report)
	})

	t.Run("fetch fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newAgreementFixture(t, ctrl)

		f.delivery.EXPECT().LatestOCRFile(gomock.Any()).Return(nil, errors.New("timeout"))

		_, err := f.uc.ApplyLatestOCRFile(context.Background())
		assert.ErrorContains(t, err, "could not fetch OCR file")
	})

	t.Run("file is applied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newAgreementFixture(t, ctrl)

		data := "NY09103000000011605230000000000000000000000050000          002556289731589000000\n" +
			"NY091031000000100000000001234567890000000000000000000000000000000000000000000000\n"
		f.delivery.EXPECT().LatestOCRFile(gomock.Any()).
			Return(&domain.InboundFile{Name: "OCR.D160523", Data: []byte(data)}, nil)
		f.donations.EXPECT().RecordTransactions(gomock.Any(), gomock.Len(1)).Return(1, nil)

		report, err := f.uc.ApplyLatestOCRFile(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "OCR.D160523", report.File)
		assert.Equal(t, 1, report.Transactions)
	})
}
