package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giro-settlement/internal/domain"
	"giro-settlement/internal/usecase"
	mock_usecase "giro-settlement/internal/usecase/mocks"
)

func TestChargeService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		charge     *domain.Charge
		getErr     error
		updateErr  error
		wantUpdate bool
		activate   bool
		wantStatus domain.ChargeStatus
		wantErr    error
	}{
		{
			name:       "due charge is charged",
			status:     "CHARGED",
			charge:     &domain.Charge{ID: 1, AgreementID: 5, Status: domain.ChargeDue, Type: domain.ChargeRecurring},
			wantUpdate: true,
			wantStatus: domain.ChargeCharged,
		},
		{
			name:       "initial charge activates its agreement",
			status:     "charged",
			charge:     &domain.Charge{ID: 1, AgreementID: 5, Status: domain.ChargeReserved, Type: domain.ChargeInitial},
			wantUpdate: true,
			activate:   true,
			wantStatus: domain.ChargeCharged,
		},
		{
			name:       "same status is a no-op",
			status:     "DUE",
			charge:     &domain.Charge{ID: 1, Status: domain.ChargeDue, Type: domain.ChargeRecurring},
			wantStatus: domain.ChargeDue,
		},
		{
			name:    "unknown status is rejected before loading",
			status:  "SETTLED",
			wantErr: domain.ErrUnknownChargeStatus,
		},
		{
			name:    "backward transition is rejected",
			status:  "PENDING",
			charge:  &domain.Charge{ID: 1, Status: domain.ChargeDue, Type: domain.ChargeRecurring},
			wantErr: domain.ErrIllegalChargeTransition,
		},
		{
			name:    "missing charge",
			status:  "CHARGED",
			getErr:  domain.ErrNotFound,
			wantErr: domain.ErrNotFound,
		},
		{
			name:       "store failure",
			status:     "FAILED",
			charge:     &domain.Charge{ID: 1, Status: domain.ChargeDue, Type: domain.ChargeRecurring},
			wantUpdate: true,
			updateErr:  errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			charges := mock_usecase.NewMockChargeStore(ctrl)
			agreements := mock_usecase.NewMockAgreementStore(ctrl)
			svc, err := usecase.NewChargeService(charges, agreements)
			require.NoError(t, err)

			if tt.charge != nil || tt.getErr != nil {
				charges.EXPECT().Charge(gomock.Any(), int64(1)).Return(tt.charge, tt.getErr)
			}
			if tt.wantUpdate {
				charges.EXPECT().UpdateCharge(gomock.Any(), tt.charge).Return(tt.updateErr)
			}
			if tt.activate {
				agreements.EXPECT().SetActive(gomock.Any(), int64(5), true).Return(nil)
			}

			got, err := svc.UpdateStatus(context.Background(), 1, tt.status)
			if tt.wantErr != nil || tt.updateErr != nil {
				assert.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Nil(t, got)
				if tt.charge != nil {
					assert.NotEqual(t, domain.ChargeStatus(tt.status), tt.charge.Status)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestNewChargeService_NilDependencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := usecase.NewChargeService(nil, mock_usecase.NewMockAgreementStore(ctrl))
	assert.Error(t, err)
	_, err = usecase.NewChargeService(mock_usecase.NewMockChargeStore(ctrl), nil)
	assert.Error(t, err)
}
