package httpapi_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giro-settlement/internal/app"
	"giro-settlement/internal/autogiro"
	"giro-settlement/internal/domain"
	"giro-settlement/internal/httpapi"
	mock_httpapi "giro-settlement/internal/httpapi/mocks"
	"giro-settlement/internal/jobs"
	"giro-settlement/internal/usecase"
)

var _ httpapi.Operations = (*app.Tasks)(nil)

var runDate = time.Date(2023, 5, 11, 0, 0, 0, 0, time.UTC)

func newHandler(t *testing.T, ops httpapi.Operations) http.Handler {
	t.Helper()
	oslo, err := time.LoadLocation("Europe/Oslo")
	require.NoError(t, err)
	handler, err := httpapi.New(httpapi.Config{
		Ops:      ops,
		Location: oslo,
		// 23:30 UTC is already the next day in Oslo.
		Now: func() time.Time { return time.Date(2023, 5, 10, 23, 30, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return handler
}

func do(t *testing.T, h http.Handler, method, target, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestNew_RequiresOperations(t *testing.T) {
	_, err := httpapi.New(httpapi.Config{})
	assert.Error(t, err)
}

func TestHealthAndMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h := newHandler(t, mock_httpapi.NewMockOperations(ctrl))

	rec := do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	rec = do(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDueDates(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantDate time.Time
		wantCode int
	}{
		{name: "explicit date", target: "/duedates?date=2023-05-11", wantDate: runDate, wantCode: http.StatusOK},
		{name: "today in the configured zone", target: "/duedates", wantDate: runDate, wantCode: http.StatusOK},
		{name: "malformed date", target: "/duedates?date=11.05.2023", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			ops := mock_httpapi.NewMockOperations(ctrl)
			if tt.wantCode == http.StatusOK {
				ops.EXPECT().DueDates(tt.wantDate).Return([]time.Time{
					time.Date(2023, 5, 17, 0, 0, 0, 0, time.UTC),
					time.Date(2023, 5, 18, 0, 0, 0, 0, time.UTC),
				})
			}

			rec := do(t, newHandler(t, ops), http.MethodGet, tt.target, "", nil)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode == http.StatusOK {
				body := decode(t, rec)
				assert.Equal(t, "2023-05-11", body["date"])
				assert.Equal(t, []any{"2023-05-17", "2023-05-18"}, body["due_dates"])
			}
		})
	}
}

func TestScheduledRuns(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		expect   func(ops *mock_httpapi.MockOperationsMockRecorder)
		wantCode int
	}{
		{
			name:   "avtalegiro claims with notices",
			target: "/scheduled/avtalegiro?date=2023-05-11&notify=true",
			expect: func(ops *mock_httpapi.MockOperationsMockRecorder) {
				ops.SendAvtaleGiroClaims(gomock.Any(), runDate, true).Return(&domain.ClaimRunReport{RunID: "r1", Date: runDate}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "avtalegiro claims already running",
			target: "/scheduled/avtalegiro?date=2023-05-11",
			expect: func(ops *mock_httpapi.MockOperationsMockRecorder) {
				ops.SendAvtaleGiroClaims(gomock.Any(), runDate, false).Return(nil, jobs.ErrBusy)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "retry failure",
			target: "/scheduled/avtalegiro/retry?date=2023-05-11",
			expect: func(ops *mock_httpapi.MockOperationsMockRecorder) {
				ops.RetryAvtaleGiro(gomock.Any(), runDate).Return(nil, errors.New("sftp down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name:   "ocr",
			target: "/scheduled/ocr",
			expect: func(ops *mock_httpapi.MockOperationsMockRecorder) {
				ops.ApplyOCR(gomock.Any()).Return(&domain.AgreementUpdateReport{File: "OCR.1", Created: 1}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:   "autogiro claims",
			target: "/scheduled/autogiro?date=2023-05-11",
			expect: func(ops *mock_httpapi.MockOperationsMockRecorder) {
				ops.SendAutoGiroClaims(gomock.Any(), runDate).Return(&domain.AutoGiroRunReport{RunID: "r2", Charges: 3}, nil)
			},
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			ops := mock_httpapi.NewMockOperations(ctrl)
			tt.expect(ops.EXPECT())

			rec := do(t, newHandler(t, ops), http.MethodPost, tt.target, "", nil)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestAutoGiroFiles(t *testing.T) {
	parsed := &autogiro.ParsedFile{
		Opening: autogiro.Opening{Code: "01", BankgiroNumber: "9902346"},
		Report:  &autogiro.MandateReport{},
	}
	data := []byte("01 mandate report\n")

	t.Run("json summary", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ops := mock_httpapi.NewMockOperations(ctrl)
		ops.EXPECT().ProcessAutoGiroFile(gomock.Any(), "BFEP.UAGAG.txt", data).
			Return(parsed, &domain.AutoGiroProcessReport{Layout: "mandates", MandatesUpdated: 2}, nil)

		rec := do(t, newHandler(t, ops), http.MethodPost, "/autogiro/files?name=BFEP.UAGAG.txt", "application/octet-stream", data)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode(t, rec)
		assert.Equal(t, "mandates", body["kind"])
		assert.Equal(t, float64(2), body["report"].(map[string]any)["mandates_updated"])
	})

	t.Run("workbook", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ops := mock_httpapi.NewMockOperations(ctrl)
		ops.EXPECT().ProcessAutoGiroFile(gomock.Any(), "BFEP.UAGAG.txt", data).
			Return(parsed, &domain.AutoGiroProcessReport{Layout: "mandates"}, nil)

		rec := do(t, newHandler(t, ops), http.MethodPost, "/autogiro/files/report?name=BFEP.UAGAG.txt", "application/octet-stream", data)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
	})

	t.Run("unparsable file", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ops := mock_httpapi.NewMockOperations(ctrl)
		ops.EXPECT().ProcessAutoGiroFile(gomock.Any(), gomock.Any(), data).
			Return(nil, nil, fmt.Errorf("%w: unknown layout", usecase.ErrUnparsableFile))

		rec := do(t, newHandler(t, ops), http.MethodPost, "/autogiro/files", "application/octet-stream", data)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		rec := do(t, newHandler(t, mock_httpapi.NewMockOperations(ctrl)), http.MethodPost, "/autogiro/files", "application/octet-stream", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChargeStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "applied", wantCode: http.StatusOK},
		{name: "unknown charge", err: fmt.Errorf("could not get charge 7: %w", domain.ErrNotFound), wantCode: http.StatusNotFound},
		{name: "illegal transition", err: domain.ErrIllegalChargeTransition, wantCode: http.StatusConflict},
		{name: "unknown status", err: domain.ErrUnknownChargeStatus, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			ops := mock_httpapi.NewMockOperations(ctrl)
			var charge *domain.Charge
			if tt.err == nil {
				charge = &domain.Charge{ID: 7, Status: domain.ChargeCharged}
			}
			ops.EXPECT().UpdateChargeStatus(gomock.Any(), int64(7), "CHARGED").Return(charge, tt.err)

			rec := do(t, newHandler(t, ops), http.MethodPut, "/charges/7/status", "application/json", []byte(`{"status":"CHARGED"}`))
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.err == nil {
				assert.Equal(t, "CHARGED", decode(t, rec)["status"])
			}
		})
	}
}

func TestAgreementTerms(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ops := mock_httpapi.NewMockOperations(ctrl)
		ops.EXPECT().UpdateTerms(gomock.Any(), int64(3), int64(30000), 15).Return(nil)

		rec := do(t, newHandler(t, ops), http.MethodPatch, "/agreements/3", "application/json", []byte(`{"amount":30000,"payment_day":15}`))
		assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	})

	t.Run("payment day out of range", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		rec := do(t, newHandler(t, mock_httpapi.NewMockOperations(ctrl)), http.MethodPatch, "/agreements/3", "application/json", []byte(`{"amount":30000,"payment_day":31}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unknown agreement", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		ops := mock_httpapi.NewMockOperations(ctrl)
		ops.EXPECT().UpdateTerms(gomock.Any(), int64(9), int64(100), 0).Return(domain.ErrNotFound)

		rec := do(t, newHandler(t, ops), http.MethodPatch, "/agreements/9", "application/json", []byte(`{"amount":100,"payment_day":0}`))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
