package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"giro-settlement/internal/autogiro"
	"giro-settlement/internal/domain"
	"giro-settlement/internal/gateway"
	"giro-settlement/internal/jobs"
	"giro-settlement/internal/usecase"
)

//go:generate mockgen -destination=mocks/mock_operations.go -source=server.go

// Operations are the settlement tasks the API triggers.
type Operations interface {
	DueDates(today time.Time) []time.Time
	SendAvtaleGiroClaims(ctx context.Context, today time.Time, notify bool) (*domain.ClaimRunReport, error)
	RetryAvtaleGiro(ctx context.Context, today time.Time) (*domain.RetryReport, error)
	ApplyOCR(ctx context.Context) (*domain.AgreementUpdateReport, error)
	SendAutoGiroClaims(ctx context.Context, today time.Time) (*domain.AutoGiroRunReport, error)
	ProcessAutoGiroFile(ctx context.Context, name string, data []byte) (*autogiro.ParsedFile, *domain.AutoGiroProcessReport, error)
	UpdateChargeStatus(ctx context.Context, chargeID int64, status string) (*domain.Charge, error)
	UpdateTerms(ctx context.Context, agreementID int64, amount int64, paymentDay int) error
}

// Config for the HTTP API handler.
type Config struct {
	Ops Operations
	// Location is the time zone "today" is taken in when a request names no
	// date. Nil means UTC.
	Location *time.Location
	Now      func() time.Time
	Logger   *log.Logger
	// JWTSecret enables bearer token authentication. Empty leaves the API
	// open, for a listener bound to localhost.
	JWTSecret string
}

type server struct {
	ops    Operations
	loc    *time.Location
	now    func() time.Time
	logger *log.Logger
}

// New returns an HTTP handler exposing the settlement API, its OpenAPI
// document and the Prometheus metrics.
func New(cfg Config) (http.Handler, error) {
	if cfg.Ops == nil {
		return nil, errors.New("httpapi: nil operations")
	}
	s := &server{ops: cfg.Ops, loc: cfg.Location, now: cfg.Now, logger: cfg.Logger}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}

	router := chi.NewRouter()
	if cfg.JWTSecret != "" {
		router.Use(newAuthMiddleware(cfg.JWTSecret, s.logger))
	}
	router.Handle("/metrics", promhttp.Handler())
	api := humachi.New(router, huma.DefaultConfig("Giro settlement API", "1.0.0"))

	registerHealth(api)
	s.registerScheduled(api)
	s.registerAutoGiroFiles(api)
	s.registerCharges(api)
	s.registerAgreements(api)
	return router, nil
}

// today resolves the optional date parameter to a UTC midnight date.
func (s *server) today(date string) (time.Time, error) {
	if date == "" {
		now := s.now().In(s.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, huma.Error400BadRequest(fmt.Sprintf("invalid date %q, want YYYY-MM-DD", date))
	}
	return d, nil
}

// handleError maps domain and job errors onto HTTP statuses.
func (s *server) handleError(op string, err error) error {
	switch {
	case errors.Is(err, jobs.ErrBusy):
		return huma.Error409Conflict(op + " is already running")
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, domain.ErrIllegalChargeTransition), errors.Is(err, domain.ErrChargeTypeImmutable):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, domain.ErrUnknownChargeStatus), errors.Is(err, usecase.ErrUnparsableFile):
		return huma.Error400BadRequest(err.Error())
	}
	s.logger.Printf("httpapi: %s failed err=%v", op, err)
	return huma.Error500InternalServerError(op + " failed")
}

type dateInput struct {
	Date string `query:"date" doc:"Run date as YYYY-MM-DD, defaults to today"`
}

func registerHealth(api huma.API) {
	type healthOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*healthOutput, error) {
		out := &healthOutput{}
		out.Body.Status = "ok"
		return out, nil
	})
}

func (s *server) registerScheduled(api huma.API) {
	type dueDatesOutput struct {
		Body struct {
			Date     string   `json:"date"`
			DueDates []string `json:"due_dates"`
		}
	}
	huma.Register(api, huma.Operation{
		OperationID: "due-dates",
		Method:      http.MethodGet,
		Path:        "/duedates",
		Summary:     "AvtaleGiro due dates served by a claims run on the date",
	}, func(ctx context.Context, in *dateInput) (*dueDatesOutput, error) {
		today, err := s.today(in.Date)
		if err != nil {
			return nil, err
		}
		out := &dueDatesOutput{}
		out.Body.Date = today.Format(time.DateOnly)
		out.Body.DueDates = []string{}
		for _, d := range s.ops.DueDates(today) {
			out.Body.DueDates = append(out.Body.DueDates, d.Format(time.DateOnly))
		}
		return out, nil
	})

	type claimsInput struct {
		Date   string `query:"date" doc:"Run date as YYYY-MM-DD, defaults to today"`
		Notify bool   `query:"notify" doc:"Send claim notices to donors who asked for them"`
	}
	type claimsOutput struct {
		Body *domain.ClaimRunReport
	}
	huma.Register(api, huma.Operation{
		OperationID: "avtalegiro-claims",
		Method:      http.MethodPost,
		Path:        "/scheduled/avtalegiro",
		Summary:     "Send AvtaleGiro claim files",
		Errors:      []int{http.StatusBadRequest, http.StatusConflict, http.StatusInternalServerError},
	}, func(ctx context.Context, in *claimsInput) (*claimsOutput, error) {
		today, err := s.today(in.Date)
		if err != nil {
			return nil, err
		}
		report, err := s.ops.SendAvtaleGiroClaims(ctx, today, in.Notify)
		if err != nil {
			return nil, s.handleError("avtalegiro claims", err)
		}
		return &claimsOutput{Body: report}, nil
	})

	type retryOutput struct {
		Body *domain.RetryReport
	}
	huma.Register(api, huma.Operation{
		OperationID: "avtalegiro-retry",
		Method:      http.MethodPost,
		Path:        "/scheduled/avtalegiro/retry",
		Summary:     "Resend AvtaleGiro claim files without a receipt",
		Errors:      []int{http.StatusBadRequest, http.StatusConflict, http.StatusInternalServerError},
	}, func(ctx context.Context, in *dateInput) (*retryOutput, error) {
		today, err := s.today(in.Date)
		if err != nil {
			return nil, err
		}
		report, err := s.ops.RetryAvtaleGiro(ctx, today)
		if err != nil {
			return nil, s.handleError("avtalegiro retry", err)
		}
		return &retryOutput{Body: report}, nil
	})

	type ocrOutput struct {
		Body *domain.AgreementUpdateReport
	}
	huma.Register(api, huma.Operation{
		OperationID: "avtalegiro-ocr",
		Method:      http.MethodPost,
		Path:        "/scheduled/ocr",
		Summary:     "Apply the newest AvtaleGiro OCR file",
		Errors:      []int{http.StatusConflict, http.StatusInternalServerError},
	}, func(ctx context.Context, _ *struct{}) (*ocrOutput, error) {
		report, err := s.ops.ApplyOCR(ctx)
		if err != nil {
			return nil, s.handleError("ocr", err)
		}
		return &ocrOutput{Body: report}, nil
	})

	type autoGiroOutput struct {
		Body *domain.AutoGiroRunReport
	}
	huma.Register(api, huma.Operation{
		OperationID: "autogiro-claims",
		Method:      http.MethodPost,
		Path:        "/scheduled/autogiro",
		Summary:     "Send the AutoGiro order file",
		Errors:      []int{http.StatusBadRequest, http.StatusConflict, http.StatusInternalServerError},
	}, func(ctx context.Context, in *dateInput) (*autoGiroOutput, error) {
		today, err := s.today(in.Date)
		if err != nil {
			return nil, err
		}
		report, err := s.ops.SendAutoGiroClaims(ctx, today)
		if err != nil {
			return nil, s.handleError("autogiro claims", err)
		}
		return &autoGiroOutput{Body: report}, nil
	})
}

const maxFileBytes = 64 << 20

type fileInput struct {
	Name    string `query:"name" doc:"Original file name, used in logs and reports"`
	RawBody []byte
}

// FileResult describes an applied AutoGiro report file.
type FileResult struct {
	Kind    string                       `json:"kind"`
	Opening autogiro.Opening             `json:"opening"`
	Report  domain.AutoGiroProcessReport `json:"report"`
}

func (s *server) registerAutoGiroFiles(api huma.API) {
	process := func(ctx context.Context, in *fileInput) (*autogiro.ParsedFile, *domain.AutoGiroProcessReport, string, error) {
		if len(in.RawBody) == 0 {
			return nil, nil, "", huma.Error400BadRequest("empty file")
		}
		name := in.Name
		if name == "" {
			name = "upload-" + s.now().UTC().Format("20060102150405")
		}
		parsed, report, err := s.ops.ProcessAutoGiroFile(ctx, name, in.RawBody)
		if err != nil {
			return nil, nil, "", s.handleError("autogiro file", err)
		}
		return parsed, report, name, nil
	}

	type fileOutput struct {
		Body FileResult
	}
	huma.Register(api, huma.Operation{
		OperationID:  "autogiro-file",
		Method:       http.MethodPost,
		Path:         "/autogiro/files",
		Summary:      "Apply a Bankgirot report file",
		MaxBodyBytes: maxFileBytes,
		Errors:       []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, func(ctx context.Context, in *fileInput) (*fileOutput, error) {
		parsed, report, _, err := process(ctx, in)
		if err != nil {
			return nil, err
		}
		return &fileOutput{Body: FileResult{Kind: parsed.Kind().String(), Opening: parsed.Opening, Report: *report}}, nil
	})

	type workbookOutput struct {
		ContentType        string `header:"Content-Type"`
		ContentDisposition string `header:"Content-Disposition"`
		Body               []byte
	}
	huma.Register(api, huma.Operation{
		OperationID:  "autogiro-file-report",
		Method:       http.MethodPost,
		Path:         "/autogiro/files/report",
		Summary:      "Apply a Bankgirot report file and return it as a workbook",
		MaxBodyBytes: maxFileBytes,
		Errors:       []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, func(ctx context.Context, in *fileInput) (*workbookOutput, error) {
		parsed, report, name, err := process(ctx, in)
		if err != nil {
			return nil, err
		}
		data, err := gateway.BuildAutoGiroReportXLSX(name, parsed, report)
		if err != nil {
			return nil, s.handleError("autogiro report", err)
		}
		return &workbookOutput{
			ContentType:        "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			ContentDisposition: fmt.Sprintf("attachment; filename=%q", name+".xlsx"),
			Body:               data,
		}, nil
	})
}

func (s *server) registerCharges(api huma.API) {
	type statusInput struct {
		ID   int64 `path:"id"`
		Body struct {
			Status string `json:"status" doc:"New charge status, for example CHARGED"`
		}
	}
	type statusOutput struct {
		Body *domain.Charge
	}
	huma.Register(api, huma.Operation{
		OperationID: "charge-status",
		Method:      http.MethodPut,
		Path:        "/charges/{id}/status",
		Summary:     "Apply a reported charge status",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError},
	}, func(ctx context.Context, in *statusInput) (*statusOutput, error) {
		charge, err := s.ops.UpdateChargeStatus(ctx, in.ID, in.Body.Status)
		if err != nil {
			return nil, s.handleError("charge status", err)
		}
		return &statusOutput{Body: charge}, nil
	})
}

func (s *server) registerAgreements(api huma.API) {
	type termsInput struct {
		ID   int64 `path:"id"`
		Body struct {
			Amount     int64 `json:"amount" minimum:"0" doc:"Amount in minor units"`
			PaymentDay int   `json:"payment_day" minimum:"0" maximum:"28" doc:"Day of month, 0 for the last day"`
		}
	}
	huma.Register(api, huma.Operation{
		OperationID:   "agreement-terms",
		Method:        http.MethodPatch,
		Path:          "/agreements/{id}",
		Summary:       "Change an agreement's amount and payment day",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusUnprocessableEntity, http.StatusInternalServerError},
	}, func(ctx context.Context, in *termsInput) (*struct{}, error) {
		if err := s.ops.UpdateTerms(ctx, in.ID, in.Body.Amount, in.Body.PaymentDay); err != nil {
			return nil, s.handleError("agreement terms", err)
		}
		return &struct{}{}, nil
	})
}
