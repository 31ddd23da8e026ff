package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"giro-settlement/internal/autogiro"
	"giro-settlement/internal/config"
	"giro-settlement/internal/domain"
	"giro-settlement/internal/gateway"
	"giro-settlement/internal/jobs"
	"giro-settlement/internal/metrics"
)

// Job names, shared by the HTTP triggers, the scheduler and the metrics.
const (
	JobAvtaleGiroClaims = "avtalegiro-claims"
	JobAvtaleGiroRetry  = "avtalegiro-retry"
	JobAvtaleGiroOCR    = "avtalegiro-ocr"
	JobAutoGiroClaims   = "autogiro-claims"
)

// LockAvtaleGiro is held by both the AvtaleGiro claims and retry jobs. A retry
// running next to a claims run would resend a shipment not yet uploaded.
const LockAvtaleGiro = "avtalegiro"

type AvtaleGiroService interface {
	DueDates(today time.Time) []time.Time
	SendClaims(ctx context.Context, today time.Time, notify bool) (*domain.ClaimRunReport, error)
	Retry(ctx context.Context, today time.Time) (*domain.RetryReport, error)
}

type AutoGiroService interface {
	SendClaims(ctx context.Context, today time.Time) (*domain.AutoGiroRunReport, error)
	ProcessFile(ctx context.Context, data []byte) (*autogiro.ParsedFile, *domain.AutoGiroProcessReport, error)
}

type OCRService interface {
	ApplyLatestOCRFile(ctx context.Context) (*domain.AgreementUpdateReport, error)
}

type ChargeUpdater interface {
	UpdateStatus(ctx context.Context, chargeID int64, status string) (*domain.Charge, error)
}

type TermsUpdater interface {
	UpdateTerms(ctx context.Context, id int64, amount int64, paymentDay int) error
}

// Tasks runs the settlement operations. Scheduled runs go through a shared
// jobs.Runner so a manual trigger and a timer never overlap.
type Tasks struct {
	avtaleGiro AvtaleGiroService
	autoGiro   AutoGiroService
	ocr        OCRService
	charges    ChargeUpdater
	terms      TermsUpdater
	runner     *jobs.Runner
	logger     *log.Logger
	reportDir  string

	// inbound serialises AutoGiro report files; a file is never dropped
	// because another one is being applied.
	inbound sync.Mutex
}

// Option customizes Tasks.
type Option func(*Tasks)

// WithLogger assigns a logger.
func WithLogger(logger *log.Logger) Option {
	return func(t *Tasks) {
		t.logger = logger
	}
}

// WithReportDir writes a workbook for every processed AutoGiro file into dir.
func WithReportDir(dir string) Option {
	return func(t *Tasks) {
		t.reportDir = dir
	}
}

// NewTasks rejects nil services.
func NewTasks(runner *jobs.Runner, avtaleGiro AvtaleGiroService, autoGiro AutoGiroService, ocr OCRService, charges ChargeUpdater, terms TermsUpdater, opts ...Option) (*Tasks, error) {
	switch {
	case runner == nil:
		return nil, errors.New("tasks: nil runner")
	case avtaleGiro == nil:
		return nil, errors.New("tasks: nil avtalegiro service")
	case autoGiro == nil:
		return nil, errors.New("tasks: nil autogiro service")
	case ocr == nil:
		return nil, errors.New("tasks: nil ocr service")
	case charges == nil:
		return nil, errors.New("tasks: nil charge updater")
	case terms == nil:
		return nil, errors.New("tasks: nil terms updater")
	}
	t := &Tasks{
		avtaleGiro: avtaleGiro,
		autoGiro:   autoGiro,
		ocr:        ocr,
		charges:    charges,
		terms:      terms,
		runner:     runner,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard, "", 0)
	}
	return t, nil
}

// DueDates returns the AvtaleGiro due dates served by files sent on today.
func (t *Tasks) DueDates(today time.Time) []time.Time {
	return t.avtaleGiro.DueDates(today)
}

// SendAvtaleGiroClaims runs the daily AvtaleGiro claims job.
func (t *Tasks) SendAvtaleGiroClaims(ctx context.Context, today time.Time, notify bool) (*domain.ClaimRunReport, error) {
	var report *domain.ClaimRunReport
	err := t.runner.RunLocked(ctx, LockAvtaleGiro, JobAvtaleGiroClaims, func(ctx context.Context) (err error) {
		report, err = t.sendAvtaleGiroClaims(ctx, today, notify)
		return err
	})
	return report, err
}

func (t *Tasks) sendAvtaleGiroClaims(ctx context.Context, today time.Time, notify bool) (*domain.ClaimRunReport, error) {
	report, err := t.avtaleGiro.SendClaims(ctx, today, notify)
	if err != nil {
		return nil, err
	}
	for _, d := range report.DueDates {
		metrics.AddClaims(string(domain.SchemeAvtaleGiro), d.Claims, d.Amount)
	}
	return report, nil
}

// RetryAvtaleGiro resends claim files the bank never acknowledged.
func (t *Tasks) RetryAvtaleGiro(ctx context.Context, today time.Time) (*domain.RetryReport, error) {
	var report *domain.RetryReport
	err := t.runner.RunLocked(ctx, LockAvtaleGiro, JobAvtaleGiroRetry, func(ctx context.Context) (err error) {
		report, err = t.retryAvtaleGiro(ctx, today)
		return err
	})
	return report, err
}

func (t *Tasks) retryAvtaleGiro(ctx context.Context, today time.Time) (*domain.RetryReport, error) {
	report, err := t.avtaleGiro.Retry(ctx, today)
	if err != nil {
		return nil, err
	}
	for _, e := range report.Entries {
		if e.Resent != nil {
			metrics.AddClaims(string(domain.SchemeAvtaleGiro), e.Resent.Claims, e.Resent.Amount)
		}
	}
	return report, nil
}

// ApplyOCR fetches and applies the newest AvtaleGiro OCR file.
func (t *Tasks) ApplyOCR(ctx context.Context) (*domain.AgreementUpdateReport, error) {
	var report *domain.AgreementUpdateReport
	err := t.runner.Run(ctx, JobAvtaleGiroOCR, func(ctx context.Context) (err error) {
		report, err = t.applyOCR(ctx)
		return err
	})
	return report, err
}

func (t *Tasks) applyOCR(ctx context.Context) (*domain.AgreementUpdateReport, error) {
	report, err := t.ocr.ApplyLatestOCRFile(ctx)
	if err != nil {
		metrics.IncInboundFile("avtalegiro_ocr", metrics.ResultError)
		return nil, err
	}
	if report.File != "" {
		metrics.IncInboundFile("avtalegiro_ocr", metrics.ResultSuccess)
	}
	return report, nil
}

// SendAutoGiroClaims runs the daily AutoGiro claims job.
func (t *Tasks) SendAutoGiroClaims(ctx context.Context, today time.Time) (*domain.AutoGiroRunReport, error) {
	var report *domain.AutoGiroRunReport
	err := t.runner.Run(ctx, JobAutoGiroClaims, func(ctx context.Context) (err error) {
		report, err = t.sendAutoGiroClaims(ctx, today)
		return err
	})
	return report, err
}

func (t *Tasks) sendAutoGiroClaims(ctx context.Context, today time.Time) (*domain.AutoGiroRunReport, error) {
	report, err := t.autoGiro.SendClaims(ctx, today)
	if err != nil {
		return nil, err
	}
	metrics.AddClaims(string(domain.SchemeAutoGiro), report.Charges, report.Amount)
	return report, nil
}

// ProcessAutoGiroFile applies one Bankgirot report file. Files are applied
// one at a time.
func (t *Tasks) ProcessAutoGiroFile(ctx context.Context, name string, data []byte) (*autogiro.ParsedFile, *domain.AutoGiroProcessReport, error) {
	t.inbound.Lock()
	defer t.inbound.Unlock()

	parsed, report, err := t.autoGiro.ProcessFile(ctx, data)
	if err != nil {
		metrics.IncInboundFile("autogiro", metrics.ResultError)
		t.logger.Printf("tasks: autogiro file failed file=%s err=%v", name, err)
		return nil, nil, err
	}
	metrics.IncInboundFile(report.Layout, metrics.ResultSuccess)
	t.logger.Printf("tasks: autogiro file applied file=%s layout=%s charges=%d mandates=%d unmatched=%d rejected=%d",
		name, report.Layout, report.ChargesUpdated, report.MandatesUpdated, len(report.Unmatched), len(report.Rejected))

	if t.reportDir != "" {
		if err := t.writeReport(name, parsed, report); err != nil {
			t.logger.Printf("tasks: report failed file=%s err=%v", name, err)
		}
	}
	return parsed, report, nil
}

// HandleAutoGiroFile adapts ProcessAutoGiroFile to gateway.FileHandler.
func (t *Tasks) HandleAutoGiroFile(ctx context.Context, name string, data []byte) error {
	_, _, err := t.ProcessAutoGiroFile(ctx, name, data)
	return err
}

func (t *Tasks) writeReport(name string, parsed *autogiro.ParsedFile, report *domain.AutoGiroProcessReport) error {
	data, err := gateway.BuildAutoGiroReportXLSX(name, parsed, report)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(t.reportDir, 0o755); err != nil {
		return fmt.Errorf("could not create report dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return os.WriteFile(filepath.Join(t.reportDir, base+".xlsx"), data, 0o644)
}

// UpdateChargeStatus applies a status reported for one charge.
func (t *Tasks) UpdateChargeStatus(ctx context.Context, chargeID int64, status string) (*domain.Charge, error) {
	charge, err := t.charges.UpdateStatus(ctx, chargeID, status)
	if err != nil {
		return nil, err
	}
	metrics.AddChargeUpdates(string(charge.Status), 1)
	return charge, nil
}

// UpdateTerms changes an agreement's amount and payment day.
func (t *Tasks) UpdateTerms(ctx context.Context, agreementID int64, amount int64, paymentDay int) error {
	if err := t.terms.UpdateTerms(ctx, agreementID, amount, paymentDay); err != nil {
		return fmt.Errorf("could not update agreement %d: %w", agreementID, err)
	}
	t.logger.Printf("tasks: terms updated agreement=%d amount=%d day=%d", agreementID, amount, paymentDay)
	return nil
}

// Jobs returns the daily jobs at the configured times, for a scheduler
// sharing this Tasks' runner. AvtaleGiro claims are sent with notices when
// notify is set.
func (t *Tasks) Jobs(s config.Schedule, notify bool) []jobs.Job {
	return []jobs.Job{
		{
			Name: JobAvtaleGiroClaims,
			Lock: LockAvtaleGiro,
			At:   s.AvtaleGiro,
			Run: func(ctx context.Context, today time.Time) error {
				_, err := t.sendAvtaleGiroClaims(ctx, today, notify)
				return err
			},
		},
		{
			Name: JobAvtaleGiroRetry,
			Lock: LockAvtaleGiro,
			At:   s.Retry,
			Run: func(ctx context.Context, today time.Time) error {
				_, err := t.retryAvtaleGiro(ctx, today)
				return err
			},
		},
		{
			Name: JobAvtaleGiroOCR,
			At:   s.OCR,
			Run: func(ctx context.Context, _ time.Time) error {
				_, err := t.applyOCR(ctx)
				return err
			},
		},
		{
			Name: JobAutoGiroClaims,
			At:   s.AutoGiro,
			Run: func(ctx context.Context, today time.Time) error {
				_, err := t.sendAutoGiroClaims(ctx, today)
				return err
			},
		},
	}
}

// Runner returns the runner scheduled jobs must share.
func (t *Tasks) Runner() *jobs.Runner {
	return t.runner
}
