package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"

	"giro-settlement/internal/app"
	"giro-settlement/internal/autogiro"
	"giro-settlement/internal/avtalegiro"
	"giro-settlement/internal/config"
	"giro-settlement/internal/gateway"
	"giro-settlement/internal/jobs"
	"giro-settlement/internal/metrics"
	"giro-settlement/internal/schedule"
	"giro-settlement/internal/usecase"
)

// service is the wired application. Close releases the database.
type service struct {
	cfg        *config.Config
	logger     *log.Logger
	store      *gateway.SQLStore
	agreements *usecase.AgreementUseCase
	tasks      *app.Tasks
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetString("config"), config.NewViper())
}

func newLogger() *log.Logger {
	return log.New(os.Stderr, "", log.LstdFlags|log.LUTC)
}

func openStore(ctx context.Context, cfg *config.Config) (*gateway.SQLStore, error) {
	store, err := gateway.OpenSQLStore(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("could not open store: %w", err)
	}
	return store, nil
}

func deliveryChannel(d config.Delivery) (usecase.DeliveryChannel, error) {
	if d.Kind == "sftp" {
		return gateway.NewSFTPChannel(d.SFTPConfig())
	}
	return gateway.NewDirChannel(d.Dirs)
}

// wire builds every component from the configuration.
func wire(ctx context.Context) (*service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger()
	metrics.Init()

	norway, sweden, err := cfg.Calendars()
	if err != nil {
		return nil, err
	}
	dueDates, err := schedule.NewDueDateScheduler(norway, cfg.AvtaleGiro.LeadBankingDays, cfg.AvtaleGiro.HorizonDays)
	if err != nil {
		return nil, err
	}
	avtaleBuilder, err := avtalegiro.NewFileBuilder(cfg.AvtaleGiroBuilder())
	if err != nil {
		return nil, err
	}
	autoBuilder, err := autogiro.NewFileBuilder(cfg.AutoGiroBuilder())
	if err != nil {
		return nil, err
	}
	nets, err := deliveryChannel(cfg.AvtaleGiro.Delivery)
	if err != nil {
		return nil, fmt.Errorf("could not set up avtalegiro delivery: %w", err)
	}
	bankgirot, err := deliveryChannel(cfg.AutoGiro.Delivery)
	if err != nil {
		return nil, fmt.Errorf("could not set up autogiro delivery: %w", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := []usecase.Option{
		usecase.WithLogger(logger),
		usecase.WithNotifier(gateway.NewLogNotifier(logger)),
	}

	avtale, err := usecase.NewAvtaleGiroUseCase(store, store, nets, dueDates, avtaleBuilder, opts...)
	if err != nil {
		store.Close()
		return nil, err
	}
	auto, err := usecase.NewAutoGiroUseCase(store, store, store, store, bankgirot, sweden, autoBuilder, opts...)
	if err != nil {
		store.Close()
		return nil, err
	}
	agreements, err := usecase.NewAgreementUseCase(store, store, nets, opts...)
	if err != nil {
		store.Close()
		return nil, err
	}
	charges, err := usecase.NewChargeService(store, store, opts...)
	if err != nil {
		store.Close()
		return nil, err
	}
	tasks, err := app.NewTasks(jobs.NewRunner(logger), avtale, auto, agreements, charges, store,
		app.WithLogger(logger), app.WithReportDir(cfg.AutoGiro.ReportDir))
	if err != nil {
		store.Close()
		return nil, err
	}
	return &service{cfg: cfg, logger: logger, store: store, agreements: agreements, tasks: tasks}, nil
}

func (s *service) Close() error {
	return s.store.Close()
}

// withService wires the application for the duration of fn.
func withService(ctx context.Context, fn func(context.Context, *service) error) error {
	svc, err := wire(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(ctx, svc)
}
