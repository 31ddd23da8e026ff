package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"giro-settlement/internal/autogiro"
	"giro-settlement/internal/config"
	"giro-settlement/internal/gateway"
	"giro-settlement/internal/httpapi"
	"giro-settlement/internal/jobs"
)

var rootCmd = &cobra.Command{
	Use:   "settlement",
	Short: "Giro settlement",
	Long: `Settlement sends direct debit claims to the banks and applies what they report back.
- AvtaleGiro (Nets, Norway): claim files per due date, retries for unacknowledged files, daily OCR agreement and payment files.
- AutoGiro (Bankgirot, Sweden): monthly order files with mandate confirmations, and the payment, mandate, rejection and cancellation reports.
Configuration is read from giro.yml; GIRO_ environment variables override secrets and endpoints.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("config", "c", "giro.yml", "configuration file")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(dueDatesCmd())
	rootCmd.AddCommand(avtaleGiroCmd())
	rootCmd.AddCommand(autoGiroCmd())
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(watchCmd())
}

// runDate parses --date, defaulting to today in the configured time zone.
func runDate(date string, cfg *config.Config) (time.Time, error) {
	if date != "" {
		d, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
		}
		return d, nil
	}
	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}

func dueDatesCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "duedates",
		Short: "List the AvtaleGiro due dates a claims run on the date serves",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *service) error {
				today, err := runDate(date, s.cfg)
				if err != nil {
					return err
				}
				return printDueDates(today, s.tasks.DueDates(today))
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "run date (YYYY-MM-DD)")
	return cmd
}

func avtaleGiroCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "avtalegiro", Short: "Norwegian AvtaleGiro runs"}
	cmd.AddCommand(avtaleGiroClaimsCmd())
	cmd.AddCommand(avtaleGiroRetryCmd())
	cmd.AddCommand(avtaleGiroOCRCmd())
	return cmd
}

func avtaleGiroClaimsCmd() *cobra.Command {
	var date string
	var notify bool
	cmd := &cobra.Command{
		Use:   "claims",
		Short: "Send claim files for the due dates served today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *service) error {
				today, err := runDate(date, s.cfg)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("notify") {
					notify = s.cfg.AvtaleGiro.Notify
				}
				report, err := s.tasks.SendAvtaleGiroClaims(ctx, today, notify)
				if err != nil {
					return err
				}
				return printClaimRun(report)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "run date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&notify, "notify", false, "send claim notices (default from config)")
	return cmd
}

func avtaleGiroRetryCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "retry",
		Short: "Resend claim files the bank has not acknowledged",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *service) error {
				today, err := runDate(date, s.cfg)
				if err != nil {
					return err
				}
				report, err := s.tasks.RetryAvtaleGiro(ctx, today)
				if err != nil {
					return err
				}
				return printRetry(report)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "run date (YYYY-MM-DD)")
	return cmd
}

func avtaleGiroOCRCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "ocr",
		Short: "Apply the newest OCR file, or the one given with --file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *service) error {
				if file == "" {
					report, err := s.tasks.ApplyOCR(ctx)
					if err != nil {
						return err
					}
					return printAgreementUpdates(report)
				}
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("could not read %s: %w", file, err)
				}
				report, err := s.agreements.ApplyOCRFile(ctx, filepath.Base(file), data)
				if err != nil {
					return err
				}
				return printAgreementUpdates(report)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "local OCR file")
	return cmd
}

func autoGiroCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "autogiro", Short: "Swedish AutoGiro runs"}
	cmd.AddCommand(autoGiroClaimsCmd())
	cmd.AddCommand(autoGiroIngestCmd())
	return cmd
}

func autoGiroClaimsCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "claims",
		Short: "Send the order file with due charges and new mandates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *service) error {
				today, err := runDate(date, s.cfg)
				if err != nil {
					return err
				}
				report, err := s.tasks.SendAutoGiroClaims(ctx, today)
				if err != nil {
					return err
				}
				return printAutoGiroRun(report)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "run date (YYYY-MM-DD)")
	return cmd
}

func autoGiroIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Apply Bankgirot report files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *service) error {
				for _, path := range args {
					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("could not read %s: %w", path, err)
					}
					_, report, err := s.tasks.ProcessAutoGiroFile(ctx, filepath.Base(path), data)
					if err != nil {
						return fmt.Errorf("could not apply %s: %w", path, err)
					}
					if err := printProcessReport(filepath.Base(path), report); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func parseCmd() *cobra.Command {
	var xlsxPath, pdfPath string
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Decode a Bankgirot report file without applying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("could not read %s: %w", args[0], err)
			}
			parsed, err := autogiro.Parse(data)
			if err != nil {
				return err
			}
			name := filepath.Base(args[0])
			if xlsxPath != "" {
				out, err := gateway.BuildAutoGiroReportXLSX(name, parsed, nil)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, out, 0o644); err != nil {
					return fmt.Errorf("could not write %s: %w", xlsxPath, err)
				}
			}
			if pdfPath != "" {
				out, err := gateway.BuildAutoGiroReportPDF(name, parsed, nil)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, out, 0o644); err != nil {
					return fmt.Errorf("could not write %s: %w", pdfPath, err)
				}
			}
			return printParsed(parsed)
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the records to a workbook")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "also write the records to a PDF")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "import", Short: "Load agreements and donations from CSV"}
	cmd.AddCommand(&cobra.Command{
		Use:   "agreements FILE",
		Short: "Import agreements and their donors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store *gateway.SQLStore) error {
				rows, err := gateway.NewCSVImportReader().ReadAgreements(ctx, args[0])
				if err != nil {
					return err
				}
				n, err := store.ImportAgreements(ctx, rows)
				if err != nil {
					return err
				}
				fmt.Printf("imported %d of %d agreements\n", n, len(rows))
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "donations FILE...",
		Short: "Import donation history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store *gateway.SQLStore) error {
				rows, err := gateway.NewCSVImportReader().ReadDonations(ctx, args)
				if err != nil {
					return err
				}
				n, err := store.AddDonations(ctx, rows)
				if err != nil {
					return err
				}
				fmt.Printf("imported %d donations\n", n)
				return nil
			})
		},
	})
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store *gateway.SQLStore) error {
				version, err := store.Migrate(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("schema version %d\n", version)
				return nil
			})
		},
	}
}

// withStore opens only the database, for commands that need no bank
// settings.
func withStore(ctx context.Context, fn func(context.Context, *gateway.SQLStore) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

func serveCmd() *cobra.Command {
	var addr string
	var noSchedule bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the daily jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *service) error {
				if addr == "" {
					addr = s.cfg.HTTP.Addr
				}
				loc, err := s.cfg.Location()
				if err != nil {
					return err
				}
				handler, err := httpapi.New(httpapi.Config{
					Ops:       s.tasks,
					Location:  loc,
					Logger:    s.logger,
					JWTSecret: s.cfg.HTTP.JWTSecret,
				})
				if err != nil {
					return err
				}
				srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

				g, ctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					s.logger.Printf("serve: listening addr=%s", addr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
				g.Go(func() error {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return srv.Shutdown(shutdownCtx)
				})
				if !noSchedule {
					scheduler, err := jobs.NewScheduler(s.tasks.Runner(), loc, s.logger, s.tasks.Jobs(s.cfg.Schedule, s.cfg.AvtaleGiro.Notify)...)
					if err != nil {
						return err
					}
					g.Go(func() error {
						scheduler.Start(ctx)
						return nil
					})
				}
				if s.cfg.AutoGiro.WatchDir != "" {
					watcher, err := gateway.NewInboxWatcher(s.cfg.AutoGiro.WatchDir, s.tasks.HandleAutoGiroFile, s.logger)
					if err != nil {
						return err
					}
					g.Go(func() error { return watcher.Run(ctx) })
				}
				return g.Wait()
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noSchedule, "no-schedule", false, "serve the API without the daily jobs")
	return cmd
}

func watchCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Apply Bankgirot report files dropped into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, s *service) error {
				if dir == "" {
					dir = s.cfg.AutoGiro.WatchDir
				}
				if dir == "" {
					return fmt.Errorf("--dir or autogiro.watch_dir is required")
				}
				watcher, err := gateway.NewInboxWatcher(dir, s.tasks.HandleAutoGiroFile, s.logger)
				if err != nil {
					return err
				}
				return watcher.Run(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to watch (default from config)")
	return cmd
}
