package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"giro-settlement/internal/autogiro"
	"giro-settlement/internal/avtalegiro"
	"giro-settlement/internal/calendar"
	"giro-settlement/internal/gateway"
)

// EnvPrefix prefixes environment overrides, as in GIRO_DATABASE_DSN.
const EnvPrefix = "GIRO"

// Config models giro.yml.
type Config struct {
	AvtaleGiro AvtaleGiro `yaml:"avtalegiro"`
	AutoGiro   AutoGiro   `yaml:"autogiro"`
	Calendar   Calendar   `yaml:"calendar"`
	Database   Database   `yaml:"database"`
	HTTP       HTTP       `yaml:"http"`
	Schedule   Schedule   `yaml:"schedule"`
}

type AvtaleGiro struct {
	CustomerID      string   `yaml:"customer_id"`
	AccountNumber   string   `yaml:"account_number"`
	LeadBankingDays int      `yaml:"lead_banking_days"`
	HorizonDays     int      `yaml:"horizon_days"`
	Notify          bool     `yaml:"notify"`
	Delivery        Delivery `yaml:"delivery"`
}

type AutoGiro struct {
	CustomerNumber string   `yaml:"customer_number"`
	BankgiroNumber string   `yaml:"bankgiro_number"`
	Delivery       Delivery `yaml:"delivery"`
	// WatchDir is a local directory inbound Bankgirot files are dropped into.
	WatchDir string `yaml:"watch_dir"`
	// ReportDir receives a workbook for every applied Bankgirot file.
	ReportDir string `yaml:"report_dir"`
}

// Delivery selects how files reach the bank.
type Delivery struct {
	Kind string             `yaml:"kind"` // sftp or local
	Dirs gateway.Dirs       `yaml:"dirs"`
	SFTP gateway.SFTPConfig `yaml:"sftp"`
}

type Calendar struct {
	Timezone     string   `yaml:"timezone"`
	NorwayClosed []string `yaml:"norway_closed"`
	SwedenClosed []string `yaml:"sweden_closed"`
}

type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type HTTP struct {
	Addr string `yaml:"addr"`
	// JWTSecret signs the HS256 bearer tokens the API accepts.
	JWTSecret string `yaml:"jwt_secret"`
}

// Schedule lists the local times of day each daily job fires at.
type Schedule struct {
	AvtaleGiro []string `yaml:"avtalegiro"`
	Retry      []string `yaml:"retry"`
	AutoGiro   []string `yaml:"autogiro"`
	OCR        []string `yaml:"ocr"`
}

// Default returns the configuration used for keys a file leaves out.
func Default() Config {
	return Config{
		AvtaleGiro: AvtaleGiro{LeadBankingDays: 4, HorizonDays: 30, Delivery: Delivery{Kind: "local"}},
		AutoGiro:   AutoGiro{Delivery: Delivery{Kind: "local"}},
		Calendar:   Calendar{Timezone: "Europe/Oslo"},
		Database:   Database{Driver: "sqlite", DSN: "file:giro.db?_pragma=foreign_keys(1)"},
		HTTP:       HTTP{Addr: ":8080"},
		Schedule: Schedule{
			AvtaleGiro: []string{"06:00"},
			Retry:      []string{"10:00", "14:00"},
			AutoGiro:   []string{"06:30"},
			OCR:        []string{"07:00"},
		},
	}
}

// Load reads the file at path, applies overrides from v and validates. A nil
// v applies no overrides.
func Load(path string, v *viper.Viper) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found", path)
		}
		return nil, err
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if v != nil {
		cfg.applyOverrides(v)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromYAML parses and validates a configuration document.
func FromYAML(data []byte) (*Config, error) {
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	return &cfg, nil
}

// NewViper returns a viper instance reading GIRO_ environment variables,
// with dots in keys mapped to underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// overrides maps viper keys onto the fields they replace. Secrets and
// deployment specific values are the ones worth overriding.
func (c *Config) overrides() map[string]*string {
	return map[string]*string{
		"database.driver":                     &c.Database.Driver,
		"database.dsn":                        &c.Database.DSN,
		"http.addr":                           &c.HTTP.Addr,
		"http.jwt_secret":                     &c.HTTP.JWTSecret,
		"calendar.timezone":                   &c.Calendar.Timezone,
		"avtalegiro.customer_id":              &c.AvtaleGiro.CustomerID,
		"avtalegiro.account_number":           &c.AvtaleGiro.AccountNumber,
		"avtalegiro.delivery.kind":            &c.AvtaleGiro.Delivery.Kind,
		"avtalegiro.delivery.sftp.password":   &c.AvtaleGiro.Delivery.SFTP.Password,
		"avtalegiro.delivery.sftp.passphrase": &c.AvtaleGiro.Delivery.SFTP.Passphrase,
		"autogiro.customer_number":            &c.AutoGiro.CustomerNumber,
		"autogiro.bankgiro_number":            &c.AutoGiro.BankgiroNumber,
		"autogiro.delivery.kind":              &c.AutoGiro.Delivery.Kind,
		"autogiro.delivery.sftp.password":     &c.AutoGiro.Delivery.SFTP.Password,
		"autogiro.delivery.sftp.passphrase":   &c.AutoGiro.Delivery.SFTP.Passphrase,
		"autogiro.watch_dir":                  &c.AutoGiro.WatchDir,
		"autogiro.report_dir":                 &c.AutoGiro.ReportDir,
	}
}

func (c *Config) applyOverrides(v *viper.Viper) {
	for key, field := range c.overrides() {
		if v.IsSet(key) {
			*field = v.GetString(key)
		}
	}
}

// Validate ensures the config is complete and consistent.
func (c *Config) Validate() error {
	if err := c.AvtaleGiroBuilder().Validate(); err != nil {
		return fmt.Errorf("config.avtalegiro: %w", err)
	}
	if c.AvtaleGiro.LeadBankingDays <= 0 {
		return fmt.Errorf("config.avtalegiro.lead_banking_days must be positive")
	}
	if c.AvtaleGiro.HorizonDays < c.AvtaleGiro.LeadBankingDays {
		return fmt.Errorf("config.avtalegiro.horizon_days must be at least lead_banking_days")
	}
	if err := c.AutoGiroBuilder().Validate(); err != nil {
		return fmt.Errorf("config.autogiro: %w", err)
	}
	if err := c.AvtaleGiro.Delivery.validate("avtalegiro"); err != nil {
		return err
	}
	if err := c.AutoGiro.Delivery.validate("autogiro"); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config.calendar.timezone: %w", err)
	}
	if _, err := calendar.ParseDates(c.Calendar.NorwayClosed); err != nil {
		return fmt.Errorf("config.calendar.norway_closed: %w", err)
	}
	if _, err := calendar.ParseDates(c.Calendar.SwedenClosed); err != nil {
		return fmt.Errorf("config.calendar.sweden_closed: %w", err)
	}
	if _, err := gateway.ParseDialect(c.Database.Driver); err != nil {
		return fmt.Errorf("config.database.driver: %w", err)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("config.database.dsn is required")
	}
	for name, times := range map[string][]string{
		"avtalegiro": c.Schedule.AvtaleGiro,
		"retry":      c.Schedule.Retry,
		"autogiro":   c.Schedule.AutoGiro,
		"ocr":        c.Schedule.OCR,
	} {
		for _, at := range times {
			if _, err := time.Parse("15:04", at); err != nil {
				return fmt.Errorf("config.schedule.%s: invalid time %q", name, at)
			}
		}
	}
	return nil
}

func (d Delivery) validate(scheme string) error {
	switch d.Kind {
	case "local":
		if d.Dirs.Outbox == "" {
			return fmt.Errorf("config.%s.delivery.dirs.outbox is required", scheme)
		}
	case "sftp":
		if err := d.SFTPConfig().Validate(); err != nil {
			return fmt.Errorf("config.%s.delivery: %w", scheme, err)
		}
	default:
		return fmt.Errorf("config.%s.delivery.kind must be 'sftp' or 'local'", scheme)
	}
	return nil
}

// SFTPConfig returns the SFTP settings with the delivery directories.
func (d Delivery) SFTPConfig() gateway.SFTPConfig {
	cfg := d.SFTP
	cfg.Dirs = d.Dirs
	return cfg
}

// AvtaleGiroBuilder returns the payee settings for Nets claim files.
func (c *Config) AvtaleGiroBuilder() avtalegiro.Config {
	return avtalegiro.Config{CustomerID: c.AvtaleGiro.CustomerID, AccountNumber: c.AvtaleGiro.AccountNumber}
}

// AutoGiroBuilder returns the payee settings for Bankgirot order files.
func (c *Config) AutoGiroBuilder() autogiro.Config {
	return autogiro.Config{CustomerNumber: c.AutoGiro.CustomerNumber, BankgiroNumber: c.AutoGiro.BankgiroNumber}
}

// Location returns the time zone daily jobs run in.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Calendar.Timezone)
}

// Calendars builds the Norwegian and Swedish banking-day calendars with the
// configured extra closed days.
func (c *Config) Calendars() (norway, sweden *calendar.BusinessCalendar, err error) {
	no, err := calendar.ParseDates(c.Calendar.NorwayClosed)
	if err != nil {
		return nil, nil, err
	}
	se, err := calendar.ParseDates(c.Calendar.SwedenClosed)
	if err != nil {
		return nil, nil, err
	}
	return calendar.Norway(no...), calendar.Sweden(se...), nil
}
