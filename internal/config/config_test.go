package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giro-settlement/internal/config"
)

const validYAML = `
avtalegiro:
  customer_id: "00230456"
  account_number: "12345678901"
  notify: true
  delivery:
    kind: sftp
    dirs:
      outbox: /Outbound
      receipts: /Inbound/Receipts
      inbox: /Inbound
    sftp:
      host: sftp.nets.example
      user: giro
      key_file: /etc/giro/nets_ed25519
      timeout: 45s
autogiro:
  customer_number: "471117"
  bankgiro_number: "9902346"
  watch_dir: /var/lib/giro/bgc
  delivery:
    kind: local
    dirs:
      outbox: /var/lib/giro/bgc/out
calendar:
  norway_closed: ["2023-12-27"]
database:
  driver: pgx
  dsn: postgres://giro@localhost/giro
schedule:
  retry: ["09:00", "13:00", "16:00"]
`

func TestFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "00230456", cfg.AvtaleGiro.CustomerID)
	assert.Equal(t, 4, cfg.AvtaleGiro.LeadBankingDays, "default kept")
	assert.Equal(t, 30, cfg.AvtaleGiro.HorizonDays)
	assert.True(t, cfg.AvtaleGiro.Notify)
	assert.Equal(t, "45s", cfg.AvtaleGiro.Delivery.SFTP.Timeout.String())

	sftp := cfg.AvtaleGiro.Delivery.SFTPConfig()
	assert.Equal(t, "/Inbound/Receipts", sftp.Dirs.Receipts)
	assert.Equal(t, "sftp.nets.example", sftp.Host)

	assert.Equal(t, []string{"09:00", "13:00", "16:00"}, cfg.Schedule.Retry)
	assert.Equal(t, []string{"06:00"}, cfg.Schedule.AvtaleGiro)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Oslo", loc.String())

	norway, sweden, err := cfg.Calendars()
	require.NoError(t, err)
	assert.NotNil(t, norway)
	assert.NotNil(t, sweden)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
		wantErr string
	}{
		{name: "bad customer id", replace: [2]string{`customer_id: "00230456"`, `customer_id: "abc"`}, wantErr: "config.avtalegiro"},
		{name: "bad account", replace: [2]string{`account_number: "12345678901"`, `account_number: "1"`}, wantErr: "config.avtalegiro"},
		{name: "bad bankgiro", replace: [2]string{`bankgiro_number: "9902346"`, `bankgiro_number: "x"`}, wantErr: "config.autogiro"},
		{name: "unknown delivery", replace: [2]string{`kind: local`, `kind: ftp`}, wantErr: "config.autogiro.delivery.kind must be 'sftp' or 'local'"},
		{name: "sftp without host", replace: [2]string{`host: sftp.nets.example`, `host: ""`}, wantErr: "sftp.host is required"},
		{name: "bad holiday", replace: [2]string{`"2023-12-27"`, `"27.12.2023"`}, wantErr: "config.calendar.norway_closed"},
		{name: "bad driver", replace: [2]string{`driver: pgx`, `driver: mysql`}, wantErr: "config.database.driver"},
		{name: "bad schedule", replace: [2]string{`"16:00"`, `"4pm"`}, wantErr: `config.schedule.retry: invalid time "4pm"`},
		{name: "unknown key", replace: [2]string{`notify: true`, `notfy: true`}, wantErr: "could not parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := strings.Replace(validYAML, tt.replace[0], tt.replace[1], 1)
			require.NotEqual(t, validYAML, doc)
			_, err := config.FromYAML([]byte(doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "giro.yml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o600))

	t.Setenv("GIRO_DATABASE_DSN", "postgres://giro@db/giro")
	t.Setenv("GIRO_AVTALEGIRO_DELIVERY_SFTP_PASSWORD", "secret")

	cfg, err := config.Load(path, config.NewViper())
	require.NoError(t, err)
	assert.Equal(t, "postgres://giro@db/giro", cfg.Database.DSN)
	assert.Equal(t, "secret", cfg.AvtaleGiro.Delivery.SFTP.Password)
	assert.Equal(t, "pgx", cfg.Database.Driver)
}

func TestLoad_Missing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "giro.yml"), nil)
	assert.ErrorContains(t, err, "not found")
}
