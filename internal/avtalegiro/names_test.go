package avtalegiro_test

import (
	"testing"
	"time"

	"giro-settlement/internal/avtalegiro"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimFileName(t *testing.T) {
	got := avtalegiro.ClaimFileName(
		time.Date(2023, 5, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2023, 5, 16, 0, 0, 0, 0, time.UTC),
		650,
	)
	assert.Equal(t, "DIRREM100523.160523.650", got)
}

func TestReceiptName_RoundTrip(t *testing.T) {
	at := time.Date(2023, 5, 10, 14, 3, 59, 0, time.UTC)
	name := avtalegiro.ReceiptName(649, at, "00230456")
	assert.Equal(t, "KV.GODKJENT.F0000649.D230510.T140359.K00230456.html", name)

	r, err := avtalegiro.ParseReceiptName("/outbound/" + name)
	require.NoError(t, err)
	assert.Equal(t, int64(649), r.ShipmentID)
	assert.Equal(t, at, r.Received)
	assert.Equal(t, "00230456", r.CustomerNumber)
	assert.Equal(t, name, r.Name)
}

func TestParseReceiptName_Rejects(t *testing.T) {
	for _, name := range []string{
		"DIRREM100523.160523.650",
		"KV.GODKJENT.F649.D230510.T140359.K00230456.html",
		"KV.AVVIST.F0000649.D230510.T140359.K00230456.html",
		"KV.GODKJENT.F0000649.D231340.T140359.K00230456.html",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := avtalegiro.ParseReceiptName(name)
			assert.ErrorIs(t, err, avtalegiro.ErrNotReceipt)
		})
	}
}

func TestReceiptIndex(t *testing.T) {
	idx := avtalegiro.ReceiptIndex([]string{
		"KV.GODKJENT.F0000649.D230510.T140359.K00230456.html",
		"KV.GODKJENT.F0000650.D230511.T080000.K00230456.html",
		"README.txt",
	})
	assert.Len(t, idx, 2)
	assert.Contains(t, idx, int64(649))
	assert.Contains(t, idx, int64(650))
	assert.NotContains(t, idx, int64(651))
}
