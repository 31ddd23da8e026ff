package avtalegiro_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"giro-settlement/internal/avtalegiro"
	"giro-settlement/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestParseAgreementUpdates(t *testing.T) {
	got, err := avtalegiro.ParseAgreementUpdates([]byte(ocrFile))
	require.NoError(t, err)

	want := []avtalegiro.AgreementUpdate{
		{FBONumber: "0000001", Registration: avtalegiro.RegistrationNewOrChanged, KID: "002556289731589", Notice: true},
		{FBONumber: "0000002", Registration: avtalegiro.RegistrationDeleted, KID: "000638723319577", Notice: false},
		{FBONumber: "0000003", Registration: avtalegiro.RegistrationTotalReadout, KID: "000675978627833", Notice: false},
	}
	assert.Equal(t, want, got)

	assert.False(t, got[0].TotalReadout())
	assert.False(t, got[0].Terminated())
	assert.True(t, got[1].Terminated())
	assert.True(t, got[2].TotalReadout())
}

func TestParseAgreementUpdates_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "short record", data: "NY21947000000011          0025562897\n"},
		{name: "bad registration type", data: "NY21947000000019          002556289731589J00000000000000000000000000000000000000\n"},
		{name: "empty KID", data: "NY21947000000011                         J00000000000000000000000000000000000000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := avtalegiro.ParseAgreementUpdates([]byte(tt.data))
			assert.ErrorIs(t, err, avtalegiro.ErrMalformedFile)
		})
	}
}

func TestParseOCRTransactions(t *testing.T) {
	got, err := avtalegiro.ParseOCRTransactions([]byte(ocrFile))
	require.NoError(t, err)
	require.Len(t, got, 2)

	date := time.Date(2023, 5, 16, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "160523.1234567891", got[0].TransactionID)
	assert.Equal(t, domain.TransactionGiro, got[0].Type)
	assert.Equal(t, "002556289731589", got[0].KID)
	assert.True(t, decimal.RequireFromString("500").Equal(got[0].Amount))
	assert.Equal(t, date, got[0].Date)

	assert.Equal(t, "160523.98765432112", got[1].TransactionID)
	assert.Equal(t, domain.TransactionAvtaleGiro, got[1].Type)
	assert.True(t, decimal.RequireFromString("3400.50").Equal(got[1].Amount))
}

func TestParseOCRTransactions_MissingSecondRecord(t *testing.T) {
	data := "NY09103000000011605230000000000000000000000050000          002556289731589000000\n" +
		"NY000089000000040000000000000000000000000000000000000000000000000000000000000000\n"
	_, err := avtalegiro.ParseOCRTransactions([]byte(data))
	assert.ErrorIs(t, err, avtalegiro.ErrMalformedFile)

	_, err = avtalegiro.ParseOCRTransactions([]byte(strings.SplitN(data, "\n", 2)[0]))
	assert.ErrorIs(t, err, avtalegiro.ErrMalformedFile)
}
