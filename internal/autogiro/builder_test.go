package autogiro_test

import (
	"strings"
	"testing"
	"time"

	"giro-settlement/internal/autogiro"
	"giro-settlement/internal/fixedwidth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T) *autogiro.FileBuilder {
	t.Helper()
	b, err := autogiro.NewFileBuilder(autogiro.Config{CustomerNumber: "471117", BankgiroNumber: "9902346"})
	require.NoError(t, err)
	return b
}

func TestFileBuilder_Build(t *testing.T) {
	b := newBuilder(t)

	out, err := b.Build(autogiro.OrderBatch{
		Written: time.Date(2016, 7, 13, 10, 0, 0, 0, time.UTC),
		Mandates: []autogiro.MandateAction{
			{PayerNumber: 42, BankAccount: "3300001234567", SSN: "198001011234", Approve: false},
			{PayerNumber: 43, BankAccount: "3300001234568", SSN: "198001011235", Approve: true},
		},
		Cancellations: []autogiro.CancellationRequest{
			{PaymentDate: date(2016, 7, 14), PayerNumber: 13, Amount: 50000, Reference: "INBETALNING2"},
		},
		Withdrawals: []autogiro.Withdrawal{
			{PaymentDate: date(2016, 7, 14), PayerNumber: 123, Amount: 75000, Reference: "INBETALNING1"},
		},
	})
	require.NoError(t, err)

	want := strings.Join([]string{
		"0120160713AUTOGIRO                                            4711170009902346  ",
		"04000990234600000000000000420003300001234567198001011234                    AV  ",
		"04000990234600000000000000430003300001234568198001011235                        ",
		"25000990234600000000000000132016071400000005000082        INBETALNING2          ",
		"82201607140    00000000000001230000000750000009902346INBETALNING1               ",
	}, "\n") + "\n"
	assert.Equal(t, want, string(out))
}

func TestFileBuilder_BuildLatin1(t *testing.T) {
	b := newBuilder(t)

	out, err := b.Build(autogiro.OrderBatch{
		Written: date(2023, 6, 1),
		Withdrawals: []autogiro.Withdrawal{
			{PaymentDate: date(2023, 6, 5), PayerNumber: 1, Amount: 100, Reference: "GÅVA"},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Len(t, l, autogiro.RecordWidth)
	}
	assert.Contains(t, string(out), "G\xc5VA")

	text, err := fixedwidth.Decode(out)
	require.NoError(t, err)
	assert.Contains(t, text, "GÅVA")
}

func TestFileBuilder_BuildErrors(t *testing.T) {
	b := newBuilder(t)

	tests := []struct {
		name  string
		batch autogiro.OrderBatch
	}{
		{
			name: "negative amount",
			batch: autogiro.OrderBatch{Withdrawals: []autogiro.Withdrawal{
				{PaymentDate: date(2023, 6, 5), PayerNumber: 1, Amount: -1},
			}},
		},
		{
			name: "amount overflows its field",
			batch: autogiro.OrderBatch{Cancellations: []autogiro.CancellationRequest{
				{PaymentDate: date(2023, 6, 5), PayerNumber: 1, Amount: 1_000_000_000_000},
			}},
		},
		{
			name: "rune outside latin-1",
			batch: autogiro.OrderBatch{Withdrawals: []autogiro.Withdrawal{
				{PaymentDate: date(2023, 6, 5), PayerNumber: 1, Amount: 1, Reference: "GAVA€"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.batch)
			assert.Error(t, err)
		})
	}
}

func TestFileBuilder_BuildRejectsLongReference(t *testing.T) {
	b := newBuilder(t)
	ref := "1234567890-123456"

	_, err := b.Build(autogiro.OrderBatch{Withdrawals: []autogiro.Withdrawal{
		{PaymentDate: date(2023, 6, 5), PayerNumber: 1, Amount: 100, Reference: ref},
	}})
	assert.ErrorIs(t, err, autogiro.ErrReferenceTooLong)

	_, err = b.Build(autogiro.OrderBatch{Cancellations: []autogiro.CancellationRequest{
		{PaymentDate: date(2023, 6, 5), PayerNumber: 1, Amount: 100, Reference: ref},
	}})
	assert.ErrorIs(t, err, autogiro.ErrReferenceTooLong)

	_, err = b.Build(autogiro.OrderBatch{Withdrawals: []autogiro.Withdrawal{
		{PaymentDate: date(2023, 6, 5), PayerNumber: 1, Amount: 100, Reference: ref[:16]},
	}})
	assert.NoError(t, err, "a reference filling the field exactly is kept")
}

func TestNewFileBuilder_InvalidConfig(t *testing.T) {
	for _, cfg := range []autogiro.Config{
		{CustomerNumber: "", BankgiroNumber: "9902346"},
		{CustomerNumber: "1234567", BankgiroNumber: "9902346"},
		{CustomerNumber: "471117", BankgiroNumber: "99-02346"},
	} {
		_, err := autogiro.NewFileBuilder(cfg)
		assert.ErrorIs(t, err, autogiro.ErrInvalidConfig)
	}
}

func TestOrderBatch_Empty(t *testing.T) {
	assert.True(t, autogiro.OrderBatch{Written: date(2023, 6, 1)}.Empty())
	assert.False(t, autogiro.OrderBatch{Mandates: []autogiro.MandateAction{{PayerNumber: 1}}}.Empty())
}

func TestFileName(t *testing.T) {
	got := autogiro.FileName(17, time.Date(2023, 6, 1, 14, 3, 9, 0, time.UTC))
	assert.Equal(t, "BFEP.IAGAG.17.230601.140309", got)
}
