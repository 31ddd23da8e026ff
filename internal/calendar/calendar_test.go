package calendar_test

import (
	"testing"
	"time"

	"giro-settlement/internal/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNorway(t *testing.T) {
	c := calendar.Norway(date(2023, 5, 12))

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{name: "ordinary monday", date: date(2023, 5, 8), want: true},
		{name: "saturday", date: date(2023, 5, 13), want: false},
		{name: "labour day", date: date(2023, 5, 1), want: false},
		{name: "constitution day", date: date(2023, 5, 17), want: false},
		{name: "christmas eve", date: date(2024, 12, 24), want: false},
		{name: "extra closed date", date: date(2023, 5, 12), want: false},
		{name: "time of day ignored", date: time.Date(2023, 5, 8, 23, 59, 0, 0, time.UTC), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsBankingDay(tt.date))
		})
	}
}

func TestSweden(t *testing.T) {
	c := calendar.Sweden()

	assert.False(t, c.IsBankingDay(date(2023, 6, 6)), "national day")
	assert.False(t, c.IsBankingDay(date(2023, 12, 25)), "christmas day")
	assert.True(t, c.IsBankingDay(date(2023, 6, 7)))
}

func TestFixed(t *testing.T) {
	c := calendar.NewFixed(date(2023, 5, 17))

	assert.True(t, c.IsBankingDay(date(2023, 5, 16)))
	assert.False(t, c.IsBankingDay(date(2023, 5, 17)))
	assert.False(t, c.IsBankingDay(date(2023, 5, 20)))
}

func TestParseDates(t *testing.T) {
	got, err := calendar.ParseDates([]string{"2023-05-17", " 2023-12-24 "})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2023, 5, 17), date(2023, 12, 24)}, got)

	_, err = calendar.ParseDates([]string{"17.05.2023"})
	assert.Error(t, err)
}

func TestCountBankingDays(t *testing.T) {
	c := calendar.NewFixed(date(2023, 5, 17), date(2023, 5, 18))

	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{name: "empty range", from: date(2023, 5, 8), to: date(2023, 5, 8), want: 0},
		{name: "one week", from: date(2023, 5, 8), to: date(2023, 5, 15), want: 5},
		{name: "skips holidays", from: date(2023, 5, 15), to: date(2023, 5, 22), want: 3},
		{name: "reversed range", from: date(2023, 5, 15), to: date(2023, 5, 8), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calendar.CountBankingDays(c, tt.from, tt.to))
		})
	}
}

func TestNextBankingDay(t *testing.T) {
	c := calendar.NewFixed(date(2023, 5, 17), date(2023, 5, 18))

	assert.Equal(t, date(2023, 5, 19), calendar.NextBankingDay(c, date(2023, 5, 17)))
	assert.Equal(t, date(2023, 5, 22), calendar.NextBankingDay(c, date(2023, 5, 20)))
	assert.Equal(t, date(2023, 5, 16), calendar.NextBankingDay(c, date(2023, 5, 16)))
}
