// Package calendar answers whether the banks settle on a given date.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/no"
	"github.com/rickar/cal/v2/se"
)

// Calendar reports banking days.
type Calendar interface {
	IsBankingDay(date time.Time) bool
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func key(t time.Time) string {
	return t.Format(time.DateOnly)
}

// BusinessCalendar is a national holiday calendar with optional extra closed dates.
type BusinessCalendar struct {
	cal    *cal.BusinessCalendar
	closed map[string]bool
}

// Norwegian banks are also closed on Christmas Eve and New Year's Eve.
var norwegianBankClosures = []*cal.Holiday{
	{Name: "Julaften", Type: cal.ObservanceBank, Month: time.December, Day: 24, Func: cal.CalcDayOfMonth},
	{Name: "Nyttårsaften", Type: cal.ObservanceBank, Month: time.December, Day: 31, Func: cal.CalcDayOfMonth},
}

// Norway returns the calendar Nets settles AvtaleGiro claims by.
func Norway(extra ...time.Time) *BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(no.Holidays...)
	c.AddHoliday(norwegianBankClosures...)
	return newBusinessCalendar(c, extra)
}

// Sweden returns the calendar Bankgirot settles AutoGiro charges by.
func Sweden(extra ...time.Time) *BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(se.Holidays...)
	return newBusinessCalendar(c, extra)
}

func newBusinessCalendar(c *cal.BusinessCalendar, extra []time.Time) *BusinessCalendar {
	closed := make(map[string]bool, len(extra))
	for _, d := range extra {
		closed[key(d)] = true
	}
	return &BusinessCalendar{cal: c, closed: closed}
}

// IsBankingDay implements Calendar.
func (b *BusinessCalendar) IsBankingDay(date time.Time) bool {
	date = Day(date)
	if b.closed[key(date)] {
		return false
	}
	return b.cal.IsWorkday(date)
}

// Fixed is a calendar of weekends plus an explicit list of holidays.
type Fixed struct {
	holidays map[string]bool
}

// NewFixed builds a Fixed calendar.
func NewFixed(holidays ...time.Time) *Fixed {
	f := &Fixed{holidays: make(map[string]bool, len(holidays))}
	for _, h := range holidays {
		f.holidays[key(h)] = true
	}
	return f
}

// IsBankingDay implements Calendar.
func (f *Fixed) IsBankingDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !f.holidays[key(date)]
}

// ParseDates parses a list of YYYY-MM-DD dates.
func ParseDates(values []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("could not parse date %q: %w", v, err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// CountBankingDays counts the banking days in the half-open range [from, to).
func CountBankingDays(c Calendar, from, to time.Time) int {
	n := 0
	for d := Day(from); d.Before(Day(to)); d = d.AddDate(0, 0, 1) {
		if c.IsBankingDay(d) {
			n++
		}
	}
	return n
}

// NextBankingDay returns the first banking day on or after date. It gives up
// after a year and returns the last date tried.
func NextBankingDay(c Calendar, date time.Time) time.Time {
	d := Day(date)
	for i := 0; i < 366 && !c.IsBankingDay(d); i++ {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
