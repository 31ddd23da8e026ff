// Package schedule decides which dates money is claimed on.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"giro-settlement/internal/calendar"
)

// Defaults for Nets AvtaleGiro claim files.
const (
	DefaultLeadBankingDays = 4
	DefaultHorizonDays     = 30
)

var (
	// ErrNilCalendar is returned when a scheduler is built without a calendar.
	ErrNilCalendar = errors.New("schedule: banking day calendar is required")
	// ErrInvalidWindow is returned for a lead time or horizon that cannot hold a due date.
	ErrInvalidWindow = errors.New("schedule: invalid lead time or horizon")
)

// DueDateScheduler maps a submission day to the due dates a claim file sent
// that day must cover.
type DueDateScheduler struct {
	cal     calendar.Calendar
	lead    int
	horizon int
}

// NewDueDateScheduler builds a scheduler. A file must reach the bank lead
// banking days before a due date; candidates are searched up to horizon
// calendar days ahead.
func NewDueDateScheduler(cal calendar.Calendar, lead, horizon int) (*DueDateScheduler, error) {
	if cal == nil {
		return nil, ErrNilCalendar
	}
	if lead < 1 || horizon < lead {
		return nil, fmt.Errorf("%w: lead=%d horizon=%d", ErrInvalidWindow, lead, horizon)
	}
	return &DueDateScheduler{cal: cal, lead: lead, horizon: horizon}, nil
}

// DueDates returns, ascending, every date c for which exactly lead banking
// days lie in [today, c). Nothing is sent on a day the banks are closed, so a
// non-banking today yields no dates. The dates themselves may fall on
// weekends or holidays; a submission day before a closed stretch covers the
// whole stretch.
func (s *DueDateScheduler) DueDates(today time.Time) []time.Time {
	today = calendar.Day(today)
	if !s.cal.IsBankingDay(today) {
		return []time.Time{}
	}

	dates := make([]time.Time, 0, 4)
	banking := 0
	for offset := 0; offset < s.horizon; offset++ {
		day := today.AddDate(0, 0, offset)
		if s.cal.IsBankingDay(day) {
			banking++
		}
		// banking now counts [today, day]; the candidate is the day after.
		if banking > s.lead {
			break
		}
		if banking == s.lead {
			dates = append(dates, day.AddDate(0, 0, 1))
		}
	}
	return dates
}

// Lead returns the number of banking days a file must precede its due date.
func (s *DueDateScheduler) Lead() int {
	return s.lead
}

// IsLastDayOfMonth reports whether date is the final day of its month.
func IsLastDayOfMonth(date time.Time) bool {
	return date.AddDate(0, 0, 1).Day() == 1
}

// EndOfMonth returns the last day of date's month.
func EndOfMonth(date time.Time) time.Time {
	d := calendar.Day(date)
	return d.AddDate(0, 1, -d.Day())
}

// MatchesPaymentDay reports whether an agreement with the given payment day
// is claimed on date. Payment day 0 means the last day of the month.
func MatchesPaymentDay(paymentDay int, date time.Time) bool {
	if paymentDay == 0 {
		return IsLastDayOfMonth(date)
	}
	return paymentDay == date.Day()
}
