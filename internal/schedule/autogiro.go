package schedule

import (
	"time"

	"giro-settlement/internal/calendar"
)

// PlanAutoGiroClaim picks the claim date for an AutoGiro agreement in the
// month of today.
//
// Payment day 0 is claimed on the last day of the month. An agreement whose
// payment day has already passed this month, but was signed before that day,
// missed its claim; it is claimed on the first date with at least one Swedish
// banking day between today and the claim. Everything else is claimed on its
// payment day this month.
func PlanAutoGiroClaim(cal calendar.Calendar, today time.Time, paymentDay int, created time.Time) time.Time {
	today = calendar.Day(today)
	if paymentDay == 0 {
		return EndOfMonth(today)
	}

	if paymentDay <= today.Day() && created.Day() < paymentDay {
		claim := today.AddDate(0, 0, 1)
		for calendar.CountBankingDays(cal, today.AddDate(0, 0, 1), claim) < 1 {
			claim = claim.AddDate(0, 0, 1)
			if claim.Sub(today) > 31*24*time.Hour {
				break
			}
		}
		return claim
	}

	return dayOfMonth(today, paymentDay)
}

// CanAmend reports whether a pending charge for paymentDay can still be
// cancelled and reissued today: its claim date must lie ahead with at least
// one banking day in between.
func CanAmend(cal calendar.Calendar, today time.Time, paymentDay int) bool {
	today = calendar.Day(today)
	claim := EndOfMonth(today)
	if paymentDay != 0 {
		claim = dayOfMonth(today, paymentDay)
	}
	if !claim.After(today) {
		return false
	}
	return calendar.CountBankingDays(cal, today.AddDate(0, 0, 1), claim) > 0
}

func dayOfMonth(date time.Time, day int) time.Time {
	end := EndOfMonth(date)
	if day > end.Day() {
		return end
	}
	return time.Date(date.Year(), date.Month(), day, 0, 0, 0, 0, time.UTC)
}
