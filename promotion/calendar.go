/*
calendar.go - The biannual promotion calendar (art. 16)

Official promotion dates are April 1 and October 1, every year. An
eligibility date snaps to the nearest official date on or after it, and a
candidacy only exists for official dates inside the evaluation year: a
candidate whose eligibility lapsed in a prior cycle is re-surfaced at the
base year's remaining official date without needing an exception record,
and one whose snapped date lies beyond the base year has no candidacy this
cycle (re-evaluated next cycle).
*/
package promotion

import (
	"time"

	"github.com/facultyops/promotion-engine/dates"
)

// AdjustToPromotionDate snaps a date to the nearest official promotion
// date on or after it. Exact April 1 / October 1 pass through unchanged;
// idempotent.
func AdjustToPromotionDate(d time.Time) time.Time {
	year, month, day := d.Year(), d.Month(), d.Day()

	if (month == time.April || month == time.October) && day == 1 {
		return dates.Date(year, month, 1)
	}

	switch {
	case month < time.April:
		return dates.Date(year, time.April, 1)
	case month < time.October:
		return dates.Date(year, time.October, 1)
	default:
		return dates.Date(year+1, time.April, 1)
	}
}

// nextOfficialDate advances one promotion cycle: April -> October of the
// same year, October -> April of the following year.
func nextOfficialDate(official time.Time) time.Time {
	if official.Month() == time.April {
		return dates.Date(official.Year(), time.October, 1)
	}
	return dates.Date(official.Year()+1, time.April, 1)
}

// NextPromotionDate returns the official date at which the candidacy
// arises, given an eligibility date and the evaluation base date.
//
// The snapped date rolls forward one cycle at a time until it reaches the
// base date; if the result lands in a year beyond the base date's year the
// candidacy does not exist this cycle and false is returned. One chance
// per official date: routine non-selection needs no exception record, the
// candidate simply re-surfaces at the year's next official date.
func NextPromotionDate(eligible, base time.Time) (time.Time, bool) {
	official := AdjustToPromotionDate(eligible)
	for official.Before(dates.Midnight(base)) {
		official = nextOfficialDate(official)
	}
	if official.Year() > base.Year() {
		return time.Time{}, false
	}
	return official, true
}

// SubmissionDeadline returns the document deadline for an official
// promotion date: the last day of February for April promotions (28th or
// 29th per leap year), August 31 for October promotions.
func SubmissionDeadline(promotionDate time.Time) (time.Time, bool) {
	switch promotionDate.Month() {
	case time.April:
		day := 28
		if dates.IsLeapYear(promotionDate.Year()) {
			day = 29
		}
		return dates.Date(promotionDate.Year(), time.February, day), true
	case time.October:
		return dates.Date(promotionDate.Year(), time.August, 31), true
	default:
		return time.Time{}, false
	}
}

// Period identifies one preparation window of the promotion calendar.
type Period struct {
	Name          string    `json:"period"` // "april" or "october"
	PromotionDate time.Time `json:"promotionDate"`
	Deadline      time.Time `json:"deadline"`
}

// NextPeriod returns the preparation window the base date falls in:
// September through February prepare the coming April cycle, March through
// August prepare the coming October cycle.
func NextPeriod(base time.Time) Period {
	year := base.Year()
	month := base.Month()

	if month >= time.September || month <= time.February {
		if month >= time.September {
			year++
		}
		promotionDate := dates.Date(year, time.April, 1)
		deadline, _ := SubmissionDeadline(promotionDate)
		return Period{Name: "april", PromotionDate: promotionDate, Deadline: deadline}
	}

	promotionDate := dates.Date(year, time.October, 1)
	deadline, _ := SubmissionDeadline(promotionDate)
	return Period{Name: "october", PromotionDate: promotionDate, Deadline: deadline}
}
