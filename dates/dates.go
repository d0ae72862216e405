/*
Package dates provides the calendar arithmetic used by the promotion and
reappointment rules.

PURPOSE:
  Personnel records arrive with dates in several shapes: dotted Korean
  convention (2021.09.01), ISO (2021-09-01), slashed (2021/09/01), and raw
  spreadsheet serial numbers. This package normalizes all of them to
  midnight dates and implements the specific month/day counting rules the
  personnel regulation relies on.

KEY RULES IN THIS FILE:
  - Parse:         multi-format date parsing, nil-tolerant
  - MonthsBetween: INCLUSIVE month count (a month counts once its
                   day-of-month is reached or passed)
  - DaysBetween:   inclusive of both endpoints
  - DurationText:  day count -> "N년 N개월 N일" using 365/30 approximation
                   (display only, never used for eligibility math)
  - SpanText:      exact calendar span between two dates

PRECISION NOTE:
  DurationText intentionally approximates (1 year = 365 days, 1 month = 30
  of the remainder). Eligibility dates are computed with real calendar
  arithmetic; the approximation only feeds human-readable columns.
*/
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// serialEpochOffset is the day offset between the spreadsheet serial epoch
// (1899-12-30) and the Unix epoch, in days.
const serialEpochOffset = 25569

// Date constructs a midnight UTC date. All rule computations operate on
// dates at this granularity.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Midnight truncates a time to its date.
func Midnight(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Parse accepts YYYY.MM.DD, YYYY-MM-DD, YYYY/MM/DD, or a bare spreadsheet
// serial number. Characters other than digits and the three separators are
// stripped before matching. Returns false if nothing parseable remains.
func Parse(text string) (time.Time, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' || r == '/' {
			return r
		}
		return -1
	}, strings.TrimSpace(text))

	if cleaned == "" {
		return time.Time{}, false
	}

	var parts []string
	switch {
	case strings.Contains(cleaned, "."):
		parts = strings.Split(cleaned, ".")
	case strings.Contains(cleaned, "-"):
		parts = strings.Split(cleaned, "-")
	case strings.Contains(cleaned, "/"):
		parts = strings.Split(cleaned, "/")
	default:
		// Bare number: legacy spreadsheet serial date.
		serial, err := strconv.Atoi(cleaned)
		if err != nil {
			return time.Time{}, false
		}
		return FromSerial(serial), true
	}

	if len(parts) < 3 {
		return time.Time{}, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return Date(year, time.Month(month), day), true
}

// FromSerial converts a spreadsheet serial day count (epoch 1899-12-30) to
// a midnight date.
func FromSerial(serial int) time.Time {
	unixDays := serial - serialEpochOffset
	return Midnight(time.Unix(int64(unixDays)*86400, 0).UTC())
}

// Format renders a date in the personnel ledger's dotted convention.
func Format(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006.01.02")
}

// MonthsBetween returns the inclusive whole-month count between two dates:
// the raw year/month difference, plus one when the end day-of-month has
// reached the start day-of-month. 2021-09-01 .. 2022-08-31 is 12 months.
func MonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() >= start.Day() {
		months++
	}
	return months
}

// DaysBetween returns the day count inclusive of both endpoints.
// 2024-01-01 .. 2024-01-01 is 1 day.
func DaysBetween(start, end time.Time) int {
	return int(Midnight(end).Sub(Midnight(start)).Hours()/24) + 1
}

// DaysUntil returns the signed day distance from base to target,
// exclusive of the base day. Negative when target is in the past.
func DaysUntil(target, base time.Time) int {
	return int(Midnight(target).Sub(Midnight(base)).Hours() / 24)
}

// IsLeapYear implements the Gregorian rule.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// SameDay reports whether two times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DurationText converts a total day count to "N년 N개월 N일" using the
// 365/30 approximation. Returns "-" for non-positive counts.
func DurationText(totalDays int) string {
	if totalDays <= 0 {
		return "-"
	}
	years := totalDays / 365
	remaining := totalDays % 365
	months := remaining / 30
	days := remaining % 30

	var parts []string
	if years > 0 {
		parts = append(parts, fmt.Sprintf("%d년", years))
	}
	if months > 0 {
		parts = append(parts, fmt.Sprintf("%d개월", months))
	}
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d일", days))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// SpanText renders the exact calendar span between two dates.
//
// Appointment contracts run first-of-month to last-of-month, so that case
// reports whole months (2021.09.01 .. 2024.08.31 = "3년 (36개월)").
// Everything else breaks down into years/months/days with the day count
// inclusive of both endpoints. The total month count is appended whenever
// the span reaches a full month.
func SpanText(start, end time.Time) string {
	if start.IsZero() || end.IsZero() {
		return "-"
	}

	lastDay := Date(end.Year(), end.Month()+1, 1).AddDate(0, 0, -1).Day()
	if start.Day() == 1 && end.Day() == lastDay {
		totalMonths := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
		years := totalMonths / 12
		months := totalMonths % 12

		var parts []string
		if years > 0 {
			parts = append(parts, fmt.Sprintf("%d년", years))
		}
		if months > 0 {
			parts = append(parts, fmt.Sprintf("%d개월", months))
		}
		if len(parts) == 0 {
			return "-"
		}
		return fmt.Sprintf("%s (%d개월)", strings.Join(parts, " "), totalMonths)
	}

	years := end.Year() - start.Year()
	months := int(end.Month()) - int(start.Month())
	days := end.Day() - start.Day() + 1

	if days < 0 {
		months--
		prevMonthEnd := Date(end.Year(), end.Month(), 1).AddDate(0, 0, -1)
		days += prevMonthEnd.Day()
	}
	if months < 0 {
		years--
		months += 12
	}

	var parts []string
	if years > 0 {
		parts = append(parts, fmt.Sprintf("%d년", years))
	}
	if months > 0 {
		parts = append(parts, fmt.Sprintf("%d개월", months))
	}
	if days > 0 && years == 0 {
		parts = append(parts, fmt.Sprintf("%d일", days))
	}

	totalMonths := years*12 + months
	if totalMonths > 0 {
		return fmt.Sprintf("%s (%d개월)", strings.Join(parts, " "), totalMonths)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
