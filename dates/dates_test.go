package dates_test

import (
	"testing"
	"time"

	"github.com/facultyops/promotion-engine/dates"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func day(year int, month time.Month, d int) time.Time {
	return dates.Date(year, month, d)
}

func mustParse(t *testing.T, text string) time.Time {
	t.Helper()
	parsed, ok := dates.Parse(text)
	if !ok {
		t.Fatalf("Parse(%q) failed", text)
	}
	return parsed
}

// =============================================================================
// PARSING TESTS
// =============================================================================

func TestParse_AcceptedFormats(t *testing.T) {
	want := day(2021, time.September, 1)

	cases := []string{
		"2021.09.01",
		"2021-09-01",
		"2021/09/01",
		"  2021.09.01  ",
		"2021.9.1",
	}
	for _, text := range cases {
		if got := mustParse(t, text); !got.Equal(want) {
			t.Errorf("Parse(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestParse_StripsAnnotations(t *testing.T) {
	// Ledger cells sometimes carry trailing notes next to the date.
	got := mustParse(t, "2021.09.01 임용")
	if !got.Equal(day(2021, time.September, 1)) {
		t.Errorf("annotated cell parsed to %v", got)
	}
}

func TestParse_SerialNumber(t *testing.T) {
	// Serial 44440 is 2021-09-01 in the 1899-12-30 epoch.
	got := mustParse(t, "44440")
	if !got.Equal(day(2021, time.September, 1)) {
		t.Errorf("Parse(44440) = %v, want 2021-09-01", got)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"미정",
		"2021.13.01",
		"2021.00.15",
		"2021.02.32",
		"2021.09",
	}
	for _, text := range cases {
		if _, ok := dates.Parse(text); ok {
			t.Errorf("Parse(%q) unexpectedly succeeded", text)
		}
	}
}

func TestFromSerial_Epoch(t *testing.T) {
	if got := dates.FromSerial(25569); !got.Equal(day(1970, time.January, 1)) {
		t.Errorf("serial 25569 = %v, want 1970-01-01", got)
	}
}

func TestFormat(t *testing.T) {
	if got := dates.Format(day(2024, time.April, 1)); got != "2024.04.01" {
		t.Errorf("Format = %q", got)
	}
	if got := dates.Format(time.Time{}); got != "-" {
		t.Errorf("Format(zero) = %q, want \"-\"", got)
	}
}

// =============================================================================
// COUNTING TESTS
// =============================================================================

func TestMonthsBetween_InclusiveRule(t *testing.T) {
	cases := []struct {
		start, end time.Time
		want       int
	}{
		// A one-year contract first-of-month to last-of-month is 12 months.
		{day(2021, time.September, 1), day(2022, time.August, 31), 12},
		// End day reaching the start day adds the month.
		{day(2024, time.January, 15), day(2024, time.March, 15), 3},
		{day(2024, time.January, 15), day(2024, time.March, 14), 2},
		// Same day counts one month.
		{day(2024, time.June, 1), day(2024, time.June, 1), 1},
	}
	for _, c := range cases {
		if got := dates.MonthsBetween(c.start, c.end); got != c.want {
			t.Errorf("MonthsBetween(%v, %v) = %d, want %d",
				c.start, c.end, got, c.want)
		}
	}
}

func TestDaysBetween_InclusiveOfBothEndpoints(t *testing.T) {
	cases := []struct {
		start, end time.Time
		want       int
	}{
		{day(2024, time.January, 1), day(2024, time.January, 1), 1},
		{day(2024, time.January, 1), day(2024, time.January, 31), 31},
		// 2024 is a leap year.
		{day(2024, time.January, 1), day(2024, time.December, 31), 366},
		{day(2023, time.January, 1), day(2023, time.December, 31), 365},
	}
	for _, c := range cases {
		if got := dates.DaysBetween(c.start, c.end); got != c.want {
			t.Errorf("DaysBetween(%v, %v) = %d, want %d",
				c.start, c.end, got, c.want)
		}
	}
}

func TestDaysUntil_Signed(t *testing.T) {
	base := day(2026, time.January, 1)
	if got := dates.DaysUntil(day(2026, time.April, 1), base); got != 90 {
		t.Errorf("DaysUntil(April 1) = %d, want 90", got)
	}
	if got := dates.DaysUntil(day(2025, time.December, 31), base); got != -1 {
		t.Errorf("DaysUntil(past) = %d, want -1", got)
	}
	if got := dates.DaysUntil(base, base); got != 0 {
		t.Errorf("DaysUntil(same day) = %d, want 0", got)
	}
}

func TestIsLeapYear(t *testing.T) {
	cases := map[int]bool{
		2024: true,
		2023: false,
		2000: true,
		1900: false,
	}
	for year, want := range cases {
		if got := dates.IsLeapYear(year); got != want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", year, got, want)
		}
	}
}

// =============================================================================
// DISPLAY TESTS
// =============================================================================

func TestDurationText(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{0, "-"},
		{-5, "-"},
		{1, "1일"},
		{30, "1개월"},
		{365, "1년"},
		{400, "1년 1개월 5일"},
		{800, "2년 2개월 10일"},
	}
	for _, c := range cases {
		if got := dates.DurationText(c.days); got != c.want {
			t.Errorf("DurationText(%d) = %q, want %q", c.days, got, c.want)
		}
	}
}

func TestSpanText_WholeMonthContract(t *testing.T) {
	got := dates.SpanText(day(2021, time.September, 1), day(2024, time.August, 31))
	if got != "3년 (36개월)" {
		t.Errorf("SpanText = %q, want \"3년 (36개월)\"", got)
	}
}

func TestSpanText_SubYear(t *testing.T) {
	got := dates.SpanText(day(2024, time.March, 1), day(2024, time.May, 31))
	if got != "3개월 (3개월)" {
		t.Errorf("SpanText = %q", got)
	}
}

func TestSpanText_Zero(t *testing.T) {
	if got := dates.SpanText(time.Time{}, day(2024, time.May, 31)); got != "-" {
		t.Errorf("SpanText(zero start) = %q, want \"-\"", got)
	}
}
