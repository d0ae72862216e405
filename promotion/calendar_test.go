package promotion_test

import (
	"testing"
	"time"

	"github.com/facultyops/promotion-engine/dates"
	"github.com/facultyops/promotion-engine/promotion"
)

func day(year int, month time.Month, d int) time.Time {
	return dates.Date(year, month, d)
}

// =============================================================================
// SNAPPING TESTS
// =============================================================================

func TestAdjustToPromotionDate(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		// Exact official dates pass through.
		{day(2025, time.April, 1), day(2025, time.April, 1)},
		{day(2025, time.October, 1), day(2025, time.October, 1)},
		// Before April snaps to April 1.
		{day(2025, time.January, 15), day(2025, time.April, 1)},
		{day(2025, time.March, 31), day(2025, time.April, 1)},
		// April 2 through September snaps to October 1.
		{day(2025, time.April, 2), day(2025, time.October, 1)},
		{day(2025, time.September, 30), day(2025, time.October, 1)},
		// October 2 onward rolls to next April.
		{day(2025, time.October, 2), day(2026, time.April, 1)},
		{day(2025, time.December, 31), day(2026, time.April, 1)},
	}
	for _, c := range cases {
		if got := promotion.AdjustToPromotionDate(c.in); !got.Equal(c.want) {
			t.Errorf("AdjustToPromotionDate(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAdjustToPromotionDate_Idempotent(t *testing.T) {
	for _, in := range []time.Time{
		day(2025, time.February, 10),
		day(2025, time.June, 20),
		day(2025, time.November, 5),
	} {
		once := promotion.AdjustToPromotionDate(in)
		twice := promotion.AdjustToPromotionDate(once)
		if !once.Equal(twice) {
			t.Errorf("not idempotent: %v -> %v -> %v", in, once, twice)
		}
	}
}

// =============================================================================
// NEXT PROMOTION DATE TESTS
// =============================================================================

func TestNextPromotionDate_FutureEligibility(t *testing.T) {
	base := day(2026, time.January, 1)

	// Eligible mid-year, still within the base year.
	got, ok := promotion.NextPromotionDate(day(2026, time.June, 15), base)
	if !ok || !got.Equal(day(2026, time.October, 1)) {
		t.Errorf("got (%v, %v), want 2026-10-01", got, ok)
	}

	// Eligible beyond the base year: no candidacy this cycle.
	if _, ok := promotion.NextPromotionDate(day(2027, time.February, 1), base); ok {
		t.Error("candidacy exists for an eligibility beyond the base year")
	}
}

func TestNextPromotionDate_LapsedEligibilityResurfaces(t *testing.T) {
	// An eligibility that lapsed years ago re-surfaces at the base year's
	// remaining official date; the stale date itself is never reported.
	base := day(2026, time.January, 1)
	got, ok := promotion.NextPromotionDate(day(2014, time.May, 1), base)
	if !ok {
		t.Fatal("lapsed eligibility produced no candidacy")
	}
	if !got.Equal(day(2026, time.April, 1)) {
		t.Errorf("resurfaced at %v, want 2026-04-01", got)
	}
}

func TestNextPromotionDate_AfterOctoberNoThisCycle(t *testing.T) {
	// After October 1 the year has no remaining official date, so even a
	// long-lapsed eligibility waits for the next cycle.
	base := day(2026, time.November, 15)
	if _, ok := promotion.NextPromotionDate(day(2014, time.May, 1), base); ok {
		t.Error("candidacy exists past the year's last official date")
	}
}

func TestNextPromotionDate_OnOfficialDate(t *testing.T) {
	base := day(2026, time.April, 1)
	got, ok := promotion.NextPromotionDate(day(2026, time.April, 1), base)
	if !ok || !got.Equal(base) {
		t.Errorf("got (%v, %v), want the base date itself", got, ok)
	}
}

// =============================================================================
// SUBMISSION DEADLINE TESTS
// =============================================================================

func TestSubmissionDeadline(t *testing.T) {
	cases := []struct {
		promotion time.Time
		want      time.Time
	}{
		// April deadline is the last day of February, leap-aware.
		{day(2024, time.April, 1), day(2024, time.February, 29)},
		{day(2026, time.April, 1), day(2026, time.February, 28)},
		// October deadline is August 31.
		{day(2026, time.October, 1), day(2026, time.August, 31)},
	}
	for _, c := range cases {
		got, ok := promotion.SubmissionDeadline(c.promotion)
		if !ok || !got.Equal(c.want) {
			t.Errorf("SubmissionDeadline(%v) = (%v, %v), want %v", c.promotion, got, ok, c.want)
		}
	}

	if _, ok := promotion.SubmissionDeadline(day(2026, time.June, 1)); ok {
		t.Error("deadline exists for a non-official date")
	}
}

// =============================================================================
// PERIOD TESTS
// =============================================================================

func TestNextPeriod(t *testing.T) {
	cases := []struct {
		base          time.Time
		wantName      string
		wantPromotion time.Time
	}{
		// January prepares this year's April cycle.
		{day(2026, time.January, 10), "april", day(2026, time.April, 1)},
		{day(2026, time.February, 28), "april", day(2026, time.April, 1)},
		// March through August prepare October.
		{day(2026, time.March, 1), "october", day(2026, time.October, 1)},
		{day(2026, time.August, 31), "october", day(2026, time.October, 1)},
		// September onward prepares NEXT year's April cycle.
		{day(2026, time.September, 1), "april", day(2027, time.April, 1)},
		{day(2026, time.December, 31), "april", day(2027, time.April, 1)},
	}
	for _, c := range cases {
		got := promotion.NextPeriod(c.base)
		if got.Name != c.wantName || !got.PromotionDate.Equal(c.wantPromotion) {
			t.Errorf("NextPeriod(%v) = %q %v, want %q %v",
				c.base, got.Name, got.PromotionDate, c.wantName, c.wantPromotion)
		}
		wantDeadline, _ := promotion.SubmissionDeadline(c.wantPromotion)
		if !got.Deadline.Equal(wantDeadline) {
			t.Errorf("NextPeriod(%v) deadline = %v, want %v", c.base, got.Deadline, wantDeadline)
		}
	}
}
