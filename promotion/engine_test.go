package promotion_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/facultyops/promotion-engine/promotion"
	"github.com/facultyops/promotion-engine/roster"
	"github.com/facultyops/promotion-engine/roster/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fixture struct {
	repo *roster.Repository
	ctx  context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		repo: roster.NewRepository(store.NewMemory(), zap.NewNop()),
		ctx:  context.Background(),
	}
}

func (fx *fixture) engine(t *testing.T, base time.Time) *promotion.Engine {
	t.Helper()
	return promotion.NewEngine(fx.repo, base, zap.NewNop())
}

func (fx *fixture) seedHistory(t *testing.T, f roster.FacultyRecord, records []roster.AppointmentRecord) {
	t.Helper()
	if err := fx.repo.SaveAppointments(fx.ctx, f.Name, f.Department, records); err != nil {
		t.Fatalf("SaveAppointments: %v", err)
	}
}

func (fx *fixture) seedException(t *testing.T, record roster.ExceptionRecord) {
	t.Helper()
	if _, err := fx.repo.AddException(fx.ctx, record); err != nil {
		t.Fatalf("AddException: %v", err)
	}
}

func wantDate(t *testing.T, label string, got *time.Time, want time.Time) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s is absent, want %v", label, want)
	}
	if !got.Equal(want) {
		t.Errorf("%s = %v, want %v", label, *got, want)
	}
}

// =============================================================================
// LEAVE ACCRUAL TESTS
// =============================================================================

func TestLeaveMonths(t *testing.T) {
	history := []roster.AppointmentRecord{
		// Non-leave records never contribute.
		{Type: "최초임용", StartDate: "2017.03.01"},
		// Explicit duration fields win over any dates.
		{Type: "휴직(육아)", StartDate: "2019.03.01", EndDate: "2020.02.29",
			LeaveStart: "2019.03.01", LeaveEnd: "2019.08.31", LeaveMonths: 3},
		// Leave-specific dates when no explicit duration.
		{Type: "휴직(질병)", StartDate: "2021.01.01",
			LeaveStart: "2021.03.01", LeaveEnd: "2021.04.30"},
		// Record's own dates as the last resort.
		{Type: "휴직", StartDate: "2022.09.01", EndDate: "2022.11.30"},
	}
	// 3 (explicit) + 2 (2021.03.01-2021.04.30) + 3 (2022.09.01-2022.11.30)
	if got := promotion.LeaveMonths(history); got != 8 {
		t.Errorf("LeaveMonths = %v, want 8", got)
	}
}

func TestLeaveMonths_YearsFieldFolds(t *testing.T) {
	history := []roster.AppointmentRecord{
		{Type: "휴직", StartDate: "2020.03.01", LeaveYears: 1, LeaveMonths: 2},
	}
	if got := promotion.LeaveMonths(history); got != 14 {
		t.Errorf("LeaveMonths = %v, want 14", got)
	}
}

// =============================================================================
// INFO TESTS
// =============================================================================

func TestInfo_PostRegimeAssistant(t *testing.T) {
	fx := newFixture(t)
	f := roster.FacultyRecord{
		Name: "김철수", Department: "기계공학과",
		Rank: "조교수", HireDate: "2017.01.15", Status: "재직",
	}

	engine := fx.engine(t, day(2025, time.January, 1))
	info := engine.Info(fx.ctx, f)

	if info.Regime != promotion.RegimePost2012 {
		t.Errorf("Regime = %s", info.Regime)
	}
	if info.Requirement == nil || info.Requirement.Years != 6 {
		t.Fatalf("Requirement = %+v, want 6 years", info.Requirement)
	}
	// 2017.01.15 + 6 years, snapped forward across the lapsed cycles to
	// the base year's April date.
	wantDate(t, "EligibleDate", info.EligibleDate, day(2023, time.January, 15))
	wantDate(t, "NextPromotionDate", info.NextPromotionDate, day(2025, time.April, 1))
	wantDate(t, "SubmissionDeadline", info.SubmissionDeadline, day(2025, time.February, 28))

	if info.DaysUntilPromotion == nil || *info.DaysUntilPromotion != 90 {
		t.Errorf("DaysUntilPromotion = %v, want 90", info.DaysUntilPromotion)
	}
	if !info.IsCandidate {
		t.Error("expected a candidate")
	}
}

func TestInfo_LeaveShiftsTenureClockOnly(t *testing.T) {
	fx := newFixture(t)
	leave := []roster.AppointmentRecord{
		{Type: "휴직(육아)", StartDate: "2021.03.01", LeaveMonths: 3},
	}
	base := day(2025, time.January, 1)

	// Tenure track: 2019.03.01 + 6y = 2025.03.01, +3 months leave pushes
	// past April 1 into the October cycle.
	tenure := roster.FacultyRecord{
		Name: "김철수", Department: "기계공학과",
		Rank: "조교수", HireDate: "2019.03.01", Status: "재직",
	}
	fx.seedHistory(t, tenure, leave)
	info := fx.engine(t, base).Info(fx.ctx, tenure)
	wantDate(t, "EligibleDate", info.EligibleDate, day(2025, time.June, 1))
	wantDate(t, "NextPromotionDate", info.NextPromotionDate, day(2025, time.October, 1))

	// Non-tenure track: identical dates and leave, but the contract clock
	// never shifts.
	nonTenure := roster.FacultyRecord{
		Name: "이영희", Department: "전자공학과",
		Rank: "조교수(비정년트랙)", HireDate: "2019.03.01", Status: "재직",
	}
	fx.seedHistory(t, nonTenure, leave)
	info = fx.engine(t, base).Info(fx.ctx, nonTenure)
	if info.Regime != promotion.RegimeNonTenure {
		t.Fatalf("Regime = %s", info.Regime)
	}
	wantDate(t, "EligibleDate", info.EligibleDate, day(2025, time.March, 1))
	wantDate(t, "NextPromotionDate", info.NextPromotionDate, day(2025, time.April, 1))
}

func TestInfo_PreRegimeLapsedEligibility(t *testing.T) {
	fx := newFixture(t)
	f := roster.FacultyRecord{
		Name: "박민수", Department: "수학과",
		Rank: "조교수", HireDate: "2010.05.01", Status: "재직",
	}

	// Eligibility lapsed in 2014; at a January base date the candidacy
	// re-surfaces at this year's April date, never at the stale 2014 date.
	info := fx.engine(t, day(2026, time.January, 1)).Info(fx.ctx, f)
	if info.Regime != promotion.RegimePre2012 {
		t.Errorf("Regime = %s", info.Regime)
	}
	wantDate(t, "NextPromotionDate", info.NextPromotionDate, day(2026, time.April, 1))
	if !info.IsCandidate {
		t.Error("lapsed candidate should re-surface")
	}

	// Past October 1 the year has no official date left.
	info = fx.engine(t, day(2026, time.November, 15)).Info(fx.ctx, f)
	if info.NextPromotionDate != nil {
		t.Errorf("NextPromotionDate = %v past the last official date", *info.NextPromotionDate)
	}
	if info.IsCandidate {
		t.Error("no candidacy should exist past the year's last official date")
	}
}

func TestInfo_AssociateCountsFromRankApproval(t *testing.T) {
	fx := newFixture(t)
	f := roster.FacultyRecord{
		Name: "최수진", Department: "화학과",
		Rank: "부교수", HireDate: "2015.03.01", RankApprovedAt: "2018.06.15",
		Status: "재직",
	}
	fx.seedHistory(t, f, []roster.AppointmentRecord{
		{Type: "최초임용", Rank: "조교수", StartDate: "2015.03.01"},
		{Type: "승진", Rank: "부교수", StartDate: "2018.06.15"},
		{Type: "휴직(육아)", StartDate: "2020.03.01", LeaveMonths: 2},
	})

	// 2018.06.15 + 8 years + 2 months leave = 2026.08.15 -> October 1.
	info := fx.engine(t, day(2026, time.January, 1)).Info(fx.ctx, f)
	if info.Requirement == nil || info.Requirement.Years != 8 {
		t.Fatalf("Requirement = %+v, want 8 years", info.Requirement)
	}
	wantDate(t, "EligibleDate", info.EligibleDate, day(2026, time.August, 15))
	wantDate(t, "NextPromotionDate", info.NextPromotionDate, day(2026, time.October, 1))
	wantDate(t, "SubmissionDeadline", info.SubmissionDeadline, day(2026, time.August, 31))
	if !info.IsCandidate {
		t.Error("expected a candidate")
	}
}

func TestInfo_TerminalRanks(t *testing.T) {
	fx := newFixture(t)
	base := day(2026, time.January, 1)

	// Full professors have nowhere to go.
	full := roster.FacultyRecord{
		Name: "정교수", Department: "물리학과",
		Rank: "교수", HireDate: "2000.03.01", Status: "재직",
	}
	info := fx.engine(t, base).Info(fx.ctx, full)
	if info.Requirement != nil || info.EligibleDate != nil || info.IsCandidate {
		t.Errorf("full professor evaluated as promotable: %+v", info)
	}

	// Non-tenure associates hit the track ceiling.
	ceiling := roster.FacultyRecord{
		Name: "한부교수", Department: "물리학과",
		Rank: "부교수(비정년트랙)", HireDate: "2015.03.01", Status: "재직",
	}
	info = fx.engine(t, base).Info(fx.ctx, ceiling)
	if info.Regime != promotion.RegimeNonTenure {
		t.Errorf("Regime = %s", info.Regime)
	}
	if info.Requirement != nil || info.EligibleDate != nil || info.IsCandidate {
		t.Errorf("non-tenure associate evaluated as promotable: %+v", info)
	}
}

func TestInfo_ExceptionSuppressesCandidacy(t *testing.T) {
	fx := newFixture(t)
	f := roster.FacultyRecord{
		Name: "김철수", Department: "기계공학과",
		Rank: "조교수", HireDate: "2017.01.15", Status: "재직",
	}
	fx.seedException(t, roster.ExceptionRecord{
		Name: "김철수", Department: "기계공학과", Type: "정년 임박", Active: true,
	})

	info := fx.engine(t, day(2025, time.January, 1)).Info(fx.ctx, f)

	// The derived dates survive; only the candidacy is suppressed.
	wantDate(t, "NextPromotionDate", info.NextPromotionDate, day(2025, time.April, 1))
	if !info.Exception.HasException {
		t.Fatal("exception not reported")
	}
	if info.Exception.AppliesTo != promotion.PermanentExclusion {
		t.Errorf("AppliesTo = %q", info.Exception.AppliesTo)
	}
	if info.IsCandidate {
		t.Error("candidacy not suppressed")
	}
}

func TestInfo_YearsInRank(t *testing.T) {
	fx := newFixture(t)
	f := roster.FacultyRecord{
		Name: "김철수", Department: "기계공학과",
		Rank: "조교수", HireDate: "2019.01.01", Status: "재직",
	}
	info := fx.engine(t, day(2025, time.January, 1)).Info(fx.ctx, f)
	if info.YearsInRank == nil {
		t.Fatal("YearsInRank absent")
	}
	if !info.YearsInRank.Equal(decimal.NewFromInt(6)) {
		t.Errorf("YearsInRank = %s, want 6", info.YearsInRank)
	}
}

// =============================================================================
// ROSTER EVALUATION TESTS
// =============================================================================

func TestCalculateAll_KeepsOnlyCandidates(t *testing.T) {
	fx := newFixture(t)
	faculty := []roster.FacultyRecord{
		{Name: "김철수", Department: "기계공학과", Rank: "조교수", HireDate: "2017.01.15", Status: "재직"},
		{Name: "정교수", Department: "물리학과", Rank: "교수", HireDate: "2000.03.01", Status: "재직"},
		{Name: "신입", Department: "수학과", Rank: "조교수", HireDate: "2024.09.01", Status: "재직"},
	}

	candidates := fx.engine(t, day(2025, time.January, 1)).CalculateAll(fx.ctx, faculty)
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if candidates[0].Faculty.Name != "김철수" {
		t.Errorf("candidate = %q", candidates[0].Faculty.Name)
	}
}
