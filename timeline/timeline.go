/*
Package timeline builds the chronological working-period ledger for one
faculty member.

PURPOSE:
  Promotion and reappointment countdowns both need a reconstruction of
  actual working time: every appointment in order, with two running
  day-clocks - the promotion clock (cumulative working days since the
  earliest tracked point) and the reappointment clock (reset at each
  reappointment record). Leave periods advance neither clock; sick leave
  is annotated but affects nothing; a currently employed person gets a
  synthetic final row extending both clocks to the evaluation base date.

SHAPE:
  The ledger is an explicit fold over the sorted appointment sequence
  carrying an accumulator struct - no loop-scoped mutable state - so
  partial sequences are directly testable.

CONSUMERS:
  Independent of the promotion engine's candidacy filter: the ledger is a
  reference artifact, shown even for people an exception suppresses.
*/
package timeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/facultyops/promotion-engine/dates"
	"github.com/facultyops/promotion-engine/roster"
)

// sickNote is the fixed annotation for sick-leave rows.
const sickNote = "병가는 재직 기간에 영향을 미치지 않음"

// CategoryExpected marks the projected future row; it never appears in
// stored appointment data.
const CategoryExpected roster.Category = "expected"

// Default projection lengths for the expected row.
const (
	projectedPromotionYears     = 6
	projectedReappointmentYears = 3
)

// Row is one ledger line.
type Row struct {
	StartDate              string          `json:"startDate"`
	EndDate                string          `json:"endDate"`
	Type                   string          `json:"type"`
	Category               roster.Category `json:"category"`
	Duration               string          `json:"duration"`
	PromotionCountdown     string          `json:"promotionCountdown"`
	ReappointmentCountdown string          `json:"reappointmentCountdown"`
	IsCurrent              bool            `json:"isCurrent,omitempty"`
	IsExpected             bool            `json:"isExpected,omitempty"`
}

// Summary totals both clocks and the accumulated leave.
type Summary struct {
	TotalPromotionDays     int    `json:"totalPromotionDays"`
	TotalPromotionText     string `json:"totalPromotionText"`
	TotalReappointmentDays int    `json:"totalReappointmentDays"`
	TotalReappointmentText string `json:"totalReappointmentText"`
	TotalLeaveDays         int    `json:"totalLeaveDays"`
}

// Table is the complete ledger for one person.
type Table struct {
	Rows    []Row    `json:"rows"`
	Summary *Summary `json:"summary"`
}

// ExpectedEvent projects a future promotion or reappointment window onto
// the ledger without touching stored data.
type ExpectedEvent struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
	Type      string `json:"type"` // "promotion" or "reappointment"
}

// leaveSpan records one leave period for the countdown annotations.
type leaveSpan struct {
	label string
	days  int
}

// accumulator is the fold state over the sorted appointment sequence.
type accumulator struct {
	initialHireDate      time.Time
	lastReappointment    time.Time
	lastReappointmentEnd time.Time

	promotionDays     int
	reappointmentDays int
	totalLeaveDays    int

	leaveForPromotion     []leaveSpan
	leaveForReappointment []leaveSpan
}

func (a *accumulator) reappointmentSeen() bool { return !a.lastReappointment.IsZero() }

// =============================================================================
// BUILDER
// =============================================================================

// Builder resolves ledger inputs through the roster repository.
type Builder struct {
	repo *roster.Repository
	log  *zap.Logger
}

func NewBuilder(repo *roster.Repository, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{repo: repo, log: log}
}

// Build assembles the ledger for one person as of baseDate. A person with
// no stored appointments yields an empty table; store failures degrade the
// same way.
func (b *Builder) Build(ctx context.Context, name, department string, baseDate time.Time, expected *ExpectedEvent) Table {
	appointments, err := b.repo.Appointments(ctx, name, department)
	if err != nil {
		b.log.Warn("ledger inputs unavailable", zap.String("name", name), zap.Error(err))
		return Table{}
	}
	var faculty *roster.FacultyRecord
	if f, ok, err := b.repo.FindFaculty(ctx, name, department); err == nil && ok {
		faculty = &f
	}
	return BuildTable(faculty, appointments, baseDate, expected)
}

// BuildTable is the pure ledger fold. faculty may be nil when the roster
// has no matching entry; the rank then defaults to assistant professor for
// the projection annotations and no synthetic current row is added.
func BuildTable(faculty *roster.FacultyRecord, appointments []roster.AppointmentRecord, baseDate time.Time, expected *ExpectedEvent) Table {
	if len(appointments) == 0 {
		return Table{}
	}

	base := dates.Midnight(baseDate)
	sorted := roster.SortAppointments(appointments)

	var acc accumulator
	rows := make([]Row, 0, len(sorted)+2)
	for _, rec := range sorted {
		rows = append(rows, foldRecord(&acc, rec))
	}

	currentRank := roster.Rank("조교수")
	if faculty != nil {
		currentRank = faculty.Rank
	}

	if faculty != nil && faculty.IsActive() {
		if row, ok := currentServiceRow(&acc, sorted[len(sorted)-1], currentRank, base); ok {
			rows = append(rows, row)
		}
	}

	if expected != nil {
		if row, ok := expectedRow(&acc, expected); ok {
			rows = append(rows, row)
		}
	}

	return Table{
		Rows: rows,
		Summary: &Summary{
			TotalPromotionDays:     acc.promotionDays,
			TotalPromotionText:     dates.DurationText(acc.promotionDays),
			TotalReappointmentDays: acc.reappointmentDays,
			TotalReappointmentText: dates.DurationText(acc.reappointmentDays),
			TotalLeaveDays:         acc.totalLeaveDays,
		},
	}
}

// foldRecord advances the accumulator by one appointment and renders its
// ledger row.
func foldRecord(acc *accumulator, rec roster.AppointmentRecord) Row {
	category := rec.Category()
	start, hasStart := rec.Start()
	end, hasEnd := rec.End()

	switch category {
	case roster.CategoryInitial:
		if acc.initialHireDate.IsZero() && hasStart {
			acc.initialHireDate = start
		}
	case roster.CategoryReappointment:
		// Each reappointment starts a fresh contract clock.
		acc.lastReappointment = start
		acc.lastReappointmentEnd = end
		acc.reappointmentDays = 0
		acc.leaveForReappointment = nil
	case roster.CategoryLeave:
		if hasStart && hasEnd {
			days := dates.DaysBetween(start, end)
			acc.totalLeaveDays += days
			span := leaveSpan{label: rec.Type, days: days}
			acc.leaveForPromotion = append(acc.leaveForPromotion, span)
			if acc.reappointmentSeen() {
				acc.leaveForReappointment = append(acc.leaveForReappointment, span)
			}
		}
	}

	duration := "-"
	if hasStart && hasEnd && category != roster.CategoryReturn {
		duration = dates.SpanText(start, end)
	}

	promotionCountdown := "-"
	if category != roster.CategoryReturn && category != roster.CategorySick && category != roster.CategoryLeave {
		if hasStart && hasEnd {
			acc.promotionDays += dates.DaysBetween(start, end)
			promotionCountdown = dates.DurationText(acc.promotionDays)
		}
	}

	reappointmentCountdown := "-"
	if acc.reappointmentSeen() && category != roster.CategoryReturn && category != roster.CategoryLeave {
		if category != roster.CategorySick && hasStart && hasEnd && !start.Before(acc.lastReappointment) {
			acc.reappointmentDays += dates.DaysBetween(start, end)
			reappointmentCountdown = dates.DurationText(acc.reappointmentDays)
		}
	}

	if category == roster.CategorySick {
		duration = sickNote
		promotionCountdown = "-"
		reappointmentCountdown = "-"
	}

	return Row{
		StartDate:              dates.Format(start),
		EndDate:                dates.Format(end),
		Type:                   rec.Type,
		Category:               category,
		Duration:               duration,
		PromotionCountdown:     promotionCountdown,
		ReappointmentCountdown: reappointmentCountdown,
	}
}

// currentServiceRow extends both clocks from the last known point through
// the base date for a currently employed person. The resumption point
// after a return-from-leave is the return record's own start date;
// otherwise service continues the day after the last record's end.
func currentServiceRow(acc *accumulator, last roster.AppointmentRecord, currentRank roster.Rank, base time.Time) (Row, bool) {
	var currentStart time.Time
	if last.Category() == roster.CategoryReturn {
		if start, ok := last.Start(); ok {
			currentStart = start
		}
	} else if end, ok := last.End(); ok {
		currentStart = end.AddDate(0, 0, 1)
	}
	if currentStart.IsZero() {
		return Row{}, false
	}

	days := dates.DaysBetween(currentStart, base)
	acc.promotionDays += days
	if acc.reappointmentSeen() {
		acc.reappointmentDays += days
	}

	reappointmentDetail := "-"
	if acc.reappointmentSeen() {
		reappointmentDetail = reappointmentCountdownDetail(acc)
	}

	return Row{
		StartDate:              dates.Format(currentStart),
		EndDate:                dates.Format(base),
		Type:                   "재직",
		Category:               roster.CategoryWorking,
		Duration:               dates.DurationText(days),
		PromotionCountdown:     promotionCountdownDetail(acc, currentRank),
		ReappointmentCountdown: reappointmentDetail,
		IsCurrent:              true,
	}, true
}

// expectedRow appends the hypothetical future window. A missing end date
// defaults to the standard contract length (promotion six years,
// reappointment three), inclusive.
func expectedRow(acc *accumulator, expected *ExpectedEvent) (Row, bool) {
	start, ok := dates.Parse(expected.StartDate)
	if !ok {
		return Row{}, false
	}
	end, hasEnd := dates.Parse(expected.EndDate)
	if !hasEnd {
		years := projectedReappointmentYears
		if expected.Type == "promotion" {
			years = projectedPromotionYears
		}
		end = start.AddDate(years, 0, -1)
	}

	periodDays := dates.DaysBetween(start, end)
	promotionDays := acc.promotionDays + periodDays
	reappointmentDays := acc.reappointmentDays
	if acc.reappointmentSeen() || expected.Type == "reappointment" {
		reappointmentDays += periodDays
	}

	label := "재임용 예정"
	if expected.Type == "promotion" {
		label = "승진 예정"
	}

	return Row{
		StartDate:              dates.Format(start),
		EndDate:                dates.Format(end),
		Type:                   label,
		Category:               CategoryExpected,
		Duration:               dates.SpanText(start, end),
		PromotionCountdown:     dates.DurationText(promotionDays),
		ReappointmentCountdown: dates.DurationText(reappointmentDays),
		IsExpected:             true,
	}, true
}

// =============================================================================
// COUNTDOWN ANNOTATIONS
// =============================================================================

// promotionCountdownDetail renders the current-row promotion annotation:
// accumulated working time, and either the satisfied-requirement note or
// the projected promotion date with any leave-driven postponement.
func promotionCountdownDetail(acc *accumulator, currentRank roster.Rank) string {
	workingText := dates.DurationText(acc.promotionDays)
	if acc.initialHireDate.IsZero() {
		return workingText
	}

	years := 8
	nextRank := "교수"
	if currentRank.IsAssistant() {
		years = 6
		nextRank = "부교수"
	}
	requiredDays := years * 365

	originalDate := acc.initialHireDate.AddDate(years, 0, 0)
	leaveDays := totalDays(acc.leaveForPromotion)
	adjustedDate := originalDate.AddDate(0, 0, leaveDays)

	if requiredDays-acc.promotionDays <= 0 {
		return fmt.Sprintf("%s (%s 승진 요건 충족)", workingText, nextRank)
	}

	if leaveDays > 0 {
		return fmt.Sprintf("%s\n[%s 승진] 원래 %s 예정 → 휴직(%s)으로 %s로 연기",
			workingText, nextRank, dates.Format(originalDate),
			spanList(acc.leaveForPromotion), dates.Format(adjustedDate))
	}
	return fmt.Sprintf("%s\n[%s 승진 예정: %s]", workingText, nextRank, dates.Format(adjustedDate))
}

// reappointmentCountdownDetail renders the current-row reappointment
// annotation: accumulated contract time and the (leave-extended) contract
// expiry.
func reappointmentCountdownDetail(acc *accumulator) string {
	workingText := dates.DurationText(acc.reappointmentDays)
	if acc.lastReappointmentEnd.IsZero() {
		return workingText
	}

	leaveDays := totalDays(acc.leaveForReappointment)
	adjustedEnd := acc.lastReappointmentEnd.AddDate(0, 0, leaveDays)

	if leaveDays > 0 {
		return fmt.Sprintf("%s\n[재임용] 원래 %s 만료 → 휴직(%s)으로 %s로 연장",
			workingText, dates.Format(acc.lastReappointmentEnd),
			spanList(acc.leaveForReappointment), dates.Format(adjustedEnd))
	}
	return fmt.Sprintf("%s\n[재임용 만료: %s]", workingText, dates.Format(acc.lastReappointmentEnd))
}

func totalDays(spans []leaveSpan) int {
	var sum int
	for _, s := range spans {
		sum += s.days
	}
	return sum
}

func spanList(spans []leaveSpan) string {
	out := ""
	for i, s := range spans {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s %s", s.label, dates.DurationText(s.days))
	}
	return out
}
