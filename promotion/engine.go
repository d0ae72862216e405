/*
engine.go - Promotion eligibility calculator

CONTROL FLOW:
  Info() resolves the regime, looks up the requirement, selects the base
  date, adds the required years, credits accumulated leave months (tenure
  track only), snaps to the official calendar, and filters through the
  exception records. Every step is fail-closed: whatever cannot be
  resolved leaves the corresponding Info field absent and the person out
  of the candidate list. No public operation returns an error - store
  failures are logged and degrade to "no data".

PURITY:
  The eligibility computation is a pure function of (faculty record,
  appointment history, base date). All mutable state lives in the roster
  repository cache, which carries its own invalidation contract.
*/
package promotion

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/facultyops/promotion-engine/dates"
	"github.com/facultyops/promotion-engine/roster"
)

// daysPerYear converts day spans to the years-in-rank reporting figure.
var daysPerYear = decimal.NewFromFloat(365.25)

// Info is the full derived promotion report for one faculty member.
// Recomputed on every evaluation, never persisted.
type Info struct {
	IsCandidate        bool               `json:"isCandidate"`
	Regime             Regime             `json:"regime,omitempty"`
	CurrentRank        roster.Rank        `json:"currentRank"`
	YearsInRank        *decimal.Decimal   `json:"yearsInRank,omitempty"`
	Requirement        *Requirement       `json:"requirement,omitempty"`
	EligibleDate       *time.Time         `json:"eligibleDate,omitempty"`
	NextPromotionDate  *time.Time         `json:"nextPromotionDate,omitempty"`
	SubmissionDeadline *time.Time         `json:"submissionDeadline,omitempty"`
	DaysUntilPromotion *int               `json:"daysUntilPromotion,omitempty"`
	DaysUntilDeadline  *int               `json:"daysUntilDeadline,omitempty"`
	Exception          ExceptionResult    `json:"exception"`
	Restriction        RestrictionResult  `json:"restriction"`
}

// Candidate pairs a faculty member with their computed report.
type Candidate struct {
	Faculty roster.FacultyRecord `json:"faculty"`
	Info    Info                 `json:"promotionInfo"`
}

// Engine evaluates the promotion rules against one base date.
type Engine struct {
	repo *roster.Repository
	base time.Time
	log  *zap.Logger
}

// NewEngine creates an engine evaluating as of baseDate.
func NewEngine(repo *roster.Repository, baseDate time.Time, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{repo: repo, base: dates.Midnight(baseDate), log: log}
}

// BaseDate returns the evaluation base date.
func (e *Engine) BaseDate() time.Time { return e.base }

// history loads a person's sorted appointment records. Store failures
// degrade to an empty history.
func (e *Engine) history(ctx context.Context, f roster.FacultyRecord) []roster.AppointmentRecord {
	records, err := e.repo.Appointments(ctx, f.Name, f.Department)
	if err != nil {
		e.log.Warn("appointment history unavailable", zap.String("key", f.Key()), zap.Error(err))
		return nil
	}
	return records
}

func (e *Engine) exceptionRecords(ctx context.Context) []roster.ExceptionRecord {
	records, err := e.repo.Exceptions(ctx)
	if err != nil {
		e.log.Warn("exception records unavailable", zap.Error(err))
		return nil
	}
	return records
}

// =============================================================================
// LEAVE ACCRUAL
// =============================================================================

// LeaveMonths sums the leave durations across a history, in months.
// Per record: the explicit duration fields win when nonzero; otherwise the
// leave-specific dates feed the inclusive month count; otherwise the
// enclosing appointment's own dates do.
func LeaveMonths(history []roster.AppointmentRecord) float64 {
	var total float64
	for _, rec := range history {
		if rec.Category() != roster.CategoryLeave {
			continue
		}
		if explicit := rec.ExplicitLeaveMonths(); explicit != 0 {
			total += explicit
			continue
		}
		if start, ok := dates.Parse(rec.LeaveStart); ok {
			if end, ok := dates.Parse(rec.LeaveEnd); ok {
				total += float64(dates.MonthsBetween(start, end))
				continue
			}
		}
		if start, ok := rec.Start(); ok {
			if end, ok := rec.End(); ok {
				total += float64(dates.MonthsBetween(start, end))
			}
		}
	}
	return total
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

// baseDateFor selects the countdown base date for a rank under a regime:
// associate professors count from the current-rank approval date when it
// exists; everything else counts from the regime-appropriate hire date.
func baseDateFor(f roster.FacultyRecord, history []roster.AppointmentRecord, regime Regime, rank RankKey) (time.Time, bool) {
	if rank == RankAssociate {
		if approved, ok := f.RankApprovalDate(); ok {
			return approved, true
		}
	}
	if regime == RegimeNonTenure {
		return NonTenureHireDate(f, history)
	}
	return TenureTrackHireDate(f, history)
}

// EligibleDate computes the date the years-in-rank requirement is
// satisfied, leave credit included. False when any input fails to resolve.
func (e *Engine) EligibleDate(f roster.FacultyRecord, history []roster.AppointmentRecord) (time.Time, bool) {
	regime, ok := Classify(f, history)
	if !ok {
		return time.Time{}, false
	}
	rank, ok := CanonicalRank(f.Rank)
	if !ok {
		return time.Time{}, false
	}
	req, ok := LookupRequirement(regime, rank)
	if !ok {
		return time.Time{}, false
	}
	base, ok := baseDateFor(f, history, regime, rank)
	if !ok {
		return time.Time{}, false
	}

	eligible := base.AddDate(req.Years, 0, 0)

	// Leave credit tolls the tenure clock only; non-tenure appointments
	// are contract-based and leave never shifts their eligibility.
	leaveMonths := LeaveMonths(history)
	if regime != RegimeNonTenure && leaveMonths > 0 {
		eligible = eligible.AddDate(0, int(leaveMonths), 0)
		e.log.Debug("leave credit applied",
			zap.String("key", f.Key()),
			zap.Float64("months", leaveMonths),
			zap.Time("eligible", eligible))
	}
	return eligible, true
}

// yearsInRank is the reporting figure: actual days in the current rank
// over 365.25, one decimal place.
func (e *Engine) yearsInRank(f roster.FacultyRecord) *decimal.Decimal {
	var base time.Time
	var ok bool
	if f.Rank.IsAssociate() {
		if base, ok = f.RankApprovalDate(); !ok {
			base, ok = f.FirstHireDate()
		}
	} else {
		base, ok = f.FirstHireDate()
	}
	if !ok {
		return nil
	}
	days := decimal.NewFromInt(int64(dates.DaysUntil(e.base, base)))
	years := days.Div(daysPerYear).Round(1)
	return &years
}

// =============================================================================
// EVALUATION
// =============================================================================

// Info computes the full promotion report for one faculty member.
func (e *Engine) Info(ctx context.Context, f roster.FacultyRecord) Info {
	history := e.history(ctx, f)

	info := Info{
		CurrentRank: f.Rank,
		YearsInRank: e.yearsInRank(f),
		Restriction: CheckRestrictions(f),
	}

	if regime, ok := Classify(f, history); ok {
		info.Regime = regime
		if rank, ok := CanonicalRank(f.Rank); ok {
			if req, ok := LookupRequirement(regime, rank); ok {
				info.Requirement = &req
			}
		}
	}

	if eligible, ok := e.EligibleDate(f, history); ok {
		info.EligibleDate = &eligible
		if next, ok := NextPromotionDate(eligible, e.base); ok {
			info.NextPromotionDate = &next
			daysToPromotion := dates.DaysUntil(next, e.base)
			info.DaysUntilPromotion = &daysToPromotion
			if deadline, ok := SubmissionDeadline(next); ok {
				info.SubmissionDeadline = &deadline
				daysToDeadline := dates.DaysUntil(deadline, e.base)
				info.DaysUntilDeadline = &daysToDeadline
			}
		}
	}

	info.Exception = CheckException(e.exceptionRecords(ctx), f, info.NextPromotionDate)
	info.IsCandidate = e.isCandidate(f, info)
	return info
}

// isCandidate: assistant or associate rank, an official date exists this
// cycle, no exception applies at it, and no restriction holds.
func (e *Engine) isCandidate(f roster.FacultyRecord, info Info) bool {
	if _, ok := CanonicalRank(f.Rank); !ok {
		return false
	}
	if info.NextPromotionDate == nil {
		return false
	}
	if info.Exception.HasException {
		e.log.Debug("candidacy suppressed by exception",
			zap.String("key", f.Key()),
			zap.String("appliesTo", info.Exception.AppliesTo))
		return false
	}
	if info.Restriction.IsRestricted {
		return false
	}
	return true
}

// IsCandidate reports whether the person surfaces in the candidate list.
func (e *Engine) IsCandidate(ctx context.Context, f roster.FacultyRecord) bool {
	return e.Info(ctx, f).IsCandidate
}

// CalculateAll evaluates the whole roster and keeps the candidates.
func (e *Engine) CalculateAll(ctx context.Context, faculty []roster.FacultyRecord) []Candidate {
	var candidates []Candidate
	for _, f := range faculty {
		info := e.Info(ctx, f)
		if info.IsCandidate {
			candidates = append(candidates, Candidate{Faculty: f, Info: info})
		}
	}
	e.log.Debug("roster evaluated",
		zap.Int("faculty", len(faculty)),
		zap.Int("candidates", len(candidates)))
	return candidates
}
