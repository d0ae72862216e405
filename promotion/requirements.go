/*
Package promotion implements the faculty promotion rules engine.

PURPOSE:
  Deterministic derivation, per faculty member, of: the applicable
  regulatory regime, the date the years-in-rank requirement is satisfied,
  the official biannual promotion date that follows, and whether manually
  recorded exceptions suppress the candidacy.

REGIMES (personnel regulation, art. 15, as amended 2021-04-06):
  1. Tenure track hired before 2012-03-01
       assistant -> associate: 4 years
       associate -> full:      5 years
  2. Tenure track hired on/after 2012-03-01
       assistant -> associate: 6 years
       associate -> full:      8 years (regulation text says 7; 8 is the
                               operative in-house practice and the figure
                               this table must carry)
  3. Non-tenure track (introduced 2021-04-06)
       assistant -> associate: 6 years
       associate -> full:      no rule - unreachable from this track

LEAVE CREDIT (art. 15 §1):
  Leave periods do not count toward the required years - the eligible date
  shifts by the accumulated leave months. This applies to TENURE TRACK
  ONLY: non-tenure appointments are contract-based and leave does not toll
  the contract clock. The asymmetry is legally grounded, not an oversight.

PROMOTION CALENDAR (art. 16):
  Promotions are conferred on April 1 and October 1 only. See calendar.go.

FAIL-CLOSED:
  Every derivation that cannot be resolved (missing dates, unknown rank,
  no applicable requirement) yields an absent value, and the person simply
  does not appear in the candidate list.
*/
package promotion

import (
	"time"

	"github.com/facultyops/promotion-engine/dates"
	"github.com/facultyops/promotion-engine/roster"
)

// Regime is the applicable rule-set variant.
type Regime string

const (
	RegimePre2012   Regime = "before_2012"
	RegimePost2012  Regime = "after_2012"
	RegimeNonTenure Regime = "non_tenure"
)

// CutoffDate separates the pre-2012 and post-2012 tenure regimes.
var CutoffDate = dates.Date(2012, time.March, 1)

// RankKey is the canonical rank under promotion rules.
type RankKey string

const (
	RankAssistant RankKey = "assistant"
	RankAssociate RankKey = "associate"
)

// Requirement is one row of the static requirement table.
type Requirement struct {
	NextRank string `json:"nextRank"`
	Years    int    `json:"years"`
}

// requirements is the full (regime, rank) table. Immutable.
var requirements = map[Regime]map[RankKey]Requirement{
	RegimePre2012: {
		RankAssistant: {NextRank: "부교수", Years: 4},
		RankAssociate: {NextRank: "교수", Years: 5},
	},
	RegimePost2012: {
		RankAssistant: {NextRank: "부교수", Years: 6},
		RankAssociate: {NextRank: "교수", Years: 8},
	},
	RegimeNonTenure: {
		RankAssistant: {NextRank: "부교수", Years: 6},
		// associate -> full does not exist on the non-tenure track
	},
}

// LookupRequirement returns the requirement for a (regime, rank) pair.
func LookupRequirement(regime Regime, rank RankKey) (Requirement, bool) {
	req, ok := requirements[regime][rank]
	return req, ok
}

// CanonicalRank maps a free-text rank to its requirement-table key.
// Full professors and unrecognized ranks have no key (terminal).
func CanonicalRank(rank roster.Rank) (RankKey, bool) {
	switch {
	case rank.IsAssistant():
		return RankAssistant, true
	case rank.IsAssociate():
		return RankAssociate, true
	default:
		return "", false
	}
}

// =============================================================================
// REGIME CLASSIFIER
// =============================================================================

// TenureTrackHireDate finds the start date of the earliest initial-hire
// record whose rank is assistant professor without the non-tenure
// qualifier. Records predating the professorship (instructor, coach) and
// non-tenure stints are thereby excluded. Falls back to the roster's own
// first-hire field when the history has no such record.
func TenureTrackHireDate(f roster.FacultyRecord, history []roster.AppointmentRecord) (time.Time, bool) {
	return hireDateScan(f, history, false)
}

// NonTenureHireDate is the mirror scan requiring the non-tenure qualifier,
// used as the countdown base for non-tenure assistant professors.
func NonTenureHireDate(f roster.FacultyRecord, history []roster.AppointmentRecord) (time.Time, bool) {
	return hireDateScan(f, history, true)
}

func hireDateScan(f roster.FacultyRecord, history []roster.AppointmentRecord, wantNonTenure bool) (time.Time, bool) {
	for _, rec := range roster.SortAppointments(history) {
		if rec.Category() != roster.CategoryInitial {
			continue
		}
		if !rec.Rank.IsAssistant() || rec.Rank.IsNonTenure() != wantNonTenure {
			continue
		}
		if start, ok := rec.Start(); ok {
			return start, true
		}
	}
	return f.FirstHireDate()
}

// Classify determines the regime for a faculty member.
//
// The non-tenure qualifier on the CURRENT rank wins unconditionally; only
// then does the hire date decide between the two tenure regimes. Returns
// false when no hire date can be determined (fail-closed: the person is
// excluded from candidacy).
func Classify(f roster.FacultyRecord, history []roster.AppointmentRecord) (Regime, bool) {
	if f.Rank.IsNonTenure() {
		return RegimeNonTenure, true
	}
	hireDate, ok := TenureTrackHireDate(f, history)
	if !ok {
		return "", false
	}
	if hireDate.Before(CutoffDate) {
		return RegimePre2012, true
	}
	return RegimePost2012, true
}
