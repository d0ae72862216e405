/*
exceptions.go - Manual exception filter and the restriction hook

Administrators record exceptions for people who must not surface as
candidates: a record without a promotion date excludes the person from
every evaluation, a dated record excludes exactly that official date.
Exceptions are evaluated in storage order; the first applicable one wins.
*/
package promotion

import (
	"time"

	"github.com/facultyops/promotion-engine/roster"
)

// PermanentExclusion is the AppliesTo marker of an undated exception.
const PermanentExclusion = "영구 제외"

// ExceptionResult reports whether an exception suppresses a candidacy.
type ExceptionResult struct {
	HasException bool   `json:"hasException"`
	Type         string `json:"type,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Note         string `json:"note,omitempty"`
	AppliesTo    string `json:"appliesTo,omitempty"`
}

// CheckException finds the first active exception matching the person that
// applies at the candidate date. Undated exceptions apply regardless of
// the date, including when no candidate date exists at all.
func CheckException(records []roster.ExceptionRecord, f roster.FacultyRecord, candidateDate *time.Time) ExceptionResult {
	for _, ex := range records {
		if !ex.Matches(f.Name, f.Department) {
			continue
		}
		if ex.PromotionDate == "" {
			return ExceptionResult{
				HasException: true,
				Type:         ex.Type,
				Reason:       ex.Reason,
				Note:         ex.Note,
				AppliesTo:    PermanentExclusion,
			}
		}
		if candidateDate != nil && ex.AppliesAt(*candidateDate) {
			return ExceptionResult{
				HasException: true,
				Type:         ex.Type,
				Reason:       ex.Reason,
				Note:         ex.Note,
				AppliesTo:    ex.PromotionDate,
			}
		}
	}
	return ExceptionResult{}
}

// RestrictionResult reports a regulatory promotion restriction (art. 15-2).
type RestrictionResult struct {
	IsRestricted bool   `json:"isRestricted"`
	Reason       string `json:"reason,omitempty"`
}

// CheckRestrictions is the stable extension point for disciplinary holds.
// The current rule set has no restriction data, so nobody is restricted.
// TODO: wire disciplinary and administrative-leave records once the HR
// export starts carrying them.
func CheckRestrictions(_ roster.FacultyRecord) RestrictionResult {
	return RestrictionResult{IsRestricted: false}
}
