/*
dto.go - Request types for the API

The response side reuses the domain types directly (they carry JSON tags
already); only the request bodies need their own shapes.
*/
package api

import (
	"github.com/facultyops/promotion-engine/roster"
	"github.com/facultyops/promotion-engine/timeline"
)

// ReplaceAppointmentsRequest replaces one person's appointment history.
type ReplaceAppointmentsRequest struct {
	Name         string                     `json:"name"`
	Department   string                     `json:"department"`
	Appointments []roster.AppointmentRecord `json:"appointments"`
}

// ExceptionRequest creates or updates an exception record.
type ExceptionRequest struct {
	Name          string `json:"name"`
	Department    string `json:"department,omitempty"`
	Type          string `json:"type"`
	Reason        string `json:"reason,omitempty"`
	Note          string `json:"note,omitempty"`
	PromotionDate string `json:"promotionDate,omitempty"`
	Active        bool   `json:"isActive"`
}

// SpecialCaseRequest creates a manual follow-up record.
type SpecialCaseRequest struct {
	Name         string `json:"name"`
	Department   string `json:"department"`
	Type         string `json:"type"`
	ExpectedDate string `json:"expectedDate,omitempty"`
	Conclusion   string `json:"conclusion,omitempty"`
	Note         string `json:"note,omitempty"`
}

// TimelineRequest builds the working-period ledger for one person.
type TimelineRequest struct {
	Name       string                  `json:"name"`
	Department string                  `json:"department"`
	BaseDate   string                  `json:"baseDate,omitempty"`
	Expected   *timeline.ExpectedEvent `json:"expected,omitempty"`
}

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
