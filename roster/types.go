/*
Package roster holds the faculty data model and its persistence collaborators.

PURPOSE:
  The engine computes over three record kinds: the faculty roster, the
  per-person appointment history, and administrator-entered exception
  records. All three are stored as opaque JSON blobs in a key-value store;
  this package provides the typed view plus the cached repository the
  engine reads through.

FREE-TEXT MATCHING:
  Ranks and appointment types arrive as inconsistently labeled free text
  ("조교수(비정년트랙)", "부교수", "휴직(육아)"). Classification is
  substring containment against the keyword tables in this file — never
  exact match, production data relies on the loose labeling. Every matching
  rule lives here so the fragility stays in one testable place.

IDENTITY:
  A faculty member is identified by the (name, department) pair. There is
  no numeric ID; distinct people sharing both collide by design.

SEE ALSO:
  - store.go: KV interface and cached Repository
  - store/memory.go: in-memory KV for tests
  - ../store/sqlite: production KV
*/
package roster

import (
	"strings"
	"time"

	"github.com/facultyops/promotion-engine/dates"
)

// =============================================================================
// RANK - free-text rank classification
// =============================================================================

// Rank is the free-text rank label as stored ("조교수", "부교수(비정년트랙)", ...).
type Rank string

var (
	assistantKeywords = []string{"조교수", "assistant"}
	associateKeywords = []string{"부교수", "associate"}
	professorKeywords = []string{"교수", "professor"}
	nonTenureKeywords = []string{"비정년", "non-tenure", "nontenure"}
)

func containsAny(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (r Rank) IsAssistant() bool { return containsAny(string(r), assistantKeywords) }
func (r Rank) IsAssociate() bool { return containsAny(string(r), associateKeywords) }

// IsFull reports a terminal full-professor rank: the professor keyword
// without the assistant or associate qualifiers.
func (r Rank) IsFull() bool {
	return containsAny(string(r), professorKeywords) && !r.IsAssistant() && !r.IsAssociate()
}

// IsNonTenure reports the non-tenure-track qualifier anywhere in the label.
func (r Rank) IsNonTenure() bool { return containsAny(string(r), nonTenureKeywords) }

// =============================================================================
// APPOINTMENT CATEGORY - free-text appointment type classification
// =============================================================================

type Category string

const (
	CategoryInitial       Category = "initial"
	CategoryReappointment Category = "reappointment"
	CategoryPromotion     Category = "promotion"
	CategoryLeave         Category = "leave"
	CategoryReturn        Category = "return"
	CategorySick          Category = "sick"
	CategoryWorking       Category = "working"
	CategoryOther         Category = "other"
)

// categoryKeywords is ordered: the first matching row wins. Sick precedes
// leave so "sick leave" labels classify as sick; the Korean labels are
// pairwise disjoint, so ordering only matters for the English synonyms.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryInitial, []string{"최초임용", "initial"}},
	{CategoryReappointment, []string{"재임용", "reappoint"}},
	{CategoryPromotion, []string{"승진", "promotion"}},
	{CategorySick, []string{"병가", "sick"}},
	{CategoryLeave, []string{"휴직", "leave"}},
	{CategoryReturn, []string{"복직", "return"}},
	{CategoryWorking, []string{"재직", "active"}},
}

// Categorize maps a free-text appointment type to its category.
func Categorize(appointmentType string) Category {
	if appointmentType == "" {
		return CategoryOther
	}
	for _, row := range categoryKeywords {
		if containsAny(appointmentType, row.keywords) {
			return row.category
		}
	}
	return CategoryOther
}

// =============================================================================
// FACULTY RECORD
// =============================================================================

// FacultyRecord is one row of the faculty roster. Date fields keep the
// source's text form; parse through the accessor methods.
type FacultyRecord struct {
	Name           string `json:"name"`
	Department     string `json:"department"`
	Rank           Rank   `json:"rank"`
	HireDate       string `json:"hireDate"`       // first tenure-track hire date
	RankApprovedAt string `json:"rankApprovedAt"` // current-rank approval date
	Status         string `json:"status"`         // employment status, "재직"/"active" while employed
}

// Key returns the appointment-history storage key for this person.
func (f FacultyRecord) Key() string { return f.Name + "_" + f.Department }

// IsActive reports current employment by substring match on the status.
func (f FacultyRecord) IsActive() bool {
	return containsAny(f.Status, []string{"재직", "active"})
}

// FirstHireDate parses the roster's first-hire date field.
func (f FacultyRecord) FirstHireDate() (time.Time, bool) { return dates.Parse(f.HireDate) }

// RankApprovalDate parses the current-rank approval date field.
func (f FacultyRecord) RankApprovalDate() (time.Time, bool) { return dates.Parse(f.RankApprovedAt) }

// =============================================================================
// APPOINTMENT RECORD
// =============================================================================

// AppointmentRecord is one personnel action in a faculty member's history.
// LeaveMonths/LeaveYears are the explicit leave-duration fields some leave
// records carry; when present and nonzero they override date-derived
// durations.
type AppointmentRecord struct {
	Type        string  `json:"type"` // free text, classified via Categorize
	Rank        Rank    `json:"rank"` // rank at appointment
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate,omitempty"` // empty = open-ended
	LeaveStart  string  `json:"leaveStart,omitempty"`
	LeaveEnd    string  `json:"leaveEnd,omitempty"`
	LeaveYears  float64 `json:"leaveYears,omitempty"`
	LeaveMonths float64 `json:"leaveMonths,omitempty"`
}

func (a AppointmentRecord) Category() Category { return Categorize(a.Type) }

// Start parses the appointment start date.
func (a AppointmentRecord) Start() (time.Time, bool) { return dates.Parse(a.StartDate) }

// End parses the appointment end date. Open-ended records return false.
func (a AppointmentRecord) End() (time.Time, bool) { return dates.Parse(a.EndDate) }

// ExplicitLeaveMonths folds the explicit year/month duration fields into a
// single month count. Zero means "not recorded".
func (a AppointmentRecord) ExplicitLeaveMonths() float64 {
	return a.LeaveYears*12 + a.LeaveMonths
}

// SortAppointments orders records ascending by start date, unparseable
// dates first, preserving insertion order among ties (stable).
func SortAppointments(records []AppointmentRecord) []AppointmentRecord {
	sorted := make([]AppointmentRecord, len(records))
	copy(sorted, records)

	// Insertion sort keeps the tie-order stable without an extra key.
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0; j-- {
			prev, _ := sorted[j-1].Start()
			cur, _ := sorted[j].Start()
			if !cur.Before(prev) {
				break
			}
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	return sorted
}

// =============================================================================
// EXCEPTION RECORD
// =============================================================================

// ExceptionRecord is an administrator-entered override suppressing a
// person's candidacy. An empty PromotionDate makes the exclusion permanent;
// otherwise it applies to that official promotion date only.
type ExceptionRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Department    string    `json:"department,omitempty"` // empty = any department
	Type          string    `json:"type"`
	Reason        string    `json:"reason,omitempty"`
	Note          string    `json:"note,omitempty"`
	PromotionDate string    `json:"promotionDate,omitempty"`
	Active        bool      `json:"isActive"`
	AddedAt       time.Time `json:"addedAt"`
}

// Matches reports whether this exception targets the given person.
func (e ExceptionRecord) Matches(name, department string) bool {
	if !e.Active || e.Name != name {
		return false
	}
	return e.Department == "" || e.Department == department
}

// AppliesAt reports whether the exception suppresses candidacy at the given
// promotion date. Permanent exceptions apply at every date.
func (e ExceptionRecord) AppliesAt(promotionDate time.Time) bool {
	if e.PromotionDate == "" {
		return true
	}
	exceptionDate, ok := dates.Parse(e.PromotionDate)
	if !ok {
		return false
	}
	return dates.SameDay(exceptionDate, promotionDate)
}
