/*
handlers.go - HTTP handler implementations

PURPOSE:
  JSON glue between HTTP and the engine packages. Handlers parse inputs,
  construct a promotion.Engine for the requested base date, and serialize
  the engine's output. Every data write goes through the repository, which
  invalidates its cache before returning, so the next evaluation sees
  fresh data.

BASE DATE:
  Evaluation endpoints accept ?base=YYYY-MM-DD (any of the supported date
  shapes). Absent or unparseable values evaluate as of today.
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/facultyops/promotion-engine/dates"
	"github.com/facultyops/promotion-engine/promotion"
	"github.com/facultyops/promotion-engine/roster"
	"github.com/facultyops/promotion-engine/timeline"
)

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	repo *roster.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewHandler(repo *roster.Repository, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{repo: repo, log: log, now: time.Now}
}

// baseDate resolves the evaluation base date from the request.
func (h *Handler) baseDate(r *http.Request) time.Time {
	if text := r.URL.Query().Get("base"); text != "" {
		if base, ok := dates.Parse(text); ok {
			return base
		}
	}
	return dates.Midnight(h.now())
}

func (h *Handler) engine(r *http.Request) *promotion.Engine {
	return promotion.NewEngine(h.repo, h.baseDate(r), h.log)
}

// =============================================================================
// ROSTER
// =============================================================================

func (h *Handler) ListFaculty(w http.ResponseWriter, r *http.Request) {
	faculty, err := h.repo.Faculty(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load roster", err)
		return
	}
	writeJSON(w, http.StatusOK, faculty)
}

func (h *Handler) ReplaceFaculty(w http.ResponseWriter, r *http.Request) {
	var faculty []roster.FacultyRecord
	if err := json.NewDecoder(r.Body).Decode(&faculty); err != nil {
		writeError(w, http.StatusBadRequest, "invalid roster payload", err)
		return
	}
	if err := h.repo.SaveFaculty(r.Context(), faculty); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store roster", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": len(faculty)})
}

func (h *Handler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	department := r.URL.Query().Get("department")
	if name == "" || department == "" {
		writeError(w, http.StatusBadRequest, "name and department are required", nil)
		return
	}
	records, err := h.repo.Appointments(r.Context(), name, department)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load appointments", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) ReplaceAppointments(w http.ResponseWriter, r *http.Request) {
	var req ReplaceAppointmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid appointments payload", err)
		return
	}
	if req.Name == "" || req.Department == "" {
		writeError(w, http.StatusBadRequest, "name and department are required", nil)
		return
	}
	if err := h.repo.SaveAppointments(r.Context(), req.Name, req.Department, req.Appointments); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store appointments", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": len(req.Appointments)})
}

// =============================================================================
// PROMOTION REPORTS
// =============================================================================

func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	faculty, err := h.repo.Faculty(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load roster", err)
		return
	}
	candidates := h.engine(r).CalculateAll(r.Context(), faculty)
	writeJSON(w, http.StatusOK, map[string]any{
		"baseDate":   dates.Format(h.baseDate(r)),
		"candidates": candidates,
	})
}

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	faculty, err := h.repo.Faculty(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load roster", err)
		return
	}
	engine := h.engine(r)
	candidates := engine.CalculateAll(r.Context(), faculty)
	writeJSON(w, http.StatusOK, engine.Statistics(candidates))
}

func (h *Handler) GetPromotionInfo(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	department := r.URL.Query().Get("department")
	if name == "" || department == "" {
		writeError(w, http.StatusBadRequest, "name and department are required", nil)
		return
	}
	f, found, err := h.repo.FindFaculty(r.Context(), name, department)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load roster", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "faculty member not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, promotion.Candidate{
		Faculty: f,
		Info:    h.engine(r).Info(r.Context(), f),
	})
}

// =============================================================================
// TIMELINE
// =============================================================================

func (h *Handler) BuildTimeline(w http.ResponseWriter, r *http.Request) {
	var req TimelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid timeline request", err)
		return
	}
	if req.Name == "" || req.Department == "" {
		writeError(w, http.StatusBadRequest, "name and department are required", nil)
		return
	}
	base := dates.Midnight(h.now())
	if parsed, ok := dates.Parse(req.BaseDate); ok {
		base = parsed
	}
	builder := timeline.NewBuilder(h.repo, h.log)
	writeJSON(w, http.StatusOK, builder.Build(r.Context(), req.Name, req.Department, base, req.Expected))
}

// =============================================================================
// EXCEPTIONS
// =============================================================================

func (h *Handler) ListExceptions(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.Exceptions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load exceptions", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) CreateException(w http.ResponseWriter, r *http.Request) {
	var req ExceptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid exception payload", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	record, err := h.repo.AddException(r.Context(), roster.ExceptionRecord{
		Name:          req.Name,
		Department:    req.Department,
		Type:          req.Type,
		Reason:        req.Reason,
		Note:          req.Note,
		PromotionDate: req.PromotionDate,
		Active:        req.Active,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store exception", err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) UpdateException(w http.ResponseWriter, r *http.Request) {
	var req ExceptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid exception payload", err)
		return
	}
	record := roster.ExceptionRecord{
		ID:            chi.URLParam(r, "id"),
		Name:          req.Name,
		Department:    req.Department,
		Type:          req.Type,
		Reason:        req.Reason,
		Note:          req.Note,
		PromotionDate: req.PromotionDate,
		Active:        req.Active,
	}
	err := h.repo.UpdateException(r.Context(), record)
	if errors.Is(err, roster.ErrExceptionNotFound) {
		writeError(w, http.StatusNotFound, "exception not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update exception", err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) DeleteException(w http.ResponseWriter, r *http.Request) {
	err := h.repo.DeleteException(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, roster.ErrExceptionNotFound) {
		writeError(w, http.StatusNotFound, "exception not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete exception", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// SPECIAL CASES
// =============================================================================

func (h *Handler) ListSpecialCases(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.SpecialCases(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load special cases", err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) CreateSpecialCase(w http.ResponseWriter, r *http.Request) {
	var req SpecialCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid special case payload", err)
		return
	}
	if req.Name == "" || req.Department == "" {
		writeError(w, http.StatusBadRequest, "name and department are required", nil)
		return
	}
	record, err := h.repo.AddSpecialCase(r.Context(), roster.SpecialCaseRecord{
		Name:         req.Name,
		Department:   req.Department,
		Type:         req.Type,
		ExpectedDate: req.ExpectedDate,
		Conclusion:   req.Conclusion,
		Note:         req.Note,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store special case", err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) DeleteSpecialCase(w http.ResponseWriter, r *http.Request) {
	err := h.repo.DeleteSpecialCase(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, roster.ErrSpecialCaseNotFound) {
		writeError(w, http.StatusNotFound, "special case not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete special case", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
