/*
store.go - Key-value collaborator interface and the cached Repository

PURPOSE:
  All persistence is an external key-value store holding opaque JSON blobs
  under four well-known keys. The Repository is the typed, cached view the
  engine reads through.

CACHE CONTRACT:
  The repository caches decoded blobs process-wide. Any write to the
  underlying store MUST be followed by Invalidate() before the next
  evaluation, or stale reads are possible. Every write method on the
  repository calls Invalidate() itself; external writers (a second process,
  a manual DB edit) are responsible for their own invalidation signal.

READ FAILURE POLICY:
  A missing key decodes to the empty value (empty roster, empty history,
  no exceptions). Malformed JSON is the collaborator's failure and is
  returned as an error; the engine's callers treat it as "no data".

KEYS:
  facultyData              []FacultyRecord
  appointmentData          map["{name}_{department}"]AppointmentHistory
  promotionExceptions      []ExceptionRecord
  specialManagementRecords []SpecialCaseRecord
*/
package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Well-known storage keys.
const (
	KeyFaculty      = "facultyData"
	KeyAppointments = "appointmentData"
	KeyExceptions   = "promotionExceptions"
	KeySpecialCases = "specialManagementRecords"
)

// KV is the external persistence collaborator: opaque JSON blobs by key.
type KV interface {
	// Get returns the blob for key, or found=false when absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores the blob for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// AppointmentHistory is the stored per-person record list.
type AppointmentHistory struct {
	Appointments []AppointmentRecord `json:"appointments"`
}

// SpecialCaseRecord tracks a person flagged for manual promotion or
// reappointment follow-up, with the administrator's expected window.
type SpecialCaseRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Department   string    `json:"department"`
	Type         string    `json:"type"` // "promotion" or "reappointment"
	ExpectedDate string    `json:"expectedDate,omitempty"`
	Conclusion   string    `json:"conclusion,omitempty"`
	Note         string    `json:"note,omitempty"`
	AddedAt      time.Time `json:"addedAt"`
}

// =============================================================================
// REPOSITORY - typed cached view over the KV store
// =============================================================================

type Repository struct {
	kv  KV
	log *zap.Logger

	mu           sync.RWMutex
	faculty      []FacultyRecord
	appointments map[string]AppointmentHistory
	exceptions   []ExceptionRecord
	specialCases []SpecialCaseRecord
	loadedAt     time.Time
}

func NewRepository(kv KV, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{kv: kv, log: log}
}

// Invalidate drops the cached snapshot. Must be called after any write to
// the underlying store before the next evaluation.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faculty = nil
	r.appointments = nil
	r.exceptions = nil
	r.specialCases = nil
	r.loadedAt = time.Time{}
	r.log.Debug("repository cache invalidated")
}

func (r *Repository) loaded() bool {
	return !r.loadedAt.IsZero()
}

// load decodes all four blobs under the write lock. Missing keys decode to
// empty values.
func (r *Repository) load(ctx context.Context) error {
	if err := getJSON(ctx, r.kv, KeyFaculty, &r.faculty); err != nil {
		return err
	}
	if err := getJSON(ctx, r.kv, KeyAppointments, &r.appointments); err != nil {
		return err
	}
	if err := getJSON(ctx, r.kv, KeyExceptions, &r.exceptions); err != nil {
		return err
	}
	if err := getJSON(ctx, r.kv, KeySpecialCases, &r.specialCases); err != nil {
		return err
	}
	if r.appointments == nil {
		r.appointments = make(map[string]AppointmentHistory)
	}
	r.loadedAt = time.Now()
	r.log.Debug("repository cache loaded",
		zap.Int("faculty", len(r.faculty)),
		zap.Int("histories", len(r.appointments)),
		zap.Int("exceptions", len(r.exceptions)))
	return nil
}

func (r *Repository) ensure(ctx context.Context) error {
	r.mu.RLock()
	ok := r.loaded()
	r.mu.RUnlock()
	if ok {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded() {
		return nil
	}
	return r.load(ctx)
}

// =============================================================================
// READS
// =============================================================================

// Faculty returns the cached roster.
func (r *Repository) Faculty(ctx context.Context) ([]FacultyRecord, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]FacultyRecord, len(r.faculty))
	copy(out, r.faculty)
	return out, nil
}

// FindFaculty looks up a roster entry by the identity pair. The department
// matches exactly or by containment, tolerating abbreviated labels.
func (r *Repository) FindFaculty(ctx context.Context, name, department string) (FacultyRecord, bool, error) {
	faculty, err := r.Faculty(ctx)
	if err != nil {
		return FacultyRecord{}, false, err
	}
	for _, f := range faculty {
		if f.Name != name {
			continue
		}
		if f.Department == department || strings.Contains(f.Department, department) {
			return f, true, nil
		}
	}
	return FacultyRecord{}, false, nil
}

// Appointments returns the sorted appointment history for one person.
// A person with no stored history returns an empty slice.
func (r *Repository) Appointments(ctx context.Context, name, department string) ([]AppointmentRecord, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	history, ok := r.appointments[name+"_"+department]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return SortAppointments(history.Appointments), nil
}

// Exceptions returns all stored exception records in storage order.
func (r *Repository) Exceptions(ctx context.Context) ([]ExceptionRecord, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ExceptionRecord, len(r.exceptions))
	copy(out, r.exceptions)
	return out, nil
}

// SpecialCases returns the manual follow-up records.
func (r *Repository) SpecialCases(ctx context.Context) ([]SpecialCaseRecord, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SpecialCaseRecord, len(r.specialCases))
	copy(out, r.specialCases)
	return out, nil
}

// =============================================================================
// WRITES - every write invalidates the cache before returning
// =============================================================================

// SaveFaculty replaces the roster.
func (r *Repository) SaveFaculty(ctx context.Context, faculty []FacultyRecord) error {
	if err := setJSON(ctx, r.kv, KeyFaculty, faculty); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// SaveAppointments replaces one person's appointment history.
func (r *Repository) SaveAppointments(ctx context.Context, name, department string, records []AppointmentRecord) error {
	var all map[string]AppointmentHistory
	if err := getJSON(ctx, r.kv, KeyAppointments, &all); err != nil {
		return err
	}
	if all == nil {
		all = make(map[string]AppointmentHistory)
	}
	all[name+"_"+department] = AppointmentHistory{Appointments: records}
	if err := setJSON(ctx, r.kv, KeyAppointments, all); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// AddException stores a new exception record, assigning its ID and
// timestamp.
func (r *Repository) AddException(ctx context.Context, record ExceptionRecord) (ExceptionRecord, error) {
	record.ID = uuid.NewString()
	record.AddedAt = time.Now().UTC()

	existing, err := r.Exceptions(ctx)
	if err != nil {
		return ExceptionRecord{}, err
	}
	if err := setJSON(ctx, r.kv, KeyExceptions, append(existing, record)); err != nil {
		return ExceptionRecord{}, err
	}
	r.Invalidate()
	r.log.Debug("exception added", zap.String("name", record.Name), zap.String("type", record.Type))
	return record, nil
}

// UpdateException replaces the record with the same ID.
func (r *Repository) UpdateException(ctx context.Context, record ExceptionRecord) error {
	existing, err := r.Exceptions(ctx)
	if err != nil {
		return err
	}
	for i := range existing {
		if existing[i].ID == record.ID {
			record.AddedAt = existing[i].AddedAt
			existing[i] = record
			if err := setJSON(ctx, r.kv, KeyExceptions, existing); err != nil {
				return err
			}
			r.Invalidate()
			return nil
		}
	}
	return ErrExceptionNotFound
}

// DeleteException removes the record with the given ID.
func (r *Repository) DeleteException(ctx context.Context, id string) error {
	existing, err := r.Exceptions(ctx)
	if err != nil {
		return err
	}
	kept := existing[:0]
	found := false
	for _, e := range existing {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return ErrExceptionNotFound
	}
	if err := setJSON(ctx, r.kv, KeyExceptions, kept); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// AddSpecialCase stores a new manual follow-up record.
func (r *Repository) AddSpecialCase(ctx context.Context, record SpecialCaseRecord) (SpecialCaseRecord, error) {
	record.ID = uuid.NewString()
	record.AddedAt = time.Now().UTC()

	existing, err := r.SpecialCases(ctx)
	if err != nil {
		return SpecialCaseRecord{}, err
	}
	if err := setJSON(ctx, r.kv, KeySpecialCases, append(existing, record)); err != nil {
		return SpecialCaseRecord{}, err
	}
	r.Invalidate()
	return record, nil
}

// DeleteSpecialCase removes the manual follow-up record with the given ID.
func (r *Repository) DeleteSpecialCase(ctx context.Context, id string) error {
	existing, err := r.SpecialCases(ctx)
	if err != nil {
		return err
	}
	kept := existing[:0]
	found := false
	for _, s := range existing {
		if s.ID == id {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return ErrSpecialCaseNotFound
	}
	if err := setJSON(ctx, r.kv, KeySpecialCases, kept); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// =============================================================================
// JSON CODEC HELPERS
// =============================================================================

func getJSON(ctx context.Context, kv KV, key string, out any) error {
	blob, found, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if !found {
		return nil
	}
	if err := json.Unmarshal(blob, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func setJSON(ctx context.Context, kv KV, key string, in any) error {
	blob, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, blob); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
