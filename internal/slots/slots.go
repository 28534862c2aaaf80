// Package slots holds the structured move details collected over a
// conversation and the merge/validation rules that keep them consistent.
package slots

import (
	"slices"
	"strings"
	"time"
)

// Field display names used in missing-field prompts.
const (
	FieldOrigin      = "origin location"
	FieldDestination = "destination"
	FieldMoveSize    = "move size"
	FieldMoveDate    = "move date"
)

// MoveSlots is the structured representation of one move. Zero values mean
// "not yet provided"; use the Has* predicates rather than testing fields
// directly. MoveDate is an ISO calendar date once set. CostMin/CostMax are
// present only while a computed estimate is current.
type MoveSlots struct {
	Origin       string
	Destination  string
	MoveSize     string
	MoveDate     string
	Services     []string
	ContactName  string
	ContactPhone string
	ContactEmail string
	CostMin      *float64
	CostMax      *float64
}

// Extracted is a best-effort partial extraction from one user turn. All
// fields are raw model output: MoveDate is natural-language text, MoveSize
// and Services are unnormalized tokens. Empty means "not mentioned".
type Extracted struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	MoveSize    string   `json:"move_size"`
	MoveDate    string   `json:"move_date"`
	Services    []string `json:"additional_services"`
	ContactName string   `json:"username"`
	ContactNo   string   `json:"contact_no"`
}

// IsZero reports whether nothing was extracted.
func (e Extracted) IsZero() bool {
	return e.Origin == "" && e.Destination == "" && e.MoveSize == "" &&
		e.MoveDate == "" && len(e.Services) == 0 && e.ContactName == "" && e.ContactNo == ""
}

func (s MoveSlots) HasOrigin() bool      { return strings.TrimSpace(s.Origin) != "" }
func (s MoveSlots) HasDestination() bool { return strings.TrimSpace(s.Destination) != "" }
func (s MoveSlots) HasMoveSize() bool    { return strings.TrimSpace(s.MoveSize) != "" }
func (s MoveSlots) HasMoveDate() bool    { return strings.TrimSpace(s.MoveDate) != "" }
func (s MoveSlots) HasEstimate() bool    { return s.CostMin != nil && s.CostMax != nil }

// RequiredForEstimate reports whether all four pricing-required fields are set.
func (s MoveSlots) RequiredForEstimate() bool {
	return s.HasOrigin() && s.HasDestination() && s.HasMoveSize() && s.HasMoveDate()
}

// MissingForEstimate lists the display names of unset pricing-required
// fields, in prompt order.
func (s MoveSlots) MissingForEstimate() []string {
	var missing []string
	if !s.HasOrigin() {
		missing = append(missing, FieldOrigin)
	}
	if !s.HasDestination() {
		missing = append(missing, FieldDestination)
	}
	if !s.HasMoveSize() {
		missing = append(missing, FieldMoveSize)
	}
	if !s.HasMoveDate() {
		missing = append(missing, FieldMoveDate)
	}
	return missing
}

// SetEstimate records a freshly computed cost range.
func (s *MoveSlots) SetEstimate(min, max float64) {
	s.CostMin = &min
	s.CostMax = &max
}

// InvalidateEstimate clears a stale cost range.
func (s *MoveSlots) InvalidateEstimate() {
	s.CostMin = nil
	s.CostMax = nil
}

// Merge folds an extraction result into current. Only non-empty extracted
// fields overwrite; a missing field never erases existing data. Services
// merge as a set union of recognized tokens. The returned bool reports
// whether an estimate-driving field changed, in which case any existing cost
// range has been invalidated and must be recomputed before the next
// estimate-bearing reply.
//
// A move date that fails normalization (ErrDateInvalid) or lies in the past
// (ErrDateInPast) is rejected: the error is returned, the date field is left
// unchanged, and every other field is still merged.
func Merge(current MoveSlots, ex Extracted, now time.Time) (MoveSlots, bool, error) {
	updated := current
	invalidated := false

	if v := strings.TrimSpace(ex.Origin); v != "" && !strings.EqualFold(v, current.Origin) {
		updated.Origin = v
		invalidated = true
	}
	if v := strings.TrimSpace(ex.Destination); v != "" && !strings.EqualFold(v, current.Destination) {
		updated.Destination = v
		invalidated = true
	}
	if v := strings.TrimSpace(ex.MoveSize); v != "" {
		normalized := NormalizeSize(v)
		if normalized != current.MoveSize {
			updated.MoveSize = normalized
			invalidated = true
		}
	}

	if merged := mergeServices(current.Services, ex.Services); !slices.Equal(merged, current.Services) {
		updated.Services = merged
		invalidated = true
	}

	var dateErr error
	if v := strings.TrimSpace(ex.MoveDate); v != "" {
		normalized, err := NormalizeDate(v, now)
		if err != nil {
			dateErr = err
		} else if normalized != current.MoveDate {
			updated.MoveDate = normalized
			invalidated = true
		}
	}

	if invalidated {
		updated.InvalidateEstimate()
	}
	return updated, invalidated, dateErr
}

func mergeServices(current, extracted []string) []string {
	merged := slices.Clone(current)
	for _, token := range NormalizeServices(extracted) {
		if !slices.Contains(merged, token) {
			merged = append(merged, token)
		}
	}
	slices.Sort(merged)
	return merged
}
