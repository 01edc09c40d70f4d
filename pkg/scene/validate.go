package scene

import (
	"fmt"
)

// ValidationSeverity indicates whether a finding blocks rendering or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks rendering
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	EntryID  EntryID            // which entry has the problem (zero if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.EntryID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] entry %s: %s", e.Severity, e.EntryID.Short(), e.Message)
}

// Validate checks the scene and every polytope in it. An empty slice means
// the scene is valid. Validate never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateOrder(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validatePolytopes(s)...)
	return errs
}

// HasErrors reports whether errs holds an error-severity finding.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

func validateOrder(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, id := range s.Order {
		if _, ok := s.Entries[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("order references non-existent entry %s", id.Short()),
				Severity: SeverityError,
			})
		}
	}
	for name, id := range s.NameIndex {
		if _, ok := s.Entries[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent entry %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateNames reports empty names and names defined more than once.
// Entries with the same name share an ID, so a redefinition shows up as
// the ID appearing twice in Order.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	count := make(map[EntryID]int, len(s.Order))
	for _, id := range s.Order {
		count[id]++
	}
	reported := make(map[EntryID]bool)
	for _, id := range s.Order {
		e := s.Entries[id]
		if e == nil || reported[id] {
			continue
		}
		reported[id] = true
		if e.Name == "" {
			errs = append(errs, ValidationError{
				EntryID:  id,
				Message:  "entry has an empty name",
				Severity: SeverityError,
			})
		}
		if count[id] > 1 {
			errs = append(errs, ValidationError{
				EntryID:  id,
				Message:  fmt.Sprintf("name %q defined %d times", e.Name, count[id]),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func validatePolytopes(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, e := range s.All() {
		if e.Polytope == nil {
			errs = append(errs, ValidationError{
				EntryID:  e.ID,
				Message:  "entry has no polytope",
				Severity: SeverityError,
			})
			continue
		}
		for _, ve := range e.Polytope.Validate() {
			errs = append(errs, ValidationError{
				EntryID:  e.ID,
				Message:  ve.Error(),
				Severity: SeverityError,
			})
		}
		if e.Polytope.Count(2) == 0 {
			errs = append(errs, ValidationError{
				EntryID:  e.ID,
				Message:  fmt.Sprintf("%q has no faces to render", e.Name),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}
