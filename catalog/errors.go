package catalog

import "fmt"

// DuplicateError reports a name registered twice.
type DuplicateError struct {
	Kind     string
	Name     string
	Existing string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s name %q already used by %q", e.Kind, e.Name, e.Existing)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }
