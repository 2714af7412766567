package session

import (
	"errors"
	"fmt"

	"github.com/spigell/lead-scorer/internal/scoring"
)

var (
	// ErrValidation marks bad input supplied by the caller.
	ErrValidation = errors.New("invalid request")
	// ErrPrecondition marks an operation called before the step it depends on.
	ErrPrecondition = errors.New("precondition failed")

	ErrNoOffer   = fmt.Errorf("%w: %w: save an offer first", ErrPrecondition, scoring.ErrNoOffer)
	ErrNoLeads   = fmt.Errorf("%w: %w: upload leads first", ErrPrecondition, scoring.ErrNoLeads)
	ErrNoResults = fmt.Errorf("%w: no scored results found: run scoring first", ErrPrecondition)

	ErrNotifierNotConfigured = errors.New("notification webhook is not configured")
)

// CollaboratorError wraps a failure of an external dependency.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func collaboratorError(name string, err error) error {
	return &CollaboratorError{Collaborator: name, Err: err}
}

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
