package models

import (
	"errors"
	"fmt"
)

// Recoverable, caller-facing errors of the versioning engine. The service
// layer surfaces these unchanged; handlers translate them to HTTP statuses.
var (
	ErrMissingChangeLog        = errors.New("a change log message is required when creating a new version")
	ErrCurrentVersionProtected = errors.New("the current version of a document cannot be deleted")
	ErrNoCurrentVersion        = errors.New("document has no current version")
	ErrCrossDocumentComparison = errors.New("cannot compare versions of different documents")
	ErrDocumentNotFound        = errors.New("document not found")
	ErrVersionNotFound         = errors.New("document version not found")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrForbidden               = errors.New("insufficient permissions")
)

// InvalidTransitionError reports a status transition that is not permitted
// from the document's current state.
type InvalidTransitionError struct {
	From DocumentStatus
	To   DocumentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// IntegrityMismatchError reports that a recomputed content digest does not
// match the stored or supplied checksum.
type IntegrityMismatchError struct {
	Expected string
	Actual   string
}

func (e *IntegrityMismatchError) Error() string {
	return fmt.Sprintf("content checksum mismatch: expected %s, got %s", e.Expected, e.Actual)
}
