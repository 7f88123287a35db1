package apperrors

import "errors"

// Sentinel errors for the template engine and its orchestration layer.
// Callers classify failures with errors.Is; wrap with fmt.Errorf("...: %w", ...).
var (
	// ErrNotFound marks a missing template, document or backing file.
	ErrNotFound = errors.New("not found")

	// ErrFormat marks an input that is not a well-formed docx file.
	ErrFormat = errors.New("malformed document")

	// ErrValidation marks a rejected field value, e.g. a key field that is
	// not one of the schema keys.
	ErrValidation = errors.New("validation failed")

	// ErrGeneration marks a render or save failure that is not covered by
	// the more specific errors above.
	ErrGeneration = errors.New("document generation failed")
)
