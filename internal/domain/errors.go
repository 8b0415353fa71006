// Package domain defines core types, interfaces, and errors for the
// measurement-data explorer.
package domain

import "fmt"

// ValidationError indicates invalid user input. The previous valid state is
// retained by the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NoSelectionError indicates a plot or export was requested while no catalog
// row is selected.
type NoSelectionError struct {
	Message string
}

func (e *NoSelectionError) Error() string { return e.Message }

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// LoadError indicates a dataset could not be read. Reported per dataset,
// never process-fatal.
type LoadError struct {
	DatasetID string
	Err       error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load dataset %s: %v", e.DatasetID, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// ExportError wraps an I/O or serialization failure during artifact export.
type ExportError struct {
	Err error
}

func (e *ExportError) Error() string { return fmt.Sprintf("export artifact: %v", e.Err) }
func (e *ExportError) Unwrap() error { return e.Err }

// StartupError indicates the catalog source is unusable. Fatal — the
// application cannot proceed without at least one dataset.
type StartupError struct {
	Message string
	Err     error
}

func (e *StartupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}
func (e *StartupError) Unwrap() error { return e.Err }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrNoSelection creates a NoSelectionError with a formatted message.
func ErrNoSelection(format string, args ...interface{}) *NoSelectionError {
	return &NoSelectionError{Message: fmt.Sprintf(format, args...)}
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrLoad creates a LoadError tagged with the dataset identifier.
func ErrLoad(datasetID string, err error) *LoadError {
	return &LoadError{DatasetID: datasetID, Err: err}
}

// ErrExport creates an ExportError wrapping the underlying failure.
func ErrExport(err error) *ExportError {
	return &ExportError{Err: err}
}

// ErrStartup creates a StartupError.
func ErrStartup(message string, err error) *StartupError {
	return &StartupError{Message: message, Err: err}
}
