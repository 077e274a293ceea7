package uploads

import (
	"errors"
	"fmt"
)

// Kind classifies an upload failure.
type Kind string

const (
	KindFileTooLarge   Kind = "fileTooLarge"
	KindInvalidType    Kind = "invalidType"
	KindFileUnreadable Kind = "fileUnreadable"
	KindTransport      Kind = "transportError"
)

var (
	ErrFileTooLarge   = errors.New("file too large")
	ErrInvalidType    = errors.New("invalid file type")
	ErrFileUnreadable = errors.New("file unreadable")
	ErrTransport      = errors.New("upload transport error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindFileTooLarge:
		return ErrFileTooLarge
	case KindInvalidType:
		return ErrInvalidType
	case KindFileUnreadable:
		return ErrFileUnreadable
	case KindTransport:
		return ErrTransport
	default:
		return nil
	}
}

// UploadError reports why an upload could not be queued or executed.
// errors.Is matches it against the sentinel of its Kind and against Err.
type UploadError struct {
	Kind      Kind
	ElementID string
	Err       error
}

func newUploadError(kind Kind, elementID string, err error) *UploadError {
	return &UploadError{Kind: kind, ElementID: elementID, Err: err}
}

// Transport wraps a transport failure for elementID.
func Transport(elementID string, err error) *UploadError {
	return newUploadError(KindTransport, elementID, err)
}

// Unreadable reports that the selected file could no longer be read.
func Unreadable(elementID string, err error) *UploadError {
	return newUploadError(KindFileUnreadable, elementID, err)
}

func (e *UploadError) Error() string {
	msg := string(e.Kind)
	if e.ElementID != "" {
		msg = fmt.Sprintf("%s (element %s)", msg, e.ElementID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UploadError) Unwrap() []error {
	out := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		out = append(out, s)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Retryable reports whether running the same upload again may succeed.
// Validation failures need a different file.
func (e *UploadError) Retryable() bool {
	return e.Kind == KindTransport
}
