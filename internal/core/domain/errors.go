package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("record not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnauthenticated = errors.New("authentication required")

// StorageErrorKind classifies a failure reported by the storage layer.
type StorageErrorKind int

const (
	// KindUnknown is any failure not attributable to the caller.
	KindUnknown StorageErrorKind = iota
	KindNotFound
	KindUniqueViolation
	KindForeignKeyViolation
	KindConstraintViolation
	KindInvalidData
)

func (k StorageErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUniqueViolation:
		return "unique_violation"
	case KindForeignKeyViolation:
		return "foreign_key_violation"
	case KindConstraintViolation:
		return "constraint_violation"
	case KindInvalidData:
		return "invalid_data"
	default:
		return "unknown"
	}
}

// StorageError is a storage failure tagged with its classification.
// Code carries the vendor code (SQLSTATE, MySQL error number, SQLite extended code).
type StorageError struct {
	Kind    StorageErrorKind
	Code    string
	Message string
	Details map[string]string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("storage %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("storage %s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) match not-found storage errors.
func (e *StorageError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// IsClientError reports whether the caller caused the failure.
func (e *StorageError) IsClientError() bool {
	return e.Kind != KindUnknown
}

// Class is "client" or "server".
func (e *StorageError) Class() string {
	if e.IsClientError() {
		return "client"
	}
	return "server"
}

// AsStorageError unwraps err into a *StorageError when possible.
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsClientError reports whether err is a client-caused storage failure.
func IsClientError(err error) bool {
	se, ok := AsStorageError(err)
	return ok && se.IsClientError()
}
