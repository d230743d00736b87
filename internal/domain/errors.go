package domain

import (
	"errors"
	"fmt"
)

// TenantNotFoundError is returned when a tenant key is absent from the
// registry catalog.
type TenantNotFoundError struct {
	Key string
}

func (e TenantNotFoundError) Error() string {
	return fmt.Sprintf("tenant %q not found", e.Key)
}

// TenantConnectionError wraps a failure to reach a tenant's backing
// store. It is never cached; the next call retries the connection.
type TenantConnectionError struct {
	Key string
	Err error
}

func (e TenantConnectionError) Error() string {
	return fmt.Sprintf("tenant %q: connection failed: %v", e.Key, e.Err)
}

func (e TenantConnectionError) Unwrap() error { return e.Err }

// MissingReferenceDataError marks an integrity violation: a row the
// algorithm requires (stop, bus model) is absent for a matched trip.
// Missing prices are NOT reported this way; they default to zero fare.
type MissingReferenceDataError struct {
	Resource string
	ID       int64
}

func (e MissingReferenceDataError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// ConflictError reports a booking collision, e.g. a seat that is
// already taken or locked by another booking in flight.
type ConflictError struct {
	Resource string
	Msg      string
}

func (e ConflictError) Error() string {
	if e.Resource == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Resource, e.Msg)
}

func IsTenantNotFound(err error) bool {
	var target TenantNotFoundError
	return errors.As(err, &target)
}

func IsTenantConnection(err error) bool {
	var target TenantConnectionError
	return errors.As(err, &target)
}

func IsMissingReferenceData(err error) bool {
	var target MissingReferenceDataError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}
