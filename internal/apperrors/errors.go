package apperrors

import (
	"encoding/json"
	"fmt"
)

// ValidationErr is raised when provided data violates business rules
type ValidationErr struct {
	target  string
	message string
}

func (e *ValidationErr) Error() string {
	return e.message
}

// MarshalJSON serializes error for http response body
func (e *ValidationErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Target  string `json:"target"`
		Message string `json:"message"`
	}{Target: e.target, Message: e.message})
}

// NewValidationErr builds new ValidationErr
func NewValidationErr(target string, msg string) *ValidationErr {
	return &ValidationErr{
		target:  target,
		message: msg,
	}
}

// EntryNotFoundErr is raised when requested entry is missing in datasource
type EntryNotFoundErr struct {
	message string
}

func (e *EntryNotFoundErr) Error() string {
	return e.message
}

// NewEntryNotFoundErr builds new EntryNotFoundErr
func NewEntryNotFoundErr(msg string) *EntryNotFoundErr {
	return &EntryNotFoundErr{message: msg}
}

// EventPublicationErr is raised in strict events mode when domain event
// publication did not complete although the database write has already
// been committed. The record therefore exists despite the failed response.
type EventPublicationErr struct {
	eventType string
	reason    error
}

func (e *EventPublicationErr) Error() string {
	return fmt.Sprintf("failed to publish %s event - %v", e.eventType, e.reason)
}

func (e *EventPublicationErr) Unwrap() error {
	return e.reason
}

// NewEventPublicationErr builds new EventPublicationErr
func NewEventPublicationErr(eventType string, reason error) *EventPublicationErr {
	return &EventPublicationErr{
		eventType: eventType,
		reason:    reason,
	}
}
