package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors shared by the store, the service and transport adapters.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrValidation        = errors.New("validation failed")
	ErrSoldOut           = errors.New("room type sold out")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// NotFoundError is returned when a referenced record does not exist.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// Is reports ErrNotFound equivalence.
func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError carries per-field messages for a rejected command.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is reports ErrValidation equivalence.
func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Fields: map[string]string{field: message}}
}

// SoldOutError reports an exhausted room type.
type SoldOutError struct {
	HostelID string
	RoomType string
}

func (e SoldOutError) Error() string {
	return fmt.Sprintf("room type %q of hostel %q is sold out", e.RoomType, e.HostelID)
}

// Is reports ErrSoldOut equivalence.
func (e SoldOutError) Is(target error) bool {
	return target == ErrSoldOut
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			return "transaction blocked by rules: " + v.Rule + ": " + v.Message
		}
	}
	return "transaction blocked by rules"
}
