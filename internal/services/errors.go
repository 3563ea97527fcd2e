package services

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden          = errors.New("forbidden")
	ErrNothingToUpdate    = errors.New("nothing to update")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrTenantInactive     = errors.New("tenant not active")
	ErrSubdomainTaken     = errors.New("subdomain already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account inactive")
	ErrRestrictedFields   = errors.New("only super_admin can update plan/status/limits")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserLimitReached   = errors.New("subscription limit reached")
	ErrEmailTaken         = errors.New("email already exists in this tenant")
	ErrCannotDeleteSelf   = errors.New("cannot delete yourself")
	ErrProjectNotFound    = errors.New("project not found")
	ErrProjectLimit       = errors.New("project limit reached")
	ErrTaskNotFound       = errors.New("task not found")
	ErrAssigneeNotInScope = errors.New("assignedTo must belong to same tenant")
)

// ValidationError reports a malformed input value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
