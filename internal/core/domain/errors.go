package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid input")

	ErrDuplicatePhone   = errors.New("this phone number is already registered")
	ErrDuplicateEmail   = errors.New("this email is already registered")
	ErrDuplicateLicense = errors.New("this license number is already registered")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionNotFound    = errors.New("session expired or revoked")

	ErrForbidden   = errors.New("access forbidden")
	ErrWrongPortal = errors.New("wrong portal")

	ErrActorNotFound       = errors.New("account not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrExaminationNotFound = errors.New("examination not found")

	ErrAlreadyCompleted = errors.New("examination already completed")
)

// PortalError is returned when valid credentials are presented to the login
// portal of another role.
type PortalError struct {
	Portal Role
}

func (e *PortalError) Error() string {
	return fmt.Sprintf("Unauthorized. This portal is for %ss only.", e.Portal)
}

func (e *PortalError) Is(target error) bool { return target == ErrWrongPortal }
