package services

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrFastAlreadyActive  = errors.New("fast already active")
	ErrFastNotActive      = errors.New("fast is not active")
	ErrSessionStillActive = errors.New("session is still active")
	ErrInvalidCursor      = errors.New("invalid cursor")
	ErrEmailNotAuthorized = errors.New("email not authorized")
)

// ValidationError carries a rejected ValidationResult across the service
// boundary so handlers can report the offending field. Cause, when set, is a
// sentinel that classifies the rejection.
type ValidationError struct {
	Result ValidationResult
	Cause  error
}

func (err *ValidationError) Error() string {
	return err.Result.Message
}

func (err *ValidationError) Unwrap() error {
	return err.Cause
}

func validationFailure(result ValidationResult) error {
	if result.OK {
		return nil
	}
	return &ValidationError{Result: result}
}

func alreadyActiveFailure() error {
	return &ValidationError{
		Result: ValidateStartNewFast(true),
		Cause:  ErrFastAlreadyActive,
	}
}
