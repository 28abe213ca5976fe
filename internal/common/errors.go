// Package common contains shared sentinel errors and small utilities used
// across the application components.
package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound = errors.New("not found")
	ErrorInternal = errors.New("internal error")

	// registration errors
	ErrorValidation     = errors.New("validation error")
	ErrorDuplicateEmail = errors.New("email already registered")

	// login rejections
	ErrorUnknownAccount       = errors.New("account not found")
	ErrorInvalidCredentials   = errors.New("incorrect password")
	ErrorSecondFactorRejected = errors.New("second factor code rejected")

	// non-fatal: login still succeeds, the account just stays unenrolled
	ErrorEnrollmentFailed = errors.New("second factor enrollment failed")

	// classifier failures; callers fall back to manual input
	ErrorClassifierUnavailable = errors.New("gender classifier unavailable")
)
