// Package services implements the lifecycle services coupling status
// transitions to validation, derived updates on related entities and
// append-only audit logging, all inside one transaction per operation.
package services

import "errors"

// Failure taxonomy surfaced to callers. Services wrap these with context via
// fmt.Errorf("...: %w", ...); callers classify with errors.Is. The routing
// layer maps ErrNotFound to 404, ErrValidation and ErrAlreadyExists to 400
// and ErrForbidden to 403.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrAlreadyExists = errors.New("already exists")
	ErrForbidden     = errors.New("forbidden")
)
