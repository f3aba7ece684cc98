package entity

import "errors"

var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrFollowUpNotFound = errors.New("follow-up not found")

	ErrInvalidStage = errors.New("invalid stage")
	ErrNameRequired = errors.New("name is required")
	ErrInvalidEmail = errors.New("email is invalid")
	ErrTypeRequired = errors.New("activity type is required")

	// ErrNotConfigured is returned by adapters whose credentials are missing.
	ErrNotConfigured = errors.New("not configured")
)
