package models

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrAgentNotFound = errors.New("agent not found")
	ErrCallNotFound  = errors.New("call not found")
	ErrEntryNotFound = errors.New("knowledge entry not found")

	ErrEmailTaken     = errors.New("email already registered")
	ErrAgentCodeTaken = errors.New("agent code already in use")

	ErrValidation = errors.New("validation failed")
)
