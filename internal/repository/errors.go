package repository

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrEmailInUse         = errors.New("email is already registered")
	ErrCodeInUse          = errors.New("special code is already in use")
	ErrInsufficientPoints = errors.New("not enough points available")

	// ErrChoreMissing marks a CHORE activity whose chore row no longer
	// exists; the transition that hits it rolls back entirely.
	ErrChoreMissing = errors.New("chore reference missing for activity")
)
