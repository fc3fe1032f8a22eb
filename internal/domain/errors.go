package domain

import "errors"

var (
	// ErrNotFound indicates that the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrGoalExists indicates that the user already has a goal for the type.
	ErrGoalExists = errors.New("goal already exists for this user and measurement type")
	// ErrInvalid indicates input that failed basic validation.
	ErrInvalid = errors.New("invalid input")
)
