package planner

import "errors"

var (
	// ErrRecoveryFailed means no plan object could be recovered from the model text.
	ErrRecoveryFailed = errors.New("could not recover plan from model response")
	// ErrValidationFailed means a recovered plan violates the plan schema.
	ErrValidationFailed = errors.New("plan failed schema validation")
)
