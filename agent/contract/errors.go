package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrValidation      = errors.New("validation failed")

	// ErrUnknownIntent marks an unsupported intent reaching the validation
	// engine: a core integration bug, not a user input problem.
	ErrUnknownIntent = errors.New("unknown intent")
)
