package advisor

import "errors"

var (
	// ErrInvalidPersona is returned for an unknown persona id. It is a hard
	// failure: no external calls are made and nothing is generated.
	ErrInvalidPersona = errors.New("unknown persona")

	// ErrInvalidTool is returned for an unknown premium tool id.
	ErrInvalidTool = errors.New("unknown premium tool")

	// ErrInsufficientTier is returned when a premium tool is requested
	// below its required subscription tier, before any model call is made.
	ErrInsufficientTier = errors.New("subscription tier too low")
)
