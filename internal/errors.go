package internal

import "errors"

// Input errors returned when mapping stored or typed records into forecast rules.
var (
	ErrMissingAmount    = errors.New("missing amount")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnknownDirection = errors.New("unknown direction")
	ErrNoProfile        = errors.New("no financial profile")
	ErrInvalidProfile   = errors.New("invalid financial profile")
)
