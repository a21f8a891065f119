package models

import "errors"

// Custom errors
var (
	ErrInsufficientData  = errors.New("insufficient data to fit model")
	ErrUnknownTeam       = errors.New("team not seen in training data")
	ErrInvalidFormation  = errors.New("formation string cannot be parsed")
	ErrContractViolation = errors.New("invalid input")
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateKey      = errors.New("duplicate key violation")
)
