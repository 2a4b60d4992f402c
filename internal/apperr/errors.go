package apperr

import "errors"

var (
	// ErrNoCards is returned when a selection is required but the list is empty.
	ErrNoCards = errors.New("no cards to choose from")
	// ErrDisplay is returned when a card could not be written to the terminal.
	ErrDisplay = errors.New("display failed")
	ErrConfig  = errors.New("invalid configuration")
)
