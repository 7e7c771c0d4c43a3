package utils

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrTripNotFound        = errors.New("trip not found")
	ErrAttractionNotFound  = errors.New("attraction not found")
	ErrAssociationNotFound = errors.New("trip attraction not found")
	ErrAlreadyInTrip       = errors.New("attraction already saved in trip")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrDatabaseError       = errors.New("database error")
)
