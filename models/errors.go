package models

import "errors"

var (
	ErrUnknownEntityType = errors.New("unknown entity type")
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidField      = errors.New("invalid field value")
)
