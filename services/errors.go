package services

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Error taxonomy surfaced to handlers. Storage errors from GORM are
// propagated unwrapped — never swallowed, never retried here.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)

var validate = validator.New()
