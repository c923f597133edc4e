package password

import "errors"

var (
	ErrTooShort        = errors.New("password must be at least 8 characters")
	ErrTooLong         = errors.New("password must be at most 72 bytes")
	ErrMissingUpper    = errors.New("password must contain at least one uppercase letter")
	ErrMissingLower    = errors.New("password must contain at least one lowercase letter")
	ErrMissingDigit    = errors.New("password must contain at least one number")
	ErrMissingSymbol   = errors.New("password must contain at least one special character")
	ErrMismatch        = errors.New("passwords do not match")
	ErrHashUnavailable = errors.New("password hash is not set")
)
