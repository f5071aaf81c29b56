package entity

import "errors"

var (
	ErrTokenMissing   = errors.New("token missing")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenInvalid   = errors.New("invalid token signature")
	ErrTokenExpired   = errors.New("token expired")
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDirectoryUnavailable = errors.New("directory unavailable")
)

var (
	ErrRoleDenied       = errors.New("required role not held")
	ErrPermissionDenied = errors.New("insufficient permissions")
)

var (
	ErrMissingSecret = errors.New("signing secret is not configured")
	ErrNotFound      = errors.New("not found")
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var (
	ErrEmailInvalidLen    = errors.New("email length exceeds 255 characters")
	ErrEmailInvalidFormat = errors.New("incorrect email format")
	ErrUnknownAction      = errors.New("unknown action")
)

var (
	ErrPasswordInvalidLen = errors.New("password must be from 8 to 72 symbols")
	ErrPasswordNoLetter   = errors.New("password must contain minimum one letter")
	ErrPasswordNoDigit    = errors.New("password must contain minimum one digit")
)
