package service

import (
	"regexp"
	"strings"

	"github.com/granohq/accessd/internal/entity"
)

const (
	EmailMaxLen    = 255
	PasswordMinLen = 8
	PasswordMaxLen = 72 // bcrypt input limit
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) error {
	if len(email) > EmailMaxLen {
		return entity.ErrEmailInvalidLen
	}

	if !emailRegexp.MatchString(email) {
		return entity.ErrEmailInvalidFormat
	}

	if strings.Contains(email, "..") {
		return entity.ErrEmailInvalidFormat
	}

	return nil
}

func ValidatePassword(password string) error {
	if len(password) < PasswordMinLen || len(password) > PasswordMaxLen {
		return entity.ErrPasswordInvalidLen
	}

	hasLetter := false
	hasDigit := false

	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}

	if !hasLetter {
		return entity.ErrPasswordNoLetter
	}

	if !hasDigit {
		return entity.ErrPasswordNoDigit
	}

	return nil
}

func NormalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	err := ValidateEmail(normalized)
	if err != nil {
		return "", err
	}

	return normalized, nil
}
