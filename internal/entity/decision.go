package entity

import (
	"errors"
	"net/http"

	"github.com/gofrs/uuid/v5"
)

// Policy names what a route requires: an exact role, and one action on one
// module. Passed explicitly into every Decide call, never closed over.
type Policy struct {
	Role   string
	Action Action
	Module string
}

type Reason string

const (
	ReasonAllowed              Reason = "allowed"
	ReasonSuperAdmin           Reason = "super_admin_bypass"
	ReasonTokenMissing         Reason = "token_missing"
	ReasonTokenMalformed       Reason = "token_malformed"
	ReasonTokenInvalid         Reason = "token_invalid"
	ReasonTokenExpired         Reason = "token_expired"
	ReasonUserNotFound         Reason = "user_not_found"
	ReasonDirectoryUnavailable Reason = "directory_unavailable"
	ReasonRoleDenied           Reason = "role_denied"
	ReasonPermissionDenied     Reason = "permission_denied"
)

// Unauthenticated reports whether the reason belongs to the credential
// failure class. All of these surface to the caller as one generic 401; the
// precise reason is for logs only.
func (r Reason) Unauthenticated() bool {
	switch r {
	case ReasonTokenMissing, ReasonTokenMalformed, ReasonTokenInvalid, ReasonTokenExpired:
		return true
	default:
		return false
	}
}

// Err returns the sentinel error behind a deny reason, for logging.
func (r Reason) Err() error {
	switch r {
	case ReasonTokenMissing:
		return ErrTokenMissing
	case ReasonTokenMalformed:
		return ErrTokenMalformed
	case ReasonTokenInvalid:
		return ErrTokenInvalid
	case ReasonTokenExpired:
		return ErrTokenExpired
	case ReasonUserNotFound:
		return ErrUserNotFound
	case ReasonDirectoryUnavailable:
		return ErrDirectoryUnavailable
	case ReasonRoleDenied:
		return ErrRoleDenied
	case ReasonPermissionDenied:
		return ErrPermissionDenied
	default:
		return errors.New(string(r))
	}
}

// Decision is the terminal outcome of one authorization check.
type Decision struct {
	Allowed   bool
	Reason    Reason
	Status    int
	SubjectID uuid.UUID
}

func Allow(reason Reason, subjectID uuid.UUID) Decision {
	return Decision{Allowed: true, Reason: reason, Status: http.StatusOK, SubjectID: subjectID}
}

func Deny(reason Reason, status int) Decision {
	return Decision{Allowed: false, Reason: reason, Status: status}
}
