package entity

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// Action is the closed set of operations a permission can grant on a module.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return Action(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// Module is a named resource category subject to access control, e.g. "product".
type Module struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Permission grants one action on one module.
type Permission struct {
	ID       uuid.UUID `json:"id"`
	ModuleID uuid.UUID `json:"moduleId"`
	Action   Action    `json:"action"`
}

// Role is a named, reusable bundle of permissions assignable to users.
type Role struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Level int       `json:"level"`
}
