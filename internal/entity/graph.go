package entity

import "github.com/gofrs/uuid/v5"

// UserGraph is the authorization graph of one subject, fetched from the
// directory in a single batched read. It is an owned snapshot: nothing in it
// points back at the backing store.
type UserGraph struct {
	SubjectID    uuid.UUID   `json:"subjectId"`
	IsSuperAdmin bool        `json:"isSuperAdmin"`
	Roles        []GraphRole `json:"roles"`
}

type GraphRole struct {
	Name        string            `json:"name"`
	Level       int               `json:"level"`
	Permissions []GraphPermission `json:"permissions"`
}

type GraphPermission struct {
	Module string `json:"module"`
	Action Action `json:"action"`
}

// PermissionKey identifies one (module, action) pair in an AccessSet.
type PermissionKey struct {
	Module string
	Action Action
}

// AccessSet is the queryable reduction of a UserGraph: the role names the
// subject holds and every (module, action) pair reachable through any of
// those roles. Built fresh per decision, discarded after use.
type AccessSet struct {
	Roles       map[string]struct{}
	Permissions map[PermissionKey]struct{}
}

func (s AccessSet) HasRole(name string) bool {
	_, ok := s.Roles[name]
	return ok
}

func (s AccessSet) HasPermission(module string, action Action) bool {
	_, ok := s.Permissions[PermissionKey{Module: module, Action: action}]
	return ok
}
