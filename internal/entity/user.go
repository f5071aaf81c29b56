package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

type UserStatus int

const (
	StatusActive   UserStatus = 1
	StatusInactive UserStatus = 2
	StatusDeleted  UserStatus = 3
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Status       UserStatus `json:"status"`
	IsSuperAdmin bool       `json:"isSuperAdmin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
