package models

import (
	"time"
)

// User is the public profile. Only a username identifies a person.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	IsActive  bool      `json:"isActive"`

	// Internal only - never returned in JSON
	PasswordHash string `json:"-"`
}
