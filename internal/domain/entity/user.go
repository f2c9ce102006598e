package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the owner of budgets. Accounts are provisioned by the identity service;
// this service only reads them to route notifications.
type User struct {
	ID                 uuid.UUID
	Email              string
	Name               string
	EmailNotifications bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewUser creates a new User entity.
func NewUser(email, name string, emailNotifications bool) *User {
	now := time.Now().UTC()
	return &User{
		ID:                 uuid.New(),
		Email:              email,
		Name:               name,
		EmailNotifications: emailNotifications,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
