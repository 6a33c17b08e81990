// Package domain holds the persisted record types shared between the
// repositories, services and transport layer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. PasswordHash never leaves the
// server.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username" validate:"required,min=3,max=50"`
	Email        string    `json:"email" db:"email" validate:"required,email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
