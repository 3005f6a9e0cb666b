package auth

import (
	"errors"
	"time"
)

// User is a back-office account, either an admin or a store manager.
type User struct {
	ID           int64
	Email        string
	Name         string
	Store        string
	Role         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// ErrInvalidCredentials indicates login failure.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")
