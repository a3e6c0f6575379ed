// Package domain contains entities and their state rules, no transport or locking.
package domain

import (
	"errors"
	"strings"
)

const (
	MaxUserIDLen   = 64
	MaxUsernameLen = 36
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
	ErrUserIDInvalid   = errors.New("user id invalid")
)

type UserID string

// User is the authenticated identity attached to a connection.
// Immutable for the life of the connection.
type User struct {
	ID       UserID `json:"userId"`
	Username string `json:"username"`
}

// NewUser validates what the auth collaborator handed over.
func NewUser(id, username string) (*User, error) {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > MaxUserIDLen {
		return nil, ErrUserIDInvalid
	}
	username = strings.TrimSpace(username)
	if len(username) == 0 {
		return nil, ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	return &User{ID: UserID(id), Username: username}, nil
}
