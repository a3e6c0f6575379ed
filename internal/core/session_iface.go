package core

import (
	"time"

	"github.com/dkeye/Huddle/internal/domain"
)

type SessionID string

// Session binds an identity to its live transport endpoint.
// This is what the registry indexes and rooms fan out to.
type Session interface {
	ID() SessionID
	User() *domain.User
	Signal() SignalConnection
	ConnectedAt() time.Time
}
