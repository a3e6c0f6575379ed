package core

import (
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/google/uuid"
)

type session struct {
	id          SessionID
	user        *domain.User
	conn        SignalConnection
	connectedAt time.Time
}

func NewSession(user *domain.User, conn SignalConnection) Session {
	return &session{
		id:          SessionID(uuid.NewString()),
		user:        user,
		conn:        conn,
		connectedAt: time.Now(),
	}
}

func (s *session) ID() SessionID            { return s.id }
func (s *session) User() *domain.User       { return s.user }
func (s *session) Signal() SignalConnection { return s.conn }
func (s *session) ConnectedAt() time.Time   { return s.connectedAt }
