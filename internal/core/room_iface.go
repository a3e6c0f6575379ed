package core

import (
	"errors"

	"github.com/dkeye/Huddle/internal/domain"
)

// ErrRoomClosed is returned by a room whose last member already left.
// The caller must look the room up again.
var ErrRoomClosed = errors.New("room closed")

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID       domain.UserID `json:"userId"`
	Username string        `json:"username"`
}

// JoinOutcome is captured under the room lock, so Members is never stale
// relative to a racing join or leave.
type JoinOutcome struct {
	Added   bool
	Members []MemberDTO
	Others  []Session
}

// LeaveOutcome reports who is left to notify. Empty means the room closed.
type LeaveOutcome struct {
	Remaining []Session
	Empty     bool
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	MembersSnapshot() []MemberDTO
	Closed() bool

	AddMember(sess Session) (JoinOutcome, error)
	RemoveMember(sess Session) (LeaveOutcome, bool)
	Recipients(uid domain.UserID, includeSelf bool) ([]Session, error)
}

type RoomInfo struct {
	ID               domain.RoomID   `json:"id"`
	Name             domain.RoomName `json:"name"`
	ParticipantCount int             `json:"participants"`
	CreatedBy        string          `json:"createdBy"`
	CreatedByID      domain.UserID   `json:"createdById"`
}
