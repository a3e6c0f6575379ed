package domain

import (
	"strings"
	"time"
)

const MaxRoomIDLen = 64

type (
	RoomName string
	RoomID   string
)

// Room is the immutable metadata of a room, fixed at first join.
type Room struct {
	ID            RoomID
	Name          RoomName
	CreatedBy     UserID
	CreatedByName string
	CreatedAt     time.Time
}

func NewRoom(id RoomID, creator *User, now time.Time) *Room {
	return &Room{
		ID:            id,
		Name:          DefaultRoomName(id),
		CreatedBy:     creator.ID,
		CreatedByName: creator.Username,
		CreatedAt:     now,
	}
}

func DefaultRoomName(id RoomID) RoomName {
	return RoomName("Room " + string(id))
}

// ParseRoomID trims and bounds a client supplied room id.
func ParseRoomID(raw string) (RoomID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > MaxRoomIDLen {
		return "", ErrBadPayload
	}
	return RoomID(raw), nil
}
