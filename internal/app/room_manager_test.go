package app

import (
	"sync"
	"testing"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRoomManager_Join_CreatesLazily(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	rooms := NewRoomManager()
	alice := newTestSession(ctrl, "alice", "Alice")

	// Given no room exists
	req.Empty(rooms.List())

	// When alice joins r1
	out, err := rooms.Join("r1", alice)

	// Then r1 exists with alice as creator and only participant
	req.NoError(err)
	req.True(out.Added)
	req.Equal([]core.RoomInfo{{ID: "r1", Name: "Room r1", ParticipantCount: 1, CreatedBy: "Alice", CreatedByID: "alice"}}, rooms.List())
	req.Equal([]domain.RoomID{"r1"}, rooms.RoomsOf("alice"))
}

func TestRoomManager_Rejoin_Idempotent(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	rooms := NewRoomManager()
	alice := newTestSession(ctrl, "alice", "Alice")
	_, _ = rooms.Join("r1", alice)

	out, err := rooms.Join("r1", alice)

	req.NoError(err)
	req.False(out.Added)
	req.Len(out.Members, 1)
	req.Equal(1, rooms.List()[0].ParticipantCount)
}

func TestRoomManager_LeaveAll(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	rooms := NewRoomManager()
	alice := newTestSession(ctrl, "alice", "Alice")
	bob := newTestSession(ctrl, "bob", "Bob")

	// Given bob is in r1 with alice and alone in r2
	_, _ = rooms.Join("r1", alice)
	_, _ = rooms.Join("r1", bob)
	_, _ = rooms.Join("r2", bob)

	// When bob leaves everything
	left := rooms.LeaveAll(bob)

	// Then only r1 is reported, with alice to notify, and r2 is gone
	req.Equal([]LeftRoom{{RoomID: "r1", Remaining: []core.Session{alice}}}, left)
	_, ok := rooms.Get("r2")
	req.False(ok)
	req.Equal(1, rooms.List()[0].ParticipantCount)
	req.Empty(rooms.RoomsOf("bob"))
}

func TestRoomManager_LeaveAll_StaleSession(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	rooms := NewRoomManager()
	oldBob := newTestSession(ctrl, "bob", "Bob")
	newBob := newTestSession(ctrl, "bob", "Bob")

	// Given the newer bob session joined r1
	_, _ = rooms.Join("r1", newBob)

	// When the superseded session is unwound
	left := rooms.LeaveAll(oldBob)

	// Then the newer membership survives
	req.Empty(left)
	req.Equal([]domain.RoomID{"r1"}, rooms.RoomsOf("bob"))
}

func TestRoomManager_Metadata_NotPreserved(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	rooms := NewRoomManager()
	alice := newTestSession(ctrl, "alice", "Alice")
	bob := newTestSession(ctrl, "bob", "Bob")

	_, _ = rooms.Join("r1", alice)
	rooms.LeaveAll(alice)

	// When bob recreates the room
	_, _ = rooms.Join("r1", bob)

	// Then bob is the creator
	req.Equal("Bob", rooms.List()[0].CreatedBy)
}

func TestRoomManager_Recipients_NotInRoom(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	rooms := NewRoomManager()

	_, err := rooms.Recipients("ghost", "alice", true)
	req.ErrorIs(err, domain.ErrNotInRoom)

	_, _ = rooms.Join("r1", newTestSession(ctrl, "bob", "Bob"))
	_, err = rooms.Recipients("r1", "alice", true)
	req.ErrorIs(err, domain.ErrNotInRoom)
}

func TestRoomManager_ConcurrentJoinLeave(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	rooms := NewRoomManager()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		s := newTestSession(ctrl, string(rune('a'+i)), "user")
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := rooms.Join("busy", s)
				if err != nil {
					return
				}
				rooms.LeaveAll(s)
			}
		}()
	}
	wg.Wait()

	// Every member left, so the room must be gone
	req.Empty(rooms.List())
	_, ok := rooms.Get("busy")
	req.False(ok)
}
