package orch

import (
	"fmt"
	"strings"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/protocol"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultMessageType = "text"

// Join puts sess in the room, creating it on first use. Re-joining only
// re-sends the participant list.
func (o *Orchestrator) Join(sess core.Session, raw domain.RoomID) error {
	id, err := domain.ParseRoomID(string(raw))
	if err != nil {
		return fmt.Errorf("room id %q: %w", raw, err)
	}
	if !o.Registry.IsCurrent(sess) {
		return fmt.Errorf("session superseded: %w", domain.ErrInvalidState)
	}
	out, err := o.Rooms.Join(id, sess)
	if err != nil {
		return fmt.Errorf("join %s: %w", id, err)
	}
	u := sess.User()
	if out.Added {
		o.fanout(out.Others, protocol.NewPresence(protocol.EvUserJoined, u, id))
	}
	if !o.Registry.IsCurrent(sess) {
		// superseded while joining, undo; user-left pairs with the user-joined above
		o.leaveRooms(sess)
		return fmt.Errorf("session superseded: %w", domain.ErrInvalidState)
	}

	o.Reply(sess, protocol.RoomJoined{
		Type:         protocol.EvRoomJoined,
		RoomID:       id,
		RoomName:     domain.DefaultRoomName(id),
		Participants: out.Members,
	})
	log.Info().Str("module", "orch").Str("user", string(u.ID)).Str("room", string(id)).Bool("added", out.Added).Msg("join")
	return nil
}

// Chat relays a message to every participant, the sender included.
func (o *Orchestrator) Chat(sender core.Session, room domain.RoomID, message, kind string) error {
	u := sender.User()
	to, err := o.Rooms.Recipients(room, u.ID, true)
	if err != nil {
		return fmt.Errorf("room %s: %w", room, err)
	}
	if strings.TrimSpace(kind) == "" {
		kind = defaultMessageType
	}
	o.fanout(to, protocol.ChatOut{
		Type:        protocol.EvChatMessage,
		ID:          uuid.NewString(),
		UserID:      u.ID,
		Username:    u.Username,
		Message:     message,
		MessageType: kind,
		Timestamp:   o.now(),
		RoomID:      room,
	})
	return nil
}

func (o *Orchestrator) Typing(sender core.Session, room domain.RoomID, started bool) error {
	kind := protocol.EvTypingStop
	if started {
		kind = protocol.EvTypingStart
	}
	return o.activity(sender, room, kind)
}

func (o *Orchestrator) ScreenShare(sender core.Session, room domain.RoomID, started bool) error {
	kind := protocol.EvScreenShareStop
	if started {
		kind = protocol.EvScreenShareStart
	}
	return o.activity(sender, room, kind)
}

func (o *Orchestrator) activity(sender core.Session, room domain.RoomID, kind string) error {
	u := sender.User()
	to, err := o.Rooms.Recipients(room, u.ID, false)
	if err != nil {
		return fmt.Errorf("room %s: %w", room, err)
	}
	o.fanout(to, protocol.RoomActivity{Type: kind, UserID: u.ID, Username: u.Username, RoomID: room})
	return nil
}

// Clipboard shares content with the other participants. The content type is
// relayed as given.
func (o *Orchestrator) Clipboard(sender core.Session, room domain.RoomID, content, kind string) error {
	u := sender.User()
	to, err := o.Rooms.Recipients(room, u.ID, false)
	if err != nil {
		return fmt.Errorf("room %s: %w", room, err)
	}
	o.fanout(to, protocol.ClipboardOut{
		Type:        protocol.EvClipboardSync,
		UserID:      u.ID,
		Username:    u.Username,
		Content:     content,
		ContentType: kind,
		Timestamp:   o.now(),
		RoomID:      room,
	})
	return nil
}

func (o *Orchestrator) WhoAmI(sess core.Session) {
	u := sess.User()
	rooms := o.Rooms.RoomsOf(u.ID)
	if rooms == nil {
		rooms = []domain.RoomID{}
	}
	o.Reply(sess, protocol.WhoAmIOut{Type: protocol.EvWhoAmI, UserID: u.ID, Username: u.Username, Rooms: rooms})
}
