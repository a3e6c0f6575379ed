package orch

import (
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Connect makes sess the live session of its identity. A superseded session
// is closed and unwound from its rooms without a presence change.
func (o *Orchestrator) Connect(sess core.Session) {
	u := sess.User()
	prev, fresh := o.Registry.Register(sess)
	if prev != nil {
		log.Info().Str("module", "orch").Str("user", string(u.ID)).Str("old_sid", string(prev.ID())).Msg("session superseded")
		prev.Signal().Close()
		o.leaveRooms(prev)
	}
	if fresh {
		o.fanout(o.Registry.Online(u.ID), protocol.NewPresence(protocol.EvUserOnline, u, ""))
	}
}

// Disconnect unwinds sess if it is still current. Transfers and calls are
// left as they are.
func (o *Orchestrator) Disconnect(sess core.Session) {
	u := sess.User()
	if !o.Registry.Remove(sess) {
		return
	}
	o.leaveRooms(sess)
	if cur, ok := o.Registry.Lookup(u.ID); ok && cur.ID() != sess.ID() {
		// reconnected meanwhile and already announced online
		log.Debug().Str("module", "orch").Str("user", string(u.ID)).Str("sid", string(sess.ID())).Msg("offline skipped, newer session live")
		return
	}
	o.fanout(o.Registry.Online(u.ID), protocol.NewPresence(protocol.EvUserOffline, u, ""))
	log.Info().Str("module", "orch").Str("user", string(u.ID)).Str("sid", string(sess.ID())).Msg("disconnected")
}

func (o *Orchestrator) leaveRooms(sess core.Session) {
	u := sess.User()
	for _, left := range o.Rooms.LeaveAll(sess) {
		o.fanout(left.Remaining, protocol.NewPresence(protocol.EvUserLeft, u, left.RoomID))
	}
}
