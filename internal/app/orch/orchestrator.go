// Package orch coordinates the stores of package app: presence, relay,
// transfer negotiation and signaling. It holds no state of its own.
package orch

import (
	"errors"
	"time"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/protocol"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	Registry  *app.Registry
	Rooms     *app.RoomManager
	Transfers *app.Transfers
	Calls     *app.Calls
	Policy    app.Policy
	ICE       []webrtc.ICEServer

	now func() time.Time
}

func New(policy app.Policy, ice []webrtc.ICEServer) *Orchestrator {
	return &Orchestrator{
		Registry:  app.NewRegistry(),
		Rooms:     app.NewRoomManager(),
		Transfers: app.NewTransfers(),
		Calls:     app.NewCalls(),
		Policy:    policy,
		ICE:       ice,
		now:       time.Now,
	}
}

// Reply sends v to sess alone.
func (o *Orchestrator) Reply(sess core.Session, v any) bool {
	frame, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return false
	}
	return o.deliver(sess, frame)
}

// fanout encodes v once and offers it to every session. It never blocks on
// a slow recipient.
func (o *Orchestrator) fanout(to []core.Session, v any) {
	if len(to) == 0 {
		return
	}
	frame, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return
	}
	for _, sess := range to {
		o.deliver(sess, frame)
	}
}

func (o *Orchestrator) deliver(sess core.Session, frame core.Frame) bool {
	err := sess.Signal().TrySend(frame)
	if err == nil {
		return true
	}
	if !errors.Is(err, core.ErrBackpressure) {
		log.Debug().Err(err).Str("module", "orch").Str("user", string(sess.User().ID)).Msg("deliver skipped")
		return false
	}

	action := app.DropFrame
	if o.Policy != nil {
		action = o.Policy.OnBackPressure(sess)
	}
	switch action {
	case app.KickMember:
		log.Warn().Str("module", "orch").Str("user", string(sess.User().ID)).Str("sid", string(sess.ID())).Msg("slow consumer kicked")
		// the adapter sees the closed connection and runs Disconnect
		sess.Signal().Close()
	case app.DropFrame, app.NoAction:
		log.Warn().Str("module", "orch").Str("user", string(sess.User().ID)).Msg("frame dropped, queue full")
	}
	return false
}
