package orch

import (
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/protocol"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Forward passes an opaque connection-setup payload to target. It reports
// false when the target is not connected or its queue refused the frame.
func (o *Orchestrator) Forward(sender core.Session, kind string, target domain.UserID, payload json.RawMessage, transferID string) bool {
	to, ok := o.Registry.Lookup(target)
	if !ok {
		log.Debug().Str("module", "orch").Str("kind", kind).Str("user", string(sender.User().ID)).Str("target", string(target)).Msg("forward dropped, target offline")
		return false
	}
	return o.Reply(to, protocol.NewSignalOut(kind, sender.User(), payload, transferID))
}
