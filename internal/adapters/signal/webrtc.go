package signal

import (
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/protocol"
)

// handleForward relays offer, answer and candidate payloads between peers.
// The server never parses them; an offline target is not an error.
func (ctl *SignalWSController) handleForward(sess core.Session, p *protocol.Signal) {
	ctl.Orch.Forward(sess, p.Kind(), domain.UserID(p.TargetUserID), p.Payload(), p.TransferID)
}
