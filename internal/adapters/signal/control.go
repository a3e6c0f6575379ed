package signal

import (
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/protocol"
)

func (ctl *SignalWSController) handlePing(sess core.Session) {
	ctl.Orch.Reply(sess, protocol.Pong{Type: protocol.EvPong})
}

func (ctl *SignalWSController) replyError(sess core.Session, event string, err error) {
	ctl.Orch.Reply(sess, protocol.NewError(event, err))
}

// allow applies the per-identity limit to room traffic that users type in.
func (ctl *SignalWSController) allow(sess core.Session) error {
	if ctl.limiter.Allow(sess.User().ID) {
		return nil
	}
	return protocol.ErrRateLimited
}
