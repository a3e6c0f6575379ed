package signal

import "github.com/dkeye/Huddle/internal/core"

func (ctl *SignalWSController) handleWhoAmI(sess core.Session) {
	ctl.Orch.WhoAmI(sess)
}
