package app

import (
	"fmt"

	"github.com/dkeye/Huddle/internal/core"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a recipient whose outbound queue is full.
// It runs on the sender's goroutine and must not block.
type Policy interface {
	OnBackPressure(member core.Session) BackpressureAction
}

type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(core.Session) BackpressureAction {
	return p.Action
}

// ParsePolicy maps the config value to a policy: "drop" (default) or "kick".
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return SimplePolicy{Action: DropFrame}, nil
	case "kick":
		return SimplePolicy{Action: KickMember}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", name)
	}
}
