package domain

import "time"

type CallID string

// Call mirrors Transfer without the completed/failed tail.
type Call struct {
	ID          CallID
	CallerID    UserID
	CallerName  string
	TargetID    UserID
	RoomID      RoomID
	Status      Status
	CreatedAt   time.Time
	RespondedAt time.Time
}

func NewCall(id CallID, caller *User, target UserID, room RoomID, now time.Time) *Call {
	return &Call{
		ID:         id,
		CallerID:   caller.ID,
		CallerName: caller.Username,
		TargetID:   target,
		RoomID:     room,
		Status:     StatusPending,
		CreatedAt:  now,
	}
}

func (c *Call) Respond(responder UserID, accepted bool, now time.Time) error {
	if responder != c.TargetID {
		return ErrNotAuthorized
	}
	to := StatusRejected
	if accepted {
		to = StatusAccepted
	}
	if !callFlow.allows(c.Status, to) {
		return ErrInvalidState
	}
	c.Status = to
	c.RespondedAt = now
	return nil
}

func (c *Call) Terminal() bool { return callFlow.terminal(c.Status) }
