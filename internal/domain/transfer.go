package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// flow lists the allowed next states per state. A state without entries is terminal.
type flow map[Status][]Status

var (
	transferFlow = flow{
		StatusPending:  {StatusAccepted, StatusRejected},
		StatusAccepted: {StatusCompleted, StatusFailed},
	}
	callFlow = flow{
		StatusPending: {StatusAccepted, StatusRejected},
	}
)

func (f flow) allows(from, to Status) bool {
	for _, s := range f[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (f flow) terminal(s Status) bool { return len(f[s]) == 0 }

type TransferID string

// FileDescriptor is what the sender declares; the server never sees the bytes.
type FileDescriptor struct {
	Name string `json:"fileName"`
	Size int64  `json:"fileSize"`
	Type string `json:"fileType"`
}

func NewFileDescriptor(name string, size int64, mediaType string) (FileDescriptor, error) {
	name = strings.TrimSpace(name)
	if name == "" || size < 0 {
		return FileDescriptor{}, ErrBadPayload
	}
	return FileDescriptor{Name: name, Size: size, Type: strings.TrimSpace(mediaType)}, nil
}

// Transfer is a negotiated file-send request between two identities.
type Transfer struct {
	ID          TransferID
	SenderID    UserID
	SenderName  string
	TargetID    UserID
	File        FileDescriptor
	RoomID      RoomID
	Status      Status
	CreatedAt   time.Time
	RespondedAt time.Time
	FinishedAt  time.Time
}

func NewTransfer(id TransferID, sender *User, target UserID, file FileDescriptor, room RoomID, now time.Time) *Transfer {
	return &Transfer{
		ID:         id,
		SenderID:   sender.ID,
		SenderName: sender.Username,
		TargetID:   target,
		File:       file,
		RoomID:     room,
		Status:     StatusPending,
		CreatedAt:  now,
	}
}

// Respond applies the target's answer. Only the target may respond, and only once.
func (t *Transfer) Respond(responder UserID, accepted bool, now time.Time) error {
	if responder != t.TargetID {
		return ErrNotAuthorized
	}
	to := StatusRejected
	if accepted {
		to = StatusAccepted
	}
	if !transferFlow.allows(t.Status, to) {
		return ErrInvalidState
	}
	t.Status = to
	t.RespondedAt = now
	return nil
}

// Finish records the completion or failure signal from either party of an accepted transfer.
func (t *Transfer) Finish(actor UserID, completed bool, now time.Time) error {
	if actor != t.SenderID && actor != t.TargetID {
		return ErrNotAuthorized
	}
	to := StatusFailed
	if completed {
		to = StatusCompleted
	}
	if !transferFlow.allows(t.Status, to) {
		return ErrInvalidState
	}
	t.Status = to
	t.FinishedAt = now
	return nil
}

// Counterpart returns the other party of the transfer.
func (t *Transfer) Counterpart(uid UserID) UserID {
	if uid == t.SenderID {
		return t.TargetID
	}
	return t.SenderID
}

func (t *Transfer) Involves(uid UserID) bool {
	return uid == t.SenderID || uid == t.TargetID
}

func (t *Transfer) Terminal() bool { return transferFlow.terminal(t.Status) }
