package http

import (
	"time"

	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/domain"
)

type transferView struct {
	ID             domain.TransferID `json:"transferId"`
	SenderID       domain.UserID     `json:"senderId"`
	SenderUsername string            `json:"senderUsername"`
	TargetUserID   domain.UserID     `json:"targetUserId"`
	FileName       string            `json:"fileName"`
	FileSize       int64             `json:"fileSize"`
	FileType       string            `json:"fileType"`
	RoomID         domain.RoomID     `json:"roomId,omitempty"`
	Status         domain.Status     `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	RespondedAt    *time.Time        `json:"respondedAt,omitempty"`
	FinishedAt     *time.Time        `json:"finishedAt,omitempty"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// transferStatus is visible to the two parties only.
func transferStatus(o *orch.Orchestrator, id domain.TransferID, viewer domain.UserID) (transferView, error) {
	t, ok := o.Transfer(id)
	if !ok {
		return transferView{}, domain.ErrNotFound
	}
	if !t.Involves(viewer) {
		return transferView{}, domain.ErrNotAuthorized
	}
	return transferView{
		ID:             t.ID,
		SenderID:       t.SenderID,
		SenderUsername: t.SenderName,
		TargetUserID:   t.TargetID,
		FileName:       t.File.Name,
		FileSize:       t.File.Size,
		FileType:       t.File.Type,
		RoomID:         t.RoomID,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
		RespondedAt:    optionalTime(t.RespondedAt),
		FinishedAt:     optionalTime(t.FinishedAt),
	}, nil
}
