package signal

import (
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/protocol"
)

func (ctl *SignalWSController) handleTransferRequest(sess core.Session, p *protocol.FileTransferRequest) error {
	file, err := domain.NewFileDescriptor(p.FileName, p.FileSize, p.FileType)
	if err != nil {
		return err
	}
	_, err = ctl.Orch.RequestTransfer(sess, domain.UserID(p.TargetUserID), file, domain.RoomID(p.RoomID))
	return err
}

func (ctl *SignalWSController) handleTransferResponse(sess core.Session, p *protocol.FileTransferResponse) error {
	return ctl.Orch.RespondTransfer(sess, domain.TransferID(p.TransferID), p.Accepted)
}

func (ctl *SignalWSController) handleTransferStatus(sess core.Session, p *protocol.FileTransferStatus) error {
	return ctl.Orch.FinishTransfer(sess, domain.TransferID(p.TransferID), p.Status == string(domain.StatusCompleted))
}

func (ctl *SignalWSController) handleCallRequest(sess core.Session, p *protocol.VideoCallRequest) error {
	_, err := ctl.Orch.RequestCall(sess, domain.UserID(p.TargetUserID), domain.RoomID(p.RoomID))
	return err
}

func (ctl *SignalWSController) handleCallResponse(sess core.Session, p *protocol.VideoCallResponse) error {
	return ctl.Orch.RespondCall(sess, domain.CallID(p.CallID), domain.UserID(p.CallerID), p.Accepted)
}
