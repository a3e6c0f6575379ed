package signal

import (
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/protocol"
)

func (ctl *SignalWSController) handleJoin(sess core.Session, p *protocol.JoinRoom) error {
	return ctl.Orch.Join(sess, domain.RoomID(p.RoomID))
}

func (ctl *SignalWSController) handleChat(sess core.Session, p *protocol.ChatMessage) error {
	if err := ctl.allow(sess); err != nil {
		return err
	}
	return ctl.Orch.Chat(sess, domain.RoomID(p.RoomID), p.Message, p.MessageType)
}

func (ctl *SignalWSController) handleTyping(sess core.Session, p *protocol.Typing) error {
	return ctl.Orch.Typing(sess, domain.RoomID(p.RoomID), p.Started)
}

func (ctl *SignalWSController) handleScreenShare(sess core.Session, p *protocol.ScreenShare) error {
	return ctl.Orch.ScreenShare(sess, domain.RoomID(p.RoomID), p.Started)
}

func (ctl *SignalWSController) handleClipboard(sess core.Session, p *protocol.ClipboardSync) error {
	if err := ctl.allow(sess); err != nil {
		return err
	}
	return ctl.Orch.Clipboard(sess, domain.RoomID(p.RoomID), p.Content, p.ContentType)
}
