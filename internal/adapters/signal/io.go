package signal

import (
	"context"
	"time"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cancel context.CancelFunc, sess core.Session, c *WsSignalConn) {
	sid := sess.ID()
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		cancel()
		c.Close()
		ctl.Orch.Disconnect(sess)
	}()

	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(sess, data)
		}
	}
}

// handleSignal decodes one frame and routes it. Failures are answered to
// the sender only.
func (ctl *SignalWSController) handleSignal(sess core.Session, data []byte) {
	kind, in, err := protocol.Decode(data)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("user", string(sess.User().ID)).Msg("bad frame")
		ctl.replyError(sess, kind, err)
		return
	}

	switch ev := in.(type) {
	case *protocol.JoinRoom:
		err = ctl.handleJoin(sess, ev)
	case *protocol.ChatMessage:
		err = ctl.handleChat(sess, ev)
	case *protocol.Typing:
		err = ctl.handleTyping(sess, ev)
	case *protocol.ScreenShare:
		err = ctl.handleScreenShare(sess, ev)
	case *protocol.ClipboardSync:
		err = ctl.handleClipboard(sess, ev)
	case *protocol.FileTransferRequest:
		err = ctl.handleTransferRequest(sess, ev)
	case *protocol.FileTransferResponse:
		err = ctl.handleTransferResponse(sess, ev)
	case *protocol.FileTransferStatus:
		err = ctl.handleTransferStatus(sess, ev)
	case *protocol.VideoCallRequest:
		err = ctl.handleCallRequest(sess, ev)
	case *protocol.VideoCallResponse:
		err = ctl.handleCallResponse(sess, ev)
	case *protocol.Signal:
		ctl.handleForward(sess, ev)
	case *protocol.Ping:
		ctl.handlePing(sess)
	case *protocol.WhoAmI:
		ctl.handleWhoAmI(sess)
	}
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("user", string(sess.User().ID)).Str("type", kind).Msg("event refused")
		ctl.replyError(sess, kind, err)
	}
}
