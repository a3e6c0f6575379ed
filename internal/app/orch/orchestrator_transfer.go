package orch

import (
	"fmt"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/protocol"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// RequestTransfer opens a pending transfer and offers it to the target if
// connected. The sender gets the transfer id back either way.
func (o *Orchestrator) RequestTransfer(sender core.Session, target domain.UserID, file domain.FileDescriptor, room domain.RoomID) (domain.Transfer, error) {
	u := sender.User()
	if target == u.ID {
		return domain.Transfer{}, fmt.Errorf("transfer to self: %w", domain.ErrBadPayload)
	}
	t := o.Transfers.Create(u, target, file, room)

	delivered := false
	if to, ok := o.Registry.Lookup(target); ok {
		delivered = o.Reply(to, protocol.NewTransferOffer(t))
	}
	o.Reply(sender, protocol.Created{
		Type:         protocol.EvFileTransferCreated,
		TransferID:   string(t.ID),
		TargetUserID: target,
		Delivered:    delivered,
	})
	return t, nil
}

// RespondTransfer applies the target's answer and tells the sender. On
// accept both parties are told to open a direct session.
func (o *Orchestrator) RespondTransfer(responder core.Session, id domain.TransferID, accepted bool) error {
	u := responder.User()
	t, err := o.Transfers.Respond(id, u.ID, accepted)
	if err != nil {
		return err
	}

	sender, online := o.Registry.Lookup(t.SenderID)
	if online {
		o.Reply(sender, protocol.TransferAnswer{
			Type:           protocol.EvFileTransferResponse,
			TransferID:     string(t.ID),
			Accepted:       accepted,
			TargetID:       u.ID,
			TargetUsername: u.Username,
		})
	}
	if !accepted {
		return nil
	}
	if online {
		o.Reply(sender, o.directSetup(t.ID, u.ID, true))
	}
	o.Reply(responder, o.directSetup(t.ID, t.SenderID, false))
	log.Info().Str("module", "orch").Str("transfer", string(t.ID)).Bool("sender_online", online).Msg("direct setup started")
	return nil
}

func (o *Orchestrator) directSetup(id domain.TransferID, peer domain.UserID, initiator bool) protocol.DirectSetup {
	ice := o.ICE
	if ice == nil {
		ice = []webrtc.ICEServer{}
	}
	return protocol.DirectSetup{
		Type:       protocol.EvBeginDirectSetup,
		TransferID: string(id),
		PeerID:     peer,
		Initiator:  initiator,
		ICEServers: ice,
	}
}

// FinishTransfer records completion or failure reported by either party and
// tells the other one.
func (o *Orchestrator) FinishTransfer(actor core.Session, id domain.TransferID, completed bool) error {
	u := actor.User()
	t, err := o.Transfers.Finish(id, u.ID, completed)
	if err != nil {
		return err
	}
	if peer, ok := o.Registry.Lookup(t.Counterpart(u.ID)); ok {
		o.Reply(peer, protocol.TransferStatus{
			Type:       protocol.EvFileTransferStatus,
			TransferID: string(t.ID),
			Status:     t.Status,
			UserID:     u.ID,
		})
	}
	return nil
}

// Transfer is the status query used by discovery.
func (o *Orchestrator) Transfer(id domain.TransferID) (domain.Transfer, bool) {
	return o.Transfers.Get(id)
}

func (o *Orchestrator) RequestCall(caller core.Session, target domain.UserID, room domain.RoomID) (domain.Call, error) {
	u := caller.User()
	if target == u.ID {
		return domain.Call{}, fmt.Errorf("call to self: %w", domain.ErrBadPayload)
	}
	c := o.Calls.Create(u, target, room)

	delivered := false
	if to, ok := o.Registry.Lookup(target); ok {
		delivered = o.Reply(to, protocol.CallOffer{
			Type:           protocol.EvVideoCallRequest,
			CallID:         string(c.ID),
			CallerID:       u.ID,
			CallerUsername: u.Username,
			RoomID:         room,
		})
	}
	o.Reply(caller, protocol.Created{
		Type:         protocol.EvVideoCallCreated,
		CallID:       string(c.ID),
		TargetUserID: target,
		Delivered:    delivered,
	})
	return c, nil
}

// RespondCall answers a call addressed by id, or by caller when id is empty.
func (o *Orchestrator) RespondCall(responder core.Session, id domain.CallID, caller domain.UserID, accepted bool) error {
	u := responder.User()
	c, err := o.Calls.Respond(id, caller, u.ID, accepted)
	if err != nil {
		return err
	}
	if to, ok := o.Registry.Lookup(c.CallerID); ok {
		o.Reply(to, protocol.CallAnswer{
			Type:           protocol.EvVideoCallResponse,
			CallID:         string(c.ID),
			TargetID:       u.ID,
			TargetUsername: u.Username,
			Accepted:       accepted,
		})
	}
	return nil
}
