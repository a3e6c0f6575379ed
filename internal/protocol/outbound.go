package protocol

import (
	"errors"
	"time"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	json "github.com/goccy/go-json"
	"github.com/pion/webrtc/v4"
)

// Outbound-only event names.
const (
	EvUserOnline          = "user-online"
	EvUserOffline         = "user-offline"
	EvUserJoined          = "user-joined"
	EvUserLeft            = "user-left"
	EvRoomJoined          = "room-joined"
	EvFileTransferCreated = "file-transfer-created"
	EvBeginDirectSetup    = "begin-direct-setup"
	EvVideoCallCreated    = "video-call-created"
	EvPong                = "pong"
	EvError               = "error"
)

// Encode marshals an outbound event into a frame.
func Encode(v any) (core.Frame, error) {
	return json.Marshal(v)
}

// Presence covers user-online, user-offline, user-joined and user-left.
type Presence struct {
	Type     string        `json:"type"`
	UserID   domain.UserID `json:"userId"`
	Username string        `json:"username"`
	RoomID   domain.RoomID `json:"roomId,omitempty"`
}

func NewPresence(kind string, u *domain.User, room domain.RoomID) Presence {
	return Presence{Type: kind, UserID: u.ID, Username: u.Username, RoomID: room}
}

type RoomJoined struct {
	Type         string           `json:"type"`
	RoomID       domain.RoomID    `json:"roomId"`
	RoomName     domain.RoomName  `json:"roomName"`
	Participants []core.MemberDTO `json:"participants"`
}

type ChatOut struct {
	Type        string        `json:"type"`
	ID          string        `json:"id"`
	UserID      domain.UserID `json:"userId"`
	Username    string        `json:"username"`
	Message     string        `json:"message"`
	MessageType string        `json:"messageType"`
	Timestamp   time.Time     `json:"timestamp"`
	RoomID      domain.RoomID `json:"roomId"`
}

// RoomActivity covers typing and screen-share notifications.
type RoomActivity struct {
	Type     string        `json:"type"`
	UserID   domain.UserID `json:"userId"`
	Username string        `json:"username"`
	RoomID   domain.RoomID `json:"roomId"`
}

type ClipboardOut struct {
	Type        string        `json:"type"`
	UserID      domain.UserID `json:"userId"`
	Username    string        `json:"username"`
	Content     string        `json:"content"`
	ContentType string        `json:"contentType,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
	RoomID      domain.RoomID `json:"roomId"`
}

type TransferOffer struct {
	Type           string        `json:"type"`
	TransferID     string        `json:"transferId"`
	SenderID       domain.UserID `json:"senderId"`
	SenderUsername string        `json:"senderUsername"`
	TargetUserID   domain.UserID `json:"targetUserId"`
	FileName       string        `json:"fileName"`
	FileSize       int64         `json:"fileSize"`
	FileType       string        `json:"fileType"`
	RoomID         domain.RoomID `json:"roomId,omitempty"`
	Status         domain.Status `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
}

func NewTransferOffer(t domain.Transfer) TransferOffer {
	return TransferOffer{
		Type:           EvFileTransferRequest,
		TransferID:     string(t.ID),
		SenderID:       t.SenderID,
		SenderUsername: t.SenderName,
		TargetUserID:   t.TargetID,
		FileName:       t.File.Name,
		FileSize:       t.File.Size,
		FileType:       t.File.Type,
		RoomID:         t.RoomID,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
	}
}

// Created acknowledges a new transfer or call to its initiator.
type Created struct {
	Type         string        `json:"type"`
	TransferID   string        `json:"transferId,omitempty"`
	CallID       string        `json:"callId,omitempty"`
	TargetUserID domain.UserID `json:"targetUserId"`
	Delivered    bool          `json:"delivered"`
}

type TransferAnswer struct {
	Type           string        `json:"type"`
	TransferID     string        `json:"transferId"`
	Accepted       bool          `json:"accepted"`
	TargetID       domain.UserID `json:"targetId"`
	TargetUsername string        `json:"targetUsername"`
}

// DirectSetup tells both ends of an accepted transfer to open a direct
// session with each other. The sender initiates.
type DirectSetup struct {
	Type       string             `json:"type"`
	TransferID string             `json:"transferId"`
	PeerID     domain.UserID      `json:"peerId"`
	Initiator  bool               `json:"initiator"`
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

type TransferStatus struct {
	Type       string        `json:"type"`
	TransferID string        `json:"transferId"`
	Status     domain.Status `json:"status"`
	UserID     domain.UserID `json:"userId"`
}

type CallOffer struct {
	Type           string        `json:"type"`
	CallID         string        `json:"callId"`
	CallerID       domain.UserID `json:"callerId"`
	CallerUsername string        `json:"callerUsername"`
	RoomID         domain.RoomID `json:"roomId,omitempty"`
}

type CallAnswer struct {
	Type           string        `json:"type"`
	CallID         string        `json:"callId"`
	TargetID       domain.UserID `json:"targetId"`
	TargetUsername string        `json:"targetUsername"`
	Accepted       bool          `json:"accepted"`
}

// SignalOut is a forwarded connection-setup message. Only the field named
// after the kind is set.
type SignalOut struct {
	Type           string          `json:"type"`
	SenderID       domain.UserID   `json:"senderId"`
	SenderUsername string          `json:"senderUsername"`
	TransferID     string          `json:"transferId,omitempty"`
	Offer          json.RawMessage `json:"offer,omitempty"`
	Answer         json.RawMessage `json:"answer,omitempty"`
	Candidate      json.RawMessage `json:"candidate,omitempty"`
}

func NewSignalOut(kind string, sender *domain.User, payload json.RawMessage, transferID string) SignalOut {
	out := SignalOut{Type: kind, SenderID: sender.ID, SenderUsername: sender.Username, TransferID: transferID}
	switch kind {
	case EvWebRTCOffer:
		out.Offer = payload
	case EvWebRTCAnswer:
		out.Answer = payload
	default:
		out.Candidate = payload
	}
	return out
}

type Pong struct {
	Type string `json:"type"`
}

type WhoAmIOut struct {
	Type     string          `json:"type"`
	UserID   domain.UserID   `json:"userId"`
	Username string          `json:"username"`
	Rooms    []domain.RoomID `json:"rooms"`
}

// Error codes sent to clients.
const (
	CodeNotInRoom     = "not_in_room"
	CodeNotFound      = "not_found"
	CodeNotAuthorized = "not_authorized"
	CodeInvalidState  = "invalid_state"
	CodeBadPayload    = "bad_payload"
	CodeUnknownEvent  = "unknown_event"
	CodeRateLimited   = "rate_limited"
	CodeInternal      = "internal"
)

type ErrorOut struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Event string `json:"event,omitempty"`
	Error string `json:"error"`
}

// NewError builds the error reply to the event that failed.
func NewError(event string, err error) ErrorOut {
	return ErrorOut{Type: EvError, Code: Code(err), Event: event, Error: err.Error()}
}

// Code maps an error to its client-facing code.
func Code(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotInRoom):
		return CodeNotInRoom
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrNotAuthorized):
		return CodeNotAuthorized
	case errors.Is(err, domain.ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, domain.ErrBadPayload):
		return CodeBadPayload
	case errors.Is(err, ErrUnknownEvent):
		return CodeUnknownEvent
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	default:
		return CodeInternal
	}
}
