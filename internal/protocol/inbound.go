package protocol

import (
	"errors"
	"fmt"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
)

// Inbound event names.
const (
	EvJoinRoom             = "join-room"
	EvChatMessage          = "chat-message"
	EvTypingStart          = "typing-start"
	EvTypingStop           = "typing-stop"
	EvFileTransferRequest  = "file-transfer-request"
	EvFileTransferResponse = "file-transfer-response"
	EvFileTransferStatus   = "file-transfer-status"
	EvVideoCallRequest     = "video-call-request"
	EvVideoCallResponse    = "video-call-response"
	EvScreenShareStart     = "screen-share-start"
	EvScreenShareStop      = "screen-share-stop"
	EvClipboardSync        = "clipboard-sync"
	EvWebRTCOffer          = "webrtc-offer"
	EvWebRTCAnswer         = "webrtc-answer"
	EvWebRTCICECandidate   = "webrtc-ice-candidate"
	EvPing                 = "ping"
	EvWhoAmI               = "whoami"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrRateLimited  = errors.New("rate limited")
)

var validate = validator.New()

// Inbound is the closed set of client events. Only types in this package
// implement it.
type Inbound interface {
	Kind() string
	inbound()
}

type JoinRoom struct {
	RoomID string `json:"roomId" validate:"required,max=64"`
}

type ChatMessage struct {
	RoomID      string `json:"roomId" validate:"required,max=64"`
	Message     string `json:"message" validate:"required"`
	MessageType string `json:"messageType" validate:"max=32"`
}

// Typing covers typing-start and typing-stop.
type Typing struct {
	RoomID  string `json:"roomId" validate:"required,max=64"`
	Started bool   `json:"-"`
}

// ScreenShare covers screen-share-start and screen-share-stop.
type ScreenShare struct {
	RoomID  string `json:"roomId" validate:"required,max=64"`
	Started bool   `json:"-"`
}

type ClipboardSync struct {
	RoomID      string `json:"roomId" validate:"required,max=64"`
	Content     string `json:"content"`
	ContentType string `json:"contentType" validate:"max=64"`
}

type FileTransferRequest struct {
	TargetUserID string `json:"targetUserId" validate:"required,max=64"`
	FileName     string `json:"fileName" validate:"required,max=255"`
	FileSize     int64  `json:"fileSize" validate:"gte=0"`
	FileType     string `json:"fileType" validate:"max=255"`
	RoomID       string `json:"roomId" validate:"max=64"`
}

type FileTransferResponse struct {
	TransferID string `json:"transferId" validate:"required"`
	Accepted   bool   `json:"accepted"`
}

type FileTransferStatus struct {
	TransferID string `json:"transferId" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=completed failed"`
}

type VideoCallRequest struct {
	TargetUserID string `json:"targetUserId" validate:"required,max=64"`
	RoomID       string `json:"roomId" validate:"max=64"`
}

// VideoCallResponse addresses the call by id, or by caller when the id is
// absent.
type VideoCallResponse struct {
	CallID   string `json:"callId"`
	CallerID string `json:"callerId" validate:"required_without=CallID,max=64"`
	Accepted bool   `json:"accepted"`
}

// Signal is an opaque connection-setup message for another participant.
// Payload is carried under the field named after the kind: offer, answer
// or candidate.
type Signal struct {
	Event        string          `json:"-"`
	TargetUserID string          `json:"targetUserId" validate:"required,max=64"`
	TransferID   string          `json:"transferId,omitempty"`
	Offer        json.RawMessage `json:"offer,omitempty"`
	Answer       json.RawMessage `json:"answer,omitempty"`
	Candidate    json.RawMessage `json:"candidate,omitempty"`
}

// Payload returns the raw field matching the signal kind.
func (s *Signal) Payload() json.RawMessage {
	switch s.Event {
	case EvWebRTCOffer:
		return s.Offer
	case EvWebRTCAnswer:
		return s.Answer
	default:
		return s.Candidate
	}
}

type Ping struct{}

type WhoAmI struct{}

func (*JoinRoom) Kind() string             { return EvJoinRoom }
func (*ChatMessage) Kind() string          { return EvChatMessage }
func (*ClipboardSync) Kind() string        { return EvClipboardSync }
func (*FileTransferRequest) Kind() string  { return EvFileTransferRequest }
func (*FileTransferResponse) Kind() string { return EvFileTransferResponse }
func (*FileTransferStatus) Kind() string   { return EvFileTransferStatus }
func (*VideoCallRequest) Kind() string     { return EvVideoCallRequest }
func (*VideoCallResponse) Kind() string    { return EvVideoCallResponse }
func (*Ping) Kind() string                 { return EvPing }
func (*WhoAmI) Kind() string               { return EvWhoAmI }
func (s *Signal) Kind() string             { return s.Event }

func (t *Typing) Kind() string {
	if t.Started {
		return EvTypingStart
	}
	return EvTypingStop
}

func (s *ScreenShare) Kind() string {
	if s.Started {
		return EvScreenShareStart
	}
	return EvScreenShareStop
}

func (*JoinRoom) inbound()             {}
func (*ChatMessage) inbound()          {}
func (*Typing) inbound()               {}
func (*ScreenShare) inbound()          {}
func (*ClipboardSync) inbound()        {}
func (*FileTransferRequest) inbound()  {}
func (*FileTransferResponse) inbound() {}
func (*FileTransferStatus) inbound()   {}
func (*VideoCallRequest) inbound()     {}
func (*VideoCallResponse) inbound()    {}
func (*Signal) inbound()               {}
func (*Ping) inbound()                 {}
func (*WhoAmI) inbound()               {}

func newInbound(kind string) (Inbound, bool) {
	switch kind {
	case EvJoinRoom:
		return &JoinRoom{}, true
	case EvChatMessage:
		return &ChatMessage{}, true
	case EvTypingStart:
		return &Typing{Started: true}, true
	case EvTypingStop:
		return &Typing{}, true
	case EvScreenShareStart:
		return &ScreenShare{Started: true}, true
	case EvScreenShareStop:
		return &ScreenShare{}, true
	case EvClipboardSync:
		return &ClipboardSync{}, true
	case EvFileTransferRequest:
		return &FileTransferRequest{}, true
	case EvFileTransferResponse:
		return &FileTransferResponse{}, true
	case EvFileTransferStatus:
		return &FileTransferStatus{}, true
	case EvVideoCallRequest:
		return &VideoCallRequest{}, true
	case EvVideoCallResponse:
		return &VideoCallResponse{}, true
	case EvWebRTCOffer, EvWebRTCAnswer, EvWebRTCICECandidate:
		return &Signal{Event: kind}, true
	case EvPing:
		return &Ping{}, true
	case EvWhoAmI:
		return &WhoAmI{}, true
	}
	return nil, false
}

// Decode parses one text frame. The returned kind is the envelope type even
// when decoding fails, so errors can name the event they answer.
func Decode(data []byte) (string, Inbound, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("envelope: %w", domain.ErrBadPayload)
	}
	in, ok := newInbound(env.Type)
	if !ok {
		return env.Type, nil, fmt.Errorf("%q: %w", env.Type, ErrUnknownEvent)
	}
	if err := json.Unmarshal(data, in); err != nil {
		return env.Type, nil, fmt.Errorf("%s: %w", env.Type, domain.ErrBadPayload)
	}
	if err := validate.Struct(in); err != nil {
		return env.Type, nil, fmt.Errorf("%s: %s: %w", env.Type, fieldErrors(err), domain.ErrBadPayload)
	}
	if s, ok := in.(*Signal); ok && len(s.Payload()) == 0 {
		return env.Type, nil, fmt.Errorf("%s: missing payload: %w", env.Type, domain.ErrBadPayload)
	}
	return env.Type, in, nil
}

func fieldErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	return fmt.Sprintf("field %s failed %s", verrs[0].Field(), verrs[0].Tag())
}
