package protocol

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dkeye/Huddle/internal/domain"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		name    string
		frame   string
		kind    string
		want    Inbound
		wantErr error
	}{
		{
			name:  "join",
			frame: `{"type":"join-room","roomId":"r1"}`,
			kind:  EvJoinRoom,
			want:  &JoinRoom{RoomID: "r1"},
		},
		{
			name:  "chat",
			frame: `{"type":"chat-message","roomId":"r1","message":"hi"}`,
			kind:  EvChatMessage,
			want:  &ChatMessage{RoomID: "r1", Message: "hi"},
		},
		{
			name:  "typing stop",
			frame: `{"type":"typing-stop","roomId":"r1"}`,
			kind:  EvTypingStop,
			want:  &Typing{RoomID: "r1"},
		},
		{
			name:  "screen share start",
			frame: `{"type":"screen-share-start","roomId":"r1"}`,
			kind:  EvScreenShareStart,
			want:  &ScreenShare{RoomID: "r1", Started: true},
		},
		{
			name:  "transfer request",
			frame: `{"type":"file-transfer-request","targetUserId":"bob","fileName":"x.png","fileSize":10,"fileType":"image/png","roomId":"r1"}`,
			kind:  EvFileTransferRequest,
			want:  &FileTransferRequest{TargetUserID: "bob", FileName: "x.png", FileSize: 10, FileType: "image/png", RoomID: "r1"},
		},
		{
			name:  "call response by caller",
			frame: `{"type":"video-call-response","callerId":"alice","accepted":true}`,
			kind:  EvVideoCallResponse,
			want:  &VideoCallResponse{CallerID: "alice", Accepted: true},
		},
		{
			name:  "ping",
			frame: `{"type":"ping"}`,
			kind:  EvPing,
			want:  &Ping{},
		},
		{
			name:    "unknown",
			frame:   `{"type":"dance"}`,
			kind:    "dance",
			wantErr: ErrUnknownEvent,
		},
		{
			name:    "not json",
			frame:   `hello`,
			wantErr: domain.ErrBadPayload,
		},
		{
			name:    "missing room",
			frame:   `{"type":"join-room"}`,
			kind:    EvJoinRoom,
			wantErr: domain.ErrBadPayload,
		},
		{
			name:    "negative size",
			frame:   `{"type":"file-transfer-request","targetUserId":"bob","fileName":"x","fileSize":-1}`,
			kind:    EvFileTransferRequest,
			wantErr: domain.ErrBadPayload,
		},
		{
			name:    "call response without call or caller",
			frame:   `{"type":"video-call-response","accepted":true}`,
			kind:    EvVideoCallResponse,
			wantErr: domain.ErrBadPayload,
		},
		{
			name:    "bad finish status",
			frame:   `{"type":"file-transfer-status","transferId":"t1","status":"pending"}`,
			kind:    EvFileTransferStatus,
			wantErr: domain.ErrBadPayload,
		},
		{
			name:    "offer without payload",
			frame:   `{"type":"webrtc-offer","targetUserId":"bob"}`,
			kind:    EvWebRTCOffer,
			wantErr: domain.ErrBadPayload,
		},
		{
			name:    "wrong field type",
			frame:   `{"type":"join-room","roomId":42}`,
			kind:    EvJoinRoom,
			wantErr: domain.ErrBadPayload,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			kind, in, err := Decode([]byte(tc.frame))
			req.Equal(tc.kind, kind)
			if tc.wantErr != nil {
				req.ErrorIs(err, tc.wantErr)
				req.Nil(in)
				return
			}
			req.NoError(err)
			req.Equal(tc.want, in)
			req.Equal(tc.kind, in.Kind())
		})
	}
}

func TestDecode_SignalKeepsPayloadVerbatim(t *testing.T) {
	req := require.New(t)

	// Given an answer carrying an arbitrary nested payload
	frame := `{"type":"webrtc-answer","targetUserId":"alice","transferId":"t1","answer":{"sdp":"v=0","type":"answer"}}`

	// When it is decoded and re-encoded for the target
	_, in, err := Decode([]byte(frame))
	req.NoError(err)
	sig := in.(*Signal)
	out, err := Encode(NewSignalOut(sig.Kind(), &domain.User{ID: "bob", Username: "Bob"}, sig.Payload(), sig.TransferID))
	req.NoError(err)

	// Then the payload stays under the same field name, untouched
	var got map[string]any
	req.NoError(json.Unmarshal(out, &got))
	req.Equal("webrtc-answer", got["type"])
	req.Equal("bob", got["senderId"])
	req.Equal("t1", got["transferId"])
	req.Equal(map[string]any{"sdp": "v=0", "type": "answer"}, got["answer"])
	req.NotContains(got, "offer")
	req.NotContains(got, "candidate")
}

func TestDecode_ChatInlineImage(t *testing.T) {
	req := require.New(t)

	// Given a chat message carrying an image as a data url of several kilobytes
	image := "data:image/png;base64," + strings.Repeat("AAAA", 2000)
	frame, err := json.Marshal(map[string]any{
		"type":        EvChatMessage,
		"roomId":      "r1",
		"message":     image,
		"messageType": "image",
	})
	req.NoError(err)

	// When it is decoded
	kind, in, err := Decode(frame)

	// Then the payload passes through untouched
	req.NoError(err)
	req.Equal(EvChatMessage, kind)
	req.Equal(&ChatMessage{RoomID: "r1", Message: image, MessageType: "image"}, in)
}

func TestDecode_ClipboardLargeContent(t *testing.T) {
	req := require.New(t)
	content := strings.Repeat("x", 100_000)
	frame, err := json.Marshal(map[string]any{"type": EvClipboardSync, "roomId": "r1", "content": content})
	req.NoError(err)

	_, in, err := Decode(frame)

	req.NoError(err)
	req.Equal(content, in.(*ClipboardSync).Content)
}

func TestCode(t *testing.T) {
	req := require.New(t)
	req.Equal(CodeNotInRoom, Code(fmt.Errorf("room r1: %w", domain.ErrNotInRoom)))
	req.Equal(CodeNotFound, Code(fmt.Errorf("transfer t: %w", domain.ErrNotFound)))
	req.Equal(CodeNotAuthorized, Code(domain.ErrNotAuthorized))
	req.Equal(CodeInvalidState, Code(domain.ErrInvalidState))
	req.Equal(CodeBadPayload, Code(domain.ErrBadPayload))
	req.Equal(CodeUnknownEvent, Code(ErrUnknownEvent))
	req.Equal(CodeRateLimited, Code(ErrRateLimited))
	req.Equal(CodeInternal, Code(fmt.Errorf("boom")))
}

func TestNewError_Encodes(t *testing.T) {
	req := require.New(t)

	out, err := Encode(NewError(EvChatMessage, fmt.Errorf("room r1: %w", domain.ErrNotInRoom)))

	req.NoError(err)
	req.JSONEq(`{"type":"error","code":"not_in_room","event":"chat-message","error":"room r1: not in room"}`, string(out))
}
