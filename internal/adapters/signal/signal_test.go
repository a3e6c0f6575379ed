package signal

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/dkeye/Huddle/internal/protocol"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestRoomRateLimiter(t *testing.T) {
	req := require.New(t)
	clock := time.Unix(0, 0)
	rl := NewRoomRateLimiter(2, time.Second)
	rl.now = func() time.Time { return clock }

	req.True(rl.Allow("alice"))
	req.True(rl.Allow("alice"))
	req.False(rl.Allow("alice"))

	// other identities have their own window
	req.True(rl.Allow("bob"))

	// When the window slides past the first attempts
	clock = clock.Add(1500 * time.Millisecond)
	req.True(rl.Allow("alice"))
}

func TestRoomRateLimiter_ForgetsIdleIdentities(t *testing.T) {
	req := require.New(t)
	clock := time.Unix(0, 0)
	rl := NewRoomRateLimiter(5, time.Second)
	rl.now = func() time.Time { return clock }

	// Given many identities that spoke once
	for i := 0; i < 100; i++ {
		req.True(rl.Allow(domain.UserID(fmt.Sprintf("user-%d", i))))
	}
	req.Len(rl.history, 100)

	// When only alice keeps talking after the window has passed
	clock = clock.Add(2 * time.Second)
	req.True(rl.Allow("alice"))

	// Then the idle identities are gone
	req.Len(rl.history, 1)
	req.Contains(rl.history, domain.UserID("alice"))
}

func TestRoomRateLimiter_Disabled(t *testing.T) {
	rl := NewRoomRateLimiter(0, time.Second)
	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow("alice"))
	}
}

type wsHarness struct {
	srv  *httptest.Server
	orch *orch.Orchestrator
}

func newHarness(t *testing.T, opts Options) *wsHarness {
	gin.SetMode(gin.TestMode)
	o := orch.New(app.SimplePolicy{Action: app.DropFrame}, nil)
	ctl := NewSignalWSController(o, opts)
	ctx, cancel := context.WithCancel(context.Background())

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		u, err := domain.NewUser(c.Query("id"), c.Query("name"))
		if err != nil {
			c.AbortWithStatus(400)
			return
		}
		ctl.HandleSignal(ctx, c, u)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return &wsHarness{srv: srv, orch: o}
}

func (h *wsHarness) dial(t *testing.T, id, name string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(h.srv.URL, "http") + "/ws?id=" + id + "&name=" + name
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

// expect reads until an event of the given type arrives.
func expect(t *testing.T, conn *websocket.Conn, kind string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", kind)
		var ev map[string]any
		require.NoError(t, json.Unmarshal(data, &ev))
		if ev["type"] == kind {
			return ev
		}
	}
}

func TestSignal_JoinAndChat(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, DefaultOptions())

	// Given alice and bob are connected
	alice := h.dial(t, "alice", "Alice")
	req.Eventually(func() bool { return h.orch.Registry.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	bob := h.dial(t, "bob", "Bob")
	expect(t, alice, protocol.EvUserOnline)

	// When both join r1
	send(t, alice, map[string]any{"type": "join-room", "roomId": "r1"})
	expect(t, alice, protocol.EvRoomJoined)
	send(t, bob, map[string]any{"type": "join-room", "roomId": "r1"})
	joined := expect(t, bob, protocol.EvRoomJoined)
	req.Len(joined["participants"], 2)
	expect(t, alice, protocol.EvUserJoined)

	// When bob chats
	send(t, bob, map[string]any{"type": "chat-message", "roomId": "r1", "message": "hello"})

	// Then alice receives it
	msg := expect(t, alice, protocol.EvChatMessage)
	req.Equal("hello", msg["message"])
	req.Equal("bob", msg["userId"])
	req.Equal("Bob", msg["username"])

	// When bob hangs up
	req.NoError(bob.Close())

	// Then alice sees him leave and go offline
	left := expect(t, alice, protocol.EvUserLeft)
	req.Equal("r1", left["roomId"])
	expect(t, alice, protocol.EvUserOffline)
}

func TestSignal_ChatInlineImage(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, DefaultOptions())
	alice := h.dial(t, "alice", "Alice")
	send(t, alice, map[string]any{"type": "join-room", "roomId": "r1"})
	expect(t, alice, protocol.EvRoomJoined)

	// When alice posts an image well above a text-sized frame
	image := "data:image/png;base64," + strings.Repeat("iVBO", 50_000)
	send(t, alice, map[string]any{"type": "chat-message", "roomId": "r1", "message": image, "messageType": "image"})

	// Then it is relayed and the connection stays up
	msg := expect(t, alice, protocol.EvChatMessage)
	req.Equal("image", msg["messageType"])
	req.Equal(image, msg["message"])
	req.Equal(1, h.orch.Registry.Count())
}

func TestSignal_ErrorsGoToSender(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, DefaultOptions())
	alice := h.dial(t, "alice", "Alice")

	cases := []struct {
		frame any
		event string
		code  string
	}{
		{map[string]any{"type": "dance"}, "dance", protocol.CodeUnknownEvent},
		{map[string]any{"type": "join-room"}, protocol.EvJoinRoom, protocol.CodeBadPayload},
		{map[string]any{"type": "chat-message", "roomId": "r9", "message": "x"}, protocol.EvChatMessage, protocol.CodeNotInRoom},
		{map[string]any{"type": "file-transfer-response", "transferId": "nope", "accepted": true}, protocol.EvFileTransferResponse, protocol.CodeNotFound},
	}
	for _, tc := range cases {
		send(t, alice, tc.frame)
		ev := expect(t, alice, protocol.EvError)
		req.Equal(tc.code, ev["code"])
		req.Equal(tc.event, ev["event"])
	}

	// And the connection is still usable
	send(t, alice, map[string]any{"type": "ping"})
	expect(t, alice, protocol.EvPong)
}

func TestSignal_RateLimited(t *testing.T) {
	req := require.New(t)
	opts := DefaultOptions()
	opts.RateLimit = 1
	opts.RateInterval = time.Minute
	h := newHarness(t, opts)
	alice := h.dial(t, "alice", "Alice")

	send(t, alice, map[string]any{"type": "join-room", "roomId": "r1"})
	expect(t, alice, protocol.EvRoomJoined)

	send(t, alice, map[string]any{"type": "chat-message", "roomId": "r1", "message": "one"})
	expect(t, alice, protocol.EvChatMessage)

	send(t, alice, map[string]any{"type": "chat-message", "roomId": "r1", "message": "two"})
	ev := expect(t, alice, protocol.EvError)
	req.Equal(protocol.CodeRateLimited, ev["code"])
}

func TestSignal_Forward(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, DefaultOptions())
	alice := h.dial(t, "alice", "Alice")
	req.Eventually(func() bool { return h.orch.Registry.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	bob := h.dial(t, "bob", "Bob")
	expect(t, alice, protocol.EvUserOnline)

	send(t, bob, map[string]any{
		"type":         "webrtc-offer",
		"targetUserId": "alice",
		"transferId":   "t1",
		"offer":        map[string]any{"type": "offer", "sdp": "v=0"},
	})

	ev := expect(t, alice, protocol.EvWebRTCOffer)
	req.Equal("bob", ev["senderId"])
	req.Equal(map[string]any{"type": "offer", "sdp": "v=0"}, ev["offer"])
}
