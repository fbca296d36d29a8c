package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/gridhall/relay-server/internal/auth"
	"github.com/gridhall/relay-server/internal/config"
	"github.com/gridhall/relay-server/internal/core"
	"github.com/gridhall/relay-server/internal/directory"
	"github.com/gridhall/relay-server/internal/proto"
)

// staticDirectory is an in-memory space directory for tests.
type staticDirectory map[string]*directory.Space

func (d staticDirectory) GetSpace(_ context.Context, id string) (*directory.Space, error) {
	space, ok := d[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return space, nil
}

func testJWTConfig() *auth.JWTConfig {
	return &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "gridhall-admin",
		Audience: "gridhall-relay",
		TTL:      time.Hour,
	}
}

func startTestServer(t *testing.T, spaces staticDirectory) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := core.NewHub(core.NewRegistry(), nil)
	go hub.Run(ctx)

	logger := zerolog.Nop()
	server := NewServer(hub, auth.NewJWTVerifier(testJWTConfig()), spaces, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		EventBuffer:       32,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		conn.Close(websocket.StatusNormalClosure, "done")
	})
	return conn
}

func mintToken(t *testing.T, userID string) string {
	t.Helper()

	token, err := auth.GenerateToken(testJWTConfig(), userID, "member")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

type outboundFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readFrame(t *testing.T, ctx context.Context, conn *websocket.Conn) outboundFrame {
	t.Helper()

	var frame outboundFrame
	if err := wsjson.Read(ctx, conn, &frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func decodeData[T any](t *testing.T, frame outboundFrame) T {
	t.Helper()

	var data T
	if err := json.Unmarshal(frame.Data, &data); err != nil {
		t.Fatalf("decode %s data: %v", frame.Type, err)
	}
	return data
}
