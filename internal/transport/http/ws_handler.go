package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gridhall/relay-server/internal/auth"
	"github.com/gridhall/relay-server/internal/core"
	"github.com/gridhall/relay-server/internal/directory"
	"github.com/gridhall/relay-server/internal/proto"
)

// errJoinRejected marks a fatal join failure (bad token, unknown space).
// The socket is closed without a structured error payload.
var errJoinRejected = errors.New("join rejected")

// WSHandler upgrades HTTP connections and bridges them to core sessions.
type WSHandler struct {
	hub         *core.Hub
	verifier    auth.Verifier
	directory   directory.Directory
	eventBuffer int
	log         *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, verifier auth.Verifier, dir directory.Directory, eventBuffer int, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		hub:         hub,
		verifier:    verifier,
		directory:   dir,
		eventBuffer: eventBuffer,
		log:         logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	sess := core.NewSession(uuid.NewString(), h.eventBuffer)
	h.hub.RegisterClient(sess)
	defer h.hub.UnregisterClient(sess)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, sess)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, sess)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	if errors.Is(err, errJoinRejected) {
		// Fatal join failures are a trust boundary, not an error
		// reporting protocol: close with no detail.
		conn.Close(websocket.StatusPolicyViolation, "")
		return
	}

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, sess *core.Session) error {
	joined := false
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var inbound proto.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			h.log.Debug().Err(err).Str("conn_id", sess.ID).Msg("dropping malformed frame")
			continue
		}

		if inbound.Type == proto.InboundTypeLeave {
			// An explicit leave and a socket close share the same
			// cleanup path.
			return nil
		}

		if inbound.Type == proto.InboundTypeJoin {
			if joined {
				continue
			}
			cmd, err := h.resolveJoin(ctx, sess, inbound.Data)
			if err != nil {
				return err
			}
			if cmd != nil {
				joined = true
				sess.Commands <- cmd
			}
			continue
		}

		cmd, err := inboundToCommand(inbound)
		if err != nil {
			h.log.Debug().Err(err).Str("conn_id", sess.ID).Str("type", inbound.Type).Msg("dropping malformed payload")
			continue
		}
		if cmd != nil {
			sess.Commands <- cmd
		}
	}
}

// resolveJoin runs the collaborator calls (token verification, space lookup)
// on this connection's own goroutine so an awaited call never stalls the hub.
func (h *WSHandler) resolveJoin(ctx context.Context, sess *core.Session, data json.RawMessage) (*core.Command, error) {
	var join proto.JoinData
	if err := json.Unmarshal(data, &join); err != nil {
		h.log.Debug().Err(err).Str("conn_id", sess.ID).Msg("dropping malformed join")
		return nil, nil
	}

	identity, err := h.verifier.Verify(join.Token)
	if err != nil {
		h.log.Info().Err(err).Str("conn_id", sess.ID).Msg("join rejected: invalid token")
		return nil, errJoinRejected
	}

	space, err := h.directory.GetSpace(ctx, join.SpaceID)
	if err != nil {
		h.log.Info().Err(err).Str("conn_id", sess.ID).Str("space", join.SpaceID).Msg("join rejected: space lookup failed")
		return nil, errJoinRejected
	}

	return &core.Command{
		Kind:   core.CommandJoinSpace,
		Space:  space.ID,
		User:   identity.UserID,
		Role:   identity.Role,
		Width:  space.Width,
		Height: space.Height,
	}, nil
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sess *core.Session) error {
	for {
		select {
		case event, ok := <-sess.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("conn_id", sess.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
