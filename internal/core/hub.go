package core

import (
	"context"
	"math/rand/v2"

	"github.com/rs/zerolog"
)

// Hub processes every session's commands on a single goroutine. Registry
// access and all session state transitions happen only there, which is what
// gives each room its FIFO broadcast ordering.
type Hub struct {
	registry *Registry
	log      *zerolog.Logger

	commands   chan sessionCommand
	unregister chan *Session
	done       chan struct{}
}

type sessionCommand struct {
	sess *Session
	cmd  *Command
}

// NewHub constructs a hub around an explicit registry instance.
func NewHub(registry *Registry, logger *zerolog.Logger) *Hub {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry:   registry,
		log:        logger,
		commands:   make(chan sessionCommand, 64),
		unregister: make(chan *Session, 16),
		done:       make(chan struct{}),
	}
}

// Run consumes commands until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case sc := <-h.commands:
			h.dispatch(sc.sess, sc.cmd)
		case s := <-h.unregister:
			h.disconnect(s)
		}
	}
}

// RegisterClient starts pumping the session's commands into the hub loop.
func (h *Hub) RegisterClient(s *Session) {
	go h.pump(s)
}

// UnregisterClient stops the session's inbound side. Once its remaining
// commands drain, the hub runs disconnect cleanup exactly once.
func (h *Hub) UnregisterClient(s *Session) {
	s.CloseCommands()
}

func (h *Hub) pump(s *Session) {
	for cmd := range s.Commands {
		select {
		case h.commands <- sessionCommand{sess: s, cmd: cmd}:
		case <-h.done:
			return
		}
	}
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

func (h *Hub) dispatch(s *Session, cmd *Command) {
	switch cmd.Kind {
	case CommandJoinSpace:
		h.handleJoin(s, cmd)
	case CommandMove:
		h.handleMove(s, cmd)
	case CommandChat:
		h.handleChat(s, cmd)
	case CommandEmote:
		h.handleEmote(s, cmd)
	case CommandSignal:
		h.handleSignal(s, cmd)
	}
}

func (h *Hub) handleJoin(s *Session, cmd *Command) {
	if s.state != StateConnecting {
		h.log.Debug().Str("conn_id", s.ID).Msg("join ignored outside connecting state")
		return
	}
	if cmd.Width <= 0 || cmd.Height <= 0 {
		h.log.Debug().Str("conn_id", s.ID).Str("space", cmd.Space).Msg("join ignored for degenerate grid")
		return
	}

	s.userID = cmd.User
	s.role = cmd.Role
	s.space = cmd.Space
	s.width = cmd.Width
	s.height = cmd.Height
	s.x = rand.IntN(cmd.Width)
	s.y = rand.IntN(cmd.Height)
	s.state = StateJoined

	others := h.registry.Members(cmd.Space)
	users := make([]string, 0, len(others))
	for _, member := range others {
		users = append(users, member.userID)
	}

	h.registry.Join(cmd.Space, s)

	h.sendTo(s, &Event{Kind: EventSpaceJoined, X: s.x, Y: s.y, Users: users})
	h.registry.Broadcast(&Event{Kind: EventUserJoined, User: s.userID, X: s.x, Y: s.y}, s, s.space)

	h.log.Info().
		Str("conn_id", s.ID).
		Str("user", s.userID).
		Str("role", s.role).
		Str("space", s.space).
		Int("x", s.x).
		Int("y", s.y).
		Msg("user joined space")
}

func (h *Hub) handleMove(s *Session, cmd *Command) {
	if s.state != StateJoined {
		return
	}
	if !s.validStep(cmd.X, cmd.Y) {
		h.sendTo(s, &Event{Kind: EventMovementRejected, X: s.x, Y: s.y})
		return
	}

	s.x = cmd.X
	s.y = cmd.Y
	h.registry.Broadcast(&Event{Kind: EventUserMoved, User: s.userID, X: s.x, Y: s.y}, s, s.space)
}

// validStep accepts exactly one orthogonal grid step that stays in bounds.
func (s *Session) validStep(x, y int) bool {
	dx := abs(x - s.x)
	dy := abs(y - s.y)
	if !(dx == 1 && dy == 0 || dx == 0 && dy == 1) {
		return false
	}
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

func (h *Hub) handleChat(s *Session, cmd *Command) {
	if s.state != StateJoined {
		return
	}
	h.registry.Broadcast(&Event{Kind: EventChat, User: s.userID, Text: cmd.Text}, s, s.space)
}

func (h *Hub) handleEmote(s *Session, cmd *Command) {
	if s.state != StateJoined {
		return
	}
	h.registry.Broadcast(&Event{Kind: EventEmote, User: s.userID, Emote: cmd.Emote}, s, s.space)
}

func (h *Hub) handleSignal(s *Session, cmd *Command) {
	if s.state != StateJoined {
		return
	}
	// Recipient lookup is process-wide, not scoped to the sender's room,
	// so a call can be signalled across spaces.
	target, ok := h.registry.FindUser(cmd.To)
	if !ok || target == s {
		return
	}
	h.sendTo(target, &Event{Kind: EventSignal, User: s.userID, Signal: cmd.Signal})
}

func (h *Hub) disconnect(s *Session) {
	if s.state == StateClosed {
		return
	}
	if s.state == StateJoined {
		h.registry.Leave(s, s.space)
		h.registry.Broadcast(&Event{Kind: EventUserLeft, User: s.userID}, s, s.space)
		h.log.Info().
			Str("conn_id", s.ID).
			Str("user", s.userID).
			Str("space", s.space).
			Msg("user left space")
	}
	s.state = StateClosed
	close(s.Events)
}

func (h *Hub) sendTo(s *Session, event *Event) {
	select {
	case s.Events <- event:
	default:
		h.log.Warn().Str("conn_id", s.ID).Msg("dropping event for slow consumer")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
