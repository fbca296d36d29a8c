package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinSpace enters a space. The transport resolves token and
	// space dimensions before the command reaches the hub.
	CommandJoinSpace CommandKind = iota
	// CommandMove requests a position update.
	CommandMove
	// CommandChat sends a chat message to the session's room.
	CommandChat
	// CommandEmote sends an emote to the session's room.
	CommandEmote
	// CommandSignal forwards opaque call-negotiation payload to one user.
	CommandSignal
)

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind

	// Join fields, pre-resolved by the transport.
	Space  string
	User   string
	Role   string
	Width  int
	Height int

	// Move fields.
	X int
	Y int

	Text  string
	Emote string

	// Signal fields. Signal is never inspected by the relay.
	To     string
	Signal json.RawMessage
}
