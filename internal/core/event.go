package core

import "encoding/json"

// EventKind is a notification the core emits to sessions.
type EventKind int

const (
	// EventSpaceJoined is the reply to a successful join: spawn position
	// plus the user ids already present.
	EventSpaceJoined EventKind = iota
	// EventUserJoined notifies a room that a user arrived.
	EventUserJoined
	// EventUserMoved notifies a room about an accepted move.
	EventUserMoved
	// EventMovementRejected is sent to the mover only, carrying the
	// authoritative coordinates.
	EventMovementRejected
	// EventUserLeft notifies a room that a user departed.
	EventUserLeft
	// EventChat relays a chat message within a room.
	EventChat
	// EventEmote relays an emote within a room.
	EventEmote
	// EventSignal delivers call-negotiation payload to one session.
	EventSignal
)

// Event is sent to sessions to describe what happened. User is the subject
// for joined/moved/left and the sender for chat/emote/signal.
type Event struct {
	Kind   EventKind
	User   string
	X      int
	Y      int
	Users  []string
	Text   string
	Emote  string
	Signal json.RawMessage
}
