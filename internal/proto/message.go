package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

const (
	InboundTypeJoin   = "join"
	InboundTypeLeave  = "leave"
	InboundTypeMove   = "move"
	InboundTypeChat   = "chat"
	InboundTypeEmote  = "emote"
	InboundTypeSignal = "webrtc-signal"

	OutboundTypeSpaceJoined      = "space-joined"
	OutboundTypeMovementRejected = "movement-rejected"
	OutboundTypeUserJoined       = "user-joined"
	OutboundTypeUserMoved        = "move"
	OutboundTypeUserLeft         = "user-left"
	OutboundTypeChat             = "chat"
	OutboundTypeEmote            = "emote"
	OutboundTypeSignal           = "webrtc-signal"
)

// Position is a grid coordinate pair.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// JoinData requests entry into a space.
type JoinData struct {
	SpaceID string `json:"spaceID"`
	Token   string `json:"token"`
}

// SpaceJoinedData is the reply to a successful join.
type SpaceJoinedData struct {
	Spawn Position `json:"spawn"`
	Users []string `json:"users"`
}

// MoveData is a requested position update.
type MoveData struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MovementRejectedData carries the authoritative coordinates after a
// rejected move so the client can re-sync its local prediction.
type MovementRejectedData struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// UserJoinedData announces a new member and its spawn position.
type UserJoinedData struct {
	UserID string `json:"userID"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// UserMovedData announces an accepted move to the rest of the room.
type UserMovedData struct {
	UserID string `json:"userID"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// UserLeftData announces a departed member.
type UserLeftData struct {
	UserID string `json:"userID"`
}

// ChatData is a chat message from the client.
type ChatData struct {
	Message string `json:"message"`
}

// ChatEventData is a chat message relayed to the room.
type ChatEventData struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// EmoteData is an emote token from the client.
type EmoteData struct {
	Emote string `json:"emote"`
}

// EmoteEventData is an emote relayed to the room.
type EmoteEventData struct {
	From  string `json:"from"`
	Emote string `json:"emote"`
}

// SignalData is call-negotiation payload addressed to another user. The
// relay never inspects Signal's contents.
type SignalData struct {
	To     string          `json:"to"`
	Signal json.RawMessage `json:"signal"`
}

// SignalEventData is a relayed signal with the sender's identity attached.
type SignalEventData struct {
	From   string          `json:"from"`
	Signal json.RawMessage `json:"signal"`
}
