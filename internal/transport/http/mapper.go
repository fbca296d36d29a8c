package http

import (
	"encoding/json"

	"github.com/gridhall/relay-server/internal/core"
	"github.com/gridhall/relay-server/internal/proto"
)

// inboundToCommand maps a decoded frame to a core command. Join frames are
// handled separately by the ws handler because they need collaborator calls.
// A (nil, nil) return means the frame is silently dropped.
func inboundToCommand(inbound proto.Inbound) (*core.Command, error) {
	switch inbound.Type {
	case proto.InboundTypeMove:
		var move proto.MoveData
		if err := json.Unmarshal(inbound.Data, &move); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind: core.CommandMove,
			X:    move.X,
			Y:    move.Y,
		}, nil
	case proto.InboundTypeChat:
		var chat proto.ChatData
		if err := json.Unmarshal(inbound.Data, &chat); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind: core.CommandChat,
			Text: chat.Message,
		}, nil
	case proto.InboundTypeEmote:
		var emote proto.EmoteData
		if err := json.Unmarshal(inbound.Data, &emote); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind:  core.CommandEmote,
			Emote: emote.Emote,
		}, nil
	case proto.InboundTypeSignal:
		var signal proto.SignalData
		if err := json.Unmarshal(inbound.Data, &signal); err != nil {
			return nil, err
		}
		if signal.To == "" {
			return nil, nil
		}
		return &core.Command{
			Kind:   core.CommandSignal,
			To:     signal.To,
			Signal: signal.Signal,
		}, nil
	default:
		// Unrecognized types are ignored.
		return nil, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventSpaceJoined:
		users := event.Users
		if users == nil {
			users = []string{}
		}
		return proto.Outbound{
			Type: proto.OutboundTypeSpaceJoined,
			Data: proto.SpaceJoinedData{
				Spawn: proto.Position{X: event.X, Y: event.Y},
				Users: users,
			},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Type: proto.OutboundTypeUserJoined,
			Data: proto.UserJoinedData{UserID: event.User, X: event.X, Y: event.Y},
		}
	case core.EventUserMoved:
		return proto.Outbound{
			Type: proto.OutboundTypeUserMoved,
			Data: proto.UserMovedData{UserID: event.User, X: event.X, Y: event.Y},
		}
	case core.EventMovementRejected:
		return proto.Outbound{
			Type: proto.OutboundTypeMovementRejected,
			Data: proto.MovementRejectedData{X: event.X, Y: event.Y},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Type: proto.OutboundTypeUserLeft,
			Data: proto.UserLeftData{UserID: event.User},
		}
	case core.EventChat:
		return proto.Outbound{
			Type: proto.OutboundTypeChat,
			Data: proto.ChatEventData{From: event.User, Message: event.Text},
		}
	case core.EventEmote:
		return proto.Outbound{
			Type: proto.OutboundTypeEmote,
			Data: proto.EmoteEventData{From: event.User, Emote: event.Emote},
		}
	case core.EventSignal:
		return proto.Outbound{
			Type: proto.OutboundTypeSignal,
			Data: proto.SignalEventData{From: event.User, Signal: event.Signal},
		}
	default:
		return proto.Outbound{Type: "event"}
	}
}
