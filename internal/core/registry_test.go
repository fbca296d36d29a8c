package core

import "testing"

func joinedSession(id, user string) *Session {
	s := NewSession(id, 8)
	s.userID = user
	s.state = StateJoined
	return s
}

func TestRegistryBroadcastExcludesSender(t *testing.T) {
	reg := NewRegistry()

	alice := joinedSession("a", "alice")
	bob := joinedSession("b", "bob")
	carol := joinedSession("c", "carol")

	reg.Join("s1", alice)
	reg.Join("s1", bob)
	reg.Join("s1", carol)

	reg.Broadcast(&Event{Kind: EventChat, User: "alice", Text: "hi"}, alice, "s1")

	for _, s := range []*Session{bob, carol} {
		select {
		case ev := <-s.Events:
			if ev.Kind != EventChat || ev.Text != "hi" {
				t.Fatalf("unexpected event for %s: %+v", s.ID, ev)
			}
		default:
			t.Fatalf("session %s received no event", s.ID)
		}
		select {
		case ev := <-s.Events:
			t.Fatalf("session %s received duplicate event: %+v", s.ID, ev)
		default:
		}
	}

	select {
	case ev := <-alice.Events:
		t.Fatalf("sender received own broadcast: %+v", ev)
	default:
	}
}

func TestRegistryBroadcastUnknownSpaceIsNoop(t *testing.T) {
	reg := NewRegistry()
	reg.Broadcast(&Event{Kind: EventChat}, nil, "ghost")
}

func TestRegistryLeaveIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	alice := joinedSession("a", "alice")

	reg.Join("s1", alice)
	reg.Leave(alice, "s1")
	reg.Leave(alice, "s1")
	reg.Leave(alice, "ghost")

	if members := reg.Members("s1"); len(members) != 0 {
		t.Fatalf("expected empty room, got %d members", len(members))
	}
}

func TestRegistryPrunesEmptyRooms(t *testing.T) {
	reg := NewRegistry()
	alice := joinedSession("a", "alice")
	bob := joinedSession("b", "bob")

	reg.Join("s1", alice)
	reg.Join("s1", bob)
	reg.Leave(alice, "s1")

	if len(reg.rooms) != 1 {
		t.Fatalf("room pruned while still occupied: %d rooms", len(reg.rooms))
	}

	reg.Leave(bob, "s1")
	if len(reg.rooms) != 0 {
		t.Fatalf("expected empty room to be pruned, have %d rooms", len(reg.rooms))
	}
}

func TestRegistryUserIndex(t *testing.T) {
	reg := NewRegistry()
	alice := joinedSession("a", "alice")
	bob := joinedSession("b", "bob")

	reg.Join("s1", alice)
	reg.Join("s2", bob)

	if got, ok := reg.FindUser("bob"); !ok || got != bob {
		t.Fatalf("expected to find bob across rooms, got %v ok=%v", got, ok)
	}

	reg.Leave(bob, "s2")
	if _, ok := reg.FindUser("bob"); ok {
		t.Fatal("expected bob to be dropped from the user index after leave")
	}
	if got, ok := reg.FindUser("alice"); !ok || got != alice {
		t.Fatal("alice should remain indexed")
	}
}

func TestRoomDoubleAddIsNoop(t *testing.T) {
	room := NewRoom("s1")
	alice := joinedSession("a", "alice")

	if !room.Add(alice) {
		t.Fatal("first add should report newly added")
	}
	if room.Add(alice) {
		t.Fatal("second add should be a no-op")
	}
	if !room.Remove(alice) || !room.Empty() {
		t.Fatal("expected room to be empty after remove")
	}
}
