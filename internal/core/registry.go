package core

// Room groups sessions occupying the same space.
type Room struct {
	SpaceID string
	members map[*Session]struct{}
}

// NewRoom constructs a room with no members.
func NewRoom(spaceID string) *Room {
	return &Room{
		SpaceID: spaceID,
		members: make(map[*Session]struct{}),
	}
}

// Add inserts a session into the room. Returns true if newly added.
func (r *Room) Add(s *Session) bool {
	if _, exists := r.members[s]; exists {
		return false
	}
	r.members[s] = struct{}{}
	return true
}

// Remove deletes a session from the room. Returns true if removed.
func (r *Room) Remove(s *Session) bool {
	if _, exists := r.members[s]; !exists {
		return false
	}
	delete(r.members, s)
	return true
}

// Broadcast sends an event to every member except sender.
func (r *Room) Broadcast(event *Event, sender *Session) {
	for member := range r.members {
		if member == sender {
			continue
		}
		select {
		case member.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}

// Empty returns true if no sessions are in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// Registry is the process-wide membership table: space id to room, plus a
// user index for signaling lookups. It performs no locking of its own; all
// access is confined to the hub run loop.
type Registry struct {
	rooms map[string]*Room
	users map[string]*Session
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		users: make(map[string]*Session),
	}
}

// Join adds the session to the room for spaceID, creating the room on first
// use, and indexes the session's user for signaling.
func (g *Registry) Join(spaceID string, s *Session) {
	room, ok := g.rooms[spaceID]
	if !ok {
		room = NewRoom(spaceID)
		g.rooms[spaceID] = room
	}
	room.Add(s)
	if s.userID != "" {
		g.users[s.userID] = s
	}
}

// Leave removes the session from the room for spaceID. No-op if the room or
// the session is not present. Empty rooms are pruned.
func (g *Registry) Leave(s *Session, spaceID string) {
	room, ok := g.rooms[spaceID]
	if !ok {
		return
	}
	room.Remove(s)
	if room.Empty() {
		delete(g.rooms, spaceID)
	}
	if s.userID != "" && g.users[s.userID] == s {
		delete(g.users, s.userID)
	}
}

// Broadcast delivers event to every member of spaceID except sender. No-op
// if the room does not exist.
func (g *Registry) Broadcast(event *Event, sender *Session, spaceID string) {
	room, ok := g.rooms[spaceID]
	if !ok {
		return
	}
	room.Broadcast(event, sender)
}

// Members returns the sessions currently joined to spaceID.
func (g *Registry) Members(spaceID string) []*Session {
	room, ok := g.rooms[spaceID]
	if !ok {
		return nil
	}
	members := make([]*Session, 0, len(room.members))
	for member := range room.members {
		members = append(members, member)
	}
	return members
}

// FindUser looks up a joined session by user id, irrespective of room.
func (g *Registry) FindUser(userID string) (*Session, bool) {
	s, ok := g.users[userID]
	return s, ok
}
