package realtime

import "sync"

// Conn is a live client connection as seen by the registry. Implementations
// must be comparable, pointers are.
type Conn interface {
	ID() string
	// Send queues the event without blocking. An error means the connection
	// is gone or cannot keep up.
	Send(event Event) error
	Close()
}

type Subscription struct {
	PollID string
	Role   Role
}

// Registry maps polls to subscribed connections and connections back to their
// poll. Both maps are only touched together under one mutex.
type Registry struct {
	mutex sync.Mutex
	polls map[string]map[Conn]Role
	conns map[Conn]Subscription
}

func NewRegistry() *Registry {
	return &Registry{
		polls: make(map[string]map[Conn]Role),
		conns: make(map[Conn]Subscription),
	}
}

// Subscribe binds conn to the poll, dropping any subscription it had before.
// The previous subscription is returned.
func (r *Registry) Subscribe(pollID string, conn Conn, role Role) (Subscription, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	prev, had := r.remove(conn)

	if r.polls[pollID] == nil {
		r.polls[pollID] = make(map[Conn]Role)
	}
	r.polls[pollID][conn] = role
	r.conns[conn] = Subscription{PollID: pollID, Role: role}

	return prev, had
}

// Unsubscribe removes conn from whatever poll it is subscribed to.
func (r *Registry) Unsubscribe(conn Conn) (Subscription, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.remove(conn)
}

func (r *Registry) remove(conn Conn) (Subscription, bool) {
	sub, ok := r.conns[conn]
	if !ok {
		return Subscription{}, false
	}
	delete(r.conns, conn)
	if set := r.polls[sub.PollID]; set != nil {
		delete(set, conn)
		if len(set) == 0 {
			delete(r.polls, sub.PollID)
		}
	}
	return sub, true
}

func (r *Registry) SubscriptionOf(conn Conn) (Subscription, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	sub, ok := r.conns[conn]
	return sub, ok
}

// ConnectionsFor returns a snapshot of the connections subscribed to the poll.
func (r *Registry) ConnectionsFor(pollID string) []Conn {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	set := r.polls[pollID]
	out := make([]Conn, 0, len(set))
	for conn := range set {
		out = append(out, conn)
	}
	return out
}

func (r *Registry) ParticipantCount(pollID string) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var count int
	for _, role := range r.polls[pollID] {
		if role == RoleParticipant {
			count++
		}
	}
	return count
}

// Drop unsubscribes every connection of the poll and returns them.
func (r *Registry) Drop(pollID string) []Conn {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	set := r.polls[pollID]
	out := make([]Conn, 0, len(set))
	for conn := range set {
		delete(r.conns, conn)
		out = append(out, conn)
	}
	delete(r.polls, pollID)
	return out
}

// Len returns the number of subscribed connections over all polls.
func (r *Registry) Len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.conns)
}
