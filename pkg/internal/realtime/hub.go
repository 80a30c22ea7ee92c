package realtime

import (
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Hub fans events out to the connections subscribed to a poll. Delivery is
// best effort: a connection that fails to take an event is evicted.
type Hub struct {
	registry *Registry
}

func NewHub() *Hub {
	return &Hub{registry: NewRegistry()}
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

// Join subscribes conn to the poll and announces it when it joins as a
// participant. It returns the participant count after joining.
func (h *Hub) Join(conn Conn, pollID string, role Role) int {
	prev, had := h.registry.Subscribe(pollID, conn, role)
	same := had && prev.PollID == pollID

	if had && !same && prev.Role == RoleParticipant {
		h.announceParticipants(prev.PollID, EventParticipantLeft)
	}
	count := h.registry.ParticipantCount(pollID)
	if role == RoleParticipant && !(same && prev.Role == RoleParticipant) {
		h.announceParticipants(pollID, EventParticipantJoined)
	} else if same && prev.Role == RoleParticipant && role != RoleParticipant {
		h.announceParticipants(pollID, EventParticipantLeft)
	}

	return count
}

// Leave removes conn from its poll, if any.
func (h *Hub) Leave(conn Conn) (Subscription, bool) {
	sub, ok := h.registry.Unsubscribe(conn)
	if ok && sub.Role == RoleParticipant {
		h.announceParticipants(sub.PollID, EventParticipantLeft)
	}
	return sub, ok
}

func (h *Hub) announceParticipants(pollID string, kind EventType) {
	h.Broadcast(pollID, Event{
		Type:         kind,
		Participants: lo.ToPtr(h.registry.ParticipantCount(pollID)),
	})
}

// Broadcast delivers the event to every connection subscribed to the poll
// and returns how many took it.
func (h *Hub) Broadcast(pollID string, event Event) int {
	event.PollID = pollID

	var delivered int
	for _, conn := range h.registry.ConnectionsFor(pollID) {
		if err := conn.Send(event); err != nil {
			log.Warn().Err(err).
				Str("conn", conn.ID()).
				Str("poll", pollID).
				Str("event", event.Type).
				Msg("Unable to deliver event, dropping connection...")
			h.evict(conn)
			continue
		}
		delivered++
	}

	return delivered
}

func (h *Hub) evict(conn Conn) {
	conn.Close()
	h.Leave(conn)
}

func (h *Hub) ResponseSubmitted(pollID, responseID string, total int64) {
	h.Broadcast(pollID, Event{
		Type:           EventResponseSubmitted,
		ResponseID:     responseID,
		TotalResponses: lo.ToPtr(total),
	})
}

func (h *Hub) StatusChanged(pollID string, previous, current models.PollStatus) {
	h.Broadcast(pollID, Event{
		Type:      EventStatusChanged,
		OldStatus: previous,
		NewStatus: current,
	})
}

// PollDeleted tells subscribers the poll is gone and forgets them. The
// connections themselves stay open.
func (h *Hub) PollDeleted(pollID string) {
	h.Broadcast(pollID, Event{Type: EventPollDeleted})
	h.registry.Drop(pollID)
}
