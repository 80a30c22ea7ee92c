package realtime

import "git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"

type Role = string

const (
	RoleHost        = Role("host")
	RoleParticipant = Role("participant")
)

func IsKnownRole(role Role) bool {
	return role == RoleHost || role == RoleParticipant
}

type EventType = string

const (
	EventResponseSubmitted = EventType("response_submitted")
	EventStatusChanged     = EventType("status_changed")
	EventParticipantJoined = EventType("participant_joined")
	EventParticipantLeft   = EventType("participant_left")
	EventPollDeleted       = EventType("poll_deleted")

	// Sent to the requesting connection only
	EventJoined = EventType("joined")
	EventLeft   = EventType("left")
	EventError  = EventType("error")
	EventPong   = EventType("pong")
)

// Event is an outbound frame. Clients treat every event as a hint to fetch
// fresh state, so payloads stay small.
type Event struct {
	Type   EventType `json:"type"`
	PollID string    `json:"pollId,omitempty"`

	OldStatus      models.PollStatus `json:"oldStatus,omitempty"`
	NewStatus      models.PollStatus `json:"newStatus,omitempty"`
	ResponseID     string            `json:"responseId,omitempty"`
	TotalResponses *int64            `json:"totalResponses,omitempty"`
	Participants   *int              `json:"participants,omitempty"`
	Role           Role              `json:"role,omitempty"`
	Message        string            `json:"message,omitempty"`
}

type MessageType = string

const (
	MessageJoinPoll  = MessageType("join_poll")
	MessageLeavePoll = MessageType("leave_poll")
	MessagePing      = MessageType("ping")
)

// Message is an inbound frame.
type Message struct {
	Type   MessageType `json:"type"`
	PollID string      `json:"pollId"`
	Role   Role        `json:"role"`
}

func ErrorEvent(pollID, message string) Event {
	return Event{Type: EventError, PollID: pollID, Message: message}
}
