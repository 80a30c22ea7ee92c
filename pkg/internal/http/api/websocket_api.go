package api

import (
	"context"
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/realtime"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

// socketConn is what serveSocket needs from a websocket connection.
type socketConn interface {
	realtime.Socket
	ReadMessage() (messageType int, p []byte, err error)
}

func (v *Controller) upgradeWebsocket(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// listenWebsocket serves a socket. With a role the poll in the path is joined
// on connect and every later join uses that role.
func (v *Controller) listenWebsocket(role realtime.Role) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		v.serveSocket(conn, conn.Params("pollId"), role)
	})
}

func (v *Controller) serveSocket(socket socketConn, pollId string, role realtime.Role) {
	client := realtime.NewClient(socket, v.sendBuffer, v.pingInterval)

	pumped := make(chan struct{})
	go func() {
		client.WritePump()
		close(pumped)
	}()
	// A failed write closes the client before the read loop notices
	go func() {
		<-client.Done()
		v.hub.Leave(client)
	}()
	defer func() {
		client.Close()
		v.hub.Leave(client)
		<-pumped
	}()

	log.Debug().Str("conn", client.ID()).Str("role", role).Msg("Websocket client connected.")

	if len(pollId) > 0 {
		v.joinPoll(client, pollId, role)
	}

	for {
		_, data, err := socket.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Str("conn", client.ID()).Msg("Websocket client disconnected.")
			return
		}

		var msg realtime.Message
		if err := jsoniter.Unmarshal(data, &msg); err != nil {
			_ = client.Send(realtime.ErrorEvent("", "malformed message"))
			continue
		}

		switch msg.Type {
		case realtime.MessageJoinPoll:
			joinAs := msg.Role
			if len(role) > 0 {
				joinAs = role
			} else if len(joinAs) == 0 {
				joinAs = realtime.RoleParticipant
			}
			v.joinPoll(client, msg.PollID, joinAs)
		case realtime.MessageLeavePoll:
			if sub, ok := v.hub.Leave(client); ok {
				_ = client.Send(realtime.Event{Type: realtime.EventLeft, PollID: sub.PollID})
			}
		case realtime.MessagePing:
			_ = client.Send(realtime.Event{Type: realtime.EventPong})
		default:
			_ = client.Send(realtime.ErrorEvent(msg.PollID, fmt.Sprintf("unknown message type %q", msg.Type)))
		}

		select {
		case <-client.Done():
			return
		default:
		}
	}
}

// joinPoll subscribes the client to a poll given by id or join code.
func (v *Controller) joinPoll(client *realtime.Client, target string, role realtime.Role) {
	if !realtime.IsKnownRole(role) {
		_ = client.Send(realtime.ErrorEvent(target, fmt.Sprintf("unknown role %q", role)))
		return
	}

	ctx := context.Background()
	poll, err := v.polls.Get(ctx, target)
	if errors.Is(err, models.ErrNotFound) {
		poll, err = v.polls.GetByCode(ctx, target)
	}
	if err != nil {
		message := "poll not found"
		if !errors.Is(err, models.ErrNotFound) {
			message = "unable to load poll"
			log.Error().Err(err).Str("poll", target).Msg("An error occurred when joining poll...")
		}
		_ = client.Send(realtime.ErrorEvent(target, message))
		return
	}

	select {
	case <-client.Done():
		return
	default:
	}

	count := v.hub.Join(client, poll.ID, role)
	select {
	case <-client.Done():
		v.hub.Leave(client)
		return
	default:
	}
	_ = client.Send(realtime.Event{
		Type:         realtime.EventJoined,
		PollID:       poll.ID,
		Role:         role,
		Participants: &count,
	})
}
