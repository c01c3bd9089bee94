package connections

import (
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type EventKind = string

const (
	EventUserJoined      = EventKind("user-joined")
	EventNewMessage      = EventKind("new-message")
	EventNewNotification = EventKind("new-notification")
	EventPostLiked       = EventKind("post-liked")
	EventNewComment      = EventKind("new-comment")
)

type Event struct {
	Kind    EventKind      `json:"kind"`
	Payload map[string]any `json:"payload"`
}

func (v Event) payloadUint(key string) (uint, bool) {
	switch value := v.Payload[key].(type) {
	case float64:
		return uint(value), value > 0
	case int:
		return uint(value), value > 0
	case uint:
		return value, value > 0
	}
	return 0, false
}

func (v Event) RecipientID() (uint, bool) {
	return v.payloadUint("recipient_id")
}

func (v Event) UserID() (uint, bool) {
	return v.payloadUint("user_id")
}

// Router fans domain events out to live connections. It only reads the
// registry; every delivery is fire-and-forget with no acknowledgment, retry
// or queueing, because callers persist the domain object before routing.
type Router struct {
	registry *Registry
}

func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// Dispatch routes one event. The origin connection never receives its own
// event back; pass nil when the event did not originate from a live
// connection.
func (v *Router) Dispatch(event Event, origin *Client) {
	switch event.Kind {
	case EventNewMessage, EventNewNotification:
		var target *Client
		if recipient, ok := event.RecipientID(); ok {
			if client, reachable := v.registry.Lookup(recipient); reachable {
				client.Send(event)
				target = client
			}
		}
		if event.Kind == EventNewNotification {
			return
		}
		// Keep the sender's other devices in sync; clients must be
		// idempotent to receiving their own echoed events.
		v.broadcast(event, origin, target)
	case EventPostLiked, EventNewComment:
		v.broadcast(event, origin)
	default:
		log.Warn().Str("kind", event.Kind).Msg("Dropped an event with an unroutable kind.")
	}
}

func (v *Router) broadcast(event Event, exclude ...*Client) {
	for _, client := range v.registry.Snapshot() {
		if lo.Contains(exclude, client) {
			continue
		}
		client.Send(event)
	}
}
