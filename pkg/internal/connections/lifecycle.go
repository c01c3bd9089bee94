package connections

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

// Lifecycle drives a single live connection from its first frame until
// disconnect, keeping the registry consistent with actual liveness.
type Lifecycle struct {
	registry *Registry
	router   *Router
}

func NewLifecycle(registry *Registry, router *Router) *Lifecycle {
	return &Lifecycle{
		registry: registry,
		router:   router,
	}
}

// Run owns conn until it closes. The peer must join first: the opening
// frame has to be a user-joined event carrying the account id. Any other
// frame before joining ends the connection. After joining, inbound events
// are routed with this connection as the origin.
//
// The handle is unregistered before it is discarded; a connection that
// disconnects before ever joining leaves the registry untouched.
func (v *Lifecycle) Run(conn Conn) {
	client := NewClient(conn)
	defer func() {
		v.registry.Unregister(client)
		_ = conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var event Event
		if err := jsoniter.Unmarshal(raw, &event); err != nil {
			log.Debug().Err(err).Str("connection", client.ID).Msg("Skipped an undecodable frame...")
			continue
		}

		switch {
		case event.Kind == EventUserJoined:
			if client.AccountID > 0 {
				// Already joined, repeated join frames are ignored.
				continue
			}
			accountId, ok := event.UserID()
			if !ok {
				log.Debug().Str("connection", client.ID).Msg("Rejected a join frame without an user id.")
				return
			}
			client.AccountID = accountId
			v.registry.Register(accountId, client)
			log.Debug().Uint("user", accountId).Str("connection", client.ID).Msg("User joined.")
		case client.AccountID == 0:
			// Routing before joining is a protocol violation.
			return
		default:
			v.router.Dispatch(event, client)
		}
	}
}
