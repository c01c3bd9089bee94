package connections

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

// Conn is the transport half of a live connection. Satisfied by
// *websocket.Conn.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is the handle of one live connection. A client belongs to at most
// one account, bound once when the peer joins.
type Client struct {
	ID        string
	AccountID uint

	conn    Conn
	writeMu sync.Mutex
}

func NewClient(conn Conn) *Client {
	return &Client{
		ID:   uuid.NewString(),
		conn: conn,
	}
}

// Send pushes one event frame to the peer, fire-and-forget. Transport
// errors are swallowed: the event is already durable in the store, so a
// dropped delivery only means the peer re-fetches on reconnect.
func (v *Client) Send(event Event) {
	raw, err := jsoniter.Marshal(event)
	if err != nil {
		log.Warn().Err(err).Str("kind", event.Kind).Msg("An error occurred when encoding an event...")
		return
	}

	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	if err := v.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		log.Debug().Err(err).Str("connection", v.ID).Msg("Dropped an event delivery.")
	}
}
