package connections

import (
	"sync"
)

// Registry is the single source of truth for which accounts are currently
// reachable over a live connection. It holds at most one connection per
// account; registering again simply replaces the previous handle, which is
// the defined reconnect semantics.
//
// The table is never exposed; all access goes through these operations.
type Registry struct {
	mu      sync.RWMutex
	clients map[uint]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[uint]*Client),
	}
}

// Register binds an account to a connection handle. Idempotent; the
// last-registered connection wins.
func (v *Registry) Register(accountId uint, client *Client) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clients[accountId] = client
}

func (v *Registry) Lookup(accountId uint) (*Client, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	client, ok := v.clients[accountId]
	return client, ok
}

// Unregister removes the entry only while it still points at the given
// client. If the account has since reconnected with a different handle this
// is a no-op, so a stale disconnect cannot evict the fresher connection.
func (v *Registry) Unregister(client *Client) {
	if client.AccountID == 0 {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if current, ok := v.clients[client.AccountID]; ok && current == client {
		delete(v.clients, client.AccountID)
	}
}

// Snapshot copies the currently registered handles so callers can iterate
// and deliver without holding the registry lock.
func (v *Registry) Snapshot() []*Client {
	v.mu.RLock()
	defer v.mu.RUnlock()

	clients := make([]*Client, 0, len(v.clients))
	for _, client := range v.clients {
		clients = append(clients, client)
	}
	return clients
}

// Count reports how many accounts are reachable now. Best-effort hint only,
// not a delivery guarantee.
func (v *Registry) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.clients)
}
