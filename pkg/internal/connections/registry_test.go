package connections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinedClient(registry *Registry, accountId uint) *Client {
	client := NewClient(newFakeConn())
	client.AccountID = accountId
	registry.Register(accountId, client)
	return client
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()

	_, ok := registry.Lookup(1)
	assert.False(t, ok)

	client := joinedClient(registry, 1)

	found, ok := registry.Lookup(1)
	require.True(t, ok)
	assert.Same(t, client, found)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryReconnectOverwrites(t *testing.T) {
	registry := NewRegistry()

	first := joinedClient(registry, 1)
	second := joinedClient(registry, 1)

	found, ok := registry.Lookup(1)
	require.True(t, ok)
	assert.Same(t, second, found)
	assert.NotSame(t, first, found)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryStaleUnregisterIsNoOp(t *testing.T) {
	registry := NewRegistry()

	h1 := joinedClient(registry, 1)
	h2 := joinedClient(registry, 1)

	// The disconnect of the replaced handle must not evict the fresher one.
	registry.Unregister(h1)

	found, ok := registry.Lookup(1)
	require.True(t, ok)
	assert.Same(t, h2, found)

	registry.Unregister(h2)
	_, ok = registry.Lookup(1)
	assert.False(t, ok)
	assert.Equal(t, 0, registry.Count())
}

func TestRegistryUnregisterUnjoinedClient(t *testing.T) {
	registry := NewRegistry()
	joinedClient(registry, 1)

	// A client that never joined carries no account and must not touch
	// anyone else's entry.
	registry.Unregister(NewClient(newFakeConn()))
	assert.Equal(t, 1, registry.Count())
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	registry := NewRegistry()
	joinedClient(registry, 1)
	joinedClient(registry, 2)

	snapshot := registry.Snapshot()
	require.Len(t, snapshot, 2)

	registry.Unregister(snapshot[0])
	assert.Len(t, snapshot, 2)
	assert.Equal(t, 1, registry.Count())
}
