package services

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
)

func TestConversationValidate(t *testing.T) {
	groupId := uint(1)

	cases := []struct {
		name    string
		subject models.Conversation
		valid   bool
	}{
		{"private without group", models.Conversation{IsGroup: false}, true},
		{"group with group", models.Conversation{IsGroup: true, GroupID: &groupId}, true},
		{"group without group", models.Conversation{IsGroup: true}, false},
		{"private with group", models.Conversation{IsGroup: false, GroupID: &groupId}, false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.subject.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				var invalid *models.ValidationError
				assert.ErrorAs(t, err, &invalid)
			}
		})
	}
}

func TestNewPrivateConversationDeduplicates(t *testing.T) {
	testDB(t)

	alice := seedAccount(t, "alice")
	bob := seedAccount(t, "bob")

	first, err := NewPrivateConversation(alice, bob)
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	// Creating it again, in either argument order, returns the same
	// conversation instead of a duplicate.
	again, err := NewPrivateConversation(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	reversed, err := NewPrivateConversation(bob, alice)
	require.NoError(t, err)
	assert.Equal(t, first.ID, reversed.ID)
}

func TestNewPrivateConversationWithSelf(t *testing.T) {
	testDB(t)

	alice := seedAccount(t, "alice")

	_, err := NewPrivateConversation(alice, alice)
	var invalid *models.ValidationError
	require.ErrorAs(t, err, &invalid)
}

func TestNewGroupConversation(t *testing.T) {
	testDB(t)

	alice := seedAccount(t, "alice")
	bob := seedAccount(t, "bob")
	carol := seedAccount(t, "carol")

	conversation, err := NewGroupConversation(alice, "weekend plans", []models.Account{bob, carol})
	require.NoError(t, err)
	require.True(t, conversation.IsGroup)
	require.NotNil(t, conversation.GroupID)

	loaded, err := GetConversation(conversation.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Group)
	assert.Equal(t, "weekend plans", loaded.Group.Name)
	assert.Equal(t, alice.ID, loaded.Group.AccountID)

	// The creator is always a member.
	memberIds := lo.Map(loaded.Group.Members, func(item models.Account, index int) uint {
		return item.ID
	})
	assert.ElementsMatch(t, []uint{alice.ID, bob.ID, carol.ID}, memberIds)
}

func TestNewGroupConversationValidation(t *testing.T) {
	testDB(t)

	alice := seedAccount(t, "alice")

	_, err := NewGroupConversation(alice, "", []models.Account{alice})
	var invalid *models.ValidationError
	require.ErrorAs(t, err, &invalid)

	// The creator alone is not enough members.
	_, err = NewGroupConversation(alice, "just me", nil)
	require.ErrorAs(t, err, &invalid)
}

func TestGetRelatedConversationAuthorization(t *testing.T) {
	testDB(t)

	alice := seedAccount(t, "alice")
	bob := seedAccount(t, "bob")
	mallory := seedAccount(t, "mallory")

	conversation, err := NewPrivateConversation(alice, bob)
	require.NoError(t, err)

	_, err = GetRelatedConversation(conversation.ID, alice)
	require.NoError(t, err)

	// A non-participant gets an authorization outcome, distinct from a
	// missing conversation.
	_, err = GetRelatedConversation(conversation.ID, mallory)
	var forbidden *models.AuthorizationError
	require.ErrorAs(t, err, &forbidden)

	_, err = GetRelatedConversation(999, alice)
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
