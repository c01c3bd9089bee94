package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/samber/lo"
	localCache "github.com/wavelet-im/wavelet/pkg/internal/cache"
	"github.com/wavelet-im/wavelet/pkg/internal/database"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
	"gorm.io/gorm"
)

func GetConversationParticipantCacheKey(id uint) string {
	return fmt.Sprintf("conversation-participants#%d", id)
}

func PreloadConversationGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Participants").
		Preload("Group").
		Preload("Group.Members").
		Preload("LastMessage")
}

func GetConversation(id uint) (models.Conversation, error) {
	var conversation models.Conversation
	if err := PreloadConversationGeneral(database.C).
		Where("id = ?", id).
		First(&conversation).Error; err != nil {
		return conversation, &models.NotFoundError{Resource: "conversation", Err: err}
	}
	return conversation, nil
}

// GetRelatedConversation fetches a conversation the given user is allowed to
// see. A missing conversation and a conversation the user is no participant
// of surface as two distinct outcomes.
func GetRelatedConversation(id uint, user models.Account) (models.Conversation, error) {
	conversation, err := GetConversation(id)
	if err != nil {
		return conversation, err
	}
	if !IsConversationParticipant(conversation, user.ID) {
		return conversation, &models.AuthorizationError{Reason: "you are not a participant of this conversation"}
	}
	return conversation, nil
}

func IsConversationParticipant(conversation models.Conversation, accountId uint) bool {
	return lo.Contains(ListConversationParticipantID(conversation), accountId)
}

// ListConversationParticipantID resolves the participant id set, cached
// since the set only changes on conversation creation.
func ListConversationParticipantID(conversation models.Conversation) []uint {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	ctx := context.Background()

	cacheKey := GetConversationParticipantCacheKey(conversation.ID)
	if hit, err := marshal.Get(ctx, cacheKey, new([]uint)); err == nil {
		return *hit.(*[]uint)
	}

	participants := conversation.Participants
	if len(participants) == 0 {
		if err := database.C.Model(&conversation).Association("Participants").Find(&participants); err != nil {
			return nil
		}
	}

	ids := lo.Map(participants, func(item models.Account, index int) uint {
		return item.ID
	})

	_ = marshal.Set(ctx, cacheKey, ids,
		store.WithExpiration(10*time.Minute),
		store.WithTags([]string{"conversation-participants", fmt.Sprintf("conversation#%d", conversation.ID)}),
	)

	return ids
}

func ListConversations(user models.Account) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := PreloadConversationGeneral(database.C).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.account_id = ?", user.ID).
		Order("updated_at DESC").
		Find(&conversations).Error; err != nil {
		return conversations, err
	}
	return conversations, nil
}

// GetExistingPrivateConversation looks the private conversation for an
// unordered pair of participants up. At most one such conversation may
// exist per pair.
func GetExistingPrivateConversation(userA, userB models.Account) (models.Conversation, bool) {
	var conversation models.Conversation
	err := PreloadConversationGeneral(database.C).
		Joins("JOIN conversation_participants cpa ON cpa.conversation_id = conversations.id AND cpa.account_id = ?", userA.ID).
		Joins("JOIN conversation_participants cpb ON cpb.conversation_id = conversations.id AND cpb.account_id = ?", userB.ID).
		Where("is_group = ?", false).
		First(&conversation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return conversation, false
	}
	return conversation, err == nil
}

// NewPrivateConversation creates the private conversation between two users,
// returning the existing one when the unordered pair already has one.
func NewPrivateConversation(user models.Account, other models.Account) (models.Conversation, error) {
	if user.ID == other.ID {
		return models.Conversation{}, &models.ValidationError{Reason: "you cannot start a conversation with yourself"}
	}

	if existing, ok := GetExistingPrivateConversation(user, other); ok {
		return existing, nil
	}

	conversation := models.Conversation{
		Participants: []models.Account{user, other},
		IsGroup:      false,
	}

	if err := conversation.Validate(); err != nil {
		return conversation, err
	}
	if err := database.C.Save(&conversation).Error; err != nil {
		return conversation, err
	}

	return conversation, nil
}

// NewGroupConversation creates a group plus its conversation in one
// transaction. The creator is always a member.
func NewGroupConversation(creator models.Account, name string, members []models.Account) (models.Conversation, error) {
	if len(name) == 0 {
		return models.Conversation{}, &models.ValidationError{Reason: "group name is required"}
	}

	members = lo.UniqBy(append(members, creator), func(item models.Account) uint {
		return item.ID
	})
	if len(members) < 2 {
		return models.Conversation{}, &models.ValidationError{Reason: "group conversations require at least 2 participants"}
	}

	var conversation models.Conversation
	err := database.C.Transaction(func(tx *gorm.DB) error {
		group := models.Group{
			Name:      name,
			Members:   members,
			AccountID: creator.ID,
		}
		if err := tx.Save(&group).Error; err != nil {
			return err
		}

		conversation = models.Conversation{
			Participants: members,
			IsGroup:      true,
			GroupID:      &group.ID,
		}
		if err := conversation.Validate(); err != nil {
			return err
		}
		return tx.Save(&conversation).Error
	})

	return conversation, err
}
