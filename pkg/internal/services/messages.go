package services

import (
	"time"

	"github.com/samber/lo"
	"github.com/wavelet-im/wavelet/pkg/internal/database"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
	"gorm.io/gorm"
)

// NewMessage persists a message inside the given conversation and bumps the
// conversation's last message pointer. The durable write always lands
// before any live delivery is attempted by the caller.
//
// Exactly one of recipient or group ends up set: a private conversation
// targets the counterpart participant, a group conversation targets its
// group. The association back to the conversation is carried explicitly,
// derived from the participants, never from matching a recipient field
// against the conversation id.
func NewMessage(conversation models.Conversation, sender models.Account, content string, kind string) (models.Message, error) {
	message := models.Message{
		Content:        content,
		Type:           lo.Ternary(len(kind) > 0, kind, models.MessageTypeText),
		SenderID:       sender.ID,
		ConversationID: conversation.ID,
	}

	if conversation.IsGroup {
		message.GroupID = conversation.GroupID
	} else {
		other, ok := lo.Find(conversation.Participants, func(item models.Account) bool {
			return item.ID != sender.ID
		})
		if !ok {
			return message, &models.ValidationError{Reason: "private conversation has no counterpart participant"}
		}
		message.RecipientID = &other.ID
	}

	if err := message.Validate(); err != nil {
		return message, err
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversation.ID).
			Update("last_message_id", message.ID).Error
	})

	return message, err
}

func ListMessages(conversation models.Conversation, take int, offset int) ([]models.Message, error) {
	if take > 100 {
		take = 100
	}

	var messages []models.Message
	if err := database.C.
		Preload("Sender").
		Where("conversation_id = ?", conversation.ID).
		Order("created_at ASC").
		Limit(take).Offset(offset).
		Find(&messages).Error; err != nil {
		return messages, err
	}
	return messages, nil
}

func GetMessage(id uint) (models.Message, error) {
	var message models.Message
	if err := database.C.Where("id = ?", id).First(&message).Error; err != nil {
		return message, &models.NotFoundError{Resource: "message", Err: err}
	}
	return message, nil
}

// MarkMessageRead flips the read flag once; marking an already read message
// again leaves the original ReadAt untouched.
func MarkMessageRead(message models.Message, user models.Account) (models.Message, error) {
	if message.RecipientID == nil || *message.RecipientID != user.ID {
		return message, &models.AuthorizationError{Reason: "only the recipient can mark a message as read"}
	}
	if message.Read {
		return message, nil
	}

	message.Read = true
	message.ReadAt = lo.ToPtr(time.Now())

	if err := database.C.Model(&message).Updates(map[string]any{
		"read":    message.Read,
		"read_at": message.ReadAt,
	}).Error; err != nil {
		return message, err
	}

	return message, nil
}
