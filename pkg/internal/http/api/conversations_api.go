package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wavelet-im/wavelet/pkg/internal/connections"
	"github.com/wavelet-im/wavelet/pkg/internal/http/exts"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
	"github.com/wavelet-im/wavelet/pkg/internal/services"
)

func listConversations(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	conversations, err := services.ListConversations(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(conversations)
}

func createConversation(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Participants []uint `json:"participants" validate:"required,min=1"`
		IsGroup      bool   `json:"is_group"`
		GroupName    string `json:"group_name"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	var members []models.Account
	for _, id := range data.Participants {
		member, err := services.GetAccountWithID(id)
		if err != nil {
			return mapDomainError(err)
		}
		members = append(members, member)
	}

	if data.IsGroup {
		conversation, err := services.NewGroupConversation(user, data.GroupName, members)
		if err != nil {
			return mapDomainError(err)
		}
		return c.JSON(conversation)
	}

	if len(members) != 1 {
		return fiber.NewError(fiber.StatusBadRequest, "private conversations require exactly 1 participant")
	}

	conversation, err := services.NewPrivateConversation(user, members[0])
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(conversation)
}

func listMessages(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	id, _ := c.ParamsInt("conversationId")
	conversation, err := services.GetRelatedConversation(uint(id), user)
	if err != nil {
		return mapDomainError(err)
	}

	take := c.QueryInt("take", 50)
	offset := c.QueryInt("offset", 0)

	messages, err := services.ListMessages(conversation, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(messages)
}

func createMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	id, _ := c.ParamsInt("conversationId")
	conversation, err := services.GetRelatedConversation(uint(id), user)
	if err != nil {
		return mapDomainError(err)
	}

	var data struct {
		Content string `json:"content" validate:"required,max=1000"`
		Type    string `json:"type"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	message, err := services.NewMessage(conversation, user, data.Content, data.Type)
	if err != nil {
		return mapDomainError(err)
	}

	// Durably recorded above; deliver to whoever is reachable right now.
	payload := map[string]any{
		"id":              message.ID,
		"content":         message.Content,
		"type":            message.Type,
		"sender_id":       message.SenderID,
		"conversation_id": message.ConversationID,
	}
	if message.RecipientID != nil {
		payload["recipient_id"] = *message.RecipientID
	}
	if message.GroupID != nil {
		payload["group_id"] = *message.GroupID
	}

	Router.Dispatch(connections.Event{
		Kind:    connections.EventNewMessage,
		Payload: payload,
	}, originOf(user))

	return c.JSON(message)
}

func markMessageRead(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	id, _ := c.ParamsInt("messageId")
	message, err := services.GetMessage(uint(id))
	if err != nil {
		return mapDomainError(err)
	}

	message, err = services.MarkMessageRead(message, user)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(message)
}
