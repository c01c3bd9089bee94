package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wavelet-im/wavelet/pkg/internal/connections"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
	"github.com/wavelet-im/wavelet/pkg/internal/services"
)

// Wired by main before the server starts listening.
var (
	Registry *connections.Registry
	Router   *connections.Router
)

func MapAPIs(app *fiber.App, baseURL string) {
	MapGateway(app)

	api := app.Group(baseURL).Name("API")
	{
		api.Get("/users/:name", getAccount)
		api.Post("/users/:userId/follow", authRequired, toggleAccountFollow)
		api.Post("/users/:userId/block", authRequired, toggleAccountBlock)

		api.Get("/posts", listPosts)
		api.Post("/posts", authRequired, createPost)
		api.Get("/posts/:postId", getPost)
		api.Post("/posts/:postId/like", authRequired, likePost)
		api.Post("/posts/:postId/comments", authRequired, createComment)

		api.Get("/conversations", authRequired, listConversations)
		api.Post("/conversations", authRequired, createConversation)
		api.Get("/conversations/:conversationId/messages", authRequired, listMessages)
		api.Post("/conversations/:conversationId/messages", authRequired, createMessage)
		api.Put("/messages/:messageId/read", authRequired, markMessageRead)

		api.Get("/notifications", authRequired, listNotifications)
		api.Put("/notifications/:notificationId/read", authRequired, markNotificationRead)
		api.Put("/notifications/read-all", authRequired, markAllNotificationsRead)
	}
}

// authRequired resolves the caller's identity. Session issuance itself is an
// external collaborator; here a verified account id arrives via header.
func authRequired(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Get("X-Account-ID"))
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	user, err := services.GetAccountWithID(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	c.Locals("user", user)
	return c.Next()
}

// mapDomainError translates the domain error taxonomy onto HTTP statuses.
func mapDomainError(err error) error {
	var notFound *models.NotFoundError
	var forbidden *models.AuthorizationError
	var invalid *models.ValidationError

	switch {
	case errors.As(err, &notFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.As(err, &forbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.As(err, &invalid):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

// originOf resolves the caller's own live connection so fan-outs can skip
// echoing the event back at them.
func originOf(user models.Account) *connections.Client {
	if Registry == nil {
		return nil
	}
	if client, ok := Registry.Lookup(user.ID); ok {
		return client
	}
	return nil
}
