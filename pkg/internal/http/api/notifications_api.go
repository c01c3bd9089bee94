package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
	"github.com/wavelet-im/wavelet/pkg/internal/services"
)

func listNotifications(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	take := c.QueryInt("take", 50)
	offset := c.QueryInt("offset", 0)

	items, err := services.ListNotifications(user, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(items)
}

func markNotificationRead(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	id, _ := c.ParamsInt("notificationId")
	item, err := services.MarkNotificationRead(uint(id), user)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(item)
}

func markAllNotificationsRead(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	count, err := services.MarkAllNotificationsRead(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
	})
}
