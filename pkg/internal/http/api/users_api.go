package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/wavelet-im/wavelet/pkg/internal/models"
	"github.com/wavelet-im/wavelet/pkg/internal/services"
)

func getAccount(c *fiber.Ctx) error {
	account, err := services.GetAccountWithName(c.Params("name"))
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(fiber.Map{
		"account":         account,
		"followers_count": services.CountAccountFollowers(account.ID),
	})
}

func toggleAccountFollow(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	targetId, _ := c.ParamsInt("userId")
	target, err := services.GetAccountWithID(uint(targetId))
	if err != nil {
		return mapDomainError(err)
	}

	following, err := services.ToggleAccountFollow(user, target)
	if err != nil {
		return mapDomainError(err)
	}

	if following {
		_, _ = services.NotifyAccount(Router, models.Notification{
			Kind:        models.NotificationKindFollow,
			Body:        fmt.Sprintf("%s started following you.", user.Name),
			SenderID:    lo.ToPtr(user.ID),
			RecipientID: target.ID,
		})
	}

	return c.JSON(fiber.Map{
		"following":       following,
		"followers_count": services.CountAccountFollowers(target.ID),
	})
}

func toggleAccountBlock(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	targetId, _ := c.ParamsInt("userId")
	target, err := services.GetAccountWithID(uint(targetId))
	if err != nil {
		return mapDomainError(err)
	}

	blocked, err := services.ToggleAccountBlock(user, target)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(fiber.Map{
		"blocked": blocked,
	})
}
