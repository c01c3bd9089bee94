package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/wavelet-im/wavelet/pkg/internal/connections"
)

// MapGateway exposes the live connection endpoint. Each upgraded socket is
// owned by the lifecycle loop until it closes.
func MapGateway(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		connections.NewLifecycle(Registry, Router).Run(conn)
	}))
}
