package http

import (
	"github.com/gofiber/fiber/v2"

	webui "filmtrivia/frontend"
)

// registerWebUIRoutes serves the embedded single-page UI at the root.
// The UI is a single static HTML file; API routes are registered before
// this and take precedence.
func registerWebUIRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-cache")
		c.Type("html", "utf-8")
		return c.Send(webui.IndexHTML())
	})
}
