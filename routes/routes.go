package routes

import (
	"github.com/gofiber/fiber/v2"

	"orderof86-server/controllers"
)

// Deps holds the constructed controllers; routes never reach for globals
// so tests can wire a fresh app per case.
type Deps struct {
	Wizards *controllers.WizardController
	Static  *controllers.StaticController
}

// Register wires all HTTP routes.
func Register(app *fiber.App, d Deps) {
	// Wizard profile surface
	app.Get("/wizard/:id/og.png", d.Wizards.OGCard)
	app.Get("/wizard/:id", d.Wizards.Page)

	// Everything else is the static site (with index fallback)
	app.Get("/*", d.Static.Serve)
}
