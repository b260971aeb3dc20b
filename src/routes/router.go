package routes

import (
	"github.com/gofiber/fiber/v2"

	"Cortex-Attendance-Backend/src/controllers"
)

// Deps carries the wired controllers into route registration. Everything
// is injected; the route files only decide paths and middleware.
type Deps struct {
	Auth       *controllers.AuthController
	Faces      *controllers.FaceController
	Attendance *controllers.AttendanceController
	Admin      *controllers.AdminController

	// RequireAuth is the JWT middleware built around the configured secret.
	RequireAuth fiber.Handler
}

func InitRoutes(app *fiber.App, d Deps) {
	api := app.Group("/api/v1")

	authRoutes(api, d)
	faceRoutes(api, d)
	attendanceRoutes(api, d)
	adminRoutes(api, d)

	// Route to check the API is alive
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("✅ API is running...")
	})
}
