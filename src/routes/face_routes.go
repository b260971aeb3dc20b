package routes

import (
	"github.com/gofiber/fiber/v2"
)

func faceRoutes(router fiber.Router, d Deps) {
	face := router.Group("/face")

	// Kiosk endpoint: identity comes from the face itself, not a token.
	face.Post("/verify", d.Faces.VerifyAttendance)

	face.Post("/register", d.RequireAuth, d.Faces.RegisterFace)
}
