package routes

import (
	"github.com/gofiber/fiber/v2"
)

func authRoutes(router fiber.Router, d Deps) {
	auth := router.Group("/auth")

	auth.Post("/register", d.Auth.Register)
	auth.Post("/login", d.Auth.Login)
	auth.Post("/refresh", d.Auth.Refresh)
	auth.Post("/logout", d.RequireAuth, d.Auth.Logout)
}
