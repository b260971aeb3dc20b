package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"Cortex-Attendance-Backend/src/services"
	"Cortex-Attendance-Backend/src/utils"
)

var validate = validator.New()

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"omitempty,oneof=admin member"`
}

// Register - create a new account; members stay inactive until approved
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := validate.Struct(req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := ac.auth.Register(c.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		var full *services.RoleFullError
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
		case errors.As(err, &full):
			return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.HandleError(c, fiber.StatusInternalServerError, "Registration failed")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful. Waiting for admin approval.",
		"user":    user,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login - authenticate and issue access + refresh tokens
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return utils.HandleError(c, fiber.StatusBadRequest, "Email and password are required")
	}

	user, accessToken, refreshToken, err := ac.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, services.ErrAccountNotApproved):
			return utils.HandleError(c, fiber.StatusForbidden, err.Error())
		default:
			return utils.HandleError(c, fiber.StatusInternalServerError, "Login failed")
		}
	}

	return c.JSON(fiber.Map{
		"token":        accessToken,
		"refreshToken": refreshToken,
		"expiresIn":    86400,
		"user":         user,
	})
}

type RefreshRequest struct {
	UserID       string `json:"userId"`
	RefreshToken string `json:"refreshToken"`
}

// Refresh - exchange a refresh token for a new access token
func (ac *AuthController) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" || req.RefreshToken == "" {
		return utils.HandleError(c, fiber.StatusBadRequest, "userId and refreshToken are required")
	}

	token, err := ac.auth.Refresh(c.Context(), req.UserID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRefresh) {
			return utils.HandleError(c, fiber.StatusUnauthorized, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, "Token refresh failed")
	}

	return c.JSON(fiber.Map{"token": token, "expiresIn": 86400})
}

// Logout - drop the refresh token
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(string)
	if err := ac.auth.Logout(c.Context(), userID); err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Logout failed")
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}
