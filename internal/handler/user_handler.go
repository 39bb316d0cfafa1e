package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/mansoorceksport/restshop/internal/service"
)

// UserHandler handles signup, login and account deletion
type UserHandler struct {
	authService *service.AuthService
	validator   *validator.Validate
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
		validator:   validator.New(),
	}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup handles POST /user/signup
func (h *UserHandler) Signup(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "a valid email and a password are required",
		})
	}

	if _, err := h.authService.Signup(c.UserContext(), req.Email, req.Password); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Mail exists",
			})
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created",
	})
}

// Login handles POST /user/login
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil || h.validator.Struct(req) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Auth failed",
		})
	}

	token, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailed) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Auth failed",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Auth successful",
		"token":   token,
	})
}

// DeleteUser handles DELETE /user/:userId
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.authService.DeleteUser(c.UserContext(), c.Params("userId")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"message": "User deleted",
	})
}
