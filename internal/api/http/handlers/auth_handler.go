package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/api/dto"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/service"
	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

// AuthHandler issues tokens to the chat gateway.
type AuthHandler struct {
	service *service.GatewayAuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.GatewayAuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/gateway/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.GatewayLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.GatewayKey == "" || req.GuildID == "" || req.UserID == "" {
		return apperrors.NewValidationError("gateway_key, guild_id, user_id required", nil)
	}

	token, expiresAt, err := h.service.Login(req.GatewayKey, domain.PermissionContext{
		GuildID:      req.GuildID,
		UserID:       req.UserID,
		UserRoles:    req.Roles,
		IsGuildOwner: req.IsGuildOwner,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	}})
}
