package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/auth"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/repository"
	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

// AuditHandler exposes the read-only audit trail.
type AuditHandler struct {
	audit repository.AuditLogRepository
}

// NewAuditHandler constructs handler.
func NewAuditHandler(audit repository.AuditLogRepository) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List GET /audit.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	entries, err := h.audit.ListByGuild(c.UserContext(), principal.GuildID,
		c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
