package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/auth"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/repository"
	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

// RemindersHandler manages case follow-ups.
type RemindersHandler struct {
	reminders repository.ReminderRepository
}

// NewRemindersHandler constructs handler.
func NewRemindersHandler(reminders repository.ReminderRepository) *RemindersHandler {
	return &RemindersHandler{reminders: reminders}
}

type createReminderRequest struct {
	Message string `json:"message"`
	DueAt   string `json:"due_at"`
}

// Create POST /cases/:id/reminders.
func (h *RemindersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req createReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Message == "" {
		return apperrors.NewValidationError("message required", nil)
	}
	dueAt, err := time.Parse(time.RFC3339, req.DueAt)
	if err != nil {
		return apperrors.NewValidationError("due_at must be RFC3339", nil)
	}

	reminder := &domain.Reminder{
		GuildID: principal.GuildID,
		CaseID:  c.Params("id"),
		OwnerID: principal.UserID,
		Message: req.Message,
		DueAt:   dueAt,
	}
	if err := h.reminders.Create(c.UserContext(), reminder); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": reminder})
}

// Resolve POST /reminders/:id/resolve.
func (h *RemindersHandler) Resolve(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.reminders.Resolve(c.UserContext(), c.Params("id")); err != nil {
		if repository.IsNoRows(err) {
			return apperrors.NewNotFound("reminder", map[string]any{"id": c.Params("id")})
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"resolved": true}})
}

// ListByCase GET /cases/:id/reminders.
func (h *RemindersHandler) ListByCase(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	reminders, err := h.reminders.ListByCase(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reminders})
}
