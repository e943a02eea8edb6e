package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/api/dto"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/auth"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/repository"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/service"
	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

// StaffHandler manages staff roster endpoints.
type StaffHandler struct {
	service *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{service: staffService}
}

// Hire POST /staff.
func (h *StaffHandler) Hire(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.HireStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" || req.Role == "" {
		return apperrors.NewValidationError("user_id and role required", nil)
	}

	staff, err := h.service.Hire(c.UserContext(), principal.PermissionContext, service.HireInput{
		UserID:         req.UserID,
		RobloxUsername: req.RobloxUsername,
		Role:           domain.StaffRole(req.Role),
		Reason:         req.Reason,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromStaff(staff)})
}

// Promote POST /staff/promote.
func (h *StaffHandler) Promote(c *fiber.Ctx) error {
	return h.roleChange(c, h.service.Promote)
}

// Demote POST /staff/demote.
func (h *StaffHandler) Demote(c *fiber.Ctx) error {
	return h.roleChange(c, h.service.Demote)
}

func (h *StaffHandler) roleChange(c *fiber.Ctx, action func(ctx context.Context, actor domain.PermissionContext, input service.RoleChangeInput) (*domain.Staff, error)) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RoleChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" || req.Role == "" {
		return apperrors.NewValidationError("user_id and role required", nil)
	}

	staff, err := action(c.UserContext(), principal.PermissionContext, service.RoleChangeInput{
		UserID: req.UserID,
		Role:   domain.StaffRole(req.Role),
		Reason: req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromStaff(staff)})
}

// Fire POST /staff/fire.
func (h *StaffHandler) Fire(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.FireStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewValidationError("user_id required", nil)
	}

	staff, err := h.service.Fire(c.UserContext(), principal.PermissionContext, service.FireInput{
		UserID: req.UserID,
		Reason: req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromStaff(staff)})
}

// ConfirmBypass POST /staff/bypass/confirm.
func (h *StaffHandler) ConfirmBypass(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !principal.IsGuildOwner {
		return apperrors.NewForbidden("only the guild owner can confirm a bypass")
	}
	var req dto.BypassConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	staff, err := h.service.ConfirmBypass(c.UserContext(), principal.PermissionContext, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromStaff(staff)})
}

// Get GET /staff/:userID.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	staff, err := h.service.GetStaff(c.UserContext(), principal.GuildID, c.Params("userID"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromStaff(staff)})
}

// List GET /staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := repository.StaffFilter{
		GuildID: principal.GuildID,
		Limit:   c.QueryInt("limit", 50),
		Offset:  c.QueryInt("offset", 0),
	}
	if role := c.Query("role"); role != "" {
		r := domain.StaffRole(role)
		filter.Role = &r
	}
	if status := c.Query("status"); status != "" {
		s := domain.StaffStatus(status)
		filter.Status = &s
	}

	members, err := h.service.ListStaff(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.StaffResponse, 0, len(members))
	for i := range members {
		items = append(items, dto.FromStaff(&members[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
