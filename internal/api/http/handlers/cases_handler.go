package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/api/dto"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/auth"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/repository"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/service"
	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

// CasesHandler manages case lifecycle endpoints.
type CasesHandler struct {
	service *service.CaseService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(caseService *service.CaseService) *CasesHandler {
	return &CasesHandler{service: caseService}
}

// Open POST /cases.
func (h *CasesHandler) Open(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.OpenCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ClientID == "" || req.Title == "" {
		return apperrors.NewValidationError("client_id and title required", nil)
	}

	opened, err := h.service.OpenCase(c.UserContext(), principal.PermissionContext, service.CaseOpenInput{
		ClientID:       req.ClientID,
		ClientUsername: req.ClientUsername,
		Title:          req.Title,
		Description:    req.Description,
		Priority:       domain.CasePriority(req.Priority),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromCase(opened)})
}

// Accept POST /cases/:id/accept.
func (h *CasesHandler) Accept(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	accepted, err := h.service.AcceptCase(c.UserContext(), principal.PermissionContext, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCase(accepted)})
}

// Decline POST /cases/:id/decline.
func (h *CasesHandler) Decline(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.DeclineCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	declined, err := h.service.DeclineCase(c.UserContext(), principal.PermissionContext, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCase(declined)})
}

// Close POST /cases/:id/close.
func (h *CasesHandler) Close(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CloseCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Result == "" {
		return apperrors.NewValidationError("result required", nil)
	}

	closed, err := h.service.CloseCase(c.UserContext(), principal.PermissionContext, service.CaseCloseInput{
		CaseID: c.Params("id"),
		Result: domain.CaseResult(req.Result),
		Notes:  req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCase(closed)})
}

// Assign POST /cases/:id/assign.
func (h *CasesHandler) Assign(c *fiber.Ctx) error {
	return h.assignment(c, h.service.AssignLawyer)
}

// Unassign POST /cases/:id/unassign.
func (h *CasesHandler) Unassign(c *fiber.Ctx) error {
	return h.assignment(c, h.service.UnassignLawyer)
}

func (h *CasesHandler) assignment(c *fiber.Ctx, action func(ctx context.Context, actor domain.PermissionContext, caseID, lawyerID string) (*domain.Case, error)) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignLawyerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.LawyerID == "" {
		return apperrors.NewValidationError("lawyer_id required", nil)
	}
	updated, err := action(c.UserContext(), principal.PermissionContext, c.Params("id"), req.LawyerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCase(updated)})
}

// Reassign POST /cases/reassign. Moves a lawyer from one case to another and
// responds with the destination case.
func (h *CasesHandler) Reassign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ReassignLawyerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FromCaseID == "" || req.ToCaseID == "" || req.LawyerID == "" {
		return apperrors.NewValidationError("from_case_id, to_case_id and lawyer_id required", nil)
	}

	updated, err := h.service.ReassignLawyer(c.UserContext(), principal.PermissionContext, service.ReassignInput{
		FromCaseID: req.FromCaseID,
		ToCaseID:   req.ToCaseID,
		LawyerID:   req.LawyerID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCase(updated)})
}

// Get GET /cases/:id.
func (h *CasesHandler) Get(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	found, err := h.service.GetCase(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCase(found)})
}

// GetByNumber GET /cases/number/:number.
func (h *CasesHandler) GetByNumber(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	number, err := strconv.ParseInt(c.Params("number"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid case number", nil)
	}
	found, err := h.service.GetCaseByNumber(c.UserContext(), principal.GuildID, number)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCase(found)})
}

// List GET /cases.
func (h *CasesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := repository.CaseFilter{
		GuildID: principal.GuildID,
		Limit:   c.QueryInt("limit", 50),
		Offset:  c.QueryInt("offset", 0),
	}
	if clientID := c.Query("client_id"); clientID != "" {
		filter.ClientID = &clientID
	}
	if lawyerID := c.Query("lawyer_id"); lawyerID != "" {
		filter.LawyerID = &lawyerID
	}
	if status := c.Query("status"); status != "" {
		filter.Statuses = []domain.CaseStatus{domain.CaseStatus(status)}
	}
	if priority := c.Query("priority"); priority != "" {
		p := domain.CasePriority(priority)
		filter.Priority = &p
	}

	cases, err := h.service.ListCases(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.CaseResponse, 0, len(cases))
	for i := range cases {
		items = append(items, dto.FromCase(&cases[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
