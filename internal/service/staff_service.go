package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/events"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/queue"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/repository"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/validation"
	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

// StaffService coordinates staff role workflows. All mutations run through the
// per-guild operation queue; validation runs inside the queued slot so the
// checks see a quiesced guild state.
type StaffService struct {
	staff      repository.StaffRepository
	queue      *queue.Queue
	validator  *validation.Orchestrator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// StaffDependencies bundles collaborators for the staff service.
type StaffDependencies struct {
	StaffRepo  repository.StaffRepository
	Queue      *queue.Queue
	Validator  *validation.Orchestrator
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// HireInput describes a hire request.
type HireInput struct {
	UserID         string
	RobloxUsername string
	Role           domain.StaffRole
	Reason         string
}

// RoleChangeInput describes a promotion or demotion request.
type RoleChangeInput struct {
	UserID string
	Role   domain.StaffRole
	Reason string
}

// FireInput describes a termination request.
type FireInput struct {
	UserID string
	Reason string
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	return &StaffService{
		staff:      deps.StaffRepo,
		queue:      deps.Queue,
		validator:  deps.Validator,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// Hire brings a new member onto the firm at the given role.
func (s *StaffService) Hire(ctx context.Context, actor domain.PermissionContext, input HireInput) (*domain.Staff, error) {
	return s.enqueueStaffOp(ctx, actor, "staff.hire", func(opCtx context.Context) (*domain.Staff, error) {
		return s.executeHire(opCtx, actor, input, validation.Options{})
	})
}

// Promote moves a member to a strictly higher role.
func (s *StaffService) Promote(ctx context.Context, actor domain.PermissionContext, input RoleChangeInput) (*domain.Staff, error) {
	return s.enqueueStaffOp(ctx, actor, "staff.promote", func(opCtx context.Context) (*domain.Staff, error) {
		return s.executePromote(opCtx, actor, input, validation.Options{})
	})
}

// Demote moves a member to a strictly lower role.
func (s *StaffService) Demote(ctx context.Context, actor domain.PermissionContext, input RoleChangeInput) (*domain.Staff, error) {
	return s.enqueueStaffOp(ctx, actor, "staff.demote", func(opCtx context.Context) (*domain.Staff, error) {
		return s.executeDemote(opCtx, actor, input)
	})
}

// Fire terminates a membership. The staff record is retained for audit.
func (s *StaffService) Fire(ctx context.Context, actor domain.PermissionContext, input FireInput) (*domain.Staff, error) {
	return s.enqueueStaffOp(ctx, actor, "staff.fire", func(opCtx context.Context) (*domain.Staff, error) {
		return s.executeFire(opCtx, actor, input)
	})
}

// GetStaff loads one member by user ID.
func (s *StaffService) GetStaff(ctx context.Context, guildID, userID string) (*domain.Staff, error) {
	staff, err := s.staff.GetByUserID(ctx, guildID, userID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, apperrors.NewNotFound("staff member", map[string]any{"user_id": userID})
		}
		return nil, err
	}
	return staff, nil
}

// ListStaff returns the guild roster, optionally filtered by role and status.
func (s *StaffService) ListStaff(ctx context.Context, filter repository.StaffFilter) ([]domain.Staff, error) {
	return s.staff.List(ctx, filter)
}

// ConfirmBypass consumes the actor's pending bypass and re-runs the blocked
// staff operation with the bypassed rule skipped. Permission validation still
// applies on the re-run. Only guild owners ever hold a pending bypass.
func (s *StaffService) ConfirmBypass(ctx context.Context, actor domain.PermissionContext, reason string) (*domain.Staff, error) {
	pending, err := s.validator.ConsumePendingBypass(actor.UserID)
	if err != nil {
		return nil, err
	}
	vc := pending.Context
	if vc == nil || vc.EntityType != domain.EntityStaff {
		return nil, apperrors.NewValidationError("pending bypass is not a staff operation", nil)
	}

	opts := validation.Options{
		SkipBusinessRules:    true,
		SkipEntityValidation: true,
		HandleBypass:         true,
	}

	staff, err := s.enqueueStaffOp(ctx, actor, "staff.bypass."+vc.Operation, func(opCtx context.Context) (*domain.Staff, error) {
		switch vc.Operation {
		case "hire":
			return s.executeHire(opCtx, actor, HireInput{
				UserID:         vc.DataString("user_id"),
				RobloxUsername: vc.DataString("roblox_username"),
				Role:           domain.StaffRole(vc.DataString("role")),
				Reason:         reason,
			}, opts)
		case "promote":
			return s.executePromote(opCtx, actor, RoleChangeInput{
				UserID: vc.DataString("user_id"),
				Role:   domain.StaffRole(vc.DataString("role")),
				Reason: reason,
			}, opts)
		default:
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("operation %q cannot be bypassed", vc.Operation), nil)
		}
	})
	if err != nil {
		return nil, err
	}

	for _, request := range pending.Requests {
		rule := ""
		if len(request.Issues) > 0 {
			rule = request.Issues[0].Code
		}
		s.publishEvent(ctx, events.Event{
			Type:    events.EventBypassConfirmed,
			GuildID: actor.GuildID,
			ActorID: actor.UserID,
			Payload: events.BypassConfirmedPayload{
				BypassType: request.Type,
				RuleCode:   rule,
				Command:    vc.CommandName,
				Reason:     reason,
			},
		})
	}
	return staff, nil
}

func (s *StaffService) enqueueStaffOp(ctx context.Context, actor domain.PermissionContext, name string, run func(context.Context) (*domain.Staff, error)) (*domain.Staff, error) {
	value, err := s.queue.Enqueue(ctx, queue.Operation{
		GuildID:       actor.GuildID,
		ActorID:       actor.UserID,
		Name:          name,
		OwnerPriority: actor.IsGuildOwner,
		Run: func(opCtx context.Context) (any, error) {
			return run(opCtx)
		},
	})
	if err != nil {
		return nil, err
	}
	staff, _ := value.(*domain.Staff)
	return staff, nil
}

func (s *StaffService) executeHire(ctx context.Context, actor domain.PermissionContext, input HireInput, opts validation.Options) (*domain.Staff, error) {
	if !input.Role.IsValid() {
		return nil, apperrors.NewValidationError("unknown staff role", map[string]any{"role": input.Role})
	}
	vc := s.staffContext(actor, "hire", map[string]any{
		"user_id":         input.UserID,
		"roblox_username": input.RobloxUsername,
		"role":            string(input.Role),
	})
	if _, err := s.validator.ValidateOrThrow(ctx, vc, opts); err != nil {
		return nil, err
	}

	existing, err := s.staff.GetByUserID(ctx, actor.GuildID, input.UserID)
	if err != nil && !repository.IsNoRows(err) {
		return nil, err
	}
	if existing != nil && existing.IsActive() {
		return nil, apperrors.NewConflict("user is already an active staff member", map[string]any{
			"user_id": input.UserID, "role": existing.Role,
		})
	}

	var staff *domain.Staff
	if existing != nil {
		// Fired members keep their row for audit; a rehire reactivates it
		// rather than inserting a duplicate.
		if err := existing.Rehire(input.Role, actor.UserID, input.Reason, s.now()); err != nil {
			return nil, err
		}
		if input.RobloxUsername != "" {
			existing.RobloxUsername = input.RobloxUsername
		}
		if err := s.staff.Update(ctx, existing); err != nil {
			return nil, err
		}
		staff = existing
	} else {
		staff = domain.NewStaff(actor.GuildID, input.UserID, input.RobloxUsername, input.Role, actor.UserID, input.Reason, s.now())
		if err := s.staff.Create(ctx, staff); err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventStaffHired,
		GuildID: actor.GuildID,
		ActorID: actor.UserID,
		Payload: events.StaffRoleChangedPayload{
			StaffID:  staff.ID,
			UserID:   staff.UserID,
			FromRole: staff.Role,
			ToRole:   staff.Role,
			Reason:   input.Reason,
		},
	})
	return staff, nil
}

func (s *StaffService) executePromote(ctx context.Context, actor domain.PermissionContext, input RoleChangeInput, opts validation.Options) (*domain.Staff, error) {
	vc := s.staffContext(actor, "promote", map[string]any{
		"user_id": input.UserID,
		"role":    string(input.Role),
	})
	if _, err := s.validator.ValidateOrThrow(ctx, vc, opts); err != nil {
		return nil, err
	}

	staff, err := s.GetStaff(ctx, actor.GuildID, input.UserID)
	if err != nil {
		return nil, err
	}
	actorRole, err := s.resolveActorRole(ctx, actor)
	if err != nil {
		return nil, err
	}
	fromRole := staff.Role
	if err := staff.Promote(input.Role, actor.UserID, actorRole, input.Reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventStaffPromoted,
		GuildID: actor.GuildID,
		ActorID: actor.UserID,
		Payload: events.StaffRoleChangedPayload{
			StaffID:  staff.ID,
			UserID:   staff.UserID,
			FromRole: fromRole,
			ToRole:   staff.Role,
			Reason:   input.Reason,
		},
	})
	return staff, nil
}

func (s *StaffService) executeDemote(ctx context.Context, actor domain.PermissionContext, input RoleChangeInput) (*domain.Staff, error) {
	vc := s.staffContext(actor, "demote", map[string]any{
		"user_id": input.UserID,
		"role":    string(input.Role),
	})
	if _, err := s.validator.ValidateOrThrow(ctx, vc, validation.Options{}); err != nil {
		return nil, err
	}

	staff, err := s.GetStaff(ctx, actor.GuildID, input.UserID)
	if err != nil {
		return nil, err
	}
	actorRole, err := s.resolveActorRole(ctx, actor)
	if err != nil {
		return nil, err
	}
	fromRole := staff.Role
	if err := staff.Demote(input.Role, actor.UserID, actorRole, input.Reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventStaffDemoted,
		GuildID: actor.GuildID,
		ActorID: actor.UserID,
		Payload: events.StaffRoleChangedPayload{
			StaffID:  staff.ID,
			UserID:   staff.UserID,
			FromRole: fromRole,
			ToRole:   staff.Role,
			Reason:   input.Reason,
		},
	})
	return staff, nil
}

func (s *StaffService) executeFire(ctx context.Context, actor domain.PermissionContext, input FireInput) (*domain.Staff, error) {
	vc := s.staffContext(actor, "fire", map[string]any{
		"user_id": input.UserID,
	})
	if _, err := s.validator.ValidateOrThrow(ctx, vc, validation.Options{}); err != nil {
		return nil, err
	}

	staff, err := s.GetStaff(ctx, actor.GuildID, input.UserID)
	if err != nil {
		return nil, err
	}
	role := staff.Role
	if err := staff.Terminate(actor.UserID, input.Reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventStaffFired,
		GuildID: actor.GuildID,
		ActorID: actor.UserID,
		Payload: events.StaffRoleChangedPayload{
			StaffID:  staff.ID,
			UserID:   staff.UserID,
			FromRole: role,
			ToRole:   role,
			Reason:   input.Reason,
		},
	})
	return staff, nil
}

// resolveActorRole maps the acting user to a firm role for the state machine.
// The guild owner always acts with Managing Partner authority.
func (s *StaffService) resolveActorRole(ctx context.Context, actor domain.PermissionContext) (domain.StaffRole, error) {
	if actor.IsGuildOwner {
		return domain.RoleManagingPartner, nil
	}
	record, err := s.staff.GetByUserID(ctx, actor.GuildID, actor.UserID)
	if err != nil {
		if repository.IsNoRows(err) {
			return "", apperrors.NewForbidden("actor is not a staff member")
		}
		return "", err
	}
	if !record.IsActive() {
		return "", apperrors.NewForbidden("actor is not an active staff member")
	}
	return record.Role, nil
}

func (s *StaffService) staffContext(actor domain.PermissionContext, operation string, data map[string]any) *domain.ValidationContext {
	return &domain.ValidationContext{
		Permission:     actor,
		EntityType:     domain.EntityStaff,
		Operation:      operation,
		Data:           data,
		CommandName:    "staff",
		SubcommandName: operation,
		IssuedAt:       s.now(),
	}
}

func (s *StaffService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
