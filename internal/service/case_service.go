package service

import (
	"context"
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

// CaseService coordinates case lifecycle and staffing workflows. Mutations run
// through the per-guild operation queue, which is what makes concurrent accepts
// of the same case resolve to a single winner.
type CaseService struct {
	cases      repository.CaseRepository
	counter    repository.CaseCounter
	queue      *queue.Queue
	validator  *validation.Orchestrator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// CaseDependencies bundles collaborators for the case service.
type CaseDependencies struct {
	CaseRepo   repository.CaseRepository
	Counter    repository.CaseCounter
	Queue      *queue.Queue
	Validator  *validation.Orchestrator
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// CaseOpenInput describes a case creation request.
type CaseOpenInput struct {
	ClientID       string
	ClientUsername string
	Title          string
	Description    string
	Priority       domain.CasePriority
}

// CaseCloseInput describes a closure request.
type CaseCloseInput struct {
	CaseID string
	Result domain.CaseResult
	Notes  string
}

// ReassignInput moves one lawyer from a source case to a destination case.
type ReassignInput struct {
	FromCaseID string
	ToCaseID   string
	LawyerID   string
}

// NewCaseService constructs the service.
func NewCaseService(deps CaseDependencies) *CaseService {
	return &CaseService{
		cases:      deps.CaseRepo,
		counter:    deps.Counter,
		queue:      deps.Queue,
		validator:  deps.Validator,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// OpenCase creates a pending case with the guild's next sequential number.
func (s *CaseService) OpenCase(ctx context.Context, actor domain.PermissionContext, input CaseOpenInput) (*domain.Case, error) {
	return s.enqueueCaseOp(ctx, actor, "case.open", func(opCtx context.Context) (*domain.Case, error) {
		vc := s.caseContext(actor, "open", map[string]any{
			"client_id": input.ClientID,
			"title":     input.Title,
		})
		if _, err := s.validator.ValidateOrThrow(opCtx, vc, validation.Options{}); err != nil {
			return nil, err
		}

		number, err := s.counter.Next(opCtx, actor.GuildID)
		if err != nil {
			return nil, err
		}
		c := domain.NewCase(actor.GuildID, number, input.ClientID, input.ClientUsername, input.Title, input.Description, input.Priority)
		if err := s.cases.Create(opCtx, c); err != nil {
			return nil, err
		}

		s.publishEvent(opCtx, events.Event{
			Type:    events.EventCaseOpened,
			GuildID: actor.GuildID,
			ActorID: actor.UserID,
			Payload: events.CaseLifecyclePayload{
				CaseID:     c.ID,
				CaseNumber: c.CaseNumber,
				Status:     c.Status,
			},
		})
		return c, nil
	})
}

// AcceptCase puts the accepting lawyer on the case as lead attorney and moves
// it in progress. Under concurrent accepts the queue guarantees one winner;
// the rest see a state conflict.
func (s *CaseService) AcceptCase(ctx context.Context, actor domain.PermissionContext, caseID string) (*domain.Case, error) {
	return s.enqueueCaseOp(ctx, actor, "case.accept", func(opCtx context.Context) (*domain.Case, error) {
		vc := s.caseContext(actor, "accept", map[string]any{"case_id": caseID})
		if _, err := s.validator.ValidateOrThrow(opCtx, vc, validation.Options{}); err != nil {
			return nil, err
		}

		c, err := s.loadCase(opCtx, caseID)
		if err != nil {
			return nil, err
		}
		if err := c.Accept(actor.UserID, s.now()); err != nil {
			return nil, err
		}
		if err := s.cases.Update(opCtx, c); err != nil {
			return nil, err
		}

		s.publishEvent(opCtx, events.Event{
			Type:    events.EventCaseAccepted,
			GuildID: actor.GuildID,
			ActorID: actor.UserID,
			Payload: events.CaseLifecyclePayload{
				CaseID:     c.ID,
				CaseNumber: c.CaseNumber,
				Status:     c.Status,
			},
		})
		return c, nil
	})
}

// DeclineCase closes a pending case nobody took, recording the reason.
func (s *CaseService) DeclineCase(ctx context.Context, actor domain.PermissionContext, caseID, reason string) (*domain.Case, error) {
	return s.enqueueCaseOp(ctx, actor, "case.decline", func(opCtx context.Context) (*domain.Case, error) {
		vc := s.caseContext(actor, "decline", map[string]any{"case_id": caseID})
		if _, err := s.validator.ValidateOrThrow(opCtx, vc, validation.Options{}); err != nil {
			return nil, err
		}

		c, err := s.loadCase(opCtx, caseID)
		if err != nil {
			return nil, err
		}
		if err := c.Decline(reason, actor.UserID, s.now()); err != nil {
			return nil, err
		}
		if err := s.cases.Update(opCtx, c); err != nil {
			return nil, err
		}

		s.publishEvent(opCtx, events.Event{
			Type:    events.EventCaseDeclined,
			GuildID: actor.GuildID,
			ActorID: actor.UserID,
			Payload: events.CaseLifecyclePayload{
				CaseID:     c.ID,
				CaseNumber: c.CaseNumber,
				Status:     c.Status,
				Result:     c.Result,
				Notes:      reason,
			},
		})
		return c, nil
	})
}

// CloseCase transitions a case to its terminal state with an outcome. A second
// close attempt fails without touching the recorded closure.
func (s *CaseService) CloseCase(ctx context.Context, actor domain.PermissionContext, input CaseCloseInput) (*domain.Case, error) {
	return s.enqueueCaseOp(ctx, actor, "case.close", func(opCtx context.Context) (*domain.Case, error) {
		vc := s.caseContext(actor, "close", map[string]any{"case_id": input.CaseID})
		if _, err := s.validator.ValidateOrThrow(opCtx, vc, validation.Options{}); err != nil {
			return nil, err
		}

		c, err := s.loadCase(opCtx, input.CaseID)
		if err != nil {
			return nil, err
		}
		if err := c.Close(input.Result, input.Notes, actor.UserID, s.now()); err != nil {
			return nil, err
		}
		if err := s.cases.Update(opCtx, c); err != nil {
			return nil, err
		}

		s.publishEvent(opCtx, events.Event{
			Type:    events.EventCaseClosed,
			GuildID: actor.GuildID,
			ActorID: actor.UserID,
			Payload: events.CaseLifecyclePayload{
				CaseID:     c.ID,
				CaseNumber: c.CaseNumber,
				Status:     c.Status,
				Result:     c.Result,
				Notes:      input.Notes,
			},
		})
		return c, nil
	})
}

// AssignLawyer adds a lawyer to the case. Assigning someone already on the
// case is a no-op.
func (s *CaseService) AssignLawyer(ctx context.Context, actor domain.PermissionContext, caseID, lawyerID string) (*domain.Case, error) {
	return s.enqueueCaseOp(ctx, actor, "case.assign", func(opCtx context.Context) (*domain.Case, error) {
		return s.executeAssign(opCtx, actor, caseID, lawyerID)
	})
}

// UnassignLawyer removes a lawyer from the case; removing the lead promotes
// the first remaining assignee.
func (s *CaseService) UnassignLawyer(ctx context.Context, actor domain.PermissionContext, caseID, lawyerID string) (*domain.Case, error) {
	return s.enqueueCaseOp(ctx, actor, "case.unassign", func(opCtx context.Context) (*domain.Case, error) {
		return s.executeUnassign(opCtx, actor, caseID, lawyerID)
	})
}

// ReassignLawyer moves one lawyer from a source case to a destination case in
// a single queue slot. When the lawyer turns out not to be on the source, the
// source is left untouched and the destination assignment still proceeds.
// Returns the destination case.
func (s *CaseService) ReassignLawyer(ctx context.Context, actor domain.PermissionContext, input ReassignInput) (*domain.Case, error) {
	if input.FromCaseID == input.ToCaseID {
		return nil, apperrors.NewValidationError("source and destination cases must differ", map[string]any{
			"case_id": input.FromCaseID,
		})
	}
	return s.enqueueCaseOp(ctx, actor, "case.reassign", func(opCtx context.Context) (*domain.Case, error) {
		vc := s.caseContext(actor, "reassign", map[string]any{
			"from_case_id": input.FromCaseID,
			"to_case_id":   input.ToCaseID,
			"lawyer_id":    input.LawyerID,
		})
		if _, err := s.validator.ValidateOrThrow(opCtx, vc, validation.Options{}); err != nil {
			return nil, err
		}

		source, err := s.loadCase(opCtx, input.FromCaseID)
		if err != nil {
			return nil, err
		}
		dest, err := s.loadCase(opCtx, input.ToCaseID)
		if err != nil {
			return nil, err
		}

		sourceHad := source.HasAssignee(input.LawyerID)
		if sourceHad {
			if err := source.UnassignLawyer(input.LawyerID, s.now()); err != nil {
				return nil, err
			}
		}
		if err := dest.AssignLawyer(input.LawyerID, s.now()); err != nil {
			return nil, err
		}
		if sourceHad {
			if err := s.cases.Update(opCtx, source); err != nil {
				return nil, err
			}
		}
		if err := s.cases.Update(opCtx, dest); err != nil {
			return nil, err
		}

		s.publishEvent(opCtx, events.Event{
			Type:    events.EventCaseReassigned,
			GuildID: actor.GuildID,
			ActorID: actor.UserID,
			Payload: events.CaseAssignmentPayload{
				CaseID:         dest.ID,
				CaseNumber:     dest.CaseNumber,
				LawyerID:       input.LawyerID,
				FromCaseID:     source.ID,
				FromCaseNumber: source.CaseNumber,
				LeadAttorneyID: dest.LeadAttorneyID,
			},
		})
		return dest, nil
	})
}

// GetCase loads one case by ID.
func (s *CaseService) GetCase(ctx context.Context, caseID string) (*domain.Case, error) {
	return s.loadCase(ctx, caseID)
}

// GetCaseByNumber loads one case by its guild-sequential number.
func (s *CaseService) GetCaseByNumber(ctx context.Context, guildID string, caseNumber int64) (*domain.Case, error) {
	c, err := s.cases.GetByCaseNumber(ctx, guildID, caseNumber)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, apperrors.NewNotFound("case", map[string]any{"case_number": caseNumber})
		}
		return nil, err
	}
	return c, nil
}

// ListCases returns the guild's cases, optionally filtered.
func (s *CaseService) ListCases(ctx context.Context, filter repository.CaseFilter) ([]domain.Case, error) {
	return s.cases.List(ctx, filter)
}

func (s *CaseService) executeAssign(ctx context.Context, actor domain.PermissionContext, caseID, lawyerID string) (*domain.Case, error) {
	vc := s.caseContext(actor, "assign", map[string]any{
		"case_id":   caseID,
		"lawyer_id": lawyerID,
	})
	if _, err := s.validator.ValidateOrThrow(ctx, vc, validation.Options{}); err != nil {
		return nil, err
	}

	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if err := c.AssignLawyer(lawyerID, s.now()); err != nil {
		return nil, err
	}
	if err := s.cases.Update(ctx, c); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventCaseAssigned,
		GuildID: actor.GuildID,
		ActorID: actor.UserID,
		Payload: events.CaseAssignmentPayload{
			CaseID:         c.ID,
			CaseNumber:     c.CaseNumber,
			LawyerID:       lawyerID,
			LeadAttorneyID: c.LeadAttorneyID,
		},
	})
	return c, nil
}

func (s *CaseService) executeUnassign(ctx context.Context, actor domain.PermissionContext, caseID, lawyerID string) (*domain.Case, error) {
	vc := s.caseContext(actor, "unassign", map[string]any{
		"case_id":   caseID,
		"lawyer_id": lawyerID,
	})
	if _, err := s.validator.ValidateOrThrow(ctx, vc, validation.Options{}); err != nil {
		return nil, err
	}

	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if err := c.UnassignLawyer(lawyerID, s.now()); err != nil {
		return nil, err
	}
	if err := s.cases.Update(ctx, c); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventCaseUnassigned,
		GuildID: actor.GuildID,
		ActorID: actor.UserID,
		Payload: events.CaseAssignmentPayload{
			CaseID:         c.ID,
			CaseNumber:     c.CaseNumber,
			LawyerID:       lawyerID,
			LeadAttorneyID: c.LeadAttorneyID,
		},
	})
	return c, nil
}

func (s *CaseService) enqueueCaseOp(ctx context.Context, actor domain.PermissionContext, name string, run func(context.Context) (*domain.Case, error)) (*domain.Case, error) {
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
	c, _ := value.(*domain.Case)
	return c, nil
}

func (s *CaseService) loadCase(ctx context.Context, caseID string) (*domain.Case, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, apperrors.NewNotFound("case", map[string]any{"case_id": caseID})
		}
		return nil, err
	}
	return c, nil
}

func (s *CaseService) caseContext(actor domain.PermissionContext, operation string, data map[string]any) *domain.ValidationContext {
	return &domain.ValidationContext{
		Permission:     actor,
		EntityType:     domain.EntityCase,
		Operation:      operation,
		Data:           data,
		CommandName:    "case",
		SubcommandName: operation,
		IssuedAt:       s.now(),
	}
}

func (s *CaseService) publishEvent(ctx context.Context, event events.Event) {
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
