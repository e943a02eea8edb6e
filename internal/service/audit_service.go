package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/events"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/repository"
)

var eventAuditActions = map[events.EventType]domain.AuditAction{
	events.EventStaffHired:      domain.AuditStaffHired,
	events.EventStaffPromoted:   domain.AuditStaffPromoted,
	events.EventStaffDemoted:    domain.AuditStaffDemoted,
	events.EventStaffFired:      domain.AuditStaffFired,
	events.EventCaseOpened:      domain.AuditCaseOpened,
	events.EventCaseAccepted:    domain.AuditCaseAccepted,
	events.EventCaseDeclined:    domain.AuditCaseDeclined,
	events.EventCaseClosed:      domain.AuditCaseClosed,
	events.EventCaseAssigned:    domain.AuditCaseAssigned,
	events.EventCaseUnassigned:  domain.AuditCaseAssigned,
	events.EventCaseReassigned:  domain.AuditCaseReassigned,
	events.EventBypassConfirmed: domain.AuditBypassConfirmed,
}

// AuditService writes the append-only audit trail from domain events.
// Persistence failures are logged and never propagate back to the mutation
// that produced the event.
type AuditService struct {
	dispatcher events.Dispatcher
	auditRepo  repository.AuditLogRepository
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, auditRepo repository.AuditLogRepository, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		auditRepo:  auditRepo,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to every audited event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for eventType := range eventAuditActions {
		a.dispatcher.Subscribe(eventType, a.handleEvent)
	}
}

func (a *AuditService) handleEvent(ctx context.Context, event events.Event) error {
	action, ok := eventAuditActions[event.Type]
	if !ok {
		return nil
	}

	entry := &domain.AuditLog{
		GuildID:  event.GuildID,
		Action:   action,
		ActorID:  event.ActorID,
		TargetID: targetID(event),
		Details:  map[string]any{"event_id": event.ID, "payload": event.Payload},
	}
	if err := a.auditRepo.Create(ctx, entry); err != nil {
		a.logger.Error("audit write failed",
			zap.String("guild_id", event.GuildID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}

func targetID(event events.Event) string {
	switch payload := event.Payload.(type) {
	case events.StaffRoleChangedPayload:
		return payload.UserID
	case events.CaseLifecyclePayload:
		return payload.CaseID
	case events.CaseAssignmentPayload:
		return payload.CaseID
	case events.BypassConfirmedPayload:
		return payload.RuleCode
	default:
		return ""
	}
}
