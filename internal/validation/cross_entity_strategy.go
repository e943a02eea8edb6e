package validation

import (
	"context"
	"fmt"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/repository"
)

type crossEntityCheck func(ctx context.Context, s *CrossEntityStrategy, vc *domain.ValidationContext, result *domain.ValidationResult) error

// crossEntityChecks maps (entityType, operation) to its referential-integrity
// check.
var crossEntityChecks = map[domain.EntityType]map[string]crossEntityCheck{
	domain.EntityCase: {
		"close": checkNoUnresolvedReminders,
	},
	domain.EntityStaff: {
		"fire": checkActiveCaseAssignments,
	},
}

// CrossEntityStrategy runs referential-integrity checks across aggregates:
// critical findings block, warnings inform.
type CrossEntityStrategy struct {
	cases     repository.CaseRepository
	reminders repository.ReminderRepository
}

// NewCrossEntityStrategy constructs the strategy.
func NewCrossEntityStrategy(cases repository.CaseRepository, reminders repository.ReminderRepository) *CrossEntityStrategy {
	return &CrossEntityStrategy{cases: cases, reminders: reminders}
}

func (s *CrossEntityStrategy) Name() string {
	return StrategyCrossEntity
}

func (s *CrossEntityStrategy) CanHandle(vc *domain.ValidationContext) bool {
	ops, ok := crossEntityChecks[vc.EntityType]
	if !ok {
		return false
	}
	_, ok = ops[vc.Operation]
	return ok
}

func (s *CrossEntityStrategy) Validate(ctx context.Context, vc *domain.ValidationContext) (*domain.ValidationResult, error) {
	result := domain.ValidResult(StrategyCrossEntity)
	check := crossEntityChecks[vc.EntityType][vc.Operation]
	if check == nil {
		return result, nil
	}
	if err := check(ctx, s, vc, result); err != nil {
		return nil, err
	}
	return result, nil
}

// checkNoUnresolvedReminders blocks closing a case with open follow-ups.
func checkNoUnresolvedReminders(ctx context.Context, s *CrossEntityStrategy, vc *domain.ValidationContext, result *domain.ValidationResult) error {
	caseID := vc.DataString("case_id")
	if caseID == "" {
		return nil
	}
	unresolved, err := s.reminders.CountUnresolvedByCase(ctx, caseID)
	if err != nil {
		return err
	}
	if unresolved > 0 {
		result.AddError(domain.IssueCodeOpenReminders,
			fmt.Sprintf("case has %d unresolved reminder(s); resolve them before closing", unresolved),
			map[string]any{"unresolved": unresolved},
		)
	}
	return nil
}

// checkActiveCaseAssignments warns (does not block) when firing a staff member
// who still carries cases.
func checkActiveCaseAssignments(ctx context.Context, s *CrossEntityStrategy, vc *domain.ValidationContext, result *domain.ValidationResult) error {
	userID := vc.DataString("user_id")
	if userID == "" {
		return nil
	}
	active, err := s.cases.CountActiveByLawyer(ctx, vc.Permission.GuildID, userID)
	if err != nil {
		return err
	}
	if active > 0 {
		result.AddWarning(domain.IssueCodeActiveCaseLoad,
			fmt.Sprintf("user is assigned to %d active case(s); they will need reassignment", active),
			map[string]any{"activeCases": active},
		)
	}
	return nil
}
