package validation

import (
	"context"
	"fmt"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

// commandPermissions maps a command name to the permission tag it requires.
// Commands not listed require no permission beyond authentication.
var commandPermissions = map[string]string{
	"staff":    "senior-staff",
	"case":     "case",
	"admin":    "admin",
	"reminder": "case",
	"repair":   "admin",
}

// PermissionStrategy gates commands on the actor's permission set. The guild
// owner always passes.
type PermissionStrategy struct {
	checker PermissionChecker
}

// NewPermissionStrategy constructs the strategy.
func NewPermissionStrategy(checker PermissionChecker) *PermissionStrategy {
	return &PermissionStrategy{checker: checker}
}

func (s *PermissionStrategy) Name() string {
	return StrategyPermission
}

func (s *PermissionStrategy) CanHandle(vc *domain.ValidationContext) bool {
	return vc.CommandName != ""
}

func (s *PermissionStrategy) Validate(ctx context.Context, vc *domain.ValidationContext) (*domain.ValidationResult, error) {
	result := domain.ValidResult(StrategyPermission)

	if vc.Permission.IsGuildOwner {
		return result, nil
	}

	required, ok := commandPermissions[vc.CommandName]
	if !ok {
		return result, nil
	}

	allowed, err := s.checker.HasActionPermission(ctx, vc.Permission, required)
	if err != nil {
		return nil, err
	}
	if !allowed {
		result.AddError(domain.IssueCodePermission,
			fmt.Sprintf("you need the %q permission to use /%s", required, vc.CommandName),
			map[string]any{"required": required},
		)
	}
	return result, nil
}
