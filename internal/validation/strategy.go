package validation

import (
	"context"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

// Strategy is one independent validation unit. Strategies never mutate state;
// they read through repository interfaces and return decisions, which is what
// lets the orchestrator run them concurrently without coordination.
type Strategy interface {
	Name() string
	CanHandle(vc *domain.ValidationContext) bool
	Validate(ctx context.Context, vc *domain.ValidationContext) (*domain.ValidationResult, error)
}

// Registered strategy names.
const (
	StrategyPermission   = "permission"
	StrategyBusinessRule = "business-rule"
	StrategyCrossEntity  = "cross-entity"
)

// PermissionChecker resolves whether an actor holds a permission tag. The
// chat-platform binding layer supplies the implementation.
type PermissionChecker interface {
	HasActionPermission(ctx context.Context, pc domain.PermissionContext, action string) (bool, error)
}
