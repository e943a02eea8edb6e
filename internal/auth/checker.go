package auth

import (
	"context"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

// permissionLevels maps a permission tag to the minimum role level that grants
// it. The guild owner bypasses these checks entirely in the permission
// strategy, so only non-owner actors reach this table.
var permissionLevels = map[string]int{
	"admin":        domain.RoleManagingPartner.Level(),
	"senior-staff": domain.SeniorLevel,
	"case":         domain.RoleParalegal.Level(),
}

// RoleChecker grants permission tags based on the actor's firm roles carried
// in the token.
type RoleChecker struct{}

// NewRoleChecker constructs the checker.
func NewRoleChecker() *RoleChecker {
	return &RoleChecker{}
}

// HasActionPermission reports whether any of the actor's roles meets the
// level the permission tag requires. Unknown role strings are ignored.
func (c *RoleChecker) HasActionPermission(ctx context.Context, pc domain.PermissionContext, action string) (bool, error) {
	required, ok := permissionLevels[action]
	if !ok {
		return true, nil
	}
	for _, name := range pc.UserRoles {
		role := domain.StaffRole(name)
		if role.IsValid() && role.Level() >= required {
			return true, nil
		}
	}
	return false, nil
}
