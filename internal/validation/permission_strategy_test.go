package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

func TestGuildOwnerAlwaysPasses(t *testing.T) {
	s := NewPermissionStrategy(&fakeChecker{granted: map[string]bool{}})

	vc := staffContext("hire", "g1", "owner", true, nil)
	result, err := s.Validate(context.Background(), vc)
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestMissingPermissionBlocks(t *testing.T) {
	s := NewPermissionStrategy(&fakeChecker{granted: map[string]bool{}})

	vc := staffContext("hire", "g1", "member", false, nil)
	result, err := s.Validate(context.Background(), vc)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, domain.IssueCodePermission, result.Issues[0].Code)
	require.Contains(t, result.Issues[0].Message, "senior-staff")
}

func TestGrantedPermissionPasses(t *testing.T) {
	s := NewPermissionStrategy(&fakeChecker{granted: map[string]bool{
		"member|senior-staff": true,
	}})

	vc := staffContext("hire", "g1", "member", false, nil)
	result, err := s.Validate(context.Background(), vc)
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestUnlistedCommandRequiresNoPermission(t *testing.T) {
	s := NewPermissionStrategy(&fakeChecker{granted: map[string]bool{}})

	vc := staffContext("hire", "g1", "member", false, nil)
	vc.CommandName = "help"
	result, err := s.Validate(context.Background(), vc)
	require.NoError(t, err)
	require.True(t, result.Valid)
}
