package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken("g1", "u1", []string{string(domain.RoleSeniorPartner)}, true)
	require.NoError(t, err)
	require.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "g1", claims.GuildID)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, []string{string(domain.RoleSeniorPartner)}, claims.Roles)
	require.True(t, claims.IsGuildOwner)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 60).GenerateToken("g1", "u1", nil, false)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).ParseToken(token)
	require.Error(t, err)
}

func TestKeyHashRoundTrip(t *testing.T) {
	hashed, err := HashKey("gateway-key", 4)
	require.NoError(t, err)
	require.NoError(t, CompareKey(hashed, "gateway-key"))
	require.Error(t, CompareKey(hashed, "wrong-key"))
}

func TestRoleCheckerLevels(t *testing.T) {
	checker := NewRoleChecker()
	ctx := context.Background()

	cases := []struct {
		name   string
		roles  []string
		action string
		want   bool
	}{
		{"senior partner holds senior-staff", []string{string(domain.RoleSeniorPartner)}, "senior-staff", true},
		{"junior partner lacks senior-staff", []string{string(domain.RoleJuniorPartner)}, "senior-staff", false},
		{"paralegal holds case", []string{string(domain.RoleParalegal)}, "case", true},
		{"only managing partner holds admin", []string{string(domain.RoleSeniorPartner)}, "admin", false},
		{"managing partner holds admin", []string{string(domain.RoleManagingPartner)}, "admin", true},
		{"unknown role strings ignored", []string{"Moderator"}, "case", false},
		{"unknown action permitted", nil, "unmapped", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := checker.HasActionPermission(ctx, domain.PermissionContext{UserRoles: tc.roles}, tc.action)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
