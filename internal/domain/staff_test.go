package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

func TestRoleHierarchyAdjacency(t *testing.T) {
	next, ok := RoleAfter(RoleParalegal)
	require.True(t, ok)
	require.Equal(t, RoleJuniorAssociate, next)

	prev, ok := RoleBefore(RoleManagingPartner)
	require.True(t, ok)
	require.Equal(t, RoleSeniorPartner, prev)

	_, ok = RoleAfter(RoleManagingPartner)
	require.False(t, ok)

	_, ok = RoleBefore(RoleParalegal)
	require.False(t, ok)
}

func TestRoleLevelsAreStrictlyOrdered(t *testing.T) {
	roles := AllRoles()
	for i := 1; i < len(roles); i++ {
		require.Greater(t, roles[i].Level(), roles[i-1].Level())
	}
	require.Equal(t, 1, RoleManagingPartner.MaxCount())
	require.Equal(t, 10, RoleParalegal.MaxCount())
}

func TestNewStaffRecordsHire(t *testing.T) {
	now := time.Now()
	staff := NewStaff("g1", "u1", "robloxian", RoleParalegal, "owner", "new hire", now)

	require.True(t, staff.IsActive())
	require.Len(t, staff.PromotionHistory, 1)
	require.Equal(t, ActionHire, staff.PromotionHistory[0].ActionType)
	require.Equal(t, "owner", staff.PromotionHistory[0].ActorID)
}

func TestPromoteIncreasesLevelAndAppendsHistory(t *testing.T) {
	now := time.Now()
	staff := NewStaff("g1", "u1", "robloxian", RoleParalegal, "owner", "", now)

	err := staff.Promote(RoleJuniorAssociate, "boss", RoleManagingPartner, "good work", now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, RoleJuniorAssociate, staff.Role)
	require.Len(t, staff.PromotionHistory, 2)

	last := staff.PromotionHistory[1]
	require.Equal(t, ActionPromotion, last.ActionType)
	require.Equal(t, RoleParalegal, last.FromRole)
	require.Equal(t, RoleJuniorAssociate, last.ToRole)
}

func TestPromoteRejectsNonIncrease(t *testing.T) {
	staff := NewStaff("g1", "u1", "", RoleSeniorAssociate, "owner", "", time.Now())

	err := staff.Promote(RoleParalegal, "boss", RoleManagingPartner, "", time.Now())
	require.Error(t, err)
	require.True(t, apperrors.IsStateConflict(err))

	err = staff.Promote(RoleSeniorAssociate, "boss", RoleManagingPartner, "", time.Now())
	require.Error(t, err)
}

func TestPromoteRequiresSeniorActor(t *testing.T) {
	staff := NewStaff("g1", "u1", "", RoleParalegal, "owner", "", time.Now())

	err := staff.Promote(RoleJuniorAssociate, "peer", RoleJuniorPartner, "", time.Now())
	require.Error(t, err)

	err = staff.Promote(RoleJuniorAssociate, "partner", RoleSeniorPartner, "", time.Now())
	require.NoError(t, err)
}

func TestDemoteDecreasesLevel(t *testing.T) {
	staff := NewStaff("g1", "u1", "", RoleJuniorPartner, "owner", "", time.Now())

	err := staff.Demote(RoleSeniorAssociate, "boss", RoleManagingPartner, "restructure", time.Now())
	require.NoError(t, err)
	require.Equal(t, RoleSeniorAssociate, staff.Role)
	require.Equal(t, ActionDemotion, staff.PromotionHistory[len(staff.PromotionHistory)-1].ActionType)

	err = staff.Demote(RoleManagingPartner, "boss", RoleManagingPartner, "", time.Now())
	require.Error(t, err)
	require.True(t, apperrors.IsStateConflict(err))
}

func TestTerminateRetainsRecord(t *testing.T) {
	staff := NewStaff("g1", "u1", "", RoleParalegal, "owner", "", time.Now())

	err := staff.Terminate("boss", "misconduct", time.Now())
	require.NoError(t, err)
	require.Equal(t, StaffStatusTerminated, staff.Status)
	require.False(t, staff.IsActive())
	require.Equal(t, ActionFire, staff.PromotionHistory[len(staff.PromotionHistory)-1].ActionType)

	err = staff.Terminate("boss", "again", time.Now())
	require.Error(t, err)
	require.True(t, apperrors.IsStateConflict(err))
}

func TestRehireReactivatesTerminatedStaff(t *testing.T) {
	staff := NewStaff("g1", "u1", "", RoleParalegal, "owner", "", time.Now())
	require.NoError(t, staff.Terminate("boss", "", time.Now()))

	err := staff.Rehire(RoleJuniorAssociate, "owner", "second chance", time.Now())
	require.NoError(t, err)
	require.True(t, staff.IsActive())
	require.Equal(t, RoleJuniorAssociate, staff.Role)
	require.Equal(t, "owner", staff.HiredBy)
	require.Len(t, staff.PromotionHistory, 3)
	require.Equal(t, ActionHire, staff.PromotionHistory[2].ActionType)

	err = staff.Rehire(RoleParalegal, "owner", "", time.Now())
	require.Error(t, err)
	require.True(t, apperrors.IsStateConflict(err))
}

func TestRoleChangesOnNonActiveStaffRejected(t *testing.T) {
	staff := NewStaff("g1", "u1", "", RoleParalegal, "owner", "", time.Now())
	require.NoError(t, staff.Terminate("boss", "", time.Now()))

	err := staff.Promote(RoleJuniorAssociate, "boss", RoleManagingPartner, "", time.Now())
	require.Error(t, err)
	require.True(t, apperrors.IsStateConflict(err))
}
