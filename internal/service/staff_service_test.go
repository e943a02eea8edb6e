package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

func TestHireFillsRoleUpToLimit(t *testing.T) {
	f := newTestFixture()
	owner := ownerActor("g1")
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		staff, err := f.staff.Hire(ctx, owner, HireInput{
			UserID: fmt.Sprintf("user-%d", i),
			Role:   domain.RoleParalegal,
		})
		require.NoError(t, err, "hire %d should fit under the limit", i)
		require.Equal(t, domain.RoleParalegal, staff.Role)
	}

	count, err := f.staffRepo.CountActiveByRole(ctx, "g1", domain.RoleParalegal)
	require.NoError(t, err)
	require.Equal(t, 10, count)
	require.Len(t, f.auditRepo.byAction(domain.AuditStaffHired), 10)
}

func TestHireOverLimitOwnerBypassWalkthrough(t *testing.T) {
	f := newTestFixture()
	owner := ownerActor("g1")
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		_, err := f.staff.Hire(ctx, owner, HireInput{
			UserID: fmt.Sprintf("user-%d", i),
			Role:   domain.RoleParalegal,
		})
		require.NoError(t, err)
	}

	_, err := f.staff.Hire(ctx, owner, HireInput{
		UserID: "user-11",
		Role:   domain.RoleParalegal,
	})
	require.Error(t, err)
	require.True(t, apperrors.IsValidationFailed(err))
	require.Contains(t, err.Error(), "Maximum limit of 10 reached for role Paralegal")
	require.True(t, f.validator.HasPendingBypass(owner.UserID))

	hired, err := f.staff.ConfirmBypass(ctx, owner, "emergency staffing")
	require.NoError(t, err)
	require.Equal(t, "user-11", hired.UserID)
	require.Equal(t, domain.RoleParalegal, hired.Role)

	count, err := f.staffRepo.CountActiveByRole(ctx, "g1", domain.RoleParalegal)
	require.NoError(t, err)
	require.Equal(t, 11, count)

	confirmed := f.auditRepo.byAction(domain.AuditBypassConfirmed)
	require.Len(t, confirmed, 1)
	require.Equal(t, owner.UserID, confirmed[0].ActorID)

	// A bypass is consumable exactly once.
	_, err = f.staff.ConfirmBypass(ctx, owner, "again")
	require.Error(t, err)
	require.True(t, apperrors.IsBypassExpired(err))
}

func TestHireOverLimitNonOwnerGetsNoBypass(t *testing.T) {
	f := newTestFixture()
	owner := ownerActor("g1")
	member := memberActor("g1", "partner-1", string(domain.RoleSeniorPartner))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := f.staff.Hire(ctx, owner, HireInput{
			UserID: fmt.Sprintf("sp-%d", i),
			Role:   domain.RoleSeniorPartner,
		})
		require.NoError(t, err)
	}

	_, err := f.staff.Hire(ctx, member, HireInput{
		UserID: "sp-4",
		Role:   domain.RoleSeniorPartner,
	})
	require.Error(t, err)
	require.True(t, apperrors.IsValidationFailed(err))
	require.False(t, f.validator.HasPendingBypass(member.UserID))

	_, err = f.staff.ConfirmBypass(ctx, member, "please")
	require.Error(t, err)
	require.True(t, apperrors.IsBypassExpired(err))
}

func TestHireDuplicateActiveStaffRejected(t *testing.T) {
	f := newTestFixture()
	owner := ownerActor("g1")
	ctx := context.Background()

	_, err := f.staff.Hire(ctx, owner, HireInput{UserID: "user-1", Role: domain.RoleParalegal})
	require.NoError(t, err)

	_, err = f.staff.Hire(ctx, owner, HireInput{UserID: "user-1", Role: domain.RoleJuniorAssociate})
	require.Error(t, err)
}

func TestPromoteRecordsHistoryAndAudit(t *testing.T) {
	f := newTestFixture()
	owner := ownerActor("g1")
	ctx := context.Background()

	_, err := f.staff.Hire(ctx, owner, HireInput{UserID: "user-1", Role: domain.RoleParalegal})
	require.NoError(t, err)

	promoted, err := f.staff.Promote(ctx, owner, RoleChangeInput{
		UserID: "user-1",
		Role:   domain.RoleJuniorAssociate,
		Reason: "strong first quarter",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleJuniorAssociate, promoted.Role)
	require.Len(t, promoted.PromotionHistory, 2)
	require.Len(t, f.auditRepo.byAction(domain.AuditStaffPromoted), 1)
}

func TestPromoteUnknownUserFailsValidation(t *testing.T) {
	f := newTestFixture()
	owner := ownerActor("g1")

	_, err := f.staff.Promote(context.Background(), owner, RoleChangeInput{
		UserID: "ghost",
		Role:   domain.RoleJuniorAssociate,
	})
	require.Error(t, err)
	require.True(t, apperrors.IsValidationFailed(err))
	require.Contains(t, err.Error(), "not a staff member")
}

func TestDemoteByNonSeniorActorForbidden(t *testing.T) {
	f := newTestFixture()
	owner := ownerActor("g1")
	ctx := context.Background()

	_, err := f.staff.Hire(ctx, owner, HireInput{UserID: "junior-actor", Role: domain.RoleJuniorAssociate})
	require.NoError(t, err)
	_, err = f.staff.Hire(ctx, owner, HireInput{UserID: "user-1", Role: domain.RoleSeniorAssociate})
	require.NoError(t, err)

	actor := memberActor("g1", "junior-actor", string(domain.RoleJuniorAssociate))
	_, err = f.staff.Demote(ctx, actor, RoleChangeInput{
		UserID: "user-1",
		Role:   domain.RoleJuniorAssociate,
	})
	require.Error(t, err)
}

func TestFireTerminatesAndFreesRoleSlot(t *testing.T) {
	f := newTestFixture()
	owner := ownerActor("g1")
	ctx := context.Background()

	_, err := f.staff.Hire(ctx, owner, HireInput{UserID: "mp-1", Role: domain.RoleManagingPartner})
	require.NoError(t, err)

	// Managing Partner is capped at one.
	_, err = f.staff.Hire(ctx, owner, HireInput{UserID: "mp-2", Role: domain.RoleManagingPartner})
	require.Error(t, err)

	fired, err := f.staff.Fire(ctx, owner, FireInput{UserID: "mp-1", Reason: "retired"})
	require.NoError(t, err)
	require.Equal(t, domain.StaffStatusTerminated, fired.Status)
	require.Len(t, f.auditRepo.byAction(domain.AuditStaffFired), 1)

	_, err = f.staff.Hire(ctx, owner, HireInput{UserID: "mp-2", Role: domain.RoleManagingPartner})
	require.NoError(t, err)
}

func TestRehireAfterFireReactivatesRecord(t *testing.T) {
	f := newTestFixture()
	owner := ownerActor("g1")
	ctx := context.Background()

	hired, err := f.staff.Hire(ctx, owner, HireInput{UserID: "user-1", Role: domain.RoleParalegal, Reason: "initial hire"})
	require.NoError(t, err)
	_, err = f.staff.Fire(ctx, owner, FireInput{UserID: "user-1", Reason: "restructuring"})
	require.NoError(t, err)

	// The fired record is retained, so hiring the same user again must
	// reactivate it instead of inserting a duplicate row.
	rehired, err := f.staff.Hire(ctx, owner, HireInput{UserID: "user-1", Role: domain.RoleJuniorAssociate, Reason: "welcome back"})
	require.NoError(t, err)
	require.Equal(t, hired.ID, rehired.ID)
	require.Equal(t, domain.StaffStatusActive, rehired.Status)
	require.Equal(t, domain.RoleJuniorAssociate, rehired.Role)

	actions := make([]domain.RoleChangeAction, 0, len(rehired.PromotionHistory))
	for _, record := range rehired.PromotionHistory {
		actions = append(actions, record.ActionType)
	}
	require.Equal(t, []domain.RoleChangeAction{domain.ActionHire, domain.ActionFire, domain.ActionHire}, actions)
	require.Len(t, f.auditRepo.byAction(domain.AuditStaffHired), 2)
}

func TestGetStaffNotFound(t *testing.T) {
	f := newTestFixture()

	_, err := f.staff.GetStaff(context.Background(), "g1", "ghost")
	require.Error(t, err)
	require.True(t, apperrors.IsNotFound(err))
}
