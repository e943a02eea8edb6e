package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/kongdonovan/anarchy-and-associates-sub004/pkg/util"
)

func newTestCase() *Case {
	return NewCase("g1", 42, "client-1", "clientname", "Contract dispute", "details", CasePriorityHigh)
}

func TestNewCaseDefaults(t *testing.T) {
	c := NewCase("g1", 1, "client-1", "clientname", "t", "d", "")
	require.Equal(t, CaseStatusPending, c.Status)
	require.Equal(t, CasePriorityMedium, c.Priority)
	require.Nil(t, c.LeadAttorneyID)
	require.Empty(t, c.AssignedLawyerIDs)
}

func TestAcceptSetsLeadAndAssignee(t *testing.T) {
	c := newTestCase()

	require.NoError(t, c.Accept("lawyer-1", time.Now()))
	require.Equal(t, CaseStatusInProgress, c.Status)
	require.NotNil(t, c.LeadAttorneyID)
	require.Equal(t, "lawyer-1", *c.LeadAttorneyID)
	require.Equal(t, []string{"lawyer-1"}, c.AssignedLawyerIDs)
}

func TestAcceptRejectedOnceInProgress(t *testing.T) {
	c := newTestCase()
	require.NoError(t, c.Accept("lawyer-1", time.Now()))

	err := c.Accept("lawyer-2", time.Now())
	require.Error(t, err)
	require.True(t, apperrors.IsStateConflict(err))
	require.Equal(t, "lawyer-1", *c.LeadAttorneyID)
}

func TestAssignLawyerIsIdempotent(t *testing.T) {
	c := newTestCase()

	require.NoError(t, c.AssignLawyer("lawyer-1", time.Now()))
	require.NoError(t, c.AssignLawyer("lawyer-1", time.Now()))
	require.Equal(t, []string{"lawyer-1"}, c.AssignedLawyerIDs)
	require.Equal(t, "lawyer-1", *c.LeadAttorneyID)
}

func TestUnassignLeadPromotesFirstRemaining(t *testing.T) {
	c := newTestCase()
	require.NoError(t, c.AssignLawyer("a", time.Now()))
	require.NoError(t, c.AssignLawyer("b", time.Now()))
	require.NoError(t, c.AssignLawyer("c", time.Now()))

	require.NoError(t, c.UnassignLawyer("a", time.Now()))
	require.Equal(t, []string{"b", "c"}, c.AssignedLawyerIDs)
	require.Equal(t, "b", *c.LeadAttorneyID)

	require.NoError(t, c.UnassignLawyer("b", time.Now()))
	require.NoError(t, c.UnassignLawyer("c", time.Now()))
	require.Nil(t, c.LeadAttorneyID)
	require.Empty(t, c.AssignedLawyerIDs)
}

func TestUnassignNonAssigneeIsNoOp(t *testing.T) {
	c := newTestCase()
	require.NoError(t, c.AssignLawyer("a", time.Now()))

	require.NoError(t, c.UnassignLawyer("stranger", time.Now()))
	require.Equal(t, []string{"a"}, c.AssignedLawyerIDs)
}

func TestCloseRecordsOutcome(t *testing.T) {
	c := newTestCase()
	require.NoError(t, c.Accept("lawyer-1", time.Now()))

	now := time.Now()
	require.NoError(t, c.Close(CaseResultWin, "settled favorably", "lawyer-1", now))
	require.Equal(t, CaseStatusClosed, c.Status)
	require.Equal(t, CaseResultWin, *c.Result)
	require.Equal(t, now, *c.ClosedAt)
	require.Equal(t, "lawyer-1", *c.ClosedBy)
}

func TestDoubleCloseKeepsFirstClosure(t *testing.T) {
	c := newTestCase()
	require.NoError(t, c.Accept("lawyer-1", time.Now()))

	first := time.Now()
	require.NoError(t, c.Close(CaseResultWin, "", "lawyer-1", first))

	err := c.Close(CaseResultLoss, "", "lawyer-2", first.Add(time.Minute))
	require.Error(t, err)
	require.True(t, apperrors.IsStateConflict(err))
	require.Equal(t, CaseResultWin, *c.Result)
	require.Equal(t, first, *c.ClosedAt)
	require.Equal(t, "lawyer-1", *c.ClosedBy)
}

func TestClosePendingRejected(t *testing.T) {
	c := newTestCase()

	err := c.Close(CaseResultWin, "", "lawyer-1", time.Now())
	require.Error(t, err)
	require.True(t, apperrors.IsStateConflict(err))
}

func TestDeclineClosesPendingAsDismissed(t *testing.T) {
	c := newTestCase()

	require.NoError(t, c.Decline("no capacity", "partner-1", time.Now()))
	require.Equal(t, CaseStatusClosed, c.Status)
	require.Equal(t, CaseResultDismissed, *c.Result)
	require.Equal(t, "no capacity", c.ResultNotes)

	other := newTestCase()
	require.NoError(t, other.Accept("lawyer-1", time.Now()))
	err := other.Decline("too late", "partner-1", time.Now())
	require.Error(t, err)
	require.True(t, apperrors.IsStateConflict(err))
}

func TestAssignToClosedCaseRejected(t *testing.T) {
	c := newTestCase()
	require.NoError(t, c.Accept("lawyer-1", time.Now()))
	require.NoError(t, c.Close(CaseResultSettlement, "", "lawyer-1", time.Now()))

	require.Error(t, c.AssignLawyer("lawyer-2", time.Now()))
	require.Error(t, c.UnassignLawyer("lawyer-1", time.Now()))
}
