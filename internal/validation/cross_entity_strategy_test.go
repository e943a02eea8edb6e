package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

func TestCaseCloseBlockedByUnresolvedReminders(t *testing.T) {
	reminders := newFakeReminderRepo()
	reminders.unresolvedByCase["case-1"] = 2
	s := NewCrossEntityStrategy(newFakeCaseRepo(), reminders)

	vc := caseContext("close", "g1", "u1", false, map[string]any{"case_id": "case-1"})
	require.True(t, s.CanHandle(vc))

	result, err := s.Validate(context.Background(), vc)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, domain.IssueCodeOpenReminders, result.Issues[0].Code)
	require.Equal(t, domain.SeverityError, result.Issues[0].Severity)
}

func TestCaseCloseAllowedWithoutReminders(t *testing.T) {
	s := NewCrossEntityStrategy(newFakeCaseRepo(), newFakeReminderRepo())

	vc := caseContext("close", "g1", "u1", false, map[string]any{"case_id": "case-1"})
	result, err := s.Validate(context.Background(), vc)
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestStaffFireWarnsOnActiveAssignments(t *testing.T) {
	cases := newFakeCaseRepo()
	cases.activeByLawyer["u2"] = 3
	s := NewCrossEntityStrategy(cases, newFakeReminderRepo())

	vc := staffContext("fire", "g1", "u1", false, map[string]any{"user_id": "u2"})
	require.True(t, s.CanHandle(vc))

	result, err := s.Validate(context.Background(), vc)
	require.NoError(t, err)
	// Warns but does not block.
	require.True(t, result.Valid)
	require.Len(t, result.Issues, 1)
	require.Equal(t, domain.SeverityWarning, result.Issues[0].Severity)
	require.Equal(t, domain.IssueCodeActiveCaseLoad, result.Issues[0].Code)
}

func TestCrossEntityIgnoresUnmappedOperations(t *testing.T) {
	s := NewCrossEntityStrategy(newFakeCaseRepo(), newFakeReminderRepo())
	require.False(t, s.CanHandle(staffContext("hire", "g1", "u1", false, nil)))
	require.False(t, s.CanHandle(caseContext("open", "g1", "u1", false, nil)))
}
