package validation

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/repository"
)

// stubStrategy lets tests script strategy behavior.
type stubStrategy struct {
	name      string
	canHandle bool
	validate  func(ctx context.Context, vc *domain.ValidationContext) (*domain.ValidationResult, error)
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) CanHandle(vc *domain.ValidationContext) bool { return s.canHandle }

func (s *stubStrategy) Validate(ctx context.Context, vc *domain.ValidationContext) (*domain.ValidationResult, error) {
	return s.validate(ctx, vc)
}

// fakeStaffRepo is an in-memory StaffRepository for strategy tests.
type fakeStaffRepo struct {
	counts map[domain.StaffRole]int
	byUser map[string]*domain.Staff
}

var _ repository.StaffRepository = (*fakeStaffRepo)(nil)

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{
		counts: make(map[domain.StaffRole]int),
		byUser: make(map[string]*domain.Staff),
	}
}

func (f *fakeStaffRepo) Create(ctx context.Context, staff *domain.Staff) error { return nil }

func (f *fakeStaffRepo) Update(ctx context.Context, staff *domain.Staff) error { return nil }

func (f *fakeStaffRepo) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) GetByUserID(ctx context.Context, guildID, userID string) (*domain.Staff, error) {
	if staff, ok := f.byUser[guildID+"|"+userID]; ok {
		return staff, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) List(ctx context.Context, filter repository.StaffFilter) ([]domain.Staff, error) {
	return nil, nil
}

func (f *fakeStaffRepo) CountActiveByRole(ctx context.Context, guildID string, role domain.StaffRole) (int, error) {
	return f.counts[role], nil
}

// fakeCaseRepo is an in-memory CaseRepository for strategy tests.
type fakeCaseRepo struct {
	openByClient   map[string]int
	activeByLawyer map[string]int
}

var _ repository.CaseRepository = (*fakeCaseRepo)(nil)

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{
		openByClient:   make(map[string]int),
		activeByLawyer: make(map[string]int),
	}
}

func (f *fakeCaseRepo) Create(ctx context.Context, c *domain.Case) error { return nil }

func (f *fakeCaseRepo) Update(ctx context.Context, c *domain.Case) error { return nil }

func (f *fakeCaseRepo) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeCaseRepo) GetByCaseNumber(ctx context.Context, guildID string, caseNumber int64) (*domain.Case, error) {
	return nil, pgx.ErrNoRows
}

func (f *fakeCaseRepo) List(ctx context.Context, filter repository.CaseFilter) ([]domain.Case, error) {
	return nil, nil
}

func (f *fakeCaseRepo) CountOpenByClient(ctx context.Context, guildID, clientID string) (int, error) {
	return f.openByClient[clientID], nil
}

func (f *fakeCaseRepo) CountActiveByLawyer(ctx context.Context, guildID, lawyerID string) (int, error) {
	return f.activeByLawyer[lawyerID], nil
}

// fakeReminderRepo is an in-memory ReminderRepository for strategy tests.
type fakeReminderRepo struct {
	unresolvedByCase map[string]int
}

var _ repository.ReminderRepository = (*fakeReminderRepo)(nil)

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{unresolvedByCase: make(map[string]int)}
}

func (f *fakeReminderRepo) Create(ctx context.Context, reminder *domain.Reminder) error { return nil }

func (f *fakeReminderRepo) Resolve(ctx context.Context, id string) error { return nil }

func (f *fakeReminderRepo) ListByCase(ctx context.Context, caseID string) ([]domain.Reminder, error) {
	return nil, nil
}

func (f *fakeReminderRepo) CountUnresolvedByCase(ctx context.Context, caseID string) (int, error) {
	return f.unresolvedByCase[caseID], nil
}

// fakeChecker grants the permissions it was seeded with.
type fakeChecker struct {
	granted map[string]bool
}

func (f *fakeChecker) HasActionPermission(ctx context.Context, pc domain.PermissionContext, action string) (bool, error) {
	return f.granted[pc.UserID+"|"+action], nil
}

func staffContext(operation, guildID, actorID string, owner bool, data map[string]any) *domain.ValidationContext {
	return &domain.ValidationContext{
		Permission: domain.PermissionContext{
			GuildID:      guildID,
			UserID:       actorID,
			IsGuildOwner: owner,
		},
		EntityType:     domain.EntityStaff,
		Operation:      operation,
		Data:           data,
		CommandName:    "staff",
		SubcommandName: operation,
	}
}

func caseContext(operation, guildID, actorID string, owner bool, data map[string]any) *domain.ValidationContext {
	return &domain.ValidationContext{
		Permission: domain.PermissionContext{
			GuildID:      guildID,
			UserID:       actorID,
			IsGuildOwner: owner,
		},
		EntityType:     domain.EntityCase,
		Operation:      operation,
		Data:           data,
		CommandName:    "case",
		SubcommandName: operation,
	}
}
