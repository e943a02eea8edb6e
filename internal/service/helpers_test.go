package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/config"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/events"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/observability"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/queue"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/repository"
	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/validation"
)

type memStaffRepo struct {
	mu     sync.Mutex
	nextID int
	byKey  map[string]*domain.Staff
}

var _ repository.StaffRepository = (*memStaffRepo)(nil)

func newMemStaffRepo() *memStaffRepo {
	return &memStaffRepo{byKey: make(map[string]*domain.Staff)}
}

func staffKey(guildID, userID string) string {
	return guildID + "/" + userID
}

func (r *memStaffRepo) Create(ctx context.Context, staff *domain.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := staffKey(staff.GuildID, staff.UserID)
	// Mirrors the UNIQUE (guild_id, user_id) constraint on the staff table.
	if _, ok := r.byKey[key]; ok {
		return &pgconn.PgError{Code: "23505", ConstraintName: "staff_guild_id_user_id_key"}
	}
	r.nextID++
	staff.ID = fmt.Sprintf("staff-%d", r.nextID)
	clone := *staff
	r.byKey[key] = &clone
	return nil
}

func (r *memStaffRepo) Update(ctx context.Context, staff *domain.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := staffKey(staff.GuildID, staff.UserID)
	if _, ok := r.byKey[key]; !ok {
		return pgx.ErrNoRows
	}
	clone := *staff
	r.byKey[key] = &clone
	return nil
}

func (r *memStaffRepo) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, staff := range r.byKey {
		if staff.ID == id {
			clone := *staff
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memStaffRepo) GetByUserID(ctx context.Context, guildID, userID string) (*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.byKey[staffKey(guildID, userID)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *staff
	return &clone, nil
}

func (r *memStaffRepo) List(ctx context.Context, filter repository.StaffFilter) ([]domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Staff
	for _, staff := range r.byKey {
		if staff.GuildID != filter.GuildID {
			continue
		}
		if filter.Role != nil && staff.Role != *filter.Role {
			continue
		}
		if filter.Status != nil && staff.Status != *filter.Status {
			continue
		}
		out = append(out, *staff)
	}
	return out, nil
}

func (r *memStaffRepo) CountActiveByRole(ctx context.Context, guildID string, role domain.StaffRole) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, staff := range r.byKey {
		if staff.GuildID == guildID && staff.Role == role && staff.IsActive() {
			count++
		}
	}
	return count, nil
}

type memCaseRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]*domain.Case
}

var _ repository.CaseRepository = (*memCaseRepo)(nil)

func newMemCaseRepo() *memCaseRepo {
	return &memCaseRepo{byID: make(map[string]*domain.Case)}
}

func (r *memCaseRepo) Create(ctx context.Context, c *domain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = fmt.Sprintf("case-%d", r.nextID)
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *memCaseRepo) Update(ctx context.Context, c *domain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *memCaseRepo) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *c
	clone.AssignedLawyerIDs = append([]string(nil), c.AssignedLawyerIDs...)
	return &clone, nil
}

func (r *memCaseRepo) GetByCaseNumber(ctx context.Context, guildID string, caseNumber int64) (*domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.GuildID == guildID && c.CaseNumber == caseNumber {
			clone := *c
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memCaseRepo) List(ctx context.Context, filter repository.CaseFilter) ([]domain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Case
	for _, c := range r.byID {
		if c.GuildID == filter.GuildID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCaseRepo) CountOpenByClient(ctx context.Context, guildID, clientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, c := range r.byID {
		if c.GuildID == guildID && c.ClientID == clientID && c.Status != domain.CaseStatusClosed {
			count++
		}
	}
	return count, nil
}

func (r *memCaseRepo) CountActiveByLawyer(ctx context.Context, guildID, lawyerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, c := range r.byID {
		if c.GuildID != guildID || c.Status == domain.CaseStatusClosed {
			continue
		}
		for _, id := range c.AssignedLawyerIDs {
			if id == lawyerID {
				count++
				break
			}
		}
	}
	return count, nil
}

type memCounter struct {
	mu   sync.Mutex
	last map[string]int64
}

var _ repository.CaseCounter = (*memCounter)(nil)

func newMemCounter() *memCounter {
	return &memCounter{last: make(map[string]int64)}
}

func (c *memCounter) Next(ctx context.Context, guildID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[guildID]++
	return c.last[guildID], nil
}

type memAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

var _ repository.AuditLogRepository = (*memAuditRepo)(nil)

func (r *memAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = fmt.Sprintf("audit-%d", len(r.entries)+1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memAuditRepo) ListByGuild(ctx context.Context, guildID string, limit, offset int) ([]domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AuditLog
	for _, entry := range r.entries {
		if entry.GuildID == guildID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *memAuditRepo) byAction(action domain.AuditAction) []domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AuditLog
	for _, entry := range r.entries {
		if entry.Action == action {
			out = append(out, entry)
		}
	}
	return out
}

type allowAllChecker struct{}

func (allowAllChecker) HasActionPermission(ctx context.Context, pc domain.PermissionContext, action string) (bool, error) {
	return true, nil
}

// testFixture wires real queue, orchestrator and strategies over in-memory
// repositories.
type testFixture struct {
	staffRepo  *memStaffRepo
	caseRepo   *memCaseRepo
	auditRepo  *memAuditRepo
	dispatcher events.Dispatcher
	validator  *validation.Orchestrator
	queue      *queue.Queue
	staff      *StaffService
	cases      *CaseService
}

func newTestFixture() *testFixture {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cfg := config.ValidationConfig{
		CacheTTLSeconds:  5,
		CacheMaxEntries:  100,
		CacheEvictBatch:  20,
		BypassTTLMinutes: 5,
	}

	f := &testFixture{
		staffRepo:  newMemStaffRepo(),
		caseRepo:   newMemCaseRepo(),
		auditRepo:  &memAuditRepo{},
		dispatcher: events.NewInMemoryDispatcher(),
	}

	f.validator = validation.NewOrchestrator(cfg, logger, metrics)
	f.validator.RegisterStrategy(validation.NewPermissionStrategy(allowAllChecker{}))
	f.validator.RegisterStrategy(validation.NewBusinessRuleStrategy(f.staffRepo, f.caseRepo))

	f.queue = queue.New(0, logger, metrics)

	NewAuditService(f.dispatcher, f.auditRepo, logger).RegisterHandlers()

	f.staff = NewStaffService(StaffDependencies{
		StaffRepo:  f.staffRepo,
		Queue:      f.queue,
		Validator:  f.validator,
		Dispatcher: f.dispatcher,
		Logger:     logger,
	})
	f.cases = NewCaseService(CaseDependencies{
		CaseRepo:   f.caseRepo,
		Counter:    newMemCounter(),
		Queue:      f.queue,
		Validator:  f.validator,
		Dispatcher: f.dispatcher,
		Logger:     logger,
	})
	return f
}

func ownerActor(guildID string) domain.PermissionContext {
	return domain.PermissionContext{
		GuildID:      guildID,
		UserID:       "owner-1",
		IsGuildOwner: true,
	}
}

func memberActor(guildID, userID string, roles ...string) domain.PermissionContext {
	return domain.PermissionContext{
		GuildID:   guildID,
		UserID:    userID,
		UserRoles: roles,
	}
}
