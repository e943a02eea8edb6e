package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

// CaseRepository handles persistence for cases.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	Update(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	GetByCaseNumber(ctx context.Context, guildID string, caseNumber int64) (*domain.Case, error)
	List(ctx context.Context, filter CaseFilter) ([]domain.Case, error)
	CountOpenByClient(ctx context.Context, guildID, clientID string) (int, error)
	CountActiveByLawyer(ctx context.Context, guildID, lawyerID string) (int, error)
}

// CaseFilter defines query params for case listing.
type CaseFilter struct {
	GuildID  string
	ClientID *string
	LawyerID *string
	Statuses []domain.CaseStatus
	Priority *domain.CasePriority
	Limit    int
	Offset   int
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates the repository.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

const caseColumns = `id, guild_id, case_number, client_id, client_username, title, description,
        status, priority, lead_attorney_id, assigned_lawyer_ids, result, result_notes,
        closed_at, closed_by, created_at, updated_at`

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	const query = `
        INSERT INTO cases (guild_id, case_number, client_id, client_username, title, description,
            status, priority, lead_attorney_id, assigned_lawyer_ids)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		c.GuildID,
		c.CaseNumber,
		c.ClientID,
		c.ClientUsername,
		c.Title,
		c.Description,
		c.Status,
		c.Priority,
		c.LeadAttorneyID,
		c.AssignedLawyerIDs,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *caseRepository) Update(ctx context.Context, c *domain.Case) error {
	const query = `
        UPDATE cases
        SET status=$1, priority=$2, lead_attorney_id=$3, assigned_lawyer_ids=$4,
            result=$5, result_notes=$6, closed_at=$7, closed_by=$8, updated_at=NOW()
        WHERE id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		c.Status,
		c.Priority,
		c.LeadAttorneyID,
		c.AssignedLawyerIDs,
		c.Result,
		c.ResultNotes,
		c.ClosedAt,
		c.ClosedBy,
		c.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id=$1`
	return scanCase(r.pool.QueryRow(ctx, query, id))
}

func (r *caseRepository) GetByCaseNumber(ctx context.Context, guildID string, caseNumber int64) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE guild_id=$1 AND case_number=$2`
	return scanCase(r.pool.QueryRow(ctx, query, guildID, caseNumber))
}

func (r *caseRepository) List(ctx context.Context, filter CaseFilter) ([]domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases`
	args := []any{}
	clauses := []string{}

	if filter.GuildID != "" {
		args = append(args, filter.GuildID)
		clauses = append(clauses, fmt.Sprintf("guild_id=$%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.LawyerID != nil {
		args = append(args, *filter.LawyerID)
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(assigned_lawyer_ids)", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			args = append(args, status)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY case_number DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *caseRepository) CountOpenByClient(ctx context.Context, guildID, clientID string) (int, error) {
	const query = `SELECT COUNT(*) FROM cases WHERE guild_id=$1 AND client_id=$2 AND status != $3`
	var count int
	err := r.pool.QueryRow(ctx, query, guildID, clientID, domain.CaseStatusClosed).Scan(&count)
	return count, err
}

func (r *caseRepository) CountActiveByLawyer(ctx context.Context, guildID, lawyerID string) (int, error) {
	const query = `SELECT COUNT(*) FROM cases WHERE guild_id=$1 AND $2 = ANY(assigned_lawyer_ids) AND status != $3`
	var count int
	err := r.pool.QueryRow(ctx, query, guildID, lawyerID, domain.CaseStatusClosed).Scan(&count)
	return count, err
}

func scanCase(row rowScanner) (*domain.Case, error) {
	var c domain.Case
	if err := row.Scan(
		&c.ID,
		&c.GuildID,
		&c.CaseNumber,
		&c.ClientID,
		&c.ClientUsername,
		&c.Title,
		&c.Description,
		&c.Status,
		&c.Priority,
		&c.LeadAttorneyID,
		&c.AssignedLawyerIDs,
		&c.Result,
		&c.ResultNotes,
		&c.ClosedAt,
		&c.ClosedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
