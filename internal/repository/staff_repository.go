package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

// StaffRepository handles persistence for staff members.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) error
	Update(ctx context.Context, staff *domain.Staff) error
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	GetByUserID(ctx context.Context, guildID, userID string) (*domain.Staff, error)
	List(ctx context.Context, filter StaffFilter) ([]domain.Staff, error)
	CountActiveByRole(ctx context.Context, guildID string, role domain.StaffRole) (int, error)
}

// StaffFilter defines query params for staff listing.
type StaffFilter struct {
	GuildID string
	Role    *domain.StaffRole
	Status  *domain.StaffStatus
	Limit   int
	Offset  int
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, guild_id, user_id, roblox_username, role, status, hired_at, hired_by, promotion_history, created_at, updated_at`

func (r *staffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	history, err := json.Marshal(staff.PromotionHistory)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO staff (guild_id, user_id, roblox_username, role, status, hired_at, hired_by, promotion_history)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		staff.GuildID,
		staff.UserID,
		staff.RobloxUsername,
		staff.Role,
		staff.Status,
		staff.HiredAt,
		staff.HiredBy,
		history,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	history, err := json.Marshal(staff.PromotionHistory)
	if err != nil {
		return err
	}
	const query = `
        UPDATE staff
        SET role=$1, status=$2, roblox_username=$3, hired_at=$4, hired_by=$5, promotion_history=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		staff.Role,
		staff.Status,
		staff.RobloxUsername,
		staff.HiredAt,
		staff.HiredBy,
		history,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *staffRepository) GetByUserID(ctx context.Context, guildID, userID string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE guild_id=$1 AND user_id=$2`
	return r.scanOne(r.pool.QueryRow(ctx, query, guildID, userID))
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter) ([]domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff`
	args := []any{}
	clauses := []string{}

	if filter.GuildID != "" {
		args = append(args, filter.GuildID)
		clauses = append(clauses, fmt.Sprintf("guild_id=$%d", len(args)))
	}
	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY hired_at ASC"
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

	var result []domain.Staff
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) CountActiveByRole(ctx context.Context, guildID string, role domain.StaffRole) (int, error) {
	const query = `SELECT COUNT(*) FROM staff WHERE guild_id=$1 AND role=$2 AND status=$3`
	var count int
	err := r.pool.QueryRow(ctx, query, guildID, role, domain.StaffStatusActive).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *staffRepository) scanOne(row rowScanner) (*domain.Staff, error) {
	return scanStaff(row)
}

func scanStaff(row rowScanner) (*domain.Staff, error) {
	var staff domain.Staff
	var history []byte
	if err := row.Scan(
		&staff.ID,
		&staff.GuildID,
		&staff.UserID,
		&staff.RobloxUsername,
		&staff.Role,
		&staff.Status,
		&staff.HiredAt,
		&staff.HiredBy,
		&history,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &staff.PromotionHistory); err != nil {
			return nil, err
		}
	}
	return &staff, nil
}
