package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

// ReminderRepository persists case follow-ups.
type ReminderRepository interface {
	Create(ctx context.Context, reminder *domain.Reminder) error
	Resolve(ctx context.Context, id string) error
	ListByCase(ctx context.Context, caseID string) ([]domain.Reminder, error)
	CountUnresolvedByCase(ctx context.Context, caseID string) (int, error)
}

type reminderRepository struct {
	pool *pgxpool.Pool
}

// NewReminderRepository instantiates the repository.
func NewReminderRepository(pool *pgxpool.Pool) ReminderRepository {
	return &reminderRepository{pool: pool}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *domain.Reminder) error {
	const query = `
        INSERT INTO reminders (guild_id, case_id, owner_id, message, due_at, resolved)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		reminder.GuildID,
		reminder.CaseID,
		reminder.OwnerID,
		reminder.Message,
		reminder.DueAt,
		reminder.Resolved,
	).Scan(&reminder.ID, &reminder.CreatedAt)
}

func (r *reminderRepository) Resolve(ctx context.Context, id string) error {
	const query = `UPDATE reminders SET resolved=TRUE WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reminderRepository) ListByCase(ctx context.Context, caseID string) ([]domain.Reminder, error) {
	const query = `
        SELECT id, guild_id, case_id, owner_id, message, due_at, resolved, created_at
        FROM reminders WHERE case_id=$1 ORDER BY due_at ASC`

	rows, err := r.pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Reminder
	for rows.Next() {
		var reminder domain.Reminder
		if err := rows.Scan(
			&reminder.ID,
			&reminder.GuildID,
			&reminder.CaseID,
			&reminder.OwnerID,
			&reminder.Message,
			&reminder.DueAt,
			&reminder.Resolved,
			&reminder.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reminder)
	}
	return result, rows.Err()
}

func (r *reminderRepository) CountUnresolvedByCase(ctx context.Context, caseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM reminders WHERE case_id=$1 AND resolved=FALSE`
	var count int
	err := r.pool.QueryRow(ctx, query, caseID).Scan(&count)
	return count, err
}
