package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kongdonovan/anarchy-and-associates-sub004/internal/domain"
)

// AuditLogRepository persists the append-only audit trail.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListByGuild(ctx context.Context, guildID string, limit, offset int) ([]domain.AuditLog, error)
}

type auditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository instantiates the repository.
func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &auditLogRepository{pool: pool}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO audit_logs (guild_id, action, actor_id, target_id, details)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		entry.GuildID,
		entry.Action,
		entry.ActorID,
		entry.TargetID,
		details,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditLogRepository) ListByGuild(ctx context.Context, guildID string, limit, offset int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `
        SELECT id, guild_id, action, actor_id, target_id, details, created_at
        FROM audit_logs WHERE guild_id=$1
        ORDER BY created_at DESC`
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditLog
	for rows.Next() {
		var entry domain.AuditLog
		var details []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.GuildID,
			&entry.Action,
			&entry.ActorID,
			&entry.TargetID,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, err
			}
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
