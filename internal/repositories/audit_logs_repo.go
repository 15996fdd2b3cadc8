package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"leaseadmin/internal/models"
)

// Database is the slice of pgxpool.Pool the repositories need; tests hand
// in a pgxmock pool instead.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AuditLogsRepository interface {
	// Create a new audit entry
	Create(ctx context.Context, entry *models.AuditLog) error

	// List entries matching the filters, newest first
	List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error)

	// ListByEntity returns the trail for one entity
	ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]*models.AuditLog, error)

	// DeleteOlderThan removes entries past the retention window
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type auditLogsRepo struct {
	db Database
}

func NewAuditLogsRepo(db Database) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	detail, err := json.Marshal(entry.Detail)
	if err != nil {
		return fmt.Errorf("marshal audit detail: %w", err)
	}

	query := `
		INSERT INTO audit_logs (id, actor, action, entity, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.Exec(ctx, query, entry.ID, entry.Actor, entry.Action, entry.Entity, entry.EntityID, detail, entry.CreatedAt)
	return err
}

func (r *auditLogsRepo) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	query := `
		SELECT id, actor, action, entity, entity_id, detail, created_at
		FROM audit_logs
		WHERE 1=1
	`
	args := []any{}
	idx := 1

	if filters.Actor != nil {
		query += fmt.Sprintf(" AND actor = $%d", idx)
		args = append(args, *filters.Actor)
		idx++
	}
	if filters.Action != nil {
		query += fmt.Sprintf(" AND action = $%d", idx)
		args = append(args, *filters.Action)
		idx++
	}
	if filters.Entity != nil {
		query += fmt.Sprintf(" AND entity = $%d", idx)
		args = append(args, *filters.Entity)
		idx++
	}
	if filters.EntityID != nil {
		query += fmt.Sprintf(" AND entity_id = $%d", idx)
		args = append(args, *filters.EntityID)
		idx++
	}
	if filters.Since != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", idx)
		args = append(args, *filters.Since)
		idx++
	}
	if filters.Until != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", idx)
		args = append(args, *filters.Until)
		idx++
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, filters.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func (r *auditLogsRepo) ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, actor, action, entity, entity_id, detail, created_at
		FROM audit_logs
		WHERE entity = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, entity, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func (r *auditLogsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanAuditLogs(rows pgx.Rows) ([]*models.AuditLog, error) {
	var entries []*models.AuditLog
	for rows.Next() {
		entry := &models.AuditLog{}
		var detail []byte
		if err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &entry.Entity, &entry.EntityID, &detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &entry.Detail); err != nil {
				return nil, fmt.Errorf("unmarshal audit detail: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
