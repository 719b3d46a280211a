package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opsalert/dispatch-console/internal/domain"
)

// ErrRecordNotPending is returned when a status update finds no PENDING row
// with the given id, either because it does not exist or because it was
// already reconciled.
var ErrRecordNotPending = errors.New("dispatch record not found or already reconciled")

const dispatchLogColumns = `id, entidade_id, user_id, acao, canal, COALESCE(regional, '') AS regional, mensagem, status, protocolo, created_at`

// DispatchLogRepository handles the activity_logs audit table. Rows are
// never deleted and entidade_id is never updated.
type DispatchLogRepository struct {
	db *sqlx.DB
}

func NewDispatchLogRepository(db *sqlx.DB) *DispatchLogRepository {
	return &DispatchLogRepository{db: db}
}

func (r *DispatchLogRepository) Create(ctx context.Context, rec domain.NewDispatchRecord) (*domain.DispatchRecord, error) {
	record := &domain.DispatchRecord{
		ID:         uuid.NewString(),
		EntidadeID: rec.EntidadeID,
		Acao:       rec.Acao,
		Canal:      rec.Canal,
		Regional:   rec.Regional,
		Mensagem:   rec.Mensagem,
		Status:     domain.StatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if rec.UserID != "" {
		userID := rec.UserID
		record.UserID = &userID
	}

	query := r.db.Rebind(`
		INSERT INTO activity_logs (id, entidade_id, user_id, acao, canal, regional, mensagem, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	result, err := r.db.ExecContext(ctx, query,
		record.ID, record.EntidadeID, record.UserID, record.Acao, record.Canal,
		record.Regional, record.Mensagem, record.Status, record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatch record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows != 1 {
		return nil, fmt.Errorf("failed to create dispatch record: %d rows affected", rows)
	}

	return record, nil
}

// UpdateStatus moves a PENDING record to a terminal status. A nil protocol
// leaves the stored protocolo untouched.
func (r *DispatchLogRepository) UpdateStatus(ctx context.Context, id string, status domain.DispatchStatus, protocol *string) error {
	if status != domain.StatusSuccess && status != domain.StatusFailed {
		return fmt.Errorf("invalid terminal status %q", status)
	}

	query := r.db.Rebind(`
		UPDATE activity_logs
		SET status = ?, protocolo = COALESCE(?, protocolo)
		WHERE id = ? AND status = 'PENDING'
	`)

	result, err := r.db.ExecContext(ctx, query, status, protocol, id)
	if err != nil {
		return fmt.Errorf("failed to update dispatch record %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update %s to %s: %w", id, status, ErrRecordNotPending)
	}

	return nil
}

// GetByIDForTenant returns nil, nil when no record with id belongs to tenantID.
func (r *DispatchLogRepository) GetByIDForTenant(ctx context.Context, id, tenantID string) (*domain.DispatchRecord, error) {
	query := r.db.Rebind(`SELECT ` + dispatchLogColumns + ` FROM activity_logs WHERE id = ? AND entidade_id = ?`)

	var record domain.DispatchRecord
	if err := r.db.GetContext(ctx, &record, query, id, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dispatch record: %w", err)
	}

	return &record, nil
}

func (r *DispatchLogRepository) ListByTenant(
	ctx context.Context,
	tenantID string,
	status *domain.DispatchStatus,
	page,
	pageSize int,
) ([]domain.DispatchRecord, int64, error) {
	offset := (page - 1) * pageSize

	where := "WHERE entidade_id = ?"
	args := []any{tenantID}
	if status != nil {
		where += " AND status = ?"
		args = append(args, *status)
	}

	var totalCount int64
	countQuery := r.db.Rebind("SELECT COUNT(*) FROM activity_logs " + where)
	if err := r.db.GetContext(ctx, &totalCount, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count dispatch records: %w", err)
	}

	query := r.db.Rebind(`SELECT ` + dispatchLogColumns + ` FROM activity_logs ` + where + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`)

	records := []domain.DispatchRecord{}
	if err := r.db.SelectContext(ctx, &records, query, append(args, pageSize, offset)...); err != nil {
		return nil, 0, fmt.Errorf("failed to list dispatch records: %w", err)
	}

	return records, totalCount, nil
}

func (r *DispatchLogRepository) GetStats(ctx context.Context, tenantID string) (*domain.DispatchStats, error) {
	query := r.db.Rebind(`
		SELECT
			COALESCE(SUM(CASE WHEN status = 'PENDING' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'SUCCESS' THEN 1 ELSE 0 END), 0) AS success,
			COALESCE(SUM(CASE WHEN status = 'FAILED' THEN 1 ELSE 0 END), 0) AS failed
		FROM activity_logs
		WHERE entidade_id = ?
	`)

	var stats domain.DispatchStats
	if err := r.db.QueryRowxContext(ctx, query, tenantID).Scan(&stats.Pending, &stats.Success, &stats.Failed); err != nil {
		return nil, fmt.Errorf("failed to get dispatch stats: %w", err)
	}

	stats.Total = stats.Pending + stats.Success + stats.Failed

	return &stats, nil
}
