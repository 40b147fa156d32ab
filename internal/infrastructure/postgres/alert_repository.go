package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create persiste una alerta.
func (r *AlertRepo) Create(alert *entity.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_alerts (id, record_id, type, message, active, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.RecordID, alert.Type, alert.Message, alert.Active,
		alert.CreatedAt, alert.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID; nil si no existe.
func (r *AlertRepo) GetByID(id string) (*entity.Alert, error) {
	query := `
		SELECT id, record_id, type, message, active, created_at, resolved_at
		FROM inventory_alerts WHERE id = $1`
	var a entity.Alert
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.RecordID, &a.Type, &a.Message, &a.Active, &a.CreatedAt, &a.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return &a, nil
}

// HasActiveByType indica si el registro tiene una alerta activa del tipo dado.
func (r *AlertRepo) HasActiveByType(recordID, alertType string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(), `
		SELECT EXISTS(
			SELECT 1 FROM inventory_alerts
			WHERE record_id = $1 AND type = $2 AND active = true
		)`, recordID, alertType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has active alert: %w", err)
	}
	return exists, nil
}

// ListByRecord lista las alertas de un registro, más recientes primero.
func (r *AlertRepo) ListByRecord(recordID string, activeOnly bool) ([]*entity.Alert, error) {
	query := `
		SELECT id, record_id, type, message, active, created_at, resolved_at
		FROM inventory_alerts WHERE record_id = $1`
	if activeOnly {
		query += ` AND active = true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.Query(context.Background(), query, recordID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Alert
	for rows.Next() {
		var a entity.Alert
		if err := rows.Scan(&a.ID, &a.RecordID, &a.Type, &a.Message, &a.Active,
			&a.CreatedAt, &a.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Resolve desactiva la alerta y fija resolved_at.
func (r *AlertRepo) Resolve(id string) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE inventory_alerts SET active = false, resolved_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	return nil
}
