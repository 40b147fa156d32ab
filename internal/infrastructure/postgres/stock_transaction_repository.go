package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo implementación del libro de movimientos sobre PostgreSQL.
// La tabla stock_transactions es append-only: este adaptador no expone UPDATE ni
// DELETE y ningún asiento se reescribe después de creado.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Append persiste un asiento inmutable del libro.
func (r *StockTransactionRepo) Append(tx *entity.StockTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (id, record_id, type, quantity, reason, reference, notes, performed_by, cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.RecordID, tx.Type, tx.Quantity, tx.Reason, tx.Reference,
		tx.Notes, tx.PerformedBy, tx.Cost, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append stock transaction: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID; nil si no existe.
func (r *StockTransactionRepo) GetByID(id string) (*entity.StockTransaction, error) {
	query := `
		SELECT id, record_id, type, quantity, reason, reference, notes, performed_by, cost, created_at
		FROM stock_transactions WHERE id = $1`
	var tx entity.StockTransaction
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&tx.ID, &tx.RecordID, &tx.Type, &tx.Quantity, &tx.Reason, &tx.Reference,
		&tx.Notes, &tx.PerformedBy, &tx.Cost, &tx.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}
	return &tx, nil
}

// ListByRecord lista asientos de un registro en un rango de fechas, más recientes primero.
func (r *StockTransactionRepo) ListByRecord(recordID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	query := `
		SELECT id, record_id, type, quantity, reason, reference, notes, performed_by, cost, created_at
		FROM stock_transactions WHERE record_id = $1`
	args := []any{recordID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockTransaction
	for rows.Next() {
		var tx entity.StockTransaction
		if err := rows.Scan(&tx.ID, &tx.RecordID, &tx.Type, &tx.Quantity, &tx.Reason,
			&tx.Reference, &tx.Notes, &tx.PerformedBy, &tx.Cost, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, &tx)
	}
	return list, rows.Err()
}

// CountByRecord cuenta los asientos de un registro.
func (r *StockTransactionRepo) CountByRecord(recordID string) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM stock_transactions WHERE record_id = $1`, recordID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count stock transactions: %w", err)
	}
	return n, nil
}
