package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación de InventoryRecordRepository sobre PostgreSQL
// (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const recordColumns = `
	id, product_id, sku, current_stock, reserved_stock, available_stock,
	reorder_level, max_stock, cost_price, average_cost, last_purchase_price,
	status, version, created_at, updated_at`

func scanRecord(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := row.Scan(
		&rec.ID, &rec.ProductID, &rec.SKU, &rec.CurrentStock, &rec.ReservedStock,
		&rec.AvailableStock, &rec.ReorderLevel, &rec.MaxStock, &rec.CostPrice,
		&rec.AverageCost, &rec.LastPurchasePrice, &rec.Status, &rec.Version,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create inserta el registro (uno por producto, SKU único). Violación de unicidad
// se traduce a domain.ErrDuplicate.
func (r *InventoryRecordRepo) Create(rec *entity.InventoryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.Version = 1
	query := `
		INSERT INTO inventory_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.ProductID, rec.SKU, rec.CurrentStock, rec.ReservedStock,
		rec.AvailableStock, rec.ReorderLevel, rec.MaxStock, rec.CostPrice,
		rec.AverageCost, rec.LastPurchasePrice, rec.Status, rec.Version,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create inventory record: %w", err)
	}
	return nil
}

// GetByProduct obtiene el registro del producto; nil si no existe.
func (r *InventoryRecordRepo) GetByProduct(productID string) (*entity.InventoryRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM inventory_records WHERE product_id = $1`
	rec, err := scanRecord(r.q.QueryRow(context.Background(), query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return rec, nil
}

// GetForUpdateByProduct obtiene el registro y bloquea la fila (SELECT FOR UPDATE)
// para serializar escritores concurrentes dentro de la transacción.
func (r *InventoryRecordRepo) GetForUpdateByProduct(productID string) (*entity.InventoryRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM inventory_records WHERE product_id = $1 FOR UPDATE`
	rec, err := scanRecord(r.q.QueryRow(context.Background(), query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record for update: %w", err)
	}
	return rec, nil
}

// Update persiste el registro exigiendo la versión leída y la incrementa. Cero filas
// afectadas significa que otro escritor ganó: domain.ErrConcurrencyConflict.
func (r *InventoryRecordRepo) Update(rec *entity.InventoryRecord) error {
	query := `
		UPDATE inventory_records SET
			current_stock = $1, reserved_stock = $2, available_stock = $3,
			reorder_level = $4, max_stock = $5, cost_price = $6, average_cost = $7,
			last_purchase_price = $8, status = $9, version = version + 1, updated_at = $10
		WHERE id = $11 AND version = $12`
	tag, err := r.q.Exec(context.Background(), query,
		rec.CurrentStock, rec.ReservedStock, rec.AvailableStock,
		rec.ReorderLevel, rec.MaxStock, rec.CostPrice, rec.AverageCost,
		rec.LastPurchasePrice, rec.Status, rec.UpdatedAt,
		rec.ID, rec.Version,
	)
	if err != nil {
		return fmt.Errorf("update inventory record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	rec.Version++
	return nil
}

// ListAtOrBelowReorderLevel devuelve los registros con stock en o bajo su nivel de
// reorden, mayor déficit primero.
func (r *InventoryRecordRepo) ListAtOrBelowReorderLevel(limit int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records
		WHERE current_stock <= reorder_level
		ORDER BY (reorder_level - current_stock) DESC
		LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list below reorder level: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
