package repository

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// InventoryRecordRepository define el puerto de persistencia del registro de inventario.
// Las mutaciones del ledger deben usar GetForUpdateByProduct dentro de una transacción
// para serializar escritores concurrentes sobre el mismo registro.
type InventoryRecordRepository interface {
	Create(rec *entity.InventoryRecord) error
	GetByProduct(productID string) (*entity.InventoryRecord, error)
	// GetForUpdateByProduct bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdateByProduct(productID string) (*entity.InventoryRecord, error)
	// Update persiste el registro exigiendo la versión leída (WHERE version = $n) y la
	// incrementa; devuelve domain.ErrConcurrencyConflict si otro escritor ganó.
	Update(rec *entity.InventoryRecord) error
	// ListAtOrBelowReorderLevel devuelve los registros con stock en o bajo su nivel de
	// reorden, mayor déficit primero (insumo del reporte de reposición).
	ListAtOrBelowReorderLevel(limit int) ([]*entity.InventoryRecord, error)
}
