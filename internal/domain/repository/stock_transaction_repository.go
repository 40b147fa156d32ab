package repository

import (
	"time"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// StockTransactionRepository define el puerto del libro de movimientos (append-only:
// no hay Update ni Delete; los asientos jamás se reescriben).
type StockTransactionRepository interface {
	Append(tx *entity.StockTransaction) error
	GetByID(id string) (*entity.StockTransaction, error)
	// ListByRecord lista asientos de un registro en un rango de fechas, más recientes primero.
	ListByRecord(recordID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error)
	CountByRecord(recordID string) (int64, error)
}
