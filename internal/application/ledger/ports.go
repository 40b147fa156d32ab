package ledger

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Es la frontera atómica read-modify-write del ledger: junto con el
// bloqueo de fila del repositorio garantiza que dos mutaciones concurrentes sobre el
// mismo registro se serialicen y la segunda reevalúe su precondición.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		txRepo repository.StockTransactionRepository,
		alertRepo repository.AlertRepository,
	) error) error
}

// ReportPDFGenerator genera el PDF del reporte de stock bajo (puerto de infraestructura).
type ReportPDFGenerator interface {
	GenerateLowStockReport(ctx context.Context, records []*entity.InventoryRecord) ([]byte, error)
}
