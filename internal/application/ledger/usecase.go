package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	domledger "github.com/tu-usuario/stock-ledger/internal/domain/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// StockLedgerUseCase aplica las mutaciones de stock (add, remove, reserve, release)
// de forma transaccional, con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Cada mutación termina con el recompute de campos derivados antes del commit.
type StockLedgerUseCase struct {
	txRunner TxRunner
}

// NewStockLedgerUseCase construye el caso de uso.
func NewStockLedgerUseCase(txRunner TxRunner) *StockLedgerUseCase {
	return &StockLedgerUseCase{txRunner: txRunner}
}

// AddStockInput entrada para una adición de stock (compra, devolución, ajuste positivo...).
type AddStockInput struct {
	ProductID   string
	Quantity    int64
	Type        string // vacío = purchase
	PerformedBy string
	Reason      string
	Notes       string
	Cost        *decimal.Decimal
}

// RemoveStockInput entrada para una salida de stock (venta, daño, vencimiento...).
type RemoveStockInput struct {
	ProductID   string
	Quantity    int64
	Type        string // vacío = sale
	PerformedBy string
	Reason      string
	Reference   string
	Notes       string
}

// AddStock suma cantidad al stock físico, registra el asiento con cantidad positiva y,
// si la entrada trae costo, recalcula el costo promedio ponderado.
func (uc *StockLedgerUseCase) AddStock(ctx context.Context, input AddStockInput) (*entity.InventoryRecord, error) {
	if input.Type == "" {
		input.Type = entity.TransactionTypePurchase
	}
	if input.ProductID == "" || input.PerformedBy == "" || !entity.ValidTransactionType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.Cost != nil && input.Cost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.InventoryRecord
	err := uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		txRepo repository.StockTransactionRepository,
		alertRepo repository.AlertRepository,
	) error {
		// Bloquea la fila del registro para serializar escritores concurrentes.
		rec, err := recordRepo.GetForUpdateByProduct(input.ProductID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}

		oldStock := rec.CurrentStock
		rec.CurrentStock += input.Quantity
		if input.Cost != nil {
			rec.AverageCost = domledger.WeightedAverageCost(oldStock, rec.AverageCost, input.Quantity, *input.Cost)
			rec.LastPurchasePrice = *input.Cost
		}

		now := time.Now()
		if err := txRepo.Append(&entity.StockTransaction{
			RecordID:    rec.ID,
			Type:        input.Type,
			Quantity:    input.Quantity,
			Reason:      input.Reason,
			Notes:       input.Notes,
			PerformedBy: input.PerformedBy,
			Cost:        input.Cost,
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		if err := commitRecompute(rec, recordRepo, alertRepo, now); err != nil {
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveStock resta cantidad del stock físico. Precondición: quantity <= availableStock
// evaluado contra el estado persistido bajo el bloqueo de fila; si no alcanza, falla con
// ErrInsufficientStock sin mutar nada (rollback de la tx).
func (uc *StockLedgerUseCase) RemoveStock(ctx context.Context, input RemoveStockInput) (*entity.InventoryRecord, error) {
	if input.Type == "" {
		input.Type = entity.TransactionTypeSale
	}
	if input.ProductID == "" || input.PerformedBy == "" || !entity.ValidTransactionType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.InventoryRecord
	err := uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		txRepo repository.StockTransactionRepository,
		alertRepo repository.AlertRepository,
	) error {
		rec, err := recordRepo.GetForUpdateByProduct(input.ProductID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if input.Quantity > availableOf(rec) {
			return domain.ErrInsufficientStock
		}

		rec.CurrentStock -= input.Quantity

		now := time.Now()
		if err := txRepo.Append(&entity.StockTransaction{
			RecordID:    rec.ID,
			Type:        input.Type,
			Quantity:    -input.Quantity,
			Reason:      input.Reason,
			Reference:   input.Reference,
			Notes:       input.Notes,
			PerformedBy: input.PerformedBy,
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		if err := commitRecompute(rec, recordRepo, alertRepo, now); err != nil {
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReserveStock aparta cantidad contra órdenes pendientes. Es una retención blanda:
// no mueve stock físico ni genera asiento en el libro.
func (uc *StockLedgerUseCase) ReserveStock(ctx context.Context, productID string, quantity int64) (*entity.InventoryRecord, error) {
	if productID == "" || quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.InventoryRecord
	err := uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		_ repository.StockTransactionRepository,
		alertRepo repository.AlertRepository,
	) error {
		rec, err := recordRepo.GetForUpdateByProduct(productID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if quantity > availableOf(rec) {
			return domain.ErrInsufficientStock
		}

		rec.ReservedStock += quantity
		if err := commitRecompute(rec, recordRepo, alertRepo, time.Now()); err != nil {
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReleaseReservedStock libera una retención. Acota en cero en vez de fallar por
// sobre-liberación; liberar cero es un no-op válido.
func (uc *StockLedgerUseCase) ReleaseReservedStock(ctx context.Context, productID string, quantity int64) (*entity.InventoryRecord, error) {
	if productID == "" || quantity < 0 {
		return nil, domain.ErrInvalidInput
	}

	var result *entity.InventoryRecord
	err := uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		_ repository.StockTransactionRepository,
		alertRepo repository.AlertRepository,
	) error {
		rec, err := recordRepo.GetForUpdateByProduct(productID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}

		rec.ReservedStock -= quantity
		if rec.ReservedStock < 0 {
			rec.ReservedStock = 0
		}
		if err := commitRecompute(rec, recordRepo, alertRepo, time.Now()); err != nil {
			return err
		}
		result = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// availableOf calcula el disponible contra el estado recién leído bajo el lock,
// sin confiar en el campo derivado persistido.
func availableOf(rec *entity.InventoryRecord) int64 {
	available := rec.CurrentStock - rec.ReservedStock
	if available < 0 {
		return 0
	}
	return available
}

// commitRecompute ejecuta el pase de campos derivados justo antes del commit:
// recalcula disponible y estado, inserta la alerta low_stock si corresponde y
// persiste el registro con chequeo de versión.
func commitRecompute(
	rec *entity.InventoryRecord,
	recordRepo repository.InventoryRecordRepository,
	alertRepo repository.AlertRepository,
	now time.Time,
) error {
	hasActive, err := alertRepo.HasActiveByType(rec.ID, entity.AlertTypeLowStock)
	if err != nil {
		return err
	}
	if alert := domledger.Recompute(rec, hasActive); alert != nil {
		alert.CreatedAt = now
		if err := alertRepo.Create(alert); err != nil {
			return err
		}
	}
	rec.UpdatedAt = now
	return recordRepo.Update(rec)
}
