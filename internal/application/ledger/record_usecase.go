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

// RecordUseCase administra el ciclo de vida del registro de inventario: alta al
// onboarding del producto, consulta, cambio de estado administrativo y lecturas del
// libro y de alertas. El registro nunca se borra desde aquí.
type RecordUseCase struct {
	txRunner   TxRunner
	recordRepo repository.InventoryRecordRepository
	txRepo     repository.StockTransactionRepository
	alertRepo  repository.AlertRepository
}

// NewRecordUseCase construye el caso de uso. Los repos son los atados al pool
// (lecturas); las escrituras pasan por el TxRunner.
func NewRecordUseCase(
	txRunner TxRunner,
	recordRepo repository.InventoryRecordRepository,
	txRepo repository.StockTransactionRepository,
	alertRepo repository.AlertRepository,
) *RecordUseCase {
	return &RecordUseCase{
		txRunner:   txRunner,
		recordRepo: recordRepo,
		txRepo:     txRepo,
		alertRepo:  alertRepo,
	}
}

// CreateRecordInput alta de un registro (uno por producto, SKU único).
type CreateRecordInput struct {
	ProductID    string
	SKU          string
	InitialStock int64
	ReorderLevel int64
	MaxStock     int64
	CostPrice    *decimal.Decimal
	PerformedBy  string
}

// Create da de alta el registro. Si trae stock inicial, el alta deja su asiento de
// ajuste en el libro (toda mutación de stock queda auditada). Registro duplicado por
// producto o SKU devuelve ErrDuplicate.
func (uc *RecordUseCase) Create(ctx context.Context, input CreateRecordInput) (*entity.InventoryRecord, error) {
	if input.ProductID == "" || input.SKU == "" || input.PerformedBy == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.InitialStock < 0 || input.ReorderLevel < 0 || input.MaxStock < 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	rec := &entity.InventoryRecord{
		ProductID:    input.ProductID,
		SKU:          input.SKU,
		CurrentStock: input.InitialStock,
		ReorderLevel: input.ReorderLevel,
		MaxStock:     input.MaxStock,
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.CostPrice != nil {
		rec.CostPrice = *input.CostPrice
		rec.AverageCost = *input.CostPrice
	}
	// Derivados coherentes desde el primer commit; un alta ya bajo el nivel de
	// reorden nace con su alerta low_stock.
	alert := domledger.Recompute(rec, false)

	err := uc.txRunner.Run(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		txRepo repository.StockTransactionRepository,
		alertRepo repository.AlertRepository,
	) error {
		if err := recordRepo.Create(rec); err != nil {
			return err
		}
		if input.InitialStock > 0 {
			if err := txRepo.Append(&entity.StockTransaction{
				RecordID:    rec.ID,
				Type:        entity.TransactionTypeAdjustment,
				Quantity:    input.InitialStock,
				Reason:      "initial stock",
				PerformedBy: input.PerformedBy,
				Cost:        input.CostPrice,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}
		if alert != nil {
			alert.RecordID = rec.ID
			alert.CreatedAt = now
			return alertRepo.Create(alert)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetByProduct devuelve el registro del producto.
func (uc *RecordUseCase) GetByProduct(ctx context.Context, productID string) (*entity.InventoryRecord, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	rec, err := uc.recordRepo.GetByProduct(productID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// UpdateStatus fija el estado administrativo (active, inactive, discontinued).
// out_of_stock no es asignable: solo lo produce el recompute.
func (uc *RecordUseCase) UpdateStatus(ctx context.Context, productID, status string) (*entity.InventoryRecord, error) {
	switch status {
	case entity.StatusActive, entity.StatusInactive, entity.StatusDiscontinued:
	default:
		return nil, domain.ErrInvalidInput
	}
	if productID == "" {
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
		rec.Status = status
		// Reactivar con stock en cero vuelve a out_of_stock en el mismo pase.
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

// ListTransactions lista los asientos del libro de un producto en un rango de fechas.
func (uc *RecordUseCase) ListTransactions(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	rec, err := uc.GetByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return uc.txRepo.ListByRecord(rec.ID, from, to, limit, offset)
}

// ListAlerts lista las alertas de un producto (opcionalmente solo activas).
func (uc *RecordUseCase) ListAlerts(ctx context.Context, productID string, activeOnly bool) ([]*entity.Alert, error) {
	rec, err := uc.GetByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return uc.alertRepo.ListByRecord(rec.ID, activeOnly)
}

// ResolveAlert desactiva una alerta atendida por un operador.
func (uc *RecordUseCase) ResolveAlert(ctx context.Context, alertID string) error {
	if alertID == "" {
		return domain.ErrInvalidInput
	}
	alert, err := uc.alertRepo.GetByID(alertID)
	if err != nil {
		return err
	}
	if alert == nil {
		return domain.ErrNotFound
	}
	if !alert.Active {
		return domain.ErrConflict
	}
	return uc.alertRepo.Resolve(alertID)
}
