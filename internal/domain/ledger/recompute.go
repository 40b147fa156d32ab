package ledger

import (
	"fmt"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// Recompute recalcula los campos derivados de un registro de inventario. Debe
// invocarse explícitamente en cada mutación, justo antes del commit (el contrato
// "pre-save" hecho función visible y testeable):
//
//   - AvailableStock = max(0, CurrentStock - ReservedStock)
//   - Status: out_of_stock si CurrentStock <= 0; vuelve a active cuando
//     CurrentStock > 0. Los estados externos (inactive, discontinued) no se tocan.
//   - Si 0 < CurrentStock <= ReorderLevel y no hay alerta low_stock activa,
//     devuelve la alerta a insertar; si no, nil.
//
// hasActiveLowStock es lo que el caller sabe del almacén de alertas; Recompute no
// consulta persistencia.
func Recompute(rec *entity.InventoryRecord, hasActiveLowStock bool) *entity.Alert {
	available := rec.CurrentStock - rec.ReservedStock
	if available < 0 {
		available = 0
	}
	rec.AvailableStock = available

	if !entity.StatusIsExternal(rec.Status) {
		if rec.CurrentStock <= 0 {
			rec.Status = entity.StatusOutOfStock
		} else if rec.Status == entity.StatusOutOfStock {
			rec.Status = entity.StatusActive
		}
	}

	if rec.CurrentStock > 0 && rec.CurrentStock <= rec.ReorderLevel && !hasActiveLowStock {
		return &entity.Alert{
			RecordID: rec.ID,
			Type:     entity.AlertTypeLowStock,
			Message:  fmt.Sprintf("Stock level is low (%d remaining)", rec.CurrentStock),
			Active:   true,
		}
	}
	return nil
}
