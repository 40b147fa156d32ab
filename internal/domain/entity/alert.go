package entity

import "time"

// Tipos de alerta de inventario. Solo low_stock se genera en el recompute;
// overstock/expiry_warning/expired quedan para un escáner periódico externo.
const (
	AlertTypeLowStock      = "low_stock"
	AlertTypeOutOfStock    = "out_of_stock"
	AlertTypeOverstock     = "overstock"
	AlertTypeExpiryWarning = "expiry_warning"
	AlertTypeExpired       = "expired"
)

// Alert es una alerta asociada a un registro de inventario.
type Alert struct {
	ID         string
	RecordID   string
	Type       string
	Message    string
	Active     bool
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
