package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del registro de inventario. Solo out_of_stock es automático (recompute);
// inactive y discontinued se fijan externamente y el recompute nunca los toca.
const (
	StatusActive       = "active"
	StatusInactive     = "inactive"
	StatusDiscontinued = "discontinued"
	StatusOutOfStock   = "out_of_stock"
)

// InventoryRecord representa el estado de stock de un producto (1:1 con Product).
// AvailableStock es derivado (max(0, current - reserved)) y se recalcula en cada
// mutación; nunca lo fija el caller. Version es el contador de concurrencia
// optimista: el UPDATE exige la versión leída y la incrementa.
type InventoryRecord struct {
	ID                string
	ProductID         string // único: un registro por producto
	SKU               string // único, co-varía con el producto
	CurrentStock      int64
	ReservedStock     int64
	AvailableStock    int64 // derivado, nunca se escribe directo
	ReorderLevel      int64
	MaxStock          int64
	CostPrice         decimal.Decimal
	AverageCost       decimal.Decimal // promedio ponderado, actualizado en entradas con costo
	LastPurchasePrice decimal.Decimal
	Status            string
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// StatusIsExternal indica si el estado solo puede fijarse por un administrador
// (el recompute no debe pisarlo).
func StatusIsExternal(status string) bool {
	return status == StatusInactive || status == StatusDiscontinued
}
