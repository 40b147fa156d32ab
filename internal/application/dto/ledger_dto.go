package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRecordRequest body para POST /api/records (alta del registro al dar de alta el producto).
type CreateRecordRequest struct {
	ProductID    string           `json:"product_id"`
	SKU          string           `json:"sku"`
	InitialStock int64            `json:"initial_stock"`
	ReorderLevel int64            `json:"reorder_level"`
	MaxStock     int64            `json:"max_stock"`
	CostPrice    *decimal.Decimal `json:"cost_price,omitempty"`
}

// AddStockRequest body para POST /api/records/:productId/stock/add.
type AddStockRequest struct {
	Quantity int64            `json:"quantity"`
	Type     string           `json:"type,omitempty"` // por defecto purchase
	Reason   string           `json:"reason,omitempty"`
	Notes    string           `json:"notes,omitempty"`
	Cost     *decimal.Decimal `json:"cost,omitempty"`
}

// RemoveStockRequest body para POST /api/records/:productId/stock/remove.
type RemoveStockRequest struct {
	Quantity  int64  `json:"quantity"`
	Type      string `json:"type,omitempty"` // por defecto sale
	Reason    string `json:"reason,omitempty"`
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// ReserveStockRequest body para reserve/release.
type ReserveStockRequest struct {
	Quantity int64 `json:"quantity"`
}

// UpdateStatusRequest body para PUT /api/records/:productId/status.
type UpdateStatusRequest struct {
	Status string `json:"status"` // active | inactive | discontinued
}

// RecordResponse representación HTTP del registro de inventario.
type RecordResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	CurrentStock      int64           `json:"current_stock"`
	ReservedStock     int64           `json:"reserved_stock"`
	AvailableStock    int64           `json:"available_stock"`
	ReorderLevel      int64           `json:"reorder_level"`
	MaxStock          int64           `json:"max_stock"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	LastPurchasePrice decimal.Decimal `json:"last_purchase_price"`
	Status            string          `json:"status"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TransactionResponse asiento del libro en respuestas HTTP.
type TransactionResponse struct {
	ID          string           `json:"id"`
	RecordID    string           `json:"record_id"`
	Type        string           `json:"type"`
	Quantity    int64            `json:"quantity"`
	Reason      string           `json:"reason,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	PerformedBy string           `json:"performed_by"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// AlertResponse alerta en respuestas HTTP.
type AlertResponse struct {
	ID         string     `json:"id"`
	RecordID   string     `json:"record_id"`
	Type       string     `json:"type"`
	Message    string     `json:"message"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}
