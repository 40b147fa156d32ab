package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de stock (value object conceptual).
const (
	TransactionTypePurchase   = "purchase"
	TransactionTypeSale       = "sale"
	TransactionTypeReturn     = "return"
	TransactionTypeAdjustment = "adjustment"
	TransactionTypeTransfer   = "transfer"
	TransactionTypeDamage     = "damage"
	TransactionTypeExpired    = "expired"
)

// ValidTransactionType valida contra la enumeración de tipos.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeSale, TransactionTypeReturn,
		TransactionTypeAdjustment, TransactionTypeTransfer,
		TransactionTypeDamage, TransactionTypeExpired:
		return true
	}
	return false
}

// StockTransaction es un asiento inmutable del libro de movimientos de un registro.
// Quantity lleva signo: positivo para entradas, negativo para salidas. El libro es
// append-only: nunca se reescribe ni se compacta.
type StockTransaction struct {
	ID          string
	RecordID    string
	Type        string
	Quantity    int64 // con signo
	Reason      string
	Reference   string // factura, orden, nota de ajuste, etc.
	Notes       string
	PerformedBy string // UserID del actor, obligatorio para auditoría
	Cost        *decimal.Decimal
	CreatedAt   time.Time // inmutable, fijado al crear
}
