package repository

import "github.com/tu-usuario/stock-ledger/internal/domain/entity"

// AlertRepository define el puerto de persistencia de alertas de inventario.
type AlertRepository interface {
	Create(alert *entity.Alert) error
	GetByID(id string) (*entity.Alert, error)
	// HasActiveByType indica si el registro ya tiene una alerta activa del tipo dado
	// (evita duplicar low_stock en reducciones sucesivas).
	HasActiveByType(recordID, alertType string) (bool, error)
	ListByRecord(recordID string, activeOnly bool) ([]*entity.Alert, error)
	// Resolve desactiva la alerta y fija resolved_at.
	Resolve(id string) error
}
