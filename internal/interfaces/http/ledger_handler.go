package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP de mutación de stock (protegido).
type LedgerHandler struct {
	uc *ledger.StockLedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.StockLedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// errorResponse traduce errores de dominio a códigos HTTP.
func errorResponse(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
	case domain.ErrDuplicate:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un registro para el producto o SKU"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case domain.ErrConcurrencyConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY_CONFLICT", Message: "el registro cambió, reintente la operación"})
	case domain.ErrConflict:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toRecordResponse(rec *entity.InventoryRecord) dto.RecordResponse {
	return dto.RecordResponse{
		ID:                rec.ID,
		ProductID:         rec.ProductID,
		SKU:               rec.SKU,
		CurrentStock:      rec.CurrentStock,
		ReservedStock:     rec.ReservedStock,
		AvailableStock:    rec.AvailableStock,
		ReorderLevel:      rec.ReorderLevel,
		MaxStock:          rec.MaxStock,
		CostPrice:         rec.CostPrice,
		AverageCost:       rec.AverageCost,
		LastPurchasePrice: rec.LastPurchasePrice,
		Status:            rec.Status,
		UpdatedAt:         rec.UpdatedAt,
	}
}

// AddStock godoc
// @Summary      Registrar entrada de stock
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string               true  "ID del producto"
// @Param        body       body  dto.AddStockRequest  true  "quantity, type (purchase por defecto), reason, cost"
// @Success      200  {object}  dto.RecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/records/{productId}/stock/add [post]
func (h *LedgerHandler) AddStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.AddStock(c.Context(), ledger.AddStockInput{
		ProductID:   c.Params("productId"),
		Quantity:    in.Quantity,
		Type:        in.Type,
		PerformedBy: userID,
		Reason:      in.Reason,
		Notes:       in.Notes,
		Cost:        in.Cost,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toRecordResponse(rec))
}

// RemoveStock godoc
// @Summary      Registrar salida de stock
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                  true  "ID del producto"
// @Param        body       body  dto.RemoveStockRequest  true  "quantity, type (sale por defecto), reason, reference"
// @Success      200  {object}  dto.RecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/records/{productId}/stock/remove [post]
func (h *LedgerHandler) RemoveStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RemoveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.RemoveStock(c.Context(), ledger.RemoveStockInput{
		ProductID:   c.Params("productId"),
		Quantity:    in.Quantity,
		Type:        in.Type,
		PerformedBy: userID,
		Reason:      in.Reason,
		Reference:   in.Reference,
		Notes:       in.Notes,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toRecordResponse(rec))
}

// ReserveStock godoc
// @Summary      Reservar stock contra una orden pendiente
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                   true  "ID del producto"
// @Param        body       body  dto.ReserveStockRequest  true  "quantity"
// @Success      200  {object}  dto.RecordResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/records/{productId}/stock/reserve [post]
func (h *LedgerHandler) ReserveStock(c *fiber.Ctx) error {
	var in dto.ReserveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.ReserveStock(c.Context(), c.Params("productId"), in.Quantity)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toRecordResponse(rec))
}

// ReleaseReservedStock godoc
// @Summary      Liberar stock reservado (acota en cero)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                   true  "ID del producto"
// @Param        body       body  dto.ReserveStockRequest  true  "quantity"
// @Success      200  {object}  dto.RecordResponse
// @Router       /api/records/{productId}/stock/release [post]
func (h *LedgerHandler) ReleaseReservedStock(c *fiber.Ctx) error {
	var in dto.ReserveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.ReleaseReservedStock(c.Context(), c.Params("productId"), in.Quantity)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toRecordResponse(rec))
}
