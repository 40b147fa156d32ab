package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/stock-ledger/internal/application/dto"
	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

// RecordHandler maneja el ciclo de vida del registro, el libro y las alertas (protegido).
type RecordHandler struct {
	uc *ledger.RecordUseCase
}

// NewRecordHandler construye el handler.
func NewRecordHandler(uc *ledger.RecordUseCase) *RecordHandler {
	return &RecordHandler{uc: uc}
}

// Create godoc
// @Summary      Dar de alta el registro de inventario de un producto
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRecordRequest  true  "product_id, sku, initial_stock, reorder_level, max_stock, cost_price"
// @Success      201  {object}  dto.RecordResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/records [post]
func (h *RecordHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.Create(c.Context(), ledger.CreateRecordInput{
		ProductID:    in.ProductID,
		SKU:          in.SKU,
		InitialStock: in.InitialStock,
		ReorderLevel: in.ReorderLevel,
		MaxStock:     in.MaxStock,
		CostPrice:    in.CostPrice,
		PerformedBy:  userID,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRecordResponse(rec))
}

// GetByProduct godoc
// @Summary      Consultar el registro de inventario de un producto
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.RecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/records/{productId} [get]
func (h *RecordHandler) GetByProduct(c *fiber.Ctx) error {
	rec, err := h.uc.GetByProduct(c.Context(), c.Params("productId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toRecordResponse(rec))
}

// UpdateStatus godoc
// @Summary      Fijar estado administrativo (active, inactive, discontinued)
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                   true  "ID del producto"
// @Param        body       body  dto.UpdateStatusRequest  true  "status"
// @Success      200  {object}  dto.RecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/records/{productId}/status [put]
func (h *RecordHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.UpdateStatus(c.Context(), c.Params("productId"), in.Status)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(toRecordResponse(rec))
}

// ListTransactions godoc
// @Summary      Listar asientos del libro de un producto
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        from       query  string  false  "Fecha inicial (RFC 3339)"
// @Param        to         query  string  false  "Fecha final (RFC 3339)"
// @Param        limit      query  int     false  "Límite de página"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/records/{productId}/transactions [get]
func (h *RecordHandler) ListTransactions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()

	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC 3339"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC 3339"})
	}

	txs, err := h.uc.ListTransactions(c.Context(), c.Params("productId"), from, to, page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}

	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, dto.TransactionResponse{
			ID:          tx.ID,
			RecordID:    tx.RecordID,
			Type:        tx.Type,
			Quantity:    tx.Quantity,
			Reason:      tx.Reason,
			Reference:   tx.Reference,
			Notes:       tx.Notes,
			PerformedBy: tx.PerformedBy,
			Cost:        tx.Cost,
			CreatedAt:   tx.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "transactions": out})
}

// ListAlerts godoc
// @Summary      Listar alertas de un producto
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        active     query  bool    false  "Solo alertas activas"
// @Success      200  {array}   dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/records/{productId}/alerts [get]
func (h *RecordHandler) ListAlerts(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active")
	alerts, err := h.uc.ListAlerts(c.Context(), c.Params("productId"), activeOnly)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertResponse(a))
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}

// ResolveAlert godoc
// @Summary      Marcar una alerta como atendida
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [put]
func (h *RecordHandler) ResolveAlert(c *fiber.Ctx) error {
	if err := h.uc.ResolveAlert(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "alerta resuelta"})
}

func toAlertResponse(a *entity.Alert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:         a.ID,
		RecordID:   a.RecordID,
		Type:       a.Type,
		Message:    a.Message,
		Active:     a.Active,
		CreatedAt:  a.CreatedAt,
		ResolvedAt: a.ResolvedAt,
	}
}

func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
