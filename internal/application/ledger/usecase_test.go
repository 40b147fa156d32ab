package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/stock-ledger/internal/application/ledger"
	"github.com/tu-usuario/stock-ledger/internal/domain"
	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
)

const (
	testProductID = "00000000-0000-0000-0000-0000000000aa"
	testSKU       = "SKU-001"
	testUserID    = "00000000-0000-0000-0000-000000000001"
)

// seed da de alta un registro con el stock y nivel de reorden indicados y devuelve
// el entorno completo de pruebas.
func seed(t *testing.T, initialStock, reorderLevel int64) (*memLedger, *ledger.StockLedgerUseCase, *ledger.RecordUseCase) {
	t.Helper()
	mem := newMemLedger()
	stockUC := ledger.NewStockLedgerUseCase(mem)
	recordUC := ledger.NewRecordUseCase(mem, mem.recordRepo(), mem.txRepo(), mem.alertRepo())

	_, err := recordUC.Create(context.Background(), ledger.CreateRecordInput{
		ProductID:    testProductID,
		SKU:          testSKU,
		InitialStock: initialStock,
		ReorderLevel: reorderLevel,
		MaxStock:     1000,
		PerformedBy:  testUserID,
	})
	require.NoError(t, err)
	return mem, stockUC, recordUC
}

func mustRecord(t *testing.T, mem *memLedger) *entity.InventoryRecord {
	t.Helper()
	rec, ok := mem.snapshot().records[testProductID]
	require.True(t, ok, "el registro debe existir")
	return rec
}

// assertInvariantes valida las propiedades que deben sostenerse tras toda operación
// comprometida: no-negatividad y la identidad del disponible.
func assertInvariantes(t *testing.T, rec *entity.InventoryRecord) {
	t.Helper()
	assert.GreaterOrEqual(t, rec.CurrentStock, int64(0))
	assert.GreaterOrEqual(t, rec.ReservedStock, int64(0))
	want := rec.CurrentStock - rec.ReservedStock
	if want < 0 {
		want = 0
	}
	assert.Equal(t, want, rec.AvailableStock, "availableStock == max(0, current - reserved)")
}

// ── AddStock ─────────────────────────────────────────────────────────────────

func TestAddStock_SumaYAsienta(t *testing.T) {
	mem, stockUC, _ := seed(t, 10, 0)

	rec, err := stockUC.AddStock(context.Background(), ledger.AddStockInput{
		ProductID:   testProductID,
		Quantity:    5,
		PerformedBy: testUserID,
		Reason:      "compra proveedor",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), rec.CurrentStock)
	assertInvariantes(t, rec)

	s := mem.snapshot()
	// Asiento del alta (stock inicial) + asiento de la compra.
	require.Len(t, s.txs, 2)
	assert.Equal(t, "compra proveedor", s.txs[1].Reason)
}

func TestAddStock_TipoPorDefectoPurchase(t *testing.T) {
	mem, stockUC, _ := seed(t, 0, 0)

	_, err := stockUC.AddStock(context.Background(), ledger.AddStockInput{
		ProductID:   testProductID,
		Quantity:    3,
		PerformedBy: testUserID,
	})
	require.NoError(t, err)

	s := mem.snapshot()
	require.NotEmpty(t, s.txs)
	tx := s.txs[len(s.txs)-1]
	assert.Equal(t, entity.TransactionTypePurchase, tx.Type)
	assert.Equal(t, int64(3), tx.Quantity)
	assert.Equal(t, testUserID, tx.PerformedBy)
}

func TestAddStock_CostoPromedioPonderado(t *testing.T) {
	// Caso de referencia: 10 unidades a costo 5; entrada de 10 a 15 → promedio 10.
	mem, stockUC, _ := seed(t, 0, 0)
	cinco := decimal.NewFromInt(5)
	quince := decimal.NewFromInt(15)

	_, err := stockUC.AddStock(context.Background(), ledger.AddStockInput{
		ProductID: testProductID, Quantity: 10, PerformedBy: testUserID, Cost: &cinco,
	})
	require.NoError(t, err)

	rec, err := stockUC.AddStock(context.Background(), ledger.AddStockInput{
		ProductID: testProductID, Quantity: 10, PerformedBy: testUserID, Cost: &quince,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20), rec.CurrentStock)
	assert.True(t, rec.AverageCost.Equal(decimal.NewFromInt(10)),
		"(5*10 + 15*10)/20 = 10, got %s", rec.AverageCost)
	assert.True(t, rec.LastPurchasePrice.Equal(quince))
	assertInvariantes(t, mustRecord(t, mem))
}

func TestAddStock_SinCostoNoTocaPromedio(t *testing.T) {
	_, stockUC, _ := seed(t, 0, 0)
	ocho := decimal.NewFromInt(8)

	_, err := stockUC.AddStock(context.Background(), ledger.AddStockInput{
		ProductID: testProductID, Quantity: 4, PerformedBy: testUserID, Cost: &ocho,
	})
	require.NoError(t, err)
	rec, err := stockUC.AddStock(context.Background(), ledger.AddStockInput{
		ProductID: testProductID, Quantity: 6, PerformedBy: testUserID,
	})
	require.NoError(t, err)
	assert.True(t, rec.AverageCost.Equal(ocho), "sin costo la entrada no recalcula el promedio")
}

func TestAddStock_EntradasInvalidas(t *testing.T) {
	mem, stockUC, _ := seed(t, 10, 0)
	before := mustRecord(t, mem)

	cases := []ledger.AddStockInput{
		{ProductID: testProductID, Quantity: 0, PerformedBy: testUserID},
		{ProductID: testProductID, Quantity: -5, PerformedBy: testUserID},
		{ProductID: testProductID, Quantity: 5},                                        // sin actor
		{ProductID: testProductID, Quantity: 5, PerformedBy: testUserID, Type: "oops"}, // tipo fuera del enum
	}
	for _, in := range cases {
		_, err := stockUC.AddStock(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	after := mustRecord(t, mem)
	assert.Equal(t, before.CurrentStock, after.CurrentStock, "entrada inválida no muta estado")
	assert.Equal(t, before.Version, after.Version)
}

func TestAddStock_ProductoInexistente(t *testing.T) {
	_, stockUC, _ := seed(t, 10, 0)
	_, err := stockUC.AddStock(context.Background(), ledger.AddStockInput{
		ProductID: "otro-producto", Quantity: 5, PerformedBy: testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── RemoveStock ──────────────────────────────────────────────────────────────

func TestRemoveStock_RestaYAsientaNegativo(t *testing.T) {
	mem, stockUC, _ := seed(t, 10, 0)

	rec, err := stockUC.RemoveStock(context.Background(), ledger.RemoveStockInput{
		ProductID:   testProductID,
		Quantity:    4,
		PerformedBy: testUserID,
		Reference:   "orden-42",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), rec.CurrentStock)
	assertInvariantes(t, rec)

	s := mem.snapshot()
	tx := s.txs[len(s.txs)-1]
	assert.Equal(t, entity.TransactionTypeSale, tx.Type)
	assert.Equal(t, int64(-4), tx.Quantity, "la salida asienta cantidad negativa")
	assert.Equal(t, "orden-42", tx.Reference)
}

func TestRemoveStock_InsuficienteNoMuta(t *testing.T) {
	mem, stockUC, _ := seed(t, 10, 0)
	before := mem.snapshot()

	_, err := stockUC.RemoveStock(context.Background(), ledger.RemoveStockInput{
		ProductID: testProductID, Quantity: 11, PerformedBy: testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	after := mem.snapshot()
	assert.Equal(t, before.records[testProductID].CurrentStock, after.records[testProductID].CurrentStock)
	assert.Equal(t, before.records[testProductID].ReservedStock, after.records[testProductID].ReservedStock)
	assert.Len(t, after.txs, len(before.txs), "el libro queda intacto en el fallo")
}

func TestRemoveStock_RespetaReservas(t *testing.T) {
	// Disponible = current - reserved: con 10 físicas y 6 reservadas no salen 5.
	_, stockUC, _ := seed(t, 10, 0)
	_, err := stockUC.ReserveStock(context.Background(), testProductID, 6)
	require.NoError(t, err)

	_, err = stockUC.RemoveStock(context.Background(), ledger.RemoveStockInput{
		ProductID: testProductID, Quantity: 5, PerformedBy: testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	rec, err := stockUC.RemoveStock(context.Background(), ledger.RemoveStockInput{
		ProductID: testProductID, Quantity: 4, PerformedBy: testUserID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), rec.CurrentStock)
	assert.Equal(t, int64(6), rec.ReservedStock)
	assert.Equal(t, int64(0), rec.AvailableStock)
}

func TestAddRemove_NetoCeroDejaDosAsientos(t *testing.T) {
	mem, stockUC, _ := seed(t, 10, 0)
	base := len(mem.snapshot().txs)

	_, err := stockUC.AddStock(context.Background(), ledger.AddStockInput{
		ProductID: testProductID, Quantity: 7, PerformedBy: testUserID,
	})
	require.NoError(t, err)
	rec, err := stockUC.RemoveStock(context.Background(), ledger.RemoveStockInput{
		ProductID: testProductID, Quantity: 7, PerformedBy: testUserID,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10), rec.CurrentStock, "el stock vuelve al valor original")
	assert.Len(t, mem.snapshot().txs, base+2, "el libro nunca se compacta")
}

// ── Reservas ─────────────────────────────────────────────────────────────────

func TestReserveStock_NoAsienta(t *testing.T) {
	mem, stockUC, _ := seed(t, 10, 0)
	base := len(mem.snapshot().txs)

	rec, err := stockUC.ReserveStock(context.Background(), testProductID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.CurrentStock)
	assert.Equal(t, int64(4), rec.ReservedStock)
	assert.Equal(t, int64(6), rec.AvailableStock)
	assert.Len(t, mem.snapshot().txs, base, "la reserva es retención blanda: sin asiento")
}

func TestReserveStock_Insuficiente(t *testing.T) {
	mem, stockUC, _ := seed(t, 10, 0)
	before := mustRecord(t, mem)

	_, err := stockUC.ReserveStock(context.Background(), testProductID, 11)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	after := mustRecord(t, mem)
	assert.Equal(t, before.ReservedStock, after.ReservedStock)
	assert.Equal(t, before.Version, after.Version)
}

func TestReleaseReservedStock_AcotaEnCero(t *testing.T) {
	_, stockUC, _ := seed(t, 10, 0)
	_, err := stockUC.ReserveStock(context.Background(), testProductID, 3)
	require.NoError(t, err)

	// Sobre-liberar no es error: acota en cero.
	rec, err := stockUC.ReleaseReservedStock(context.Background(), testProductID, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.ReservedStock)
	assert.Equal(t, int64(10), rec.AvailableStock)
	assertInvariantes(t, rec)

	// Liberar cero es un no-op válido; negativo no.
	_, err = stockUC.ReleaseReservedStock(context.Background(), testProductID, 0)
	assert.NoError(t, err)
	_, err = stockUC.ReleaseReservedStock(context.Background(), testProductID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Alertas y estado ─────────────────────────────────────────────────────────

func TestLowStock_UnaSolaAlertaActiva(t *testing.T) {
	mem, stockUC, _ := seed(t, 15, 10)

	_, err := stockUC.RemoveStock(context.Background(), ledger.RemoveStockInput{
		ProductID: testProductID, Quantity: 7, PerformedBy: testUserID,
	})
	require.NoError(t, err)

	s := mem.snapshot()
	require.Len(t, s.alerts, 1)
	assert.Equal(t, entity.AlertTypeLowStock, s.alerts[0].Type)
	assert.Equal(t, "Stock level is low (8 remaining)", s.alerts[0].Message)
	assert.True(t, s.alerts[0].Active)

	// Segunda reducción con alerta ya activa: no duplica.
	_, err = stockUC.RemoveStock(context.Background(), ledger.RemoveStockInput{
		ProductID: testProductID, Quantity: 3, PerformedBy: testUserID,
	})
	require.NoError(t, err)
	assert.Len(t, mem.snapshot().alerts, 1)
}

func TestStatus_TransicionOutOfStockYRegreso(t *testing.T) {
	_, stockUC, _ := seed(t, 5, 3)

	rec, err := stockUC.RemoveStock(context.Background(), ledger.RemoveStockInput{
		ProductID: testProductID, Quantity: 5, PerformedBy: testUserID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOutOfStock, rec.Status)

	// Reponer por encima del nivel de reorden regresa a active.
	rec, err = stockUC.AddStock(context.Background(), ledger.AddStockInput{
		ProductID: testProductID, Quantity: 20, PerformedBy: testUserID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, rec.Status)
}

func TestStatus_ExternoNoSePisa(t *testing.T) {
	_, stockUC, recordUC := seed(t, 5, 0)

	_, err := recordUC.UpdateStatus(context.Background(), testProductID, entity.StatusDiscontinued)
	require.NoError(t, err)

	rec, err := stockUC.RemoveStock(context.Background(), ledger.RemoveStockInput{
		ProductID: testProductID, Quantity: 5, PerformedBy: testUserID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDiscontinued, rec.Status,
		"el recompute no pisa estados administrativos")
}

// ── Concurrencia ─────────────────────────────────────────────────────────────

// TestConcurrencia_DosRetirosUnoGana ejecuta dos retiros concurrentes de 60 sobre un
// stock de 100: la serialización por transacción obliga a que exactamente uno gane y
// el otro reevalúe su precondición contra el resultado del primero.
func TestConcurrencia_DosRetirosUnoGana(t *testing.T) {
	mem, stockUC, _ := seed(t, 100, 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = stockUC.RemoveStock(context.Background(), ledger.RemoveStockInput{
				ProductID: testProductID, Quantity: 60, PerformedBy: testUserID,
			})
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case err == domain.ErrInsufficientStock:
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactamente un retiro debe ganar")
	assert.Equal(t, 1, insufficient, "el otro debe fallar con stock insuficiente")

	rec := mustRecord(t, mem)
	assert.Equal(t, int64(40), rec.CurrentStock)
	assertInvariantes(t, rec)
}

// ── Ciclo de vida del registro ───────────────────────────────────────────────

func TestCreate_DuplicadoPorProducto(t *testing.T) {
	_, _, recordUC := seed(t, 10, 0)

	_, err := recordUC.Create(context.Background(), ledger.CreateRecordInput{
		ProductID:   testProductID,
		SKU:         "SKU-otro",
		PerformedBy: testUserID,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_StockInicialAsentado(t *testing.T) {
	mem, _, _ := seed(t, 25, 0)

	s := mem.snapshot()
	require.Len(t, s.txs, 1)
	assert.Equal(t, entity.TransactionTypeAdjustment, s.txs[0].Type)
	assert.Equal(t, int64(25), s.txs[0].Quantity)
	assert.Equal(t, "initial stock", s.txs[0].Reason)
}

func TestCreate_BajoReordenNaceConAlerta(t *testing.T) {
	mem := newMemLedger()
	recordUC := ledger.NewRecordUseCase(mem, mem.recordRepo(), mem.txRepo(), mem.alertRepo())

	rec, err := recordUC.Create(context.Background(), ledger.CreateRecordInput{
		ProductID:    testProductID,
		SKU:          testSKU,
		InitialStock: 3,
		ReorderLevel: 10,
		PerformedBy:  testUserID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusActive, rec.Status)

	s := mem.snapshot()
	require.Len(t, s.alerts, 1)
	assert.Equal(t, entity.AlertTypeLowStock, s.alerts[0].Type)
}

func TestResolveAlert(t *testing.T) {
	mem, stockUC, recordUC := seed(t, 15, 10)
	_, err := stockUC.RemoveStock(context.Background(), ledger.RemoveStockInput{
		ProductID: testProductID, Quantity: 7, PerformedBy: testUserID,
	})
	require.NoError(t, err)

	alerts, err := recordUC.ListAlerts(context.Background(), testProductID, true)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	require.NoError(t, recordUC.ResolveAlert(context.Background(), alerts[0].ID))

	alerts, err = recordUC.ListAlerts(context.Background(), testProductID, true)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	// Resolver dos veces es conflicto con el estado actual.
	s := mem.snapshot()
	assert.ErrorIs(t, recordUC.ResolveAlert(context.Background(), s.alerts[0].ID), domain.ErrConflict)
}

func TestListTransactions_DelProducto(t *testing.T) {
	_, stockUC, recordUC := seed(t, 10, 0)
	for i := 0; i < 3; i++ {
		_, err := stockUC.AddStock(context.Background(), ledger.AddStockInput{
			ProductID: testProductID, Quantity: 1, PerformedBy: testUserID,
		})
		require.NoError(t, err)
	}

	txs, err := recordUC.ListTransactions(context.Background(), testProductID, nil, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 4) // stock inicial + 3 compras
}
