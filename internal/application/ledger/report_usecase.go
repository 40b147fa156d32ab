package ledger

import (
	"context"

	"github.com/tu-usuario/stock-ledger/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger/internal/domain/repository"
)

// ReportUseCase genera el reporte de stock bajo: los registros en o bajo su nivel de
// reorden, con disponible, reservado y costo promedio, listos para que compras arme el
// pedido de reposición.
type ReportUseCase struct {
	recordRepo repository.InventoryRecordRepository
	pdfGen     ReportPDFGenerator
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(recordRepo repository.InventoryRecordRepository, pdfGen ReportPDFGenerator) *ReportUseCase {
	return &ReportUseCase{recordRepo: recordRepo, pdfGen: pdfGen}
}

const lowStockReportLimit = 500

// LowStockRecords devuelve los registros en o bajo el nivel de reorden, mayor déficit primero.
func (uc *ReportUseCase) LowStockRecords(ctx context.Context) ([]*entity.InventoryRecord, error) {
	return uc.recordRepo.ListAtOrBelowReorderLevel(lowStockReportLimit)
}

// LowStockReportPDF genera el PDF del reporte y devuelve sus bytes.
func (uc *ReportUseCase) LowStockReportPDF(ctx context.Context) ([]byte, error) {
	records, err := uc.LowStockRecords(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateLowStockReport(ctx, records)
}
