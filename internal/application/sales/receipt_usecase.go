package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-sales-api/internal/domain"
	"github.com/jhoicas/inventory-sales-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta registrada.
type ReceiptUseCase struct {
	saleRepo  repository.SaleRepository
	generator ReceiptGenerator
	currency  string
}

// NewReceiptUseCase construye el caso de uso; currency es el código ISO de los importes.
func NewReceiptUseCase(saleRepo repository.SaleRepository, generator ReceiptGenerator, currency string) *ReceiptUseCase {
	return &ReceiptUseCase{saleRepo: saleRepo, generator: generator, currency: currency}
}

// DownloadSaleReceipt devuelve (pdfBytes, filename, nil) o NotFoundError si la venta no existe.
func (uc *ReceiptUseCase) DownloadSaleReceipt(ctx context.Context, saleID string) ([]byte, string, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.NewNotFoundError("venta", saleID)
	}

	pdf, err := uc.generator.GenerateSaleReceipt(ctx, sale, uc.currency)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("venta-%s.pdf", sale.ID), nil
}
