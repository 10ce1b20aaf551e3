// Package analytics contiene la agregación del dashboard de inventario y ventas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-sales-api/internal/application/dto"
	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
	"github.com/jhoicas/inventory-sales-api/internal/domain/repository"
)

// DashboardUseCase genera las estadísticas del dashboard leyendo los tres repositorios.
type DashboardUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	saleRepo     repository.SaleRepository
	now          func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	saleRepo repository.SaleRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		saleRepo:     saleRepo,
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetStats construye DashboardStats.
//
// Cuatro consultas en paralelo:
//  1. productos          → TotalProducts + TotalStock
//  2. productos bajo mín → LowStockCount + LowStockProducts
//  3. ventas             → TotalSales + TotalRevenue
//  4. movimientos de hoy → TodayMovementsCount (desde las 00:00 hora local del servidor)
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStats, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)

	type productsResult struct {
		list []*entity.Product
		err  error
	}
	type salesResult struct {
		count   int
		revenue decimal.Decimal
		err     error
	}
	type movementsResult struct {
		count int
		err   error
	}

	productsCh := make(chan productsResult, 1)
	lowCh := make(chan productsResult, 1)
	salesCh := make(chan salesResult, 1)
	movCh := make(chan movementsResult, 1)

	go func() {
		list, err := uc.productRepo.List(ctx)
		productsCh <- productsResult{list, err}
	}()
	go func() {
		list, err := uc.productRepo.ListLowStock(ctx)
		lowCh <- productsResult{list, err}
	}()
	go func() {
		count, err := uc.saleRepo.Count(ctx)
		if err != nil {
			salesCh <- salesResult{err: err}
			return
		}
		revenue, err := uc.saleRepo.GetTotalSales(ctx, nil, nil)
		salesCh <- salesResult{count, revenue, err}
	}()
	go func() {
		list, err := uc.movementRepo.ListByDateRange(ctx, todayStart, todayEnd)
		movCh <- movementsResult{len(list), err}
	}()

	products := <-productsCh
	low := <-lowCh
	sales := <-salesCh
	movs := <-movCh

	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas: %w", sales.err)
	}
	if movs.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos de hoy: %w", movs.err)
	}

	totalStock := 0
	for _, p := range products.list {
		totalStock += p.Stock
	}

	return &dto.DashboardStats{
		TotalProducts:       len(products.list),
		TotalStock:          totalStock,
		TotalSales:          sales.count,
		TotalRevenue:        sales.revenue.Round(2),
		LowStockCount:       len(low.list),
		TodayMovementsCount: movs.count,
		LowStockProducts:    dto.ToProductResponses(low.list),
	}, nil
}
