package dto

import "github.com/shopspring/decimal"

// DashboardStats respuesta de GET /api/dashboard/stats.
type DashboardStats struct {
	TotalProducts       int               `json:"totalProducts"`
	TotalStock          int               `json:"totalStock"` // suma de unidades en stock
	TotalSales          int               `json:"totalSales"`
	TotalRevenue        decimal.Decimal   `json:"totalRevenue"`
	LowStockCount       int               `json:"lowStockCount"`
	TodayMovementsCount int               `json:"todayMovementsCount"` // desde las 00:00 hora local
	LowStockProducts    []ProductResponse `json:"lowStockProducts"`
}
