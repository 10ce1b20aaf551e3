package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-sales-api/internal/domain"
	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
	"github.com/jhoicas/inventory-sales-api/internal/domain/repository"
)

// SaleRepository ventas en memoria.
type SaleRepository struct {
	store *Store
}

var _ repository.SaleRepository = (*SaleRepository)(nil)

func NewSaleRepository(store *Store) *SaleRepository {
	return &SaleRepository{store: store}
}

func (r *SaleRepository) Create(_ context.Context, s *entity.Sale) error {
	return r.store.write(func() error {
		if _, ok := r.store.sales[s.ID]; ok {
			return domain.NewConflictError("venta", "ID", s.ID)
		}
		r.store.sales[s.ID] = copySale(*s)
		return nil
	})
}

func (r *SaleRepository) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.store.read(func() {
		if s, ok := r.store.sales[id]; ok {
			c := copySale(s)
			out = &c
		}
	})
	return out, nil
}

func (r *SaleRepository) List(_ context.Context) ([]*entity.Sale, error) {
	return r.filter(func(entity.Sale) bool { return true }), nil
}

func (r *SaleRepository) ListByDateRange(_ context.Context, from, to time.Time) ([]*entity.Sale, error) {
	return r.filter(func(s entity.Sale) bool { return inRange(s.CreatedAt, &from, &to) }), nil
}

func (r *SaleRepository) ListByCustomerEmail(_ context.Context, email string) ([]*entity.Sale, error) {
	return r.filter(func(s entity.Sale) bool {
		return s.CustomerEmail != nil && equalFold(*s.CustomerEmail, email)
	}), nil
}

func (r *SaleRepository) GetTotalSales(_ context.Context, from, to *time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	r.store.read(func() {
		for _, s := range r.store.sales {
			if inRange(s.CreatedAt, from, to) {
				total = total.Add(s.Total)
			}
		}
	})
	return total, nil
}

func (r *SaleRepository) Count(_ context.Context) (int, error) {
	n := 0
	r.store.read(func() { n = len(r.store.sales) })
	return n, nil
}

func (r *SaleRepository) filter(keep func(entity.Sale) bool) []*entity.Sale {
	list := make([]*entity.Sale, 0)
	r.store.read(func() {
		for _, s := range r.store.sales {
			if keep(s) {
				c := copySale(s)
				list = append(list, &c)
			}
		}
	})
	sortByCreatedDesc(list, func(s *entity.Sale) (int64, string) { return s.CreatedAt.UnixNano(), s.ID })
	return list
}

// inRange ambos extremos incluidos; nil = sin límite.
func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
