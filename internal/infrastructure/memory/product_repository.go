package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventory-sales-api/internal/domain"
	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
	"github.com/jhoicas/inventory-sales-api/internal/domain/repository"
)

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct {
	store *Store
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	return r.store.write(func() error {
		if _, ok := r.store.products[p.ID]; ok {
			return domain.NewConflictError("producto", "ID", p.ID)
		}
		for _, existing := range r.store.products {
			if existing.SKU == p.SKU {
				return domain.NewConflictError("producto", "SKU", p.SKU)
			}
		}
		r.store.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.store.read(func() {
		if p, ok := r.store.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

// GetByIDForUpdate equivale a GetByID: las transacciones en memoria ya son exclusivas.
func (r *ProductRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	r.store.read(func() {
		for _, p := range r.store.products {
			if p.SKU == sku {
				p := p
				out = &p
				return
			}
		}
	})
	return out, nil
}

func (r *ProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	p, err := r.GetBySKU(ctx, sku)
	return p != nil, err
}

// List más recientes primero.
func (r *ProductRepository) List(_ context.Context) ([]*entity.Product, error) {
	list := r.filter(func(entity.Product) bool { return true })
	sortByCreatedDesc(list, func(p *entity.Product) (int64, string) { return p.CreatedAt.UnixNano(), p.ID })
	return list, nil
}

// ListByCategory ordenados por nombre.
func (r *ProductRepository) ListByCategory(_ context.Context, category string) ([]*entity.Product, error) {
	list := r.filter(func(p entity.Product) bool { return equalFold(p.Category, category) })
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// ListLowStock ordenados por stock ascendente.
func (r *ProductRepository) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	list := r.filter(func(p entity.Product) bool { return p.IsLowStock() })
	sort.Slice(list, func(i, j int) bool {
		if list[i].Stock != list[j].Stock {
			return list[i].Stock < list[j].Stock
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	return r.store.write(func() error {
		if _, ok := r.store.products[p.ID]; !ok {
			return domain.NewNotFoundError("producto", p.ID)
		}
		for id, existing := range r.store.products {
			if id != p.ID && existing.SKU == p.SKU {
				return domain.NewConflictError("producto", "SKU", p.SKU)
			}
		}
		r.store.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	return r.store.write(func() error {
		if _, ok := r.store.products[id]; !ok {
			return domain.NewNotFoundError("producto", id)
		}
		delete(r.store.products, id)
		return nil
	})
}

func (r *ProductRepository) filter(keep func(entity.Product) bool) []*entity.Product {
	list := make([]*entity.Product, 0)
	r.store.read(func() {
		for _, p := range r.store.products {
			if keep(p) {
				p := p
				list = append(list, &p)
			}
		}
	})
	return list
}
