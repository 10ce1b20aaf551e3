package memory

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-sales-api/internal/domain"
	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
	"github.com/jhoicas/inventory-sales-api/internal/domain/repository"
)

// MovementRepository libro de movimientos en memoria (solo inserción).
type MovementRepository struct {
	store *Store
}

var _ repository.MovementRepository = (*MovementRepository)(nil)

func NewMovementRepository(store *Store) *MovementRepository {
	return &MovementRepository{store: store}
}

func (r *MovementRepository) Create(_ context.Context, m *entity.Movement) error {
	return r.store.write(func() error {
		if _, ok := r.store.movements[m.ID]; ok {
			return domain.NewConflictError("movimiento", "ID", m.ID)
		}
		r.store.movements[m.ID] = *m
		return nil
	})
}

func (r *MovementRepository) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.store.read(func() {
		if m, ok := r.store.movements[id]; ok {
			out = &m
		}
	})
	return out, nil
}

func (r *MovementRepository) List(_ context.Context) ([]*entity.Movement, error) {
	return r.filter(func(entity.Movement) bool { return true }), nil
}

func (r *MovementRepository) ListByProduct(_ context.Context, productID string) ([]*entity.Movement, error) {
	return r.filter(func(m entity.Movement) bool { return m.ProductID == productID }), nil
}

func (r *MovementRepository) ListByType(_ context.Context, t entity.MovementType) ([]*entity.Movement, error) {
	return r.filter(func(m entity.Movement) bool { return m.Type == t }), nil
}

func (r *MovementRepository) ListByDateRange(_ context.Context, from, to time.Time) ([]*entity.Movement, error) {
	return r.filter(func(m entity.Movement) bool {
		return !m.CreatedAt.Before(from) && !m.CreatedAt.After(to)
	}), nil
}

func (r *MovementRepository) ListByReference(_ context.Context, reference string) ([]*entity.Movement, error) {
	return r.filter(func(m entity.Movement) bool {
		return m.Reference != nil && *m.Reference == reference
	}), nil
}

func (r *MovementRepository) filter(keep func(entity.Movement) bool) []*entity.Movement {
	list := make([]*entity.Movement, 0)
	r.store.read(func() {
		for _, m := range r.store.movements {
			if keep(m) {
				m := m
				list = append(list, &m)
			}
		}
	})
	sortByCreatedDesc(list, func(m *entity.Movement) (int64, string) { return m.CreatedAt.UnixNano(), m.ID })
	return list
}
