package memory

import (
	"context"

	"github.com/jhoicas/inventory-sales-api/internal/application/inventory"
	"github.com/jhoicas/inventory-sales-api/internal/domain/repository"
)

// TxRunner transacciones en memoria: una a la vez, sobre una copia del almacén que solo se
// publica si fn no devuelve error. Los lectores nunca ven estados intermedios.
type TxRunner struct {
	store *Store
}

var _ inventory.TxRunner = (*TxRunner)(nil)

func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run implementa inventory.TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := r.store.clone()
	if err := fn(NewProductRepository(work), NewMovementRepository(work), NewSaleRepository(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.commit(work)
	return nil
}
