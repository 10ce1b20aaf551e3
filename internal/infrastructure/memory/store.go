// Package memory implementa los repositorios sobre mapas en memoria. Útil para desarrollo,
// demos y tests; los datos se pierden al reiniciar.
package memory

import (
	"sort"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventory-sales-api/internal/domain/entity"
)

// Store datos compartidos por los tres repositorios. Guarda copias de las entidades:
// mutar lo que devuelve un repositorio no altera el almacén hasta llamar a Update.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex // serializa escrituras y transacciones

	products  map[string]entity.Product
	movements map[string]entity.Movement
	sales     map[string]entity.Sale
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]entity.Product),
		movements: make(map[string]entity.Movement),
		sales:     make(map[string]entity.Sale),
	}
}

// read ejecuta fn con el candado de lectura.
func (s *Store) read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// write ejecuta fn en exclusiva, esperando a que termine cualquier transacción en curso.
func (s *Store) write(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// clone copia profunda para el área de trabajo de una transacción.
func (s *Store) clone() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := NewStore()
	for id, p := range s.products {
		c.products[id] = p
	}
	for id, m := range s.movements {
		c.movements[id] = m
	}
	for id, sale := range s.sales {
		c.sales[id] = copySale(sale)
	}
	return c
}

// commit publica el área de trabajo de una transacción confirmada.
func (s *Store) commit(work *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = work.products
	s.movements = work.movements
	s.sales = work.sales
}

func copySale(s entity.Sale) entity.Sale {
	items := make([]entity.SaleItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}

// equalFold compara ambos textos en minúsculas, igual que LOWER(a) = LOWER(b) en PostgreSQL:
// "ß" no equivale a "ss". Un Caser no se comparte entre goroutines.
func equalFold(a, b string) bool {
	lower := cases.Lower(language.Und)
	return lower.String(a) == lower.String(b)
}

// sortByCreatedDesc más recientes primero; a igual fecha decide el ID para un orden estable.
func sortByCreatedDesc[T any](list []T, key func(T) (int64, string)) {
	sort.Slice(list, func(i, j int) bool {
		ti, idi := key(list[i])
		tj, idj := key(list[j])
		if ti != tj {
			return ti > tj
		}
		return idi > idj
	})
}
