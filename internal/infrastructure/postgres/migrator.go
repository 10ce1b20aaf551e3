package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

var migrationFileRe = regexp.MustCompile(`^(\d+)_([A-Za-z0-9_\-]+)\.sql$`)

// Migration archivo NNN_descripcion.sql.
type Migration struct {
	Version  int
	Name     string // nombre sin extensión, ej. 001_initial_schema
	Filename string
	SQL      string
}

// ExecutedMigration fila de schema_migrations.
type ExecutedMigration struct {
	ID         int
	Name       string
	ExecutedAt time.Time
}

// MigrationStatus resultado de Status.
type MigrationStatus struct {
	Executed []ExecutedMigration
	Pending  []string // nombres de archivo pendientes
	Total    int
}

// Migrator aplica migraciones SQL versionadas. Cada archivo corre en su propia transacción
// junto con su registro en schema_migrations; si falla se revierte completo.
type Migrator struct {
	pool *pgxpool.Pool
	fsys fs.FS
}

// NewMigrator usa las migraciones embebidas en el binario.
func NewMigrator(pool *pgxpool.Pool) *Migrator {
	sub, _ := fs.Sub(embeddedMigrations, "migrations")
	return &Migrator{pool: pool, fsys: sub}
}

// Up aplica las migraciones pendientes en orden de versión y devuelve las aplicadas.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	migrations, err := LoadMigrations(m.fsys)
	if err != nil {
		return nil, err
	}
	executed, err := m.executedNames(ctx)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0)
	for _, mig := range migrations {
		if executed[mig.Name] {
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return applied, err
		}
		applied = append(applied, mig.Filename)
	}
	return applied, nil
}

// Status devuelve ejecutadas, pendientes y total de archivos.
func (m *Migrator) Status(ctx context.Context) (*MigrationStatus, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	migrations, err := LoadMigrations(m.fsys)
	if err != nil {
		return nil, err
	}

	rows, err := m.pool.Query(ctx, `SELECT id, name, executed_at FROM schema_migrations ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("migraciones ejecutadas: %w", err)
	}
	executed, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ExecutedMigration, error) {
		var e ExecutedMigration
		err := row.Scan(&e.ID, &e.Name, &e.ExecutedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("migraciones ejecutadas: %w", err)
	}

	done := make(map[string]bool, len(executed))
	for _, e := range executed {
		done[e.Name] = true
	}
	status := &MigrationStatus{Executed: executed, Pending: make([]string, 0), Total: len(migrations)}
	for _, mig := range migrations {
		if !done[mig.Name] {
			status.Pending = append(status.Pending, mig.Filename)
		}
	}
	return status, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id          SERIAL PRIMARY KEY,
			name        VARCHAR(255) NOT NULL UNIQUE,
			executed_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("crear schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) executedNames(ctx context.Context) (map[string]bool, error) {
	rows, err := m.pool.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("migraciones ejecutadas: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("migraciones ejecutadas: %w", err)
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out, nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("migración %s: begin: %w", mig.Filename, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Sin argumentos pgx usa el protocolo simple: admite varias sentencias por archivo.
	if _, err := tx.Exec(ctx, mig.SQL); err != nil {
		return fmt.Errorf("migración %s: %w", mig.Filename, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, mig.Name); err != nil {
		return fmt.Errorf("migración %s: registrar: %w", mig.Filename, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("migración %s: commit: %w", mig.Filename, err)
	}
	return nil
}

// LoadMigrations lee los .sql de fsys ordenados por versión. Un .sql sin prefijo numérico es un error.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("leer migraciones: %w", err)
	}

	migrations := make([]Migration, 0, len(entries))
	seen := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		match := migrationFileRe.FindStringSubmatch(e.Name())
		if match == nil {
			return nil, fmt.Errorf("nombre de migración inválido %q: se espera NNN_descripcion.sql", e.Name())
		}
		version, _ := strconv.Atoi(match[1])
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("versión de migración %d repetida: %s y %s", version, prev, e.Name())
		}
		seen[version] = e.Name()

		body, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", e.Name(), err)
		}
		migrations = append(migrations, Migration{
			Version:  version,
			Name:     strings.TrimSuffix(e.Name(), ".sql"),
			Filename: e.Name(),
			SQL:      string(body),
		})
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}
