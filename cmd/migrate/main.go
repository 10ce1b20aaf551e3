// Comando migrate: aplica o lista las migraciones de PostgreSQL.
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate status
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/inventory-sales-api/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-sales-api/pkg/config"
	"github.com/jhoicas/inventory-sales-api/pkg/logger"
)

func main() {
	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	migrator := postgres.NewMigrator(pool)

	switch cmd {
	case "up":
		applied, err := migrator.Up(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		if len(applied) == 0 {
			log.Info().Msg("no hay migraciones pendientes")
			return
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	case "status":
		status, err := migrator.Status(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("estado de migraciones")
		}
		for _, m := range status.Executed {
			fmt.Printf("  [x] %s  (%s)\n", m.Name, m.ExecutedAt.Format(time.RFC3339))
		}
		for _, name := range status.Pending {
			fmt.Printf("  [ ] %s\n", name)
		}
		fmt.Printf("%d/%d aplicadas\n", len(status.Executed), status.Total)
	default:
		fmt.Fprintf(os.Stderr, "uso: migrate [up|status]\n")
		os.Exit(2)
	}
}
