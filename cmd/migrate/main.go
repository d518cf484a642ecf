package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/mercado-api/internal/infrastructure/postgres"
	"github.com/jhoicas/mercado-api/pkg/config"
	"github.com/jhoicas/mercado-api/pkg/logger"
)

const defaultTimeout = 60 * time.Second

func main() {
	var (
		direction string
		steps     int
		dsn       string
	)

	flag.StringVar(&direction, "direction", "up", "dirección: up|down|status")
	flag.IntVar(&steps, "steps", 0, "migraciones a aplicar/revertir (0 = todas en up, 1 en down)")
	flag.StringVar(&dsn, "dsn", "", "DSN de PostgreSQL (por defecto DATABASE_URL / DB_*)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}
	if strings.TrimSpace(dsn) != "" {
		cfg.DB.DatabaseURL = strings.TrimSpace(dsn)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Out: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		fail("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	migrator := postgres.NewMigrator(pool, log.Component("migrator"))

	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "up":
		if err := migrator.Up(ctx, steps); err != nil {
			fail("migrate up: %v", err)
		}
		report(ctx, migrator, "migrate up ok")
	case "down":
		if steps <= 0 {
			steps = 1
		}
		if err := migrator.Down(ctx, steps); err != nil {
			fail("migrate down: %v", err)
		}
		report(ctx, migrator, "migrate down ok")
	case "status":
		report(ctx, migrator, "estado de migraciones")
	default:
		fail("dirección no soportada: %s (use up|down|status)", direction)
	}
}

func report(ctx context.Context, m *postgres.Migrator, prefix string) {
	version, count, err := m.Status(ctx)
	if err != nil {
		fail("estado de migraciones: %v", err)
	}
	fmt.Printf("%s: version=%d aplicadas=%d\n", prefix, version, count)
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
