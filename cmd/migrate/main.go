package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"

	"github.com/sj-empleados/empleados-backend-go/internal/config"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/legacy"
	appHTTP "github.com/sj-empleados/empleados-backend-go/internal/handler/http"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
	"github.com/sj-empleados/empleados-backend-go/internal/repository/postgresql"
	legacyService "github.com/sj-empleados/empleados-backend-go/internal/service/legacy"
)

// Copies the legacy MongoDB collections into PostgreSQL. Safe to rerun.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: appHTTP.ParseLevel(cfg.App.LogLevel),
	})))

	if cfg.Legacy.MongoURI == "" {
		log.Fatal("LEGACY_MONGO_URI is required")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to apply migrations: ", err)
	}

	importer := legacyService.NewImporter(legacyService.MongoOpener(cfg.Legacy), postgresql.NewLegacySink(db))
	report, err := importer.Import(ctx)
	if err != nil {
		log.Fatal("Legacy import failed: ", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)

	if failed(report) {
		os.Exit(1)
	}
}

func failed(report legacy.Report) bool {
	for _, c := range report {
		if c.Failed > 0 {
			return true
		}
	}
	return false
}
