// The importer replaces the practice database with the contents of the XML
// snapshot files, reseeding entity identifiers from the highest IDs found in
// the snapshot.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dentacore/practice-engine/internal/config"
	"github.com/dentacore/practice-engine/internal/repository"
	"github.com/dentacore/practice-engine/internal/xmlstore"
	"github.com/dentacore/practice-engine/pkg/logs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logs.New(cfg)
	slog.SetDefault(logger)

	db, err := repository.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	snapshots := xmlstore.New(cfg.Snapshot.PatientsFile, cfg.Snapshot.CatalogFile)

	patients, err := snapshots.LoadPatients()
	if err != nil {
		logger.Error("failed to load patient snapshot", "file", cfg.Snapshot.PatientsFile, "error", err)
		os.Exit(1)
	}

	catalog, err := snapshots.LoadCatalog()
	if err != nil {
		logger.Error("failed to load catalog snapshot", "file", cfg.Snapshot.CatalogFile, "error", err)
		os.Exit(1)
	}

	alloc := repository.AllocatorsFromDataset(patients, catalog)

	if err := repository.ImportDataset(context.Background(), db, patients, catalog, alloc); err != nil {
		logger.Error("snapshot import failed", "error", err)
		os.Exit(1)
	}

	logger.Info("snapshot import complete",
		"patients", len(patients),
		"procedures", len(catalog),
		"database", cfg.Database.Path,
	)
}
