// The exporter periodically dumps the practice database to the XML snapshot
// files, keeping the alternate persistence path current.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

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

	allocators, err := repository.SeedAllocators(context.Background(), db)
	if err != nil {
		logger.Error("failed to seed id allocators", "error", err)
		os.Exit(1)
	}

	patientRepo := repository.NewPatientRepository(db, allocators.Patients)
	procedureRepo := repository.NewProcedureRepository(db, allocators.Procedures)
	snapshots := xmlstore.New(cfg.Snapshot.PatientsFile, cfg.Snapshot.CatalogFile)

	job := func() {
		if err := export(context.Background(), patientRepo, procedureRepo, snapshots); err != nil {
			logger.Error("snapshot export failed", "error", err)
			return
		}
		logger.Info("snapshot export complete",
			"patients_file", cfg.Snapshot.PatientsFile,
			"catalog_file", cfg.Snapshot.CatalogFile,
		)
	}

	// Write a snapshot immediately so a fresh deployment has files before
	// the first scheduled run.
	job()

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.Snapshot.Schedule, job); err != nil {
		logger.Error("failed to schedule snapshot job", "schedule", cfg.Snapshot.Schedule, "error", err)
		os.Exit(1)
	}

	c.Start()
	logger.Info("exporter started", "schedule", cfg.Snapshot.Schedule)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down exporter")
	<-c.Stop().Done()
	logger.Info("exporter stopped")
}

func export(
	ctx context.Context,
	patients repository.PatientRepository,
	procedures repository.ProcedureRepository,
	snapshots *xmlstore.Store,
) error {
	patientList, err := patients.List(ctx)
	if err != nil {
		return err
	}

	catalog, err := procedures.List(ctx)
	if err != nil {
		return err
	}

	if err := snapshots.SavePatients(patientList); err != nil {
		return err
	}

	return snapshots.SaveCatalog(catalog)
}
