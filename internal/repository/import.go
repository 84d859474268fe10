package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dentacore/practice-engine/internal/domain"
)

// ImportDataset replaces the database contents with the given data set,
// keeping the identifiers the snapshot carries. Entries without an
// identifier get one from the allocators, which must have been seeded from
// this data set.
func ImportDataset(ctx context.Context, db *sqlx.DB, patients []*domain.Patient, catalog []*domain.Procedure, alloc *Allocators) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"patient_procedures", "payments", "patients", "procedures"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	// The catalog and the per-patient procedure lists may overlap; insert
	// each procedure once.
	seen := map[int64]bool{}
	insertProcedure := func(proc *domain.Procedure) error {
		if proc.ID == 0 {
			proc.ID = alloc.Procedures.Next()
		}
		if seen[proc.ID] {
			return nil
		}
		seen[proc.ID] = true

		_, err := tx.ExecContext(ctx,
			`INSERT INTO procedures (id, name, price) VALUES ($1, $2, $3)`,
			proc.ID, proc.Name, proc.Cost,
		)
		return err
	}

	for _, proc := range catalog {
		if err := insertProcedure(proc); err != nil {
			return err
		}
	}

	for _, p := range patients {
		if p.ID == 0 {
			p.ID = alloc.Patients.Next()
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO patients (id, name, address, phone) VALUES ($1, $2, $3, $4)`,
			p.ID, p.Name, p.Address, p.Phone,
		); err != nil {
			return err
		}

		for _, proc := range p.Procedures {
			if err := insertProcedure(proc); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO patient_procedures (patient_id, procedure_id) VALUES ($1, $2)`,
				p.ID, proc.ID,
			); err != nil {
				return err
			}
		}

		for _, pay := range p.Payments {
			if pay.ID == 0 {
				pay.ID = alloc.Payments.Next()
			}
			pay.PatientID = p.ID

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO payments (id, patient_id, amount, date, paid) VALUES ($1, $2, $3, $4, $5)`,
				pay.ID, pay.PatientID, pay.Amount, pay.Date, pay.Paid,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
