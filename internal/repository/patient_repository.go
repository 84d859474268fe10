package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/dentacore/practice-engine/internal/domain"
	customError "github.com/dentacore/practice-engine/pkg/errors"
)

type patientRepository struct {
	db  *sqlx.DB
	ids *IDAllocator
}

func NewPatientRepository(db *sqlx.DB, ids *IDAllocator) PatientRepository {
	return &patientRepository{db: db, ids: ids}
}

func (r *patientRepository) List(ctx context.Context) ([]*domain.Patient, error) {
	query := `
		SELECT id, name, address, phone
		FROM patients
		ORDER BY id
	`

	patients := []*domain.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, err
	}

	for _, p := range patients {
		if err := r.populate(ctx, p); err != nil {
			return nil, err
		}
	}

	return patients, nil
}

func (r *patientRepository) Get(ctx context.Context, patientID int64) (*domain.Patient, error) {
	query := `
		SELECT id, name, address, phone
		FROM patients
		WHERE id = $1
	`

	var patient domain.Patient
	if err := r.db.GetContext(ctx, &patient, query, patientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPatientNotFound(patientID)
		}
		return nil, err
	}

	if err := r.populate(ctx, &patient); err != nil {
		return nil, err
	}

	return &patient, nil
}

func (r *patientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	patient.ID = r.ids.Next()

	query := `
		INSERT INTO patients (id, name, address, phone)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.Address,
		patient.Phone,
	)

	return err
}

func (r *patientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	query := `
		UPDATE patients
		SET name = $2, address = $3, phone = $4
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.Address,
		patient.Phone,
	)
	if err != nil {
		return err
	}

	return requireAffected(res, customError.WrapPatientNotFound(patient.ID))
}

// Delete removes the patient and, in the same transaction, every payment and
// procedure assignment that belongs to them.
func (r *patientRepository) Delete(ctx context.Context, patientID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE patient_id = $1`, patientID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM patient_procedures WHERE patient_id = $1`, patientID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, patientID)
	if err != nil {
		return err
	}
	if err := requireAffected(res, customError.WrapPatientNotFound(patientID)); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *patientRepository) AssignProcedure(ctx context.Context, patientID, procedureID int64) error {
	query := `
		INSERT INTO patient_procedures (patient_id, procedure_id)
		VALUES ($1, $2)
	`

	if _, err := r.db.ExecContext(ctx, query, patientID, procedureID); err != nil {
		if isUniqueViolation(err) {
			return customError.WrapDuplicateAssignment(patientID, procedureID)
		}
		return err
	}

	return nil
}

func (r *patientRepository) UnassignProcedure(ctx context.Context, patientID, procedureID int64) error {
	query := `
		DELETE FROM patient_procedures
		WHERE patient_id = $1 AND procedure_id = $2
	`

	res, err := r.db.ExecContext(ctx, query, patientID, procedureID)
	if err != nil {
		return err
	}

	return requireAffected(res, customError.WrapAssignmentNotFound(patientID, procedureID))
}

// populate fills the patient's procedure and payment collections.
func (r *patientRepository) populate(ctx context.Context, patient *domain.Patient) error {
	procedureQuery := `
		SELECT p.id, p.name, p.price
		FROM procedures p
		JOIN patient_procedures pp ON pp.procedure_id = p.id
		WHERE pp.patient_id = $1
		ORDER BY p.id
	`

	patient.Procedures = []*domain.Procedure{}
	if err := r.db.SelectContext(ctx, &patient.Procedures, procedureQuery, patient.ID); err != nil {
		return err
	}

	paymentQuery := `
		SELECT id, patient_id, amount, date, paid
		FROM payments
		WHERE patient_id = $1
		ORDER BY id
	`

	patient.Payments = []*domain.Payment{}
	return r.db.SelectContext(ctx, &patient.Payments, paymentQuery, patient.ID)
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
