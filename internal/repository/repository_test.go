package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentacore/practice-engine/internal/domain"
	customError "github.com/dentacore/practice-engine/pkg/errors"
)

func openTestDB(t *testing.T) (*sqlx.DB, *Allocators) {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	allocators, err := SeedAllocators(context.Background(), db)
	require.NoError(t, err)

	return db, allocators
}

func TestSeedAllocators_EmptyDatabaseStartsAtOne(t *testing.T) {
	_, allocators := openTestDB(t)

	assert.Equal(t, int64(1), allocators.Patients.Next())
	assert.Equal(t, int64(2), allocators.Patients.Next())
	assert.Equal(t, int64(1), allocators.Procedures.Next())
	assert.Equal(t, int64(1), allocators.Payments.Next())
}

func TestSeedAllocators_ResumesAfterMax(t *testing.T) {
	db, allocators := openTestDB(t)
	ctx := context.Background()

	patients := NewPatientRepository(db, allocators.Patients)
	require.NoError(t, patients.Create(ctx, &domain.Patient{Name: "Alice", Address: "a", Phone: "p"}))
	require.NoError(t, patients.Create(ctx, &domain.Patient{Name: "Bob", Address: "a", Phone: "p"}))

	reseeded, err := SeedAllocators(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), reseeded.Patients.Next())
}

func TestPatientRepository_CreateGetUpdateDelete(t *testing.T) {
	db, allocators := openTestDB(t)
	ctx := context.Background()

	patients := NewPatientRepository(db, allocators.Patients)

	patient := &domain.Patient{Name: "Alice", Address: "1 Main Street", Phone: "555-0100"}
	require.NoError(t, patients.Create(ctx, patient))
	assert.Equal(t, int64(1), patient.ID)

	loaded, err := patients.Get(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", loaded.Name)
	assert.Empty(t, loaded.Procedures)
	assert.Empty(t, loaded.Payments)

	loaded.Name = "Alicia"
	require.NoError(t, patients.Update(ctx, loaded))

	again, err := patients.Get(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", again.Name)

	require.NoError(t, patients.Delete(ctx, patient.ID))

	_, err = patients.Get(ctx, patient.ID)
	assert.ErrorIs(t, err, customError.ErrPatientNotFound)
}

func TestPatientRepository_NotFound(t *testing.T) {
	db, allocators := openTestDB(t)
	ctx := context.Background()

	patients := NewPatientRepository(db, allocators.Patients)

	_, err := patients.Get(ctx, 42)
	assert.ErrorIs(t, err, customError.ErrPatientNotFound)

	assert.ErrorIs(t, patients.Update(ctx, &domain.Patient{ID: 42, Name: "x", Address: "x", Phone: "x"}), customError.ErrPatientNotFound)
	assert.ErrorIs(t, patients.Delete(ctx, 42), customError.ErrPatientNotFound)
}

func TestProcedureRepository_UniqueName(t *testing.T) {
	db, allocators := openTestDB(t)
	ctx := context.Background()

	procedures := NewProcedureRepository(db, allocators.Procedures)

	first := &domain.Procedure{Name: "Cleaning", Cost: domain.MustMoney(50)}
	require.NoError(t, procedures.Create(ctx, first))

	dup := &domain.Procedure{Name: "Cleaning", Cost: domain.MustMoney(60)}
	assert.ErrorIs(t, procedures.Create(ctx, dup), customError.ErrDuplicateProcedureName)
}

func TestAssignProcedure_PopulatesPatientAndRejectsDuplicates(t *testing.T) {
	db, allocators := openTestDB(t)
	ctx := context.Background()

	patients := NewPatientRepository(db, allocators.Patients)
	procedures := NewProcedureRepository(db, allocators.Procedures)

	patient := &domain.Patient{Name: "Alice", Address: "a", Phone: "p"}
	require.NoError(t, patients.Create(ctx, patient))

	procedure := &domain.Procedure{Name: "Crown", Cost: domain.MustMoney(100)}
	require.NoError(t, procedures.Create(ctx, procedure))

	require.NoError(t, patients.AssignProcedure(ctx, patient.ID, procedure.ID))

	loaded, err := patients.Get(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Procedures, 1)
	assert.Equal(t, "Crown", loaded.Procedures[0].Name)
	assert.Equal(t, "100.00", loaded.Procedures[0].Cost.StringFixed(2))

	assert.ErrorIs(t, patients.AssignProcedure(ctx, patient.ID, procedure.ID), customError.ErrDuplicateAssignment)
}

func TestPaymentRepository_RoundTrip(t *testing.T) {
	db, allocators := openTestDB(t)
	ctx := context.Background()

	patients := NewPatientRepository(db, allocators.Patients)
	payments := NewPaymentRepository(db, allocators.Payments)

	patient := &domain.Patient{Name: "Alice", Address: "a", Phone: "p"}
	require.NoError(t, patients.Create(ctx, patient))

	payment := &domain.Payment{
		PatientID: patient.ID,
		Amount:    domain.MustMoney(40),
		Date:      time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC),
		Paid:      true,
	}
	require.NoError(t, payments.Create(ctx, payment))

	loaded, err := payments.Get(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, loaded.PatientID)
	assert.Equal(t, "40.00", loaded.Amount.StringFixed(2))
	assert.True(t, loaded.Paid)
	assert.True(t, loaded.Date.Equal(payment.Date))

	loaded.Paid = false
	require.NoError(t, payments.Update(ctx, loaded))

	again, err := payments.Get(ctx, payment.ID)
	require.NoError(t, err)
	assert.False(t, again.Paid)

	require.NoError(t, payments.Delete(ctx, payment.ID))
	_, err = payments.Get(ctx, payment.ID)
	assert.ErrorIs(t, err, customError.ErrPaymentNotFound)
}

func TestDeletePatient_CascadesPaymentsAndAssignments(t *testing.T) {
	db, allocators := openTestDB(t)
	ctx := context.Background()

	patients := NewPatientRepository(db, allocators.Patients)
	procedures := NewProcedureRepository(db, allocators.Procedures)
	payments := NewPaymentRepository(db, allocators.Payments)

	patient := &domain.Patient{Name: "Alice", Address: "a", Phone: "p"}
	require.NoError(t, patients.Create(ctx, patient))

	procedure := &domain.Procedure{Name: "Crown", Cost: domain.MustMoney(100)}
	require.NoError(t, procedures.Create(ctx, procedure))
	require.NoError(t, patients.AssignProcedure(ctx, patient.ID, procedure.ID))

	payment := &domain.Payment{PatientID: patient.ID, Amount: domain.MustMoney(40), Date: time.Now(), Paid: true}
	require.NoError(t, payments.Create(ctx, payment))

	require.NoError(t, patients.Delete(ctx, patient.ID))

	_, err := payments.Get(ctx, payment.ID)
	assert.ErrorIs(t, err, customError.ErrPaymentNotFound)

	var assignments int
	require.NoError(t, db.Get(&assignments, "SELECT COUNT(*) FROM patient_procedures"))
	assert.Zero(t, assignments)

	// Catalog entry survives the patient
	_, err = procedures.Get(ctx, procedure.ID)
	assert.NoError(t, err)
}

func TestDeleteProcedure_CascadesAssignmentsOnly(t *testing.T) {
	db, allocators := openTestDB(t)
	ctx := context.Background()

	patients := NewPatientRepository(db, allocators.Patients)
	procedures := NewProcedureRepository(db, allocators.Procedures)

	patient := &domain.Patient{Name: "Alice", Address: "a", Phone: "p"}
	require.NoError(t, patients.Create(ctx, patient))

	procedure := &domain.Procedure{Name: "Crown", Cost: domain.MustMoney(100)}
	require.NoError(t, procedures.Create(ctx, procedure))
	require.NoError(t, patients.AssignProcedure(ctx, patient.ID, procedure.ID))

	require.NoError(t, procedures.Delete(ctx, procedure.ID))

	loaded, err := patients.Get(ctx, patient.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Procedures)
}

func TestAllocatorsFromDataset(t *testing.T) {
	patients := []*domain.Patient{
		{ID: 4, Payments: []*domain.Payment{{ID: 9}, {ID: 2}}},
		{ID: 1},
	}
	catalog := []*domain.Procedure{{ID: 7}}

	allocators := AllocatorsFromDataset(patients, catalog)

	assert.Equal(t, int64(5), allocators.Patients.Next())
	assert.Equal(t, int64(8), allocators.Procedures.Next())
	assert.Equal(t, int64(10), allocators.Payments.Next())
}

func TestUnassignProcedure_NotAssigned(t *testing.T) {
	db, allocators := openTestDB(t)
	patients := NewPatientRepository(db, allocators.Patients)
	procedures := NewProcedureRepository(db, allocators.Procedures)
	ctx := context.Background()

	patient := &domain.Patient{Name: "Alice", Address: "a", Phone: "p"}
	require.NoError(t, patients.Create(ctx, patient))

	procedure := &domain.Procedure{Name: "Crown", Cost: domain.MustMoney(100)}
	require.NoError(t, procedures.Create(ctx, procedure))

	// Both sides exist but no assignment does.
	err := patients.UnassignProcedure(ctx, patient.ID, procedure.ID)
	assert.ErrorIs(t, err, customError.ErrAssignmentNotFound)
	assert.NotErrorIs(t, err, customError.ErrProcedureNotFound)
}
