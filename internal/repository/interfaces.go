package repository

import (
	"context"

	"github.com/dentacore/practice-engine/internal/domain"
)

// PatientRepository defines the interface for patient data operations
type PatientRepository interface {
	// List retrieves all patients with their procedure and payment
	// collections populated
	List(ctx context.Context) ([]*domain.Patient, error)

	// Get retrieves a single patient, fully populated
	Get(ctx context.Context, patientID int64) (*domain.Patient, error)

	// Create inserts a new patient, assigning its ID
	Create(ctx context.Context, patient *domain.Patient) error

	// Update rewrites a patient's name, address and phone
	Update(ctx context.Context, patient *domain.Patient) error

	// Delete removes a patient together with their payments and
	// procedure assignments
	Delete(ctx context.Context, patientID int64) error

	// AssignProcedure schedules a catalog procedure for a patient
	AssignProcedure(ctx context.Context, patientID, procedureID int64) error

	// UnassignProcedure removes a scheduled procedure from a patient
	UnassignProcedure(ctx context.Context, patientID, procedureID int64) error
}

// ProcedureRepository defines the interface for catalog procedure operations
type ProcedureRepository interface {
	// List retrieves the full procedure catalog
	List(ctx context.Context) ([]*domain.Procedure, error)

	// Get retrieves a single catalog procedure
	Get(ctx context.Context, procedureID int64) (*domain.Procedure, error)

	// Create inserts a new catalog procedure, assigning its ID
	Create(ctx context.Context, procedure *domain.Procedure) error

	// Update rewrites a catalog procedure's name and cost
	Update(ctx context.Context, procedure *domain.Procedure) error

	// Delete removes a catalog procedure together with all of its
	// patient assignments
	Delete(ctx context.Context, procedureID int64) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Get retrieves a single payment
	Get(ctx context.Context, paymentID int64) (*domain.Payment, error)

	// Create inserts a new payment for a patient, assigning its ID
	Create(ctx context.Context, payment *domain.Payment) error

	// Update rewrites a payment's amount and paid status
	Update(ctx context.Context, payment *domain.Payment) error

	// Delete removes a payment
	Delete(ctx context.Context, paymentID int64) error
}
