// Package mocks provides testify doubles for the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dentacore/practice-engine/internal/domain"
)

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) List(ctx context.Context) ([]*domain.Patient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Patient), args.Error(1)
}

func (m *MockPatientRepository) Get(ctx context.Context, patientID int64) (*domain.Patient, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patient), args.Error(1)
}

func (m *MockPatientRepository) Create(ctx context.Context, patient *domain.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) Update(ctx context.Context, patient *domain.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) Delete(ctx context.Context, patientID int64) error {
	args := m.Called(ctx, patientID)
	return args.Error(0)
}

func (m *MockPatientRepository) AssignProcedure(ctx context.Context, patientID, procedureID int64) error {
	args := m.Called(ctx, patientID, procedureID)
	return args.Error(0)
}

func (m *MockPatientRepository) UnassignProcedure(ctx context.Context, patientID, procedureID int64) error {
	args := m.Called(ctx, patientID, procedureID)
	return args.Error(0)
}

type MockProcedureRepository struct {
	mock.Mock
}

func (m *MockProcedureRepository) List(ctx context.Context) ([]*domain.Procedure, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Procedure), args.Error(1)
}

func (m *MockProcedureRepository) Get(ctx context.Context, procedureID int64) (*domain.Procedure, error) {
	args := m.Called(ctx, procedureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Procedure), args.Error(1)
}

func (m *MockProcedureRepository) Create(ctx context.Context, procedure *domain.Procedure) error {
	args := m.Called(ctx, procedure)
	return args.Error(0)
}

func (m *MockProcedureRepository) Update(ctx context.Context, procedure *domain.Procedure) error {
	args := m.Called(ctx, procedure)
	return args.Error(0)
}

func (m *MockProcedureRepository) Delete(ctx context.Context, procedureID int64) error {
	args := m.Called(ctx, procedureID)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Get(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, paymentID int64) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}
