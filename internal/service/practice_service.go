package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dentacore/practice-engine/internal/config"
	"github.com/dentacore/practice-engine/internal/domain"
	"github.com/dentacore/practice-engine/internal/repository"
	customError "github.com/dentacore/practice-engine/pkg/errors"
)

// PracticeService orchestrates patient, procedure and payment CRUD over the
// persistence gateway. All derived values (balances, overdue status) are
// computed by the domain package; this layer only moves entities around and
// keeps the report cache honest.
type PracticeService struct {
	patients   repository.PatientRepository
	procedures repository.ProcedureRepository
	payments   repository.PaymentRepository
	redis      *redis.Client
	config     *config.Config
}

func NewPracticeService(
	patients repository.PatientRepository,
	procedures repository.ProcedureRepository,
	payments repository.PaymentRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *PracticeService {
	return &PracticeService{
		patients:   patients,
		procedures: procedures,
		payments:   payments,
		redis:      redisClient,
		config:     cfg,
	}
}

// Patients

func (s *PracticeService) ListPatients(ctx context.Context) ([]*domain.Patient, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return patients, nil
}

func (s *PracticeService) GetPatient(ctx context.Context, patientID int64) (*domain.Patient, error) {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return patient, nil
}

func (s *PracticeService) CreatePatient(ctx context.Context, request *domain.CreatePatientRequest) (*domain.Patient, error) {
	patient := &domain.Patient{
		Name:       request.Name,
		Address:    request.Address,
		Phone:      request.Phone,
		Procedures: []*domain.Procedure{},
		Payments:   []*domain.Payment{},
	}

	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, wrapRepoError(err)
	}

	s.invalidateReports(ctx)

	return patient, nil
}

func (s *PracticeService) UpdatePatient(ctx context.Context, patientID int64, request *domain.UpdatePatientRequest) (*domain.Patient, error) {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return nil, wrapRepoError(err)
	}

	// Identity is fixed; only the contact attributes are mutable.
	patient.Name = request.Name
	patient.Address = request.Address
	patient.Phone = request.Phone

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, wrapRepoError(err)
	}

	s.invalidateReports(ctx)

	return patient, nil
}

func (s *PracticeService) DeletePatient(ctx context.Context, patientID int64) error {
	if err := s.patients.Delete(ctx, patientID); err != nil {
		return wrapRepoError(err)
	}

	s.invalidateReports(ctx)

	return nil
}

// Procedure catalog

func (s *PracticeService) ListCatalog(ctx context.Context) ([]*domain.Procedure, error) {
	catalog, err := s.procedures.List(ctx)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return catalog, nil
}

func (s *PracticeService) GetProcedure(ctx context.Context, procedureID int64) (*domain.Procedure, error) {
	procedure, err := s.procedures.Get(ctx, procedureID)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return procedure, nil
}

func (s *PracticeService) CreateProcedure(ctx context.Context, request *domain.CreateProcedureRequest) (*domain.Procedure, error) {
	cost, err := domain.NewMoney(request.Cost)
	if err != nil {
		return nil, err
	}

	procedure := &domain.Procedure{
		Name: request.Name,
		Cost: cost,
	}

	if err := s.procedures.Create(ctx, procedure); err != nil {
		return nil, wrapRepoError(err)
	}

	s.invalidateReports(ctx)

	return procedure, nil
}

func (s *PracticeService) UpdateProcedure(ctx context.Context, procedureID int64, request *domain.UpdateProcedureRequest) (*domain.Procedure, error) {
	procedure, err := s.procedures.Get(ctx, procedureID)
	if err != nil {
		return nil, wrapRepoError(err)
	}

	cost, err := domain.NewMoney(request.Cost)
	if err != nil {
		return nil, err
	}

	procedure.Name = request.Name
	procedure.Cost = cost

	if err := s.procedures.Update(ctx, procedure); err != nil {
		return nil, wrapRepoError(err)
	}

	s.invalidateReports(ctx)

	return procedure, nil
}

func (s *PracticeService) DeleteProcedure(ctx context.Context, procedureID int64) error {
	if err := s.procedures.Delete(ctx, procedureID); err != nil {
		return wrapRepoError(err)
	}

	s.invalidateReports(ctx)

	return nil
}

// Assignments

func (s *PracticeService) AssignProcedure(ctx context.Context, patientID, procedureID int64) error {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return wrapRepoError(err)
	}
	if _, err := s.procedures.Get(ctx, procedureID); err != nil {
		return wrapRepoError(err)
	}

	if err := s.patients.AssignProcedure(ctx, patientID, procedureID); err != nil {
		return wrapRepoError(err)
	}

	s.invalidateReports(ctx)

	return nil
}

func (s *PracticeService) UnassignProcedure(ctx context.Context, patientID, procedureID int64) error {
	if err := s.patients.UnassignProcedure(ctx, patientID, procedureID); err != nil {
		return wrapRepoError(err)
	}

	s.invalidateReports(ctx)

	return nil
}

// Payments

func (s *PracticeService) CreatePayment(ctx context.Context, patientID int64, request *domain.CreatePaymentRequest) (*domain.Payment, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, wrapRepoError(err)
	}

	amount, err := domain.NewMoney(request.Amount)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if request.Date != nil {
		date = *request.Date
	}

	payment := &domain.Payment{
		PatientID: patientID,
		Amount:    amount,
		Date:      date,
		Paid:      request.Paid,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, wrapRepoError(err)
	}

	s.invalidateReports(ctx)

	return payment, nil
}

func (s *PracticeService) UpdatePayment(ctx context.Context, paymentID int64, request *domain.UpdatePaymentRequest) (*domain.Payment, error) {
	payment, err := s.payments.Get(ctx, paymentID)
	if err != nil {
		return nil, wrapRepoError(err)
	}

	amount, err := domain.NewMoney(request.Amount)
	if err != nil {
		return nil, err
	}

	payment.Amount = amount
	payment.Paid = request.Paid

	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, wrapRepoError(err)
	}

	s.invalidateReports(ctx)

	return payment, nil
}

func (s *PracticeService) DeletePayment(ctx context.Context, paymentID int64) error {
	if err := s.payments.Delete(ctx, paymentID); err != nil {
		return wrapRepoError(err)
	}

	s.invalidateReports(ctx)

	return nil
}

// invalidateReports drops cached report payloads after any mutation. The
// cache is best effort: a failure here only means a stale report until the
// TTL runs out.
func (s *PracticeService) invalidateReports(ctx context.Context) {
	if s.redis == nil {
		return
	}

	// SCAN rather than KEYS; the latter blocks the server on large keyspaces.
	iter := s.redis.Scan(ctx, 0, reportCachePrefix+"*", 100).Iterator()

	keys := make([]string, 0, 8)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iter.Err() != nil || len(keys) == 0 {
		return
	}

	s.redis.Del(ctx, keys...)
}

// wrapRepoError passes business errors through untouched and wraps anything
// else as a database failure.
func wrapRepoError(err error) error {
	var businessErr *customError.BusinessError
	if errors.As(err, &businessErr) {
		return err
	}
	return customError.WrapDatabaseError(err)
}
