package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/dentacore/practice-engine/internal/domain"
	customError "github.com/dentacore/practice-engine/pkg/errors"
)

type paymentRepository struct {
	db  *sqlx.DB
	ids *IDAllocator
}

func NewPaymentRepository(db *sqlx.DB, ids *IDAllocator) PaymentRepository {
	return &paymentRepository{db: db, ids: ids}
}

func (r *paymentRepository) Get(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	query := `
		SELECT id, patient_id, amount, date, paid
		FROM payments
		WHERE id = $1
	`

	var payment domain.Payment
	if err := r.db.GetContext(ctx, &payment, query, paymentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPaymentNotFound(paymentID)
		}
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	payment.ID = r.ids.Next()

	query := `
		INSERT INTO payments (id, patient_id, amount, date, paid)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.PatientID,
		payment.Amount,
		payment.Date,
		payment.Paid,
	)

	return err
}

func (r *paymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET amount = $2, paid = $3
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, payment.ID, payment.Amount, payment.Paid)
	if err != nil {
		return err
	}

	return requireAffected(res, customError.WrapPaymentNotFound(payment.ID))
}

func (r *paymentRepository) Delete(ctx context.Context, paymentID int64) error {
	query := `DELETE FROM payments WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, paymentID)
	if err != nil {
		return err
	}

	return requireAffected(res, customError.WrapPaymentNotFound(paymentID))
}
