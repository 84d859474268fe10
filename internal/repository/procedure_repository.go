package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/dentacore/practice-engine/internal/domain"
	customError "github.com/dentacore/practice-engine/pkg/errors"
)

type procedureRepository struct {
	db  *sqlx.DB
	ids *IDAllocator
}

func NewProcedureRepository(db *sqlx.DB, ids *IDAllocator) ProcedureRepository {
	return &procedureRepository{db: db, ids: ids}
}

func (r *procedureRepository) List(ctx context.Context) ([]*domain.Procedure, error) {
	query := `
		SELECT id, name, price
		FROM procedures
		ORDER BY id
	`

	procedures := []*domain.Procedure{}
	if err := r.db.SelectContext(ctx, &procedures, query); err != nil {
		return nil, err
	}

	return procedures, nil
}

func (r *procedureRepository) Get(ctx context.Context, procedureID int64) (*domain.Procedure, error) {
	query := `
		SELECT id, name, price
		FROM procedures
		WHERE id = $1
	`

	var procedure domain.Procedure
	if err := r.db.GetContext(ctx, &procedure, query, procedureID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapProcedureNotFound(procedureID)
		}
		return nil, err
	}

	return &procedure, nil
}

func (r *procedureRepository) Create(ctx context.Context, procedure *domain.Procedure) error {
	procedure.ID = r.ids.Next()

	query := `
		INSERT INTO procedures (id, name, price)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.ExecContext(ctx, query, procedure.ID, procedure.Name, procedure.Cost); err != nil {
		if isUniqueViolation(err) {
			return customError.WrapDuplicateProcedureName(procedure.Name)
		}
		return err
	}

	return nil
}

func (r *procedureRepository) Update(ctx context.Context, procedure *domain.Procedure) error {
	query := `
		UPDATE procedures
		SET name = $2, price = $3
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, procedure.ID, procedure.Name, procedure.Cost)
	if err != nil {
		if isUniqueViolation(err) {
			return customError.WrapDuplicateProcedureName(procedure.Name)
		}
		return err
	}

	return requireAffected(res, customError.WrapProcedureNotFound(procedure.ID))
}

// Delete removes the catalog procedure and all of its patient assignments in
// one transaction.
func (r *procedureRepository) Delete(ctx context.Context, procedureID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM patient_procedures WHERE procedure_id = $1`, procedureID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM procedures WHERE id = $1`, procedureID)
	if err != nil {
		return err
	}
	if err := requireAffected(res, customError.WrapProcedureNotFound(procedureID)); err != nil {
		return err
	}

	return tx.Commit()
}
