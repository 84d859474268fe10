package domain

import (
	"github.com/shopspring/decimal"
)

// Procedure is a catalog entry: a named, priced service offering. The same
// catalog procedure may be scheduled for many patients, but a patient may
// carry it at most once.
type Procedure struct {
	ID   int64           `json:"id" db:"id"`
	Name string          `json:"name" db:"name"`
	Cost decimal.Decimal `json:"cost" db:"price"`
}

// DTOs for requests

type CreateProcedureRequest struct {
	Name string  `json:"name" validate:"required"`
	Cost float64 `json:"cost" validate:"gte=0"`
}

type UpdateProcedureRequest struct {
	Name string  `json:"name" validate:"required"`
	Cost float64 `json:"cost" validate:"gte=0"`
}
