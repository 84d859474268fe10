package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a single payment belonging to exactly one patient. Paid marks
// the payment as recorded; a pending payment does not reduce the patient's
// balance.
type Payment struct {
	ID        int64           `json:"id" db:"id"`
	PatientID int64           `json:"patient_id" db:"patient_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Date      time.Time       `json:"date" db:"date"`
	Paid      bool            `json:"paid" db:"paid"`
}

// DTOs for requests

type CreatePaymentRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
	Paid   bool    `json:"paid"`
	// Date defaults to the creation time when omitted.
	Date *time.Time `json:"date,omitempty"`
}

type UpdatePaymentRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
	Paid   bool    `json:"paid"`
}
