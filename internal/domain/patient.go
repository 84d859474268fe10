package domain

import (
	"github.com/shopspring/decimal"

	customError "github.com/dentacore/practice-engine/pkg/errors"
)

// Patient represents a patient of the practice together with the procedures
// scheduled for them and the payments they have made.
type Patient struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Address string `json:"address" db:"address"`
	Phone   string `json:"phone" db:"phone"`

	Procedures []*Procedure `json:"procedures"`
	Payments   []*Payment   `json:"payments"`
}

// AmountOwed is the total cost of the patient's scheduled procedures minus
// the total of their recorded (paid) payments. Pending payments do not
// count. The result may be negative when the patient has overpaid.
func (p *Patient) AmountOwed() decimal.Decimal {
	owed := decimal.Zero

	for _, proc := range p.Procedures {
		owed = owed.Add(proc.Cost)
	}

	for _, pay := range p.Payments {
		if pay.Paid {
			owed = owed.Sub(pay.Amount)
		}
	}

	return owed
}

// LastPayment returns the patient's most recent payment by date. Entries
// without a date are skipped; if no entry carries a valid date the ordering
// is unresolvable and an error is returned.
func (p *Patient) LastPayment() (*Payment, error) {
	var last *Payment

	for _, pay := range p.Payments {
		if pay.Date.IsZero() {
			continue
		}
		if last == nil || pay.Date.After(last.Date) {
			last = pay
		}
	}

	if last == nil {
		return nil, customError.WrapNoDatedPayments(p.ID)
	}

	return last, nil
}

// DTOs for requests

type CreatePatientRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

type UpdatePatientRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}
