package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrPatientNotFound        = errors.New("patient not found")
	ErrProcedureNotFound      = errors.New("procedure not found")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrDuplicateProcedureName = errors.New("two procedures cannot share the same name")
	ErrDuplicateAssignment    = errors.New("patient is already scheduled for this procedure")
	ErrAssignmentNotFound     = errors.New("patient is not scheduled for this procedure")
	ErrInvalidMoneyAmount     = errors.New("invalid monetary amount")
	ErrNoDatedPayments        = errors.New("payment collection has no valid payment dates")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodePatientNotFound        = "PATIENT_NOT_FOUND"
	ErrCodeProcedureNotFound      = "PROCEDURE_NOT_FOUND"
	ErrCodePaymentNotFound        = "PAYMENT_NOT_FOUND"
	ErrCodeDuplicateProcedureName = "DUPLICATE_PROCEDURE_NAME"
	ErrCodeDuplicateAssignment    = "DUPLICATE_ASSIGNMENT"
	ErrCodeAssignmentNotFound     = "ASSIGNMENT_NOT_FOUND"
	ErrCodeInvalidMoneyAmount     = "INVALID_MONEY_AMOUNT"
	ErrCodeNoDatedPayments        = "NO_DATED_PAYMENTS"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapPatientNotFound(patientID int64) *BusinessError {
	return NewBusinessError(
		ErrCodePatientNotFound,
		fmt.Sprintf("Patient with ID %d not found", patientID),
		ErrPatientNotFound,
	)
}

func WrapProcedureNotFound(procedureID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeProcedureNotFound,
		fmt.Sprintf("Procedure with ID %d not found", procedureID),
		ErrProcedureNotFound,
	)
}

func WrapPaymentNotFound(paymentID int64) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("Payment with ID %d not found", paymentID),
		ErrPaymentNotFound,
	)
}

func WrapDuplicateProcedureName(name string) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicateProcedureName,
		fmt.Sprintf("A procedure named %q already exists", name),
		ErrDuplicateProcedureName,
	)
}

func WrapDuplicateAssignment(patientID, procedureID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicateAssignment,
		fmt.Sprintf("Patient %d is already scheduled for procedure %d", patientID, procedureID),
		ErrDuplicateAssignment,
	)
}

func WrapAssignmentNotFound(patientID, procedureID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeAssignmentNotFound,
		fmt.Sprintf("Patient %d is not scheduled for procedure %d", patientID, procedureID),
		ErrAssignmentNotFound,
	)
}

func WrapInvalidMoneyAmount(amount float64) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidMoneyAmount,
		fmt.Sprintf("Invalid monetary amount: %v", amount),
		ErrInvalidMoneyAmount,
	)
}

func WrapNoDatedPayments(patientID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeNoDatedPayments,
		fmt.Sprintf("Patient %d has payments but none carries a valid date", patientID),
		ErrNoDatedPayments,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
