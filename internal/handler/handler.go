package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	customError "github.com/dentacore/practice-engine/pkg/errors"
	"github.com/dentacore/practice-engine/pkg/response"
)

// pathID extracts a numeric identifier from a mux route variable.
func pathID(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return 0, errors.New("missing " + name + " path parameter")
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(name + " must be a positive integer")
	}

	return id, nil
}

// writeError maps domain and gateway errors onto HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customError.ErrPatientNotFound),
		errors.Is(err, customError.ErrProcedureNotFound),
		errors.Is(err, customError.ErrPaymentNotFound),
		errors.Is(err, customError.ErrAssignmentNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, customError.ErrDuplicateProcedureName),
		errors.Is(err, customError.ErrDuplicateAssignment):
		response.Conflict(w, "conflict", err)
	case errors.Is(err, customError.ErrInvalidMoneyAmount),
		errors.Is(err, customError.ErrNoDatedPayments):
		response.BadRequest(w, "validation failed", err)
	default:
		response.InternalServerError(w, "internal error", err)
	}
}
