package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dentacore/practice-engine/internal/domain"
	"github.com/dentacore/practice-engine/internal/service"
	"github.com/dentacore/practice-engine/pkg/response"
)

type PaymentHandler struct {
	service   *service.PracticeService
	validator *validator.Validate
}

func NewPaymentHandler(svc *service.PracticeService) *PaymentHandler {
	return &PaymentHandler{
		service:   svc,
		validator: validator.New(),
	}
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "patientId")
	if err != nil {
		response.BadRequest(w, "invalid patient id", err)
		return
	}

	var request domain.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	payment, err := h.service.CreatePayment(r.Context(), patientID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, payment)
}

func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(r, "paymentId")
	if err != nil {
		response.BadRequest(w, "invalid payment id", err)
		return
	}

	var request domain.UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	payment, err := h.service.UpdatePayment(r.Context(), paymentID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, payment)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	paymentID, err := pathID(r, "paymentId")
	if err != nil {
		response.BadRequest(w, "invalid payment id", err)
		return
	}

	if err := h.service.DeletePayment(r.Context(), paymentID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, nil)
}
