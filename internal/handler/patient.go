package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dentacore/practice-engine/internal/domain"
	"github.com/dentacore/practice-engine/internal/service"
	"github.com/dentacore/practice-engine/pkg/response"
)

type PatientHandler struct {
	service   *service.PracticeService
	validator *validator.Validate
}

func NewPatientHandler(svc *service.PracticeService) *PatientHandler {
	return &PatientHandler{
		service:   svc,
		validator: validator.New(),
	}
}

func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	patients, err := h.service.ListPatients(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, patients)
}

func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "patientId")
	if err != nil {
		response.BadRequest(w, "invalid patient id", err)
		return
	}

	patient, err := h.service.GetPatient(r.Context(), patientID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, patient)
}

func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	patient, err := h.service.CreatePatient(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, patient)
}

func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "patientId")
	if err != nil {
		response.BadRequest(w, "invalid patient id", err)
		return
	}

	var request domain.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	patient, err := h.service.UpdatePatient(r.Context(), patientID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, patient)
}

func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "patientId")
	if err != nil {
		response.BadRequest(w, "invalid patient id", err)
		return
	}

	if err := h.service.DeletePatient(r.Context(), patientID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, nil)
}

func (h *PatientHandler) AssignProcedure(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "patientId")
	if err != nil {
		response.BadRequest(w, "invalid patient id", err)
		return
	}

	procedureID, err := pathID(r, "procedureId")
	if err != nil {
		response.BadRequest(w, "invalid procedure id", err)
		return
	}

	if err := h.service.AssignProcedure(r.Context(), patientID, procedureID); err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, nil)
}

func (h *PatientHandler) UnassignProcedure(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "patientId")
	if err != nil {
		response.BadRequest(w, "invalid patient id", err)
		return
	}

	procedureID, err := pathID(r, "procedureId")
	if err != nil {
		response.BadRequest(w, "invalid procedure id", err)
		return
	}

	if err := h.service.UnassignProcedure(r.Context(), patientID, procedureID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, nil)
}
