package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dentacore/practice-engine/internal/domain"
	"github.com/dentacore/practice-engine/internal/service"
	"github.com/dentacore/practice-engine/pkg/response"
)

type ProcedureHandler struct {
	service   *service.PracticeService
	validator *validator.Validate
}

func NewProcedureHandler(svc *service.PracticeService) *ProcedureHandler {
	return &ProcedureHandler{
		service:   svc,
		validator: validator.New(),
	}
}

func (h *ProcedureHandler) List(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.service.ListCatalog(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, catalog)
}

func (h *ProcedureHandler) Get(w http.ResponseWriter, r *http.Request) {
	procedureID, err := pathID(r, "procedureId")
	if err != nil {
		response.BadRequest(w, "invalid procedure id", err)
		return
	}

	procedure, err := h.service.GetProcedure(r.Context(), procedureID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, procedure)
}

func (h *ProcedureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateProcedureRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	procedure, err := h.service.CreateProcedure(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, procedure)
}

func (h *ProcedureHandler) Update(w http.ResponseWriter, r *http.Request) {
	procedureID, err := pathID(r, "procedureId")
	if err != nil {
		response.BadRequest(w, "invalid procedure id", err)
		return
	}

	var request domain.UpdateProcedureRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	procedure, err := h.service.UpdateProcedure(r.Context(), procedureID, &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, procedure)
}

func (h *ProcedureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	procedureID, err := pathID(r, "procedureId")
	if err != nil {
		response.BadRequest(w, "invalid procedure id", err)
		return
	}

	if err := h.service.DeleteProcedure(r.Context(), procedureID); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, nil)
}
