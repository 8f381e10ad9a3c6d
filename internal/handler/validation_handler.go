package handler

import (
	"encoding/json"
	"net/http"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/middleware"
	"battlemap-sync-server/internal/service"
	"battlemap-sync-server/pkg/response"

	"github.com/gorilla/mux"
)

type ValidationHandler struct {
	validationService *service.ValidationService
}

func NewValidationHandler(validationService *service.ValidationService) *ValidationHandler {
	return &ValidationHandler{
		validationService: validationService,
	}
}

// GetValidation runs validation for the object immediately and returns the
// per-field breakdown, bypassing any pending debounce.
func (h *ValidationHandler) GetValidation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	objectID := vars["id"]

	result, err := h.validationService.Validate(objectID)
	if err != nil {
		response.Error(w, http.StatusNotFound, "object not found")
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// SetValue records one field edit in the object's live value set. The
// returned snapshot carries the validation state of the previous run;
// revalidation lands once the debounce window closes.
func (h *ValidationHandler) SetValue(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	objectID := vars["id"]
	key := vars["key"]

	var req domain.SetValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	values, err := h.validationService.SetValue(objectID, key, req.Value)
	if err != nil {
		response.Error(w, http.StatusNotFound, "object not found")
		return
	}

	response.JSON(w, http.StatusOK, values)
}

// CloseEditor drops the object's live value set, usually on deselection.
func (h *ValidationHandler) CloseEditor(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	objectID := vars["id"]

	h.validationService.Close(objectID)

	response.JSON(w, http.StatusOK, map[string]string{"message": "editor closed"})
}
