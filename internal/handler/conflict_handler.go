package handler

import (
	"encoding/json"
	"net/http"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/middleware"
	"battlemap-sync-server/internal/service"
	"battlemap-sync-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type ConflictHandler struct {
	conflictService *service.ConflictService
	validator       *validator.Validate
}

func NewConflictHandler(conflictService *service.ConflictService) *ConflictHandler {
	return &ConflictHandler{
		conflictService: conflictService,
		validator:       validator.New(),
	}
}

// SubmitOperation records a conflicting edit into the operation log. The
// response distinguishes an auto-resolved race from a group waiting on
// manual review.
func (h *ConflictHandler) SubmitOperation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req domain.SubmitOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	op, group, err := h.conflictService.Submit(userID, &req)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	pending := h.conflictService.PendingGroup(group.ObjectID) != nil

	response.JSON(w, http.StatusAccepted, map[string]interface{}{
		"operation":     op,
		"conflict":      group,
		"auto_resolved": !pending,
	})
}

func (h *ConflictHandler) ListConflicts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	groups := h.conflictService.PendingGroups()

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"conflicts": groups,
		"count":     len(groups),
	})
}

func (h *ConflictHandler) GetConflict(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	objectID := vars["objectId"]

	group := h.conflictService.PendingGroup(objectID)
	if group == nil {
		response.Error(w, http.StatusNotFound, "conflict not found")
		return
	}

	response.JSON(w, http.StatusOK, group)
}

func (h *ConflictHandler) ResolveConflict(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	objectID := vars["objectId"]

	var req domain.ResolveConflictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	object, err := h.conflictService.Resolve(userID, objectID, req.Strategy)
	if err != nil {
		if err == service.ErrConflictNotFound {
			response.Error(w, http.StatusNotFound, "conflict not found")
			return
		}
		if err == service.ErrUnknownStrategy {
			response.Error(w, http.StatusBadRequest, "unknown resolution strategy")
			return
		}
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if object == nil {
		// Cancelled, or the target object no longer exists.
		response.JSON(w, http.StatusOK, map[string]string{"message": "conflict discarded"})
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "conflict resolved",
		"object":  object,
	})
}

func (h *ConflictHandler) ReviewOperation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	operationID := vars["id"]

	var req domain.ReviewOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.conflictService.ReviewOperation(operationID, req.Decision); err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "operation reviewed"})
}
