package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/middleware"
	"battlemap-sync-server/internal/service"
	"battlemap-sync-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type ObjectHandler struct {
	objectService *service.ObjectService
	validator     *validator.Validate
}

func NewObjectHandler(objectService *service.ObjectService) *ObjectHandler {
	return &ObjectHandler{
		objectService: objectService,
		validator:     validator.New(),
	}
}

func (h *ObjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req domain.CreateObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	object, err := h.objectService.Create(userID, &req)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.JSON(w, http.StatusCreated, object)
}

func (h *ObjectHandler) ListByMap(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	mapID := r.URL.Query().Get("map_id")
	if mapID == "" {
		response.Error(w, http.StatusBadRequest, "map_id is required")
		return
	}

	objects, err := h.objectService.ListByMap(mapID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, objects)
}

func (h *ObjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	objectID := vars["id"]

	object, err := h.objectService.GetByID(objectID)
	if err != nil {
		response.Error(w, http.StatusNotFound, "object not found")
		return
	}

	response.JSON(w, http.StatusOK, object)
}

// Update applies a direct edit. A stale expected_version does not fail the
// request outright: the edit lands in the conflict log and the client gets
// a 409 carrying the pending group to render.
func (h *ObjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	objectID := vars["id"]

	var req domain.UpdateObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	object, err := h.objectService.Update(userID, objectID, &req)
	if err != nil {
		var conflictErr *service.ConflictError
		if errors.As(err, &conflictErr) {
			response.JSON(w, http.StatusConflict, map[string]interface{}{
				"message":  "conflict detected",
				"conflict": conflictErr.Group,
			})
			return
		}
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, object)
}

func (h *ObjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	objectID := vars["id"]

	if err := h.objectService.Delete(userID, objectID); err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "object deleted"})
}
