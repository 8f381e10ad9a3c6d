package handler

import (
	"encoding/json"
	"net/http"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/middleware"
	"battlemap-sync-server/internal/validation"
	"battlemap-sync-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type SchemaHandler struct {
	registry  *validation.SchemaRegistry
	validator *validator.Validate
}

func NewSchemaHandler(registry *validation.SchemaRegistry) *SchemaHandler {
	return &SchemaHandler{
		registry:  registry,
		validator: validator.New(),
	}
}

func (h *SchemaHandler) ListObjectTypes(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"object_types": h.registry.ObjectTypes(),
	})
}

func (h *SchemaHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	objectType := vars["objectType"]

	schema := h.registry.GetSchema(objectType)
	if schema == nil {
		response.Error(w, http.StatusNotFound, "schema not found")
		return
	}

	response.JSON(w, http.StatusOK, schema)
}

func (h *SchemaHandler) GetFields(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	objectType := vars["objectType"]

	if h.registry.GetSchema(objectType) == nil {
		response.Error(w, http.StatusNotFound, "schema not found")
		return
	}

	response.JSON(w, http.StatusOK, h.registry.GetFields(objectType))
}

func (h *SchemaHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	objectType := vars["objectType"]

	if h.registry.GetSchema(objectType) == nil {
		response.Error(w, http.StatusNotFound, "schema not found")
		return
	}

	response.JSON(w, http.StatusOK, h.registry.GetGroups(objectType))
}

func (h *SchemaHandler) AddCustomField(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	objectType := vars["objectType"]

	var req domain.AddCustomFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	field, err := h.registry.AddCustomField(objectType, domain.PropertyField{
		Key:      req.Key,
		Label:    req.Label,
		Type:     req.Type,
		Group:    req.Group,
		Required: req.Required,
		Min:      req.Min,
		Max:      req.Max,
		Options:  req.Options,
	})
	if err != nil {
		if err == validation.ErrSchemaNotFound {
			response.Error(w, http.StatusNotFound, "schema not found")
			return
		}
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	response.JSON(w, http.StatusCreated, field)
}

func (h *SchemaHandler) RemoveCustomField(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	fieldID := vars["fieldId"]

	if !h.registry.RemoveCustomField(fieldID) {
		response.Error(w, http.StatusNotFound, "custom field not found")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "field removed"})
}
