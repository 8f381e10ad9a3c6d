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

type MapHandler struct {
	mapService *service.MapService
	validator  *validator.Validate
}

func NewMapHandler(mapService *service.MapService) *MapHandler {
	return &MapHandler{
		mapService: mapService,
		validator:  validator.New(),
	}
}

func (h *MapHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req domain.CreateMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	gameMap, err := h.mapService.Create(userID, &req)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.JSON(w, http.StatusCreated, gameMap)
}

func (h *MapHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	maps, err := h.mapService.List(userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, maps)
}

func (h *MapHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	mapID := vars["id"]

	gameMap, err := h.mapService.Get(userID, mapID)
	if err != nil {
		writeMapError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, gameMap)
}

func (h *MapHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	mapID := vars["id"]

	var req domain.UpdateMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	gameMap, err := h.mapService.Update(userID, mapID, &req)
	if err != nil {
		writeMapError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, gameMap)
}

func (h *MapHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	vars := mux.Vars(r)
	mapID := vars["id"]

	if err := h.mapService.Delete(userID, mapID); err != nil {
		writeMapError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "map deleted"})
}

func writeMapError(w http.ResponseWriter, err error) {
	switch err {
	case service.ErrAccessDenied:
		response.Error(w, http.StatusForbidden, "access denied")
	case service.ErrMapNotFound:
		response.Error(w, http.StatusNotFound, "map not found")
	default:
		response.Error(w, http.StatusInternalServerError, err.Error())
	}
}
