package handler

import (
	"encoding/json"
	"net/http"

	"battlemap-sync-server/internal/domain"
	"battlemap-sync-server/internal/middleware"
	"battlemap-sync-server/internal/service"
	"battlemap-sync-server/pkg/response"

	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService *service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		response.NotFound(w, "User not found")
		return
	}

	response.Success(w, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req struct {
		Username string `json:"username"`
		domain.UpdateUserRequest
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req.UpdateUserRequest); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if req.Username != "" {
		if _, err := h.userService.UpdateUsername(userID, req.Username); err != nil {
			response.BadRequest(w, err.Error())
			return
		}
	}

	user, err := h.userService.UpdateProfile(userID, &req.UpdateUserRequest)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.Success(w, user)
}
