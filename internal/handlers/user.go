package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/coursedb/apiserver/internal/services"
	"github.com/coursedb/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// UserHandler provides HTTP handlers for users.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler constructs a handler with the provided dependencies.
func NewUserHandler(userService *services.UserService, v *validator.Validate) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    v,
	}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService, v *validator.Validate) {
	handler := NewUserHandler(userService, v)

	r.Get("/", handler.ListUsers)
	r.Post("/", handler.CreateUser)
	r.Delete("/", handler.DeleteUser)
	r.Get("/{username}", handler.GetUser)
	r.Put("/{userID}", handler.UpdateUser)
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=4,max=60"`
	Password string `json:"password" validate:"required,min=8,max=60"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=4,max=60"`
	Password *string `json:"password" validate:"omitempty,min=8,max=60"`
	Role     *string `json:"role"`
}

type DeleteUserRequest struct {
	ID string `json:"_id" validate:"required"`
}

// ListUsers returns all users. The password field is stripped from
// every result.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// GetUser returns the public profile of a user.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if decoded, err := url.PathUnescape(username); err == nil {
		username = decoded
	}

	user, err := h.userService.GetPublic(r.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationError(err))
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			writeError(w, http.StatusConflict, "username already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationError(err))
		return
	}

	updated, err := h.userService.Update(r.Context(), id, req.Username, req.Password, req.Role)
	if err != nil {
		writeUserError(w, err, "failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteUser removes a user by the identifier carried in the request
// body and returns the removed document's prior state.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req DeleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, firstValidationError(err))
		return
	}

	removed, err := h.userService.Delete(r.Context(), req.ID)
	if err != nil {
		writeUserError(w, err, "failed to delete user")
		return
	}

	writeJSON(w, http.StatusOK, removed)
}

func writeUserError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "invalid user id")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, store.ErrDuplicateUser):
		writeError(w, http.StatusConflict, "username already exists")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
