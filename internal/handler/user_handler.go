package handler

import (
	"encoding/json"
	"net/http"

	"derinfoods/internal/middleware"
	"derinfoods/internal/model"
	"derinfoods/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler handles account registration, login and profile requests.
type UserHandler struct {
	service service.UserService
	auth    *middleware.JWTAuthenticator
	logger  zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, auth *middleware.JWTAuthenticator, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		auth:    auth,
		logger:  logger.With().Str("handler", "user").Logger(),
	}
}

// Register handles POST /api/users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeValidation, "Invalid request body"), h.logger)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.LoginResponse{Token: token, User: *user})
}

// Login handles POST /api/users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeValidation, "Invalid request body"), h.logger)
		return
	}

	user, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{Token: token, User: *user})
}

// profileResponse is the user profile with the derived reward tier.
type profileResponse struct {
	model.User
	Tier model.RewardTier `json:"tier"`
}

// Profile handles GET /api/users/me.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromContext(r.Context())
	if actor == nil {
		writeError(w, model.ErrNotAuthorized, h.logger)
		return
	}

	user, err := h.service.GetByID(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{User: *user, Tier: user.Tier()})
}
