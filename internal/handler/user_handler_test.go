package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"derinfoods/internal/middleware"
	"derinfoods/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func userTestRouter(h *UserHandler, auth *middleware.JWTAuthenticator) *chi.Mux {
	r := chi.NewRouter()
	r.Use(auth.Authenticate)
	r.Post("/api/users/register", h.Register)
	r.Post("/api/users/login", h.Login)
	r.Get("/api/users/me", h.Profile)
	return r
}

func newUserHandler(svc *MockUserService) (*UserHandler, *middleware.JWTAuthenticator) {
	auth := middleware.NewJWTAuthenticator("test-secret", time.Hour, zerolog.Nop())
	return NewUserHandler(svc, auth, zerolog.Nop()), auth
}

func TestUserHandler_Register(t *testing.T) {
	user := &model.User{ID: uuid.New(), Name: "Amaka Obi", Email: "amaka@example.com", Role: model.RoleUser}

	mockService := new(MockUserService)
	mockService.On("Register", mock.Anything, mock.Anything).Return(user, nil)

	h, auth := newUserHandler(mockService)
	router := userTestRouter(h, auth)

	body := `{"name":"Amaka Obi","email":"amaka@example.com","password":"correct horse battery"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Empty(t, resp.User.PasswordHash)
}

func TestUserHandler_Register_EmailTaken(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("Register", mock.Anything, mock.Anything).Return(nil, model.ErrEmailTaken)

	h, auth := newUserHandler(mockService)
	router := userTestRouter(h, auth)

	body := `{"name":"Amaka Obi","email":"amaka@example.com","password":"correct horse battery"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_Login(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "amaka@example.com", Role: model.RoleUser}

	tests := []struct {
		name           string
		mockErr        error
		expectedStatus int
	}{
		{name: "valid credentials", expectedStatus: http.StatusOK},
		{name: "invalid credentials", mockErr: model.ErrInvalidCredentials, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUserService)
			if tt.mockErr != nil {
				mockService.On("Login", mock.Anything, mock.Anything).Return(nil, tt.mockErr)
			} else {
				mockService.On("Login", mock.Anything, mock.Anything).Return(user, nil)
			}

			h, auth := newUserHandler(mockService)
			router := userTestRouter(h, auth)

			body := `{"email":"amaka@example.com","password":"whatever"}`
			req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestUserHandler_Profile(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "amaka@example.com", Role: model.RoleUser, TotalPurchases: 120_000_00}

	mockService := new(MockUserService)
	mockService.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	h, auth := newUserHandler(mockService)
	router := userTestRouter(h, auth)

	token, err := auth.IssueToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tier model.RewardTier `json:"tier"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.RewardTierGold, resp.Tier)
}

func TestUserHandler_Profile_Anonymous(t *testing.T) {
	mockService := new(MockUserService)
	h, auth := newUserHandler(mockService)
	router := userTestRouter(h, auth)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "GetByID")
}
