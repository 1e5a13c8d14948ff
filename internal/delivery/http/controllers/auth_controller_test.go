package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventnexus/internal/delivery/http/helpers"
	"eventnexus/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_Login(t *testing.T) {
	session := &domain.Session{
		Token:     "token-user-1",
		TokenType: "Bearer",
		ExpiresAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		User:      regularUser,
	}
	tests := []struct {
		name       string
		body       any
		svc        *fakeAuthService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			body:       LoginRequest{Email: "jane@example.com", Password: "password123", RememberMe: true},
			svc:        &fakeAuthService{session: session, loginOK: true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "rejected credentials",
			body:       LoginRequest{Email: "jane@example.com", Password: "short"},
			svc:        &fakeAuthService{},
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:       "missing password",
			body:       LoginRequest{Email: "jane@example.com"},
			svc:        &fakeAuthService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"email":"a@b.co","password":"x","role":"admin"}`,
			svc:        &fakeAuthService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "store failure",
			body:       LoginRequest{Email: "jane@example.com", Password: "password123"},
			svc:        &fakeAuthService{err: errors.New("disk full")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewAuthController(testLogger, tt.svc)
			rr := httptest.NewRecorder()
			ctrl.Login(rr, newRequest(t, http.MethodPost, "/auth/login", tt.body, nil, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rr).Code)
				return
			}
			var got domain.Session
			decodeData(t, rr, &got)
			assert.Equal(t, "token-user-1", got.Token)
			assert.Equal(t, "Bearer", got.TokenType)
			assert.Equal(t, regularUser.ID, got.User.ID)
			assert.True(t, tt.svc.gotRemember)
		})
	}
}

func TestAuthController_Register(t *testing.T) {
	session := &domain.Session{Token: "t", TokenType: "Bearer", User: regularUser}

	t.Run("created", func(t *testing.T) {
		svc := &fakeAuthService{session: session}
		rr := httptest.NewRecorder()
		NewAuthController(testLogger, svc).Register(rr, newRequest(t, http.MethodPost, "/auth/register",
			RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "password123"}, nil, nil))

		require.Equal(t, http.StatusCreated, rr.Code)
		require.NotNil(t, svc.registered)
		assert.Equal(t, "Jane", svc.registered.Name)
		assert.Equal(t, "jane@example.com", svc.registered.Email)
	})

	for name, req := range map[string]RegisterRequest{
		"missing name":   {Email: "jane@example.com", Password: "password123"},
		"bad email":      {Name: "Jane", Email: "jane@", Password: "password123"},
		"short password": {Name: "Jane", Email: "jane@example.com", Password: "1234567"},
	} {
		t.Run(name, func(t *testing.T) {
			svc := &fakeAuthService{session: session}
			rr := httptest.NewRecorder()
			NewAuthController(testLogger, svc).Register(rr, newRequest(t, http.MethodPost, "/auth/register", req, nil, nil))

			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Nil(t, svc.registered)
		})
	}
}

func TestAuthController_Logout(t *testing.T) {
	svc := &fakeAuthService{}
	ctrl := NewAuthController(testLogger, svc)

	rr := httptest.NewRecorder()
	ctrl.Logout(rr, newRequest(t, http.MethodPost, "/auth/logout", nil, nil, nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	ctrl.Logout(rr, newRequest(t, http.MethodPost, "/auth/logout", nil, regularUser, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, regularUser.ID, svc.loggedOut)
}

func TestAuthController_ResetPassword(t *testing.T) {
	svc := &fakeAuthService{}
	rr := httptest.NewRecorder()
	NewAuthController(testLogger, svc).ResetPassword(rr, newRequest(t, http.MethodPost, "/auth/reset-password",
		ResetPasswordRequest{Email: "nobody@example.com"}, nil, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "nobody@example.com", svc.resetFor)
	var got MessageResponse
	decodeData(t, rr, &got)
	assert.Contains(t, got.Message, "reset link")
}

func TestAuthController_Me(t *testing.T) {
	ctrl := NewAuthController(testLogger, &fakeAuthService{})

	rr := httptest.NewRecorder()
	ctrl.Me(rr, newRequest(t, http.MethodGet, "/users/me", nil, regularUser, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.User
	decodeData(t, rr, &got)
	assert.Equal(t, *regularUser, got)
}

func TestAuthController_UpdateMe(t *testing.T) {
	t.Run("merges name", func(t *testing.T) {
		svc := &fakeAuthService{}
		rr := httptest.NewRecorder()
		NewAuthController(testLogger, svc).UpdateMe(rr, newRequest(t, http.MethodPatch, "/users/me",
			`{"name":"Jane Doe"}`, regularUser, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, svc.patch)
		assert.Nil(t, svc.patch.Email)
		var got domain.User
		decodeData(t, rr, &got)
		assert.Equal(t, "Jane Doe", got.Name)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := &fakeAuthService{}
		rr := httptest.NewRecorder()
		NewAuthController(testLogger, svc).UpdateMe(rr, newRequest(t, http.MethodPatch, "/users/me",
			`{"email":"not-an-email"}`, regularUser, nil))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Nil(t, svc.patch)
	})

	t.Run("session ended", func(t *testing.T) {
		svc := &fakeAuthService{err: domain.ErrUnauthenticated}
		rr := httptest.NewRecorder()
		NewAuthController(testLogger, svc).UpdateMe(rr, newRequest(t, http.MethodPatch, "/users/me",
			`{"name":"Jane"}`, regularUser, nil))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
