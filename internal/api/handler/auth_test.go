package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/kitcatalog/internal/core"
	"github.com/edvin/kitcatalog/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthHandler(db *handlerMockDB) *Auth {
	users := core.NewUserService(db)
	return NewAuth(core.NewAuthService(users, testSecret, "kitcatalog"), users)
}

func TestAuthSignIn_InvalidBody(t *testing.T) {
	h := newAuthHandler(&handlerMockDB{})
	rec := httptest.NewRecorder()

	h.SignIn(rec, newRequest(http.MethodPost, "/api/v1/auth/signin", map[string]any{"email": "not-an-email"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthSignIn_UnknownUser(t *testing.T) {
	db := &handlerMockDB{}
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(noRow())
	h := newAuthHandler(db)
	rec := httptest.NewRecorder()

	h.SignIn(rec, newRequest(http.MethodPost, "/api/v1/auth/signin", map[string]any{
		"email": "nobody@example.com", "password": "whatever-password",
	}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeErrorResponse(rec)["error"])
}

func TestAuthSignUp_ShortPassword(t *testing.T) {
	h := newAuthHandler(&handlerMockDB{})
	rec := httptest.NewRecorder()

	h.SignUp(rec, newRequest(http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"email": "new@example.com", "password": "short",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthMe_Unauthenticated(t *testing.T) {
	h := newAuthHandler(&handlerMockDB{})
	rec := httptest.NewRecorder()

	h.Me(rec, newRequest(http.MethodGet, "/api/v1/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMe_UserGone(t *testing.T) {
	db := &handlerMockDB{}
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), []any{"u1"}).Return(noRow())
	h := newAuthHandler(db)
	rec := httptest.NewRecorder()

	h.Me(rec, withClaims(newRequest(http.MethodGet, "/api/v1/me", nil), "u1", model.RoleAdmin))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
