package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/peridotlabs/venus-auth/internal/pkg/errors"
	"github.com/peridotlabs/venus-auth/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает *gin.Context для тестов с JSON body
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Request validation tests — не требуют реального AuthRequestService
// Handler возвращает 400 до вызова сервиса
// ============================================================================

func TestSignUp_BindingValidation(t *testing.T) {
	handler := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing email", gin.H{"password": "Abcd123!", "password_confirm": "Abcd123!", "device_uuid": "dev-1"}},
		{"missing password", gin.H{"email": "a@b.com", "password_confirm": "Abcd123!", "device_uuid": "dev-1"}},
		{"missing device_uuid", gin.H{"email": "a@b.com", "password": "Abcd123!", "password_confirm": "Abcd123!"}},
		{"empty body", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/signup", tt.body)
			handler.SignUp(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestVerifyCode_BindingValidation(t *testing.T) {
	handler := &AuthHandler{}

	c, w := newTestGinContext(http.MethodPost, "/api/auth/verify-code", gin.H{"username": "someuser"})
	handler.VerifyCode(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPassword_BindingValidation(t *testing.T) {
	handler := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing code", gin.H{"username": "someuser", "identifier": "a@b.com", "password": "Abcd123!", "password_confirm": "Abcd123!"}},
		{"missing password_confirm", gin.H{"username": "someuser", "identifier": "a@b.com", "code": "654321", "password": "Abcd123!"}},
		{"empty body", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/reset-password", tt.body)
			handler.ResetPassword(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// ============================================================================
// Error mapping
// ============================================================================

func TestRespondAuthError_Mapping(t *testing.T) {
	handler := &AuthHandler{}

	tests := []struct {
		err           error
		wantStatus    int
		wantErrorType string
	}{
		{fmt.Errorf("%w: email is not valid", apperrors.ErrValidation), http.StatusBadRequest, "validation_failed"},
		{service.ErrAlreadyRegistered, http.StatusConflict, "already_registered"},
		{service.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
		{service.ErrInvalidCredential, http.StatusUnauthorized, "invalid_credential"},
		{service.ErrInvalidCode, http.StatusBadRequest, "invalid_code"},
		{service.ErrCodeExpired, http.StatusBadRequest, "code_expired"},
		{service.ErrRetryExhausted, http.StatusTooManyRequests, "retry_exhausted"},
		{service.ErrDuplicateIdentifier, http.StatusConflict, "duplicate_identifier"},
		{service.ErrDispatchFailed, http.StatusBadGateway, "dispatch_failed"},
		{fmt.Errorf("database down"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.wantErrorType, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/api/auth/verify-code", nil)
			handler.respondAuthError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, tt.wantErrorType, resp["error_type"])
		})
	}
}
