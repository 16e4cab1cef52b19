package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/peridotlabs/venus-auth/internal/domain/entity"
	apperrors "github.com/peridotlabs/venus-auth/internal/pkg/errors"
	"github.com/peridotlabs/venus-auth/internal/service"
	"github.com/peridotlabs/venus-auth/pkg/auth"
)

// AuthHandler обрабатывает запросы verification-code аутентификации
type AuthHandler struct {
	authRequests *service.AuthRequestService
	jwtService   *auth.JWTService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authRequests *service.AuthRequestService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		authRequests: authRequests,
		jwtService:   jwtService,
	}
}

// Структуры запросов и ответов

// SignUpRequest представляет запрос на первый шаг регистрации
type SignUpRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required,max=250"`
	PasswordConfirm string `json:"password_confirm" binding:"required,max=250"`
	DeviceUUID      string `json:"device_uuid" binding:"required,max=40"`
}

// SignInRequest представляет запрос на первый шаг входа
type SignInRequest struct {
	Identifier string `json:"identifier" binding:"required,max=250"`
	Password   string `json:"password" binding:"required,max=250"`
}

// ForgotPasswordRequest представляет запрос на восстановление пароля
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier" binding:"required,max=250"`
}

// VerifyCodeRequest представляет запрос на проверку кода
type VerifyCodeRequest struct {
	Username   string `json:"username" binding:"required,max=250"`
	Identifier string `json:"identifier" binding:"required,max=250"`
	Code       string `json:"code" binding:"required,max=6"`
}

// ResetPasswordRequest представляет запрос на смену пароля по коду
type ResetPasswordRequest struct {
	Username        string `json:"username" binding:"required,max=250"`
	Identifier      string `json:"identifier" binding:"required,max=250"`
	Code            string `json:"code" binding:"required,max=6"`
	Password        string `json:"password" binding:"required,max=250"`
	PasswordConfirm string `json:"password_confirm" binding:"required,max=250"`
}

// SignUp обрабатывает первый шаг регистрации: валидация, создание
// неактивного аккаунта и отправка кода на email
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	authReq, err := h.authRequests.BeginRegistration(c.Request.Context(), req.Email, req.Password, req.PasswordConfirm, req.DeviceUUID)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	log.Printf("[AuthHandler] registration request ID=%d created for %s", authReq.ID, authReq.Identifier)
	c.JSON(http.StatusOK, gin.H{"message": "Code sent to your email"})
}

// SignIn обрабатывает первый шаг входа: проверка пароля и отправка кода
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	authReq, err := h.authRequests.BeginLogin(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Code sent to your email",
		"username": authReq.Username,
		"email":    authReq.Identifier,
	})
}

// ForgotPassword обрабатывает первый шаг восстановления пароля
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	authReq, err := h.authRequests.BeginPasswordReset(c.Request.Context(), req.Identifier)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Code sent to your email",
		"username": authReq.Username,
		"email":    authReq.Identifier,
	})
}

// VerifyCode обрабатывает проверку кода и завершает исходный flow:
// активация аккаунта, выдача токенов или разрешение на смену пароля
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	user, flowType, err := h.authRequests.VerifyCode(c.Request.Context(), req.Username, req.Identifier, req.Code)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	response := gin.H{
		"user": gin.H{
			"username": user.Username,
			"email":    user.Email,
		},
	}

	switch flowType {
	case entity.FlowRegister:
		response["message"] = "your registration is complete"
	case entity.FlowLogin:
		// Выдаём пару токенов после завершённой верификации входа
		tokens, err := h.jwtService.IssueTokenPair(user.ID, user.Username, user.Email)
		if err != nil {
			log.Printf("[AuthHandler] failed to issue tokens for user ID=%d: %v", user.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens", "error_type": "internal_error"})
			return
		}
		response["message"] = "your login is complete"
		response["access_token"] = tokens.AccessToken
		response["refresh_token"] = tokens.RefreshToken
	case entity.FlowForgotPassword, entity.FlowResetPassword:
		// Смена пароля выполняется отдельным аутентифицированным шагом
		response["message"] = "code verified, you may reset your password"
	}

	c.JSON(http.StatusOK, response)
}

// ResetPassword проверяет код восстановления и устанавливает новый пароль
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	user, err := h.authRequests.CompletePasswordReset(c.Request.Context(), req.Username, req.Identifier, req.Code, req.Password, req.PasswordConfirm)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}

	log.Printf("[AuthHandler] password reset completed for %s", user.Username)
	c.JSON(http.StatusOK, gin.H{"message": "your password has been changed"})
}

// respondAuthError транслирует ошибки сервисов в HTTP-ответы со
// стабильным error_type
func (h *AuthHandler) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_failed"})
	case errors.Is(err, service.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered", "error_type": "already_registered"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "error_type": "user_not_found"})
	case errors.Is(err, service.ErrInvalidCredential):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Password is incorrect", "error_type": "invalid_credential"})
	case errors.Is(err, service.ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code is not valid", "error_type": "invalid_code"})
	case errors.Is(err, service.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code is expired", "error_type": "code_expired"})
	case errors.Is(err, service.ErrRetryExhausted):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many failed attempts", "error_type": "retry_exhausted"})
	case errors.Is(err, service.ErrDuplicateIdentifier):
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already taken", "error_type": "duplicate_identifier"})
	case errors.Is(err, service.ErrDispatchFailed):
		// Запрос уже сохранён; повторная отправка — новый Begin* вызов
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send verification code", "error_type": "dispatch_failed"})
	default:
		log.Printf("[AuthHandler] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_error"})
	}
}
