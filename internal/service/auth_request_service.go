package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/peridotlabs/venus-auth/internal/domain/entity"
	"github.com/peridotlabs/venus-auth/internal/domain/repository"
	apperrors "github.com/peridotlabs/venus-auth/internal/pkg/errors"
)

const (
	defaultCodeTTL     = 2 * time.Minute
	defaultMaxAttempts = 3
	minPasswordLen     = 8
	maxPasswordLen     = 64
)

// AuthRequestService drives the verification-request lifecycle: the
// Begin* operations create PENDING requests and dispatch the code, and
// VerifyCode consumes them, finalizing per flow type.
type AuthRequestService struct {
	authRequestRepo repository.AuthRequestRepository
	userRepo        repository.UserRepository
	resolver        *IdentifierResolver
	provisioner     *UserProvisioner
	emailService    EmailService
	codes           CodeGenerator
	expiry          ExpiryPolicy
	retries         RetryLimiter
	now             func() time.Time
}

func NewAuthRequestService(
	authRequestRepo repository.AuthRequestRepository,
	userRepo repository.UserRepository,
	resolver *IdentifierResolver,
	provisioner *UserProvisioner,
	emailService EmailService,
	codes CodeGenerator,
	codeTTL time.Duration,
	maxAttempts int,
) (*AuthRequestService, error) {
	if authRequestRepo == nil {
		return nil, fmt.Errorf("auth request repository is required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("identifier resolver is required")
	}
	if provisioner == nil {
		return nil, fmt.Errorf("user provisioner is required")
	}
	if emailService == nil {
		return nil, fmt.Errorf("email service is required")
	}
	if codes == nil {
		codes = RandomCodeGenerator{}
	}
	if codeTTL <= 0 {
		codeTTL = defaultCodeTTL
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &AuthRequestService{
		authRequestRepo: authRequestRepo,
		userRepo:        userRepo,
		resolver:        resolver,
		provisioner:     provisioner,
		emailService:    emailService,
		codes:           codes,
		expiry:          ExpiryPolicy{TTL: codeTTL},
		retries:         RetryLimiter{MaxAttempts: maxAttempts},
		now:             time.Now,
	}, nil
}

// BeginRegistration validates the sign-up input, provisions (or reuses)
// an inactive account and issues a registration verification request.
func (s *AuthRequestService) BeginRegistration(ctx context.Context, email, password, passwordConfirm, deviceUUID string) (*entity.AuthRequest, error) {
	email = normalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: email is not valid", apperrors.ErrValidation)
	}
	if strings.TrimSpace(deviceUUID) == "" {
		return nil, fmt.Errorf("%w: device_uuid is required", apperrors.ErrValidation)
	}
	if password != passwordConfirm {
		return nil, fmt.Errorf("%w: password and password confirm do not match", apperrors.ErrValidation)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	user, err := s.resolver.Resolve(email, entity.IdentifierEmail)
	switch {
	case err == nil:
		if user.IsActive {
			return nil, fmt.Errorf("%w: email is already registered", ErrAlreadyRegistered)
		}
		// Inactive account from an earlier attempt: reuse, do not duplicate.
	case errors.Is(err, ErrUserNotFound):
		user, err = s.provisioner.CreateInactive(email, password)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	req := &entity.AuthRequest{
		Username:       user.Username,
		Identifier:     user.Email,
		IdentifierType: entity.IdentifierEmail,
		DeviceUUID:     deviceUUID,
		FlowType:       entity.FlowRegister,
		UserIsActive:   user.IsActive,
	}
	return s.issue(ctx, req)
}

// BeginLogin authenticates the credential and issues a login
// verification request bound to the account's canonical email.
func (s *AuthRequestService) BeginLogin(ctx context.Context, identifier, password string) (*entity.AuthRequest, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: identifier is required", apperrors.ErrValidation)
	}

	identifierType := ClassifyIdentifier(identifier)
	if identifierType == entity.IdentifierEmail {
		// Emails are stored lowercased at registration; resolve the
		// same way or a mixed-case sign-in misses the account.
		identifier = normalizeEmail(identifier)
	}
	user, err := s.resolver.Resolve(identifier, identifierType)
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, fmt.Errorf("%w: password is incorrect", ErrInvalidCredential)
	}

	req := &entity.AuthRequest{
		Username:         user.Username,
		Identifier:       user.Email,
		IdentifierType:   identifierType,
		FlowType:         entity.FlowLogin,
		UserIsActive:     user.IsActive,
		UserIsRegistered: true,
	}
	return s.issue(ctx, req)
}

// BeginPasswordReset issues a forgot-password verification request.
// The password change itself happens outside this service, after the
// code is verified.
func (s *AuthRequestService) BeginPasswordReset(ctx context.Context, identifier string) (*entity.AuthRequest, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("%w: identifier is required", apperrors.ErrValidation)
	}

	identifierType := ClassifyIdentifier(identifier)
	if identifierType == entity.IdentifierEmail {
		identifier = normalizeEmail(identifier)
	}
	user, err := s.resolver.Resolve(identifier, identifierType)
	if err != nil {
		return nil, err
	}

	req := &entity.AuthRequest{
		Username:         user.Username,
		Identifier:       user.Email,
		IdentifierType:   identifierType,
		FlowType:         entity.FlowForgotPassword,
		UserIsActive:     user.IsActive,
		UserIsRegistered: true,
	}
	return s.issue(ctx, req)
}

// issue generates the code, persists the request and dispatches the
// notification. A dispatch failure is returned to the caller but the
// request stays persisted; a resend takes a fresh Begin* call.
func (s *AuthRequestService) issue(ctx context.Context, req *entity.AuthRequest) (*entity.AuthRequest, error) {
	code, err := s.codes.Generate()
	if err != nil {
		return nil, err
	}
	now := s.now()
	req.Code = code
	req.Status = entity.StatusPending
	req.ExpiresAt = s.expiry.IssueExpiry(now)
	req.CreatedAt = now

	if err := s.authRequestRepo.Create(req); err != nil {
		return nil, fmt.Errorf("failed to create auth request: %w", err)
	}

	idempotencyKey := fmt.Sprintf("auth-request:%d", req.ID)
	if err := s.emailService.SendVerificationCode(ctx, req.Identifier, code, idempotencyKey); err != nil {
		log.Printf("[AuthRequestService] dispatch failed for request ID=%d: %v", req.ID, err)
		return req, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	log.Printf("[AuthRequestService] %s request ID=%d issued for %s", req.FlowType, req.ID, req.Identifier)
	return req, nil
}

// VerifyCode consumes a PENDING request. Expiry and attempt budget are
// checked before the code itself; the PENDING -> COMPLETE transition is
// a conditional update, so concurrent calls produce exactly one winner.
func (s *AuthRequestService) VerifyCode(ctx context.Context, username, identifier, code string) (*entity.User, entity.FlowType, error) {
	username = strings.TrimSpace(username)
	identifier = normalizeEmail(identifier)
	code = strings.TrimSpace(code)
	if username == "" || identifier == "" || code == "" {
		return nil, 0, fmt.Errorf("%w: username, identifier and code are required", apperrors.ErrValidation)
	}

	req, err := s.authRequestRepo.GetLatestPending(username, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Covers unknown identity, consumed requests and plain typos
			// alike; nothing distinct is leaked here.
			return nil, 0, fmt.Errorf("%w: code is not valid", ErrInvalidCode)
		}
		return nil, 0, err
	}

	if s.expiry.IsExpired(req, s.now()) {
		return nil, 0, fmt.Errorf("%w: code is expired", ErrCodeExpired)
	}
	if !s.retries.HasAttemptsRemaining(req) {
		return nil, 0, fmt.Errorf("%w: too many failed attempts", ErrRetryExhausted)
	}

	if subtle.ConstantTimeCompare([]byte(req.Code), []byte(code)) != 1 {
		if err := s.authRequestRepo.IncrementAttempts(req.ID); err != nil {
			log.Printf("[AuthRequestService] failed to record attempt for request ID=%d: %v", req.ID, err)
		}
		if s.retries.Exhausted(req.AttemptCount + 1) {
			return nil, 0, fmt.Errorf("%w: too many failed attempts", ErrRetryExhausted)
		}
		return nil, 0, fmt.Errorf("%w: code is not valid", ErrInvalidCode)
	}

	if err := s.authRequestRepo.CompletePending(req.ID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Lost the race to a concurrent verify, or the request was
			// already consumed. Same answer as a wrong code.
			return nil, 0, fmt.Errorf("%w: code is not valid", ErrInvalidCode)
		}
		return nil, 0, err
	}

	return s.finalize(req)
}

// CompletePasswordReset verifies a forgot-password code and applies the
// new password in one step. Codes issued for other flows are rejected.
func (s *AuthRequestService) CompletePasswordReset(ctx context.Context, username, identifier, code, newPassword, newPasswordConfirm string) (*entity.User, error) {
	if newPassword != newPasswordConfirm {
		return nil, fmt.Errorf("%w: password and password confirm do not match", apperrors.ErrValidation)
	}
	if err := validatePassword(newPassword); err != nil {
		return nil, err
	}

	user, flow, err := s.VerifyCode(ctx, username, identifier, code)
	if err != nil {
		return nil, err
	}
	if flow != entity.FlowForgotPassword && flow != entity.FlowResetPassword {
		return nil, fmt.Errorf("%w: code is not valid for a password reset", ErrInvalidCode)
	}

	if err := s.userRepo.UpdatePassword(user.ID, newPassword); err != nil {
		return nil, fmt.Errorf("failed to update password for user ID=%d: %w", user.ID, err)
	}

	log.Printf("[AuthRequestService] password reset completed for %s", user.Username)
	return user, nil
}

// finalize runs the flow-specific completion step. The switch is
// exhaustive over entity.FlowType.
func (s *AuthRequestService) finalize(req *entity.AuthRequest) (*entity.User, entity.FlowType, error) {
	user, err := s.resolver.Resolve(req.Identifier, entity.IdentifierEmail)
	if err != nil {
		return nil, 0, err
	}

	switch req.FlowType {
	case entity.FlowRegister:
		user, err = s.provisioner.Activate(user)
		if err != nil {
			return nil, 0, err
		}
		return user, entity.FlowRegister, nil
	case entity.FlowLogin:
		// Token issuance belongs to the caller's session issuer.
		return user, entity.FlowLogin, nil
	case entity.FlowForgotPassword:
		return user, entity.FlowForgotPassword, nil
	case entity.FlowResetPassword:
		return user, entity.FlowResetPassword, nil
	default:
		return nil, 0, fmt.Errorf("unknown flow type %d for request ID=%d", req.FlowType, req.ID)
	}
}

// validatePassword enforces the sign-up password policy: 8-64 chars
// with at least one digit, lowercase, uppercase and symbol.
func validatePassword(password string) error {
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return fmt.Errorf("%w: password must be between %d and %d characters", apperrors.ErrValidation, minPasswordLen, maxPasswordLen)
	}
	var hasDigit, hasLower, hasUpper, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case !unicode.IsLetter(r):
			hasSymbol = true
		}
	}
	if !hasDigit || !hasLower || !hasUpper || !hasSymbol {
		return fmt.Errorf("%w: password must contain a digit, a lowercase letter, an uppercase letter and a symbol", apperrors.ErrValidation)
	}
	return nil
}
