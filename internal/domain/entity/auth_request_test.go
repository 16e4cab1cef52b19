package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthRequest_IsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req := &AuthRequest{ExpiresAt: now.Add(2 * time.Minute)}

	assert.False(t, req.IsExpired(now))
	assert.False(t, req.IsExpired(now.Add(2*time.Minute-time.Second)))
	// The boundary instant itself counts as expired.
	assert.True(t, req.IsExpired(now.Add(2*time.Minute)))
	assert.True(t, req.IsExpired(now.Add(time.Hour)))
}

func TestAuthRequest_IsComplete(t *testing.T) {
	req := &AuthRequest{Status: StatusPending}
	assert.False(t, req.IsComplete())

	req.Status = StatusComplete
	assert.True(t, req.IsComplete())
}

func TestFlowType_String(t *testing.T) {
	assert.Equal(t, "register", FlowRegister.String())
	assert.Equal(t, "login", FlowLogin.String())
	assert.Equal(t, "forgot_password", FlowForgotPassword.String())
	assert.Equal(t, "reset_password", FlowResetPassword.String())
}
