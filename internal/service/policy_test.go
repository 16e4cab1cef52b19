package service

import (
	"testing"
	"time"

	"github.com/peridotlabs/venus-auth/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestExpiryPolicy_IssueExpiry(t *testing.T) {
	policy := ExpiryPolicy{TTL: 2 * time.Minute}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(2*time.Minute), policy.IssueExpiry(now))
}

func TestRetryLimiter(t *testing.T) {
	limiter := RetryLimiter{MaxAttempts: 3}

	assert.True(t, limiter.HasAttemptsRemaining(&entity.AuthRequest{AttemptCount: 0}))
	assert.True(t, limiter.HasAttemptsRemaining(&entity.AuthRequest{AttemptCount: 2}))
	assert.False(t, limiter.HasAttemptsRemaining(&entity.AuthRequest{AttemptCount: 3}))

	assert.False(t, limiter.Exhausted(2))
	assert.True(t, limiter.Exhausted(3))
	assert.True(t, limiter.Exhausted(4))
}
