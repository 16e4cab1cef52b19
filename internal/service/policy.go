package service

import (
	"time"

	"github.com/peridotlabs/venus-auth/internal/domain/entity"
)

// ExpiryPolicy fixes the lifetime of a verification code.
type ExpiryPolicy struct {
	TTL time.Duration
}

// IssueExpiry computes the absolute expiry timestamp at issuance.
func (p ExpiryPolicy) IssueExpiry(now time.Time) time.Time {
	return now.Add(p.TTL)
}

// IsExpired reports whether the request is past its expiry at now.
func (p ExpiryPolicy) IsExpired(req *entity.AuthRequest, now time.Time) bool {
	return req.IsExpired(now)
}

// RetryLimiter caps failed verification attempts per request.
type RetryLimiter struct {
	MaxAttempts int
}

func (l RetryLimiter) HasAttemptsRemaining(req *entity.AuthRequest) bool {
	return req.AttemptCount < l.MaxAttempts
}

// Exhausted reports whether a failure just recorded used up the budget.
func (l RetryLimiter) Exhausted(attemptCount int) bool {
	return attemptCount >= l.MaxAttempts
}
