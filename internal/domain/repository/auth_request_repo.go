package repository

import "github.com/peridotlabs/venus-auth/internal/domain/entity"

// AuthRequestRepository persists verification-code challenges.
type AuthRequestRepository interface {
	Create(req *entity.AuthRequest) error
	// GetLatestPending returns the newest PENDING request bound to the
	// (username, identifier) pair.
	GetLatestPending(username, identifier string) (*entity.AuthRequest, error)
	// CompletePending flips PENDING to COMPLETE for the given id. The
	// status guard lives in the UPDATE itself so concurrent callers race
	// to exactly one winner; the loser gets ErrNotFound.
	CompletePending(id uint) error
	IncrementAttempts(id uint) error
}
