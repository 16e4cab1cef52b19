package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/peridotlabs/venus-auth/internal/domain/entity"
	"github.com/peridotlabs/venus-auth/internal/domain/repository"
	apperrors "github.com/peridotlabs/venus-auth/internal/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// ClassifyIdentifier decides whether a user-supplied identifier is an
// email address or a username by shape alone.
func ClassifyIdentifier(identifier string) entity.IdentifierType {
	if emailPattern.MatchString(identifier) {
		return entity.IdentifierEmail
	}
	return entity.IdentifierUsername
}

// IdentifierResolver resolves identifiers against the identity store.
type IdentifierResolver struct {
	userRepo repository.UserRepository
}

func NewIdentifierResolver(userRepo repository.UserRepository) (*IdentifierResolver, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &IdentifierResolver{userRepo: userRepo}, nil
}

// Resolve looks up the account the identifier addresses. Returns
// ErrUserNotFound when no account matches.
func (r *IdentifierResolver) Resolve(identifier string, identifierType entity.IdentifierType) (*entity.User, error) {
	var (
		user *entity.User
		err  error
	)
	switch identifierType {
	case entity.IdentifierEmail:
		user, err = r.userRepo.GetByEmail(identifier)
	default:
		user, err = r.userRepo.GetByUsername(identifier)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
