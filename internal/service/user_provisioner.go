package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/peridotlabs/venus-auth/internal/domain/entity"
	"github.com/peridotlabs/venus-auth/internal/domain/repository"
	apperrors "github.com/peridotlabs/venus-auth/internal/pkg/errors"
)

// UsernameAllocator mints system-generated usernames for accounts
// provisioned from a bare email address.
type UsernameAllocator interface {
	Allocate() string
}

// UUIDUsernameAllocator derives usernames from random UUIDs, keeping
// uniqueness independent of wall-clock resolution.
type UUIDUsernameAllocator struct{}

func (UUIDUsernameAllocator) Allocate() string {
	return "user-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// UserProvisioner creates inactive accounts and activates them once a
// registration verification succeeds.
type UserProvisioner struct {
	userRepo  repository.UserRepository
	usernames UsernameAllocator
}

func NewUserProvisioner(userRepo repository.UserRepository, usernames UsernameAllocator) (*UserProvisioner, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if usernames == nil {
		usernames = UUIDUsernameAllocator{}
	}
	return &UserProvisioner{userRepo: userRepo, usernames: usernames}, nil
}

// CreateInactive provisions a new inactive account. A unique-constraint
// conflict on username or email surfaces as ErrDuplicateIdentifier.
func (p *UserProvisioner) CreateInactive(email, password string) (*entity.User, error) {
	user := &entity.User{
		Username: p.usernames.Allocate(),
		Email:    email,
		Password: password,
		IsActive: false,
	}
	if err := p.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrDuplicateIdentifier)
		}
		return nil, err
	}
	log.Printf("[UserProvisioner] created inactive user ID=%d email=%s", user.ID, user.Email)
	return user, nil
}

// Activate flips the account active. Activating an already-active
// account is a no-op.
func (p *UserProvisioner) Activate(user *entity.User) (*entity.User, error) {
	if user.IsActive {
		return user, nil
	}
	if err := p.userRepo.SetActive(user.ID, true); err != nil {
		return nil, fmt.Errorf("failed to activate user ID=%d: %w", user.ID, err)
	}
	user.IsActive = true
	log.Printf("[UserProvisioner] activated user ID=%d email=%s", user.ID, user.Email)
	return user, nil
}
