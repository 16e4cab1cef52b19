package service

import (
	"fmt"
	"testing"

	"github.com/peridotlabs/venus-auth/internal/domain/entity"
	apperrors "github.com/peridotlabs/venus-auth/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserProvisioner_CreateInactive_DuplicateIdentifier(t *testing.T) {
	userRepo := new(MockUserRepository)
	provisioner, err := NewUserProvisioner(userRepo, staticUsernameAllocator{username: "user-generated"})
	require.NoError(t, err)

	userRepo.On("Create", mock.AnythingOfType("*entity.User")).
		Return(fmt.Errorf("%w: username or email already taken", apperrors.ErrConflict))

	_, err = provisioner.CreateInactive("a@b.com", "Abcd123!")

	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
}

func TestUserProvisioner_Activate_IsIdempotent(t *testing.T) {
	userRepo := new(MockUserRepository)
	provisioner, err := NewUserProvisioner(userRepo, nil)
	require.NoError(t, err)

	active := &entity.User{ID: 7, IsActive: true}
	got, err := provisioner.Activate(active)

	require.NoError(t, err)
	assert.True(t, got.IsActive)
	// Повторная активация — no-op без обращения к хранилищу
	userRepo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything)
}

func TestUUIDUsernameAllocator_ProducesDistinctNames(t *testing.T) {
	alloc := UUIDUsernameAllocator{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := alloc.Allocate()
		assert.False(t, seen[name], "username %q allocated twice", name)
		seen[name] = true
	}
}
