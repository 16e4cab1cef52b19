package repository

import (
	"github.com/peridotlabs/venus-auth/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	SetActive(userID uint, active bool) error
	UpdatePassword(userID uint, newPassword string) error
}
