package postgres

import (
	"errors"
	"fmt"

	"github.com/peridotlabs/venus-auth/internal/domain/entity"
	apperrors "github.com/peridotlabs/venus-auth/internal/pkg/errors"
	"gorm.io/gorm"
)

type AuthRequestRepo struct {
	db *gorm.DB
}

func NewAuthRequestRepo(db *gorm.DB) *AuthRequestRepo {
	return &AuthRequestRepo{db: db}
}

func (r *AuthRequestRepo) Create(req *entity.AuthRequest) error {
	return r.db.Create(req).Error
}

func (r *AuthRequestRepo) GetLatestPending(username, identifier string) (*entity.AuthRequest, error) {
	var req entity.AuthRequest
	err := r.db.
		Where("username = ? AND identifier = ? AND status = ?", username, identifier, entity.StatusPending).
		Order("created_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pending auth request: %w", err)
	}
	return &req, nil
}

// CompletePending is the atomic PENDING -> COMPLETE transition. The
// status predicate in the WHERE clause makes concurrent verifies race
// on a single conditional UPDATE: exactly one caller observes an
// affected row.
func (r *AuthRequestRepo) CompletePending(id uint) error {
	result := r.db.Model(&entity.AuthRequest{}).
		Where("id = ? AND status = ?", id, entity.StatusPending).
		Update("status", entity.StatusComplete)
	if result.Error != nil {
		return fmt.Errorf("failed to complete auth request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AuthRequestRepo) IncrementAttempts(id uint) error {
	return r.db.Model(&entity.AuthRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempt_count": gorm.Expr("attempt_count + 1"),
		}).Error
}
