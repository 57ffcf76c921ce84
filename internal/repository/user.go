package repository

import (
	"context"
	"errors"

	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)

	// ApplyBalanceDelta adds delta to the stored balance in one guarded
	// update. The floor check runs against the latest committed row, so a
	// delta that would push the balance below zero matches nothing and
	// fails with gorm.ErrRecordNotFound.
	ApplyBalanceDelta(ctx context.Context, id string, delta float64) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) ApplyBalanceDelta(
	ctx context.Context, id string, delta float64,
) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=? AND balance + ? >= 0", id, delta).
		Update("balance", gorm.Expr("balance+?", delta))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of rows effected is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
