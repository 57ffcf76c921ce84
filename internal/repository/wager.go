package repository

import (
	"context"
	"time"

	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type WagerRepository interface {
	Create(ctx context.Context, wager *entity.Wager) error
	GetByID(ctx context.Context, id string) (*entity.Wager, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Wager, error)
	GetPendingBySessionID(ctx context.Context, sessionID string) ([]entity.Wager, error)

	// CheckAndSettle moves the wager from pending to its terminal status and
	// stamps processed_at. It returns gorm.ErrRecordNotFound if the wager
	// was settled already, which makes double settlement a no-op.
	CheckAndSettle(ctx context.Context, id string, to entity.WagerStatus) error
}

type wagerRepository struct{}

func NewWagerRepository() *wagerRepository {
	return &wagerRepository{}
}

func (r *wagerRepository) Create(ctx context.Context, wager *entity.Wager) error {
	return xcontext.DB(ctx).Create(wager).Error
}

func (r *wagerRepository) GetByID(ctx context.Context, id string) (*entity.Wager, error) {
	var result entity.Wager
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *wagerRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Wager, error) {
	var result []entity.Wager
	err := xcontext.DB(ctx).Where("user_id=?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *wagerRepository) GetPendingBySessionID(
	ctx context.Context, sessionID string,
) ([]entity.Wager, error) {
	var result []entity.Wager
	err := xcontext.DB(ctx).
		Find(&result, "session_id=? AND status=?", sessionID, entity.WagerPending).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *wagerRepository) CheckAndSettle(
	ctx context.Context, id string, to entity.WagerStatus,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Wager{}).
		Where("id=? AND status=?", id, entity.WagerPending).
		Updates(map[string]any{
			"status":       to,
			"processed_at": time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
