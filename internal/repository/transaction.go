package repository

import (
	"context"

	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/pkg/xcontext"
)

type GetTransactionsFilter struct {
	UserID string
	Type   entity.TransactionType
	Offset int
	Limit  int
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	GetList(ctx context.Context, filter GetTransactionsFilter) ([]entity.Transaction, error)
	GetByReferenceID(ctx context.Context, referenceID string) ([]entity.Transaction, error)

	// ReplayBalance sums the signed amounts of all entries of a user in
	// creation order. With a zero initial balance it must equal the stored
	// user balance.
	ReplayBalance(ctx context.Context, userID string) (float64, error)
}

type transactionRepository struct{}

func NewTransactionRepository() *transactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return xcontext.DB(ctx).Create(tx).Error
}

func (r *transactionRepository) GetList(
	ctx context.Context, filter GetTransactionsFilter,
) ([]entity.Transaction, error) {
	tx := xcontext.DB(ctx).Model(&entity.Transaction{}).
		Where("user_id=?", filter.UserID).
		Order("id DESC").
		Offset(filter.Offset).Limit(filter.Limit)

	if filter.Type != "" {
		tx = tx.Where("type=?", filter.Type)
	}

	var result []entity.Transaction
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *transactionRepository) GetByReferenceID(
	ctx context.Context, referenceID string,
) ([]entity.Transaction, error) {
	var result []entity.Transaction
	err := xcontext.DB(ctx).
		Order("id ASC").
		Find(&result, "reference_id=?", referenceID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *transactionRepository) ReplayBalance(
	ctx context.Context, userID string,
) (float64, error) {
	var sum float64
	err := xcontext.DB(ctx).Model(&entity.Transaction{}).
		Where("user_id=?", userID).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	if err != nil {
		return 0, err
	}

	return sum, nil
}
