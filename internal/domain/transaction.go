package domain

import (
	"context"
	"errors"

	"github.com/xoso-lab/backend/internal/common"
	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/internal/model"
	"github.com/xoso-lab/backend/internal/repository"
	"github.com/xoso-lab/backend/pkg/enum"
	"github.com/xoso-lab/backend/pkg/errorx"
	"github.com/xoso-lab/backend/pkg/xcontext"
)

type TransactionDomain interface {
	GetMyTransactions(ctx context.Context, req *model.GetMyTransactionsRequest) (*model.GetMyTransactionsResponse, error)
	AdjustBalance(ctx context.Context, req *model.AdjustBalanceRequest) (*model.AdjustBalanceResponse, error)
}

type transactionDomain struct {
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	roleVerifier    *common.GlobalRoleVerifier
}

func NewTransactionDomain(
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	roleVerifier *common.GlobalRoleVerifier,
) *transactionDomain {
	return &transactionDomain{
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		roleVerifier:    roleVerifier,
	}
}

func (d *transactionDomain) GetMyTransactions(
	ctx context.Context, req *model.GetMyTransactionsRequest,
) (*model.GetMyTransactionsResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	filter := repository.GetTransactionsFilter{
		UserID: xcontext.RequestUserID(ctx),
		Offset: req.Offset,
		Limit:  req.Limit,
	}

	if req.Type != "" {
		txType, err := enum.ToEnum[entity.TransactionType](req.Type)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid transaction type %q", req.Type)
		}
		filter.Type = txType
	}

	transactions, err := d.transactionRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transactions: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMyTransactionsResponse{
		Transactions: make([]model.Transaction, 0, len(transactions)),
	}
	for i := range transactions {
		resp.Transactions = append(resp.Transactions, model.ConvertTransaction(&transactions[i]))
	}

	return resp, nil
}

// AdjustBalance credits or debits a user out of band. Admin only; the amount
// may be negative but never below the user's balance.
func (d *transactionDomain) AdjustBalance(
	ctx context.Context, req *model.AdjustBalanceRequest,
) (*model.AdjustBalanceResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Amount == 0 {
		return nil, errorx.New(errorx.BadRequest, "Amount must not be zero")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	tx, err := common.ApplyBalanceChange(
		ctx,
		d.userRepo,
		d.transactionRepo,
		req.UserID,
		req.Amount,
		entity.TransactionAdjustment,
		xcontext.RequestUserID(ctx),
		entity.Map{"note": req.Note},
	)
	if err != nil {
		if errors.Is(err, common.ErrInsufficientBalance) {
			return nil, errorx.New(errorx.InsufficientBalance,
				"Cannot adjust balance below zero")
		}

		xcontext.Logger(ctx).Errorf("Cannot adjust balance: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.AdjustBalanceResponse{Balance: tx.BalanceAfter}, nil
}
