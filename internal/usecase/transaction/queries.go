package transaction

import (
	"context"
	"fmt"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/pagination"
)

// GetTransactions fetches the next page of transactions and reports whether
// more pages are available.
func (uc *DefaultTransactionUsecase) GetTransactions(ctx context.Context, account, token string, reset bool) bool {
	return uc.pager.Next(ctx, func(ctx context.Context, limit, offset int) ([]domain.Transaction, int, error) {
		page, err := uc.Checkout.GetTransactions(ctx, account, token, limit, offset)
		if err != nil {
			return nil, 0, err
		}
		return page.Transactions, page.Total, nil
	}, reset)
}

func (uc *DefaultTransactionUsecase) LoadTransactions(ctx context.Context, account, token string, reset bool) {
	if !uc.gate.ShouldLoad(pagination.CacheKey(account, token), reset) {
		uc.Metrics.CacheSkip(resourceTransactions)
		return
	}
	uc.GetTransactions(ctx, account, token, reset)
}

func (uc *DefaultTransactionUsecase) GetTransaction(ctx context.Context, hash string) (*domain.Transaction, error) {
	tx, err := uc.Checkout.GetTransaction(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", hash, err)
	}
	if tx == nil {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}
