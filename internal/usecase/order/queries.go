package order

import (
	"context"
	"fmt"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/pagination"
)

// GetOrders fetches the next page of orders for account and token and
// reports whether more pages are available. A second call for an offset
// that was already requested is a no-op returning false.
func (uc *DefaultOrderUsecase) GetOrders(ctx context.Context, account, token string, reset bool) bool {
	return uc.pager.Next(ctx, func(ctx context.Context, limit, offset int) ([]domain.Order, int, error) {
		page, err := uc.Checkout.GetAccountOrders(ctx, account, token, limit, offset)
		if err != nil {
			return nil, 0, err
		}
		return page.Orders, page.Total, nil
	}, reset)
}

// LoadOrders is GetOrders throttled to one load per account and token within
// the reload window. reset forces the load.
func (uc *DefaultOrderUsecase) LoadOrders(ctx context.Context, account, token string, reset bool) {
	if !uc.gate.ShouldLoad(pagination.CacheKey(account, token), reset) {
		uc.Metrics.CacheSkip(resourceOrders)
		return
	}
	uc.GetOrders(ctx, account, token, reset)
}

// LoadOrderFromTxHash merges the orders settled by txHash into the store.
func (uc *DefaultOrderUsecase) LoadOrderFromTxHash(ctx context.Context, txHash string, reset bool) {
	if !uc.gate.ShouldLoad("txHash-"+txHash, reset) {
		uc.Metrics.CacheSkip(resourceOrders)
		return
	}

	start := time.Now()
	orders, err := uc.Checkout.GetOrdersByTxHash(ctx, txHash)
	uc.Metrics.Fetch(resourceOrders, len(orders), time.Since(start).Seconds(), err)
	if err != nil {
		uc.Logger.Error("failed to load orders by tx hash", "tx_hash", txHash, "error", err)
		uc.store.SetError(err.Error())
		return
	}
	uc.store.Upsert(orders)
}

func (uc *DefaultOrderUsecase) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := uc.Checkout.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}
