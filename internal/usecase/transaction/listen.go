package transaction

import (
	"context"
	"time"
)

type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Listen restarts polling for account and token. It resets the collection
// to the first page, then every poll interval merges the transactions
// created after the moment Listen was called. The returned func stops this
// poller and may be called any number of times.
func (uc *DefaultTransactionUsecase) Listen(ctx context.Context, account, token string) func() {
	uc.pollMu.Lock()
	previous := uc.detachLocked(nil)

	watermark := uc.now()
	pollCtx, cancel := context.WithCancel(ctx)
	p := &poller{cancel: cancel, done: make(chan struct{})}
	uc.poller = p
	uc.watermark = watermark
	uc.pollMu.Unlock()
	previous.wait()

	uc.GetTransactions(pollCtx, account, token, true)

	uc.Metrics.PollerStarted()
	go uc.poll(pollCtx, p, account, token, watermark)

	uc.Logger.Info("listening for transactions", "account", account, "token", token, "since", watermark)
	return func() {
		uc.stopPolling(p)
	}
}

// Polling reports whether a poller is running.
func (uc *DefaultTransactionUsecase) Polling() bool {
	uc.pollMu.Lock()
	defer uc.pollMu.Unlock()
	return uc.poller != nil
}

// Watermark returns the creation time polling fetches from.
func (uc *DefaultTransactionUsecase) Watermark() time.Time {
	uc.pollMu.Lock()
	defer uc.pollMu.Unlock()
	return uc.watermark
}

func (uc *DefaultTransactionUsecase) poll(ctx context.Context, p *poller, account, token string, watermark time.Time) {
	defer close(p.done)
	defer uc.Metrics.PollerStopped()

	ticker := time.NewTicker(uc.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.pollOnce(ctx, account, token, watermark)
		}
	}
}

func (uc *DefaultTransactionUsecase) pollOnce(ctx context.Context, account, token string, watermark time.Time) {
	start := time.Now()
	txs, err := uc.Checkout.GetNewTransactions(ctx, account, token, watermark)
	if ctx.Err() != nil {
		// stopped while the request was in flight
		uc.Metrics.PollStale()
		return
	}
	uc.Metrics.Fetch(resourceTransactions+"_new", len(txs), time.Since(start).Seconds(), err)
	if err != nil {
		uc.Logger.Warn("poll for new transactions failed", "account", account, "error", err)
		uc.store.SetError(err.Error())
		return
	}

	uc.store.Upsert(txs)
	uc.Metrics.PollTick(len(txs))
	if len(txs) > 0 && uc.onUpsert != nil {
		uc.onUpsert(ctx, account, txs)
	}
}

// stopPolling stops p, or the running poller when p is nil, and waits for
// its goroutine to exit. The lock is released before waiting so a slow
// upsert hook never blocks other callers.
func (uc *DefaultTransactionUsecase) stopPolling(p *poller) {
	uc.pollMu.Lock()
	stopped := uc.detachLocked(p)
	uc.pollMu.Unlock()
	stopped.wait()
}

// detachLocked cancels the running poller if it is p (or any poller when p
// is nil) and returns it.
func (uc *DefaultTransactionUsecase) detachLocked(p *poller) *poller {
	current := uc.poller
	if current == nil || (p != nil && p != current) {
		return nil
	}
	current.cancel()
	uc.poller = nil
	return current
}

func (p *poller) wait() {
	if p != nil {
		<-p.done
	}
}
