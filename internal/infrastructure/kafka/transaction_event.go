package kafka

import (
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/google/uuid"
)

// TransactionEvent is published when polling merges a new or changed
// transaction into a wallet view.
type TransactionEvent struct {
	EventID       string    `json:"event_id"`
	Account       string    `json:"account"`
	TransactionID string    `json:"transaction_id"`
	Hash          string    `json:"hash"`
	Contract      string    `json:"contract"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	Value         string    `json:"value"`
	Status        string    `json:"status"`
	Refunded      bool      `json:"refunded"`
	CreatedAt     time.Time `json:"created_at"`
	ObservedAt    time.Time `json:"observed_at"`
}

func NewTransactionEvent(account string, tx domain.Transaction, observedAt time.Time) TransactionEvent {
	return TransactionEvent{
		EventID:       uuid.NewString(),
		Account:       account,
		TransactionID: tx.ID,
		Hash:          tx.Hash,
		Contract:      tx.Contract,
		From:          tx.From,
		To:            tx.To,
		Value:         tx.Value,
		Status:        tx.Status,
		Refunded:      tx.IsRefunded(),
		CreatedAt:     tx.CreatedAt,
		ObservedAt:    observedAt,
	}
}
