package dto

import (
	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/state"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/account"
)

type OpenSessionRequest struct {
	Serial  string `json:"serial"`
	Account string `json:"account"`
	Token   string `json:"token"`
}

type SessionResponse struct {
	ID           string                           `json:"id"`
	Serial       string                           `json:"serial,omitempty"`
	Account      string                           `json:"account"`
	Token        string                           `json:"token,omitempty"`
	Orders       ListResponse[OrderView]          `json:"orders"`
	Transactions ListResponse[domain.Transaction] `json:"transactions"`
}

// ListResponse mirrors a store snapshot plus whether another page exists.
type ListResponse[T any] struct {
	Items      []T                `json:"items"`
	Loading    bool               `json:"loading"`
	Error      string             `json:"error,omitempty"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
	HasMore    bool               `json:"hasMore"`
}

type OrderView struct {
	domain.Order
	Resolved []domain.ResolvedItem `json:"resolved_items"`
}

func NewOrderView(o domain.Order) OrderView {
	return OrderView{Order: o, Resolved: o.ResolveItems()}
}

func OrderList(snap state.Snapshot[domain.Order], items []domain.Order, hasMore bool) ListResponse[OrderView] {
	views := make([]OrderView, 0, len(items))
	for _, o := range items {
		views = append(views, NewOrderView(o))
	}
	return ListResponse[OrderView]{
		Items:      views,
		Loading:    snap.Loading,
		Error:      snap.Error,
		Pagination: snap.Pagination,
		HasMore:    hasMore,
	}
}

func TransactionList(snap state.Snapshot[domain.Transaction], items []domain.Transaction, hasMore bool) ListResponse[domain.Transaction] {
	return ListResponse[domain.Transaction]{
		Items:      items,
		Loading:    snap.Loading,
		Error:      snap.Error,
		Pagination: snap.Pagination,
		HasMore:    hasMore,
	}
}

type TransactionDetailResponse struct {
	Transaction *domain.Transaction `json:"transaction"`
	Orders      []OrderView         `json:"orders"`
}

type CardResponse struct {
	*account.CardAccount
	Balance *account.Balance `json:"balance,omitempty"`
}

type PreferenceRequest struct {
	Language  string `json:"language" binding:"required"`
	Anonymous bool   `json:"anonymous"`
}

type PreferenceResponse struct {
	Serial    string `json:"serial"`
	Language  string `json:"language"`
	Anonymous bool   `json:"anonymous"`
}

func NewPreferenceResponse(p *domain.CardPreference) PreferenceResponse {
	return PreferenceResponse{
		Serial:    p.Serial,
		Language:  string(p.Language),
		Anonymous: p.Anonymous,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
