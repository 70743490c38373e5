package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusPending  = "pending"
	StatusRefunded = "refunded"
	StatusRefund   = "refund"
)

// MenuItem is an entry of a place catalog. Prices are in minor units.
type MenuItem struct {
	ID          int64   `json:"id"`
	VAT         float64 `json:"vat"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	Order       int     `json:"order"`
	Price       int64   `json:"price"`
	Hidden      bool    `json:"hidden"`
	Category    string  `json:"category"`
	PlaceID     int64   `json:"place_id"`
	Description string  `json:"description"`
}

// OrderItem is a line of an order with the name and price cached at order time.
type OrderItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Quantity    int64  `json:"quantity,omitempty"`
	Description string `json:"description,omitempty"`
}

type Place struct {
	Slug     string     `json:"slug"`
	Items    []MenuItem `json:"items"`
	Display  string     `json:"display"`
	Accounts []string   `json:"accounts"`
}

type Order struct {
	ID          int64       `json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	Total       int64       `json:"total"`
	Due         int64       `json:"due"`
	Items       []OrderItem `json:"items"`
	Status      string      `json:"status"`
	PlaceID     int64       `json:"place_id"`
	CompletedAt *time.Time  `json:"completed_at"`
	Description string      `json:"description"`
	TxHash      string      `json:"tx_hash"`
	Type        string      `json:"type"`
	Account     string      `json:"account"`
	Fees        int64       `json:"fees"`
	PayoutID    *int64      `json:"payout_id"`
	POS         string      `json:"pos"`
	ProcessorTx *string     `json:"processor_tx"`
	RefundID    *int64      `json:"refund_id"`
	Token       string      `json:"token"`
	Place       *Place      `json:"place"`
}

func (o Order) Key() string {
	return fmt.Sprintf("%d", o.ID)
}

func (o Order) StatusValue() string {
	return o.Status
}

func (o Order) Created() time.Time {
	return o.CreatedAt
}

func (o Order) IsPending() bool {
	return IsPendingStatus(o.Status)
}

func (o Order) IsRefunded() bool {
	return IsRefundedStatus(o.Status)
}

// ResolvedItem is an order line joined with the current place catalog.
type ResolvedItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// ResolveItems joins the order lines against place.items. Lines that are not
// found in the catalog get a synthetic "Item <id>" label and a zero price.
func (o Order) ResolveItems() []ResolvedItem {
	catalog := make(map[int64]MenuItem)
	if o.Place != nil {
		for _, item := range o.Place.Items {
			catalog[item.ID] = item
		}
	}

	resolved := make([]ResolvedItem, 0, len(o.Items))
	for _, line := range o.Items {
		r := ResolvedItem{
			ID:       line.ID,
			Name:     fmt.Sprintf("Item %d", line.ID),
			Quantity: line.Quantity,
		}
		if r.Quantity == 0 {
			r.Quantity = 1
		}
		if item, ok := catalog[line.ID]; ok {
			if item.Name != "" {
				r.Name = item.Name
			}
			r.Price = item.Price
		}
		resolved = append(resolved, r)
	}
	return resolved
}

func IsPendingStatus(status string) bool {
	return strings.EqualFold(status, StatusPending)
}

func IsRefundedStatus(status string) bool {
	return strings.EqualFold(status, StatusRefunded) || strings.EqualFold(status, StatusRefund)
}
