package domain

// Pagination describes the last page fetched for a collection.
// HasMore is true iff the last page was full.
type Pagination struct {
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// CanLoadMore reports whether another page may exist. Nothing loaded yet
// counts as more.
func (p *Pagination) CanLoadMore() bool {
	return p == nil || p.HasMore
}

type OrdersPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}

type TransactionsPage struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
}
