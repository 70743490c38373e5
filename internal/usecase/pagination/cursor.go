package pagination

import "github.com/citizenwallet/brussels-pay-wallet/internal/domain"

// Cursor tracks the last page fetched for a collection. The zero value is
// unset, which means the next fetch starts at offset 0.
type Cursor struct {
	page      *domain.Pagination
	lastCount int
}

// Next returns the offset of the page after the last recorded one.
func (c *Cursor) Next(limit int) int {
	if c.page == nil {
		return 0
	}
	return c.page.Offset + limit
}

// Exhausted reports whether a page has been recorded and it was shorter than limit.
func (c *Cursor) Exhausted(limit int) bool {
	return c.page != nil && c.lastCount < limit
}

// Record stores the result of fetching n items at offset. HasMore is the
// full-page heuristic. Total is the server-reported total when the backend
// sends one, else the page length.
func (c *Cursor) Record(offset, limit, n, serverTotal int) domain.Pagination {
	total := n
	if serverTotal > 0 {
		total = serverTotal
	}
	c.page = &domain.Pagination{
		Offset:  offset,
		Limit:   limit,
		Total:   total,
		HasMore: n == limit,
	}
	c.lastCount = n
	return *c.page
}

// Page returns the last recorded page, or nil when the cursor is unset.
func (c *Cursor) Page() *domain.Pagination {
	if c.page == nil {
		return nil
	}
	p := *c.page
	return &p
}

func (c *Cursor) Reset() {
	c.page = nil
	c.lastCount = 0
}
