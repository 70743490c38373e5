package handlers

import (
	"net/http"

	"github.com/citizenwallet/brussels-pay-wallet/internal/delivery/http/dto"
	"github.com/citizenwallet/brussels-pay-wallet/internal/state"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/session"
	"github.com/gin-gonic/gin"
)

func (h *Handler) OpenSession(c *gin.Context) {
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	s, err := h.Sessions.Open(c.Request.Context(), session.OpenParams{
		Serial:  req.Serial,
		Account: req.Account,
		Token:   req.Token,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(s))
}

func (h *Handler) GetSession(c *gin.Context) {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s))
}

func (h *Handler) CloseSession(c *gin.Context) {
	if err := h.Sessions.Close(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SessionOrders returns the orders of a session. With more=1 the next page
// is fetched first; status filters the returned items.
func (h *Handler) SessionOrders(c *gin.Context) {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if c.Query("more") == "1" {
		s.Orders.GetOrders(c.Request.Context(), s.Account, s.Token, false)
	} else if c.Query("reload") == "1" {
		s.Orders.LoadOrders(c.Request.Context(), s.Account, s.Token, false)
	}

	snap := s.Orders.Store().Snapshot()
	items := state.SortedByDate(state.ByStatus(snap.Items, c.Query("status")))
	c.JSON(http.StatusOK, dto.OrderList(snap, items, snap.Pagination.CanLoadMore()))
}

func (h *Handler) SessionTransactions(c *gin.Context) {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if c.Query("more") == "1" {
		s.Transactions.GetTransactions(c.Request.Context(), s.Account, s.Token, false)
	} else if c.Query("reload") == "1" {
		s.Transactions.LoadTransactions(c.Request.Context(), s.Account, s.Token, false)
	}

	snap := s.Transactions.Store().Snapshot()
	items := state.ByStatus(snap.Items, c.Query("status"))
	c.JSON(http.StatusOK, dto.TransactionList(snap, items, snap.Pagination.CanLoadMore()))
}

// SessionTransaction returns one transaction with the orders paid by it.
// The orders are merged into the session's orders.
func (h *Handler) SessionTransaction(c *gin.Context) {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	hash := c.Param("hash")

	tx, err := s.Transactions.GetTransaction(c.Request.Context(), hash)
	if err != nil {
		h.fail(c, err)
		return
	}
	s.Orders.LoadOrderFromTxHash(c.Request.Context(), hash, c.Query("reload") == "1")

	resp := dto.TransactionDetailResponse{Transaction: tx, Orders: []dto.OrderView{}}
	for _, o := range s.Orders.Store().Items() {
		if o.TxHash == hash {
			resp.Orders = append(resp.Orders, dto.NewOrderView(o))
		}
	}
	c.JSON(http.StatusOK, resp)
}

func sessionResponse(s *session.Session) dto.SessionResponse {
	orders := s.Orders.Store().Snapshot()
	txs := s.Transactions.Store().Snapshot()
	return dto.SessionResponse{
		ID:           s.ID,
		Serial:       s.Serial,
		Account:      s.Account,
		Token:        s.Token,
		Orders:       dto.OrderList(orders, state.SortedByDate(orders.Items), orders.Pagination.CanLoadMore()),
		Transactions: dto.TransactionList(txs, txs.Items, txs.Pagination.CanLoadMore()),
	}
}
