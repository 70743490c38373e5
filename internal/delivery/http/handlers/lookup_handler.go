package handlers

import (
	"net/http"
	"strconv"

	"github.com/citizenwallet/brussels-pay-wallet/internal/delivery/http/dto"
	"github.com/gin-gonic/gin"
)

// GetCard resolves a card serial to its account and balance. A pin
// challenge from the checkout backend is passed through in the body.
func (h *Handler) GetCard(c *gin.Context) {
	card, err := h.Accounts.ResolveCard(c.Request.Context(), c.Param("serial"))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := dto.CardResponse{CardAccount: card}
	balance, err := h.Accounts.FetchBalance(c.Request.Context(), card.Account, c.Query("token"))
	if err != nil {
		h.Logger.Warn("balance unavailable", "serial", card.Serial, "error", err)
	} else {
		resp.Balance = balance
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid order id"})
		return
	}

	o, err := h.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderView(*o))
}

func (h *Handler) GetTransaction(c *gin.Context) {
	tx, err := h.Transactions.GetTransaction(c.Request.Context(), c.Param("hash"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}
