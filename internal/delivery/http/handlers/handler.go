package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/citizenwallet/brussels-pay-wallet/internal/delivery/http/dto"
	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/account"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/preference"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/session"
	"github.com/gin-gonic/gin"
)

type OrderLookup interface {
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
}

type TransactionLookup interface {
	GetTransaction(ctx context.Context, hash string) (*domain.Transaction, error)
}

type Handler struct {
	Sessions     session.SessionUsecase
	Accounts     account.AccountUsecase
	Preferences  preference.PreferenceUsecase
	Orders       OrderLookup
	Transactions TransactionLookup
	Logger       *slog.Logger
}

func NewHandler(
	sessions session.SessionUsecase,
	accounts account.AccountUsecase,
	preferences preference.PreferenceUsecase,
	orders OrderLookup,
	transactions TransactionLookup,
	logger *slog.Logger) *Handler {

	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Sessions:     sessions,
		Accounts:     accounts,
		Preferences:  preferences,
		Orders:       orders,
		Transactions: transactions,
		Logger:       logger.With("component", "http"),
	}
}

// RegisterRoutes mounts the wallet API under /api/v1.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api/v1")

	api.POST("/sessions", h.OpenSession)
	api.GET("/sessions/:id", h.GetSession)
	api.DELETE("/sessions/:id", h.CloseSession)
	api.GET("/sessions/:id/orders", h.SessionOrders)
	api.GET("/sessions/:id/transactions", h.SessionTransactions)
	api.GET("/sessions/:id/transactions/:hash", h.SessionTransaction)

	api.GET("/cards/:serial", h.GetCard)
	api.GET("/cards/:serial/preferences", h.GetPreferences)
	api.PUT("/cards/:serial/preferences", h.SavePreferences)

	api.GET("/orders/:id", h.GetOrder)
	api.GET("/transactions/:hash", h.GetTransaction)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrTokenNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrInvalidLanguage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCheckoutUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(code, dto.ErrorResponse{Error: err.Error()})
}
