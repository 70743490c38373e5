package client

import "github.com/citizenwallet/brussels-pay-wallet/internal/domain"

type ordersResponse struct {
	Orders []domain.Order `json:"orders"`
	Total  int            `json:"total"`
}

type transactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
}

type transactionResponse struct {
	Transaction *domain.Transaction `json:"transaction"`
}

type cardResponse struct {
	Card      *domain.Card      `json:"card"`
	Challenge *domain.Challenge `json:"challenge"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
