package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTimeout = 10 * time.Second

var errNotFound = errors.New("not found")

// HTTPCheckoutClient talks to the checkout REST API.
type HTTPCheckoutClient struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

func NewHTTPCheckoutClient(baseURL string, timeout time.Duration) (*HTTPCheckoutClient, error) {
	if baseURL == "" {
		return nil, errors.New("checkout url is not set")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid checkout url: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPCheckoutClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer("github.com/citizenwallet/brussels-pay-wallet/internal/client"),
	}, nil
}

func (c *HTTPCheckoutClient) GetAccountOrders(ctx context.Context, account, token string, limit, offset int) (*domain.OrdersPage, error) {
	query := url.Values{}
	if token != "" {
		query.Set("token", token)
	}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var resp ordersResponse
	if err := c.get(ctx, "orders.list", fmt.Sprintf("/api/v1/accounts/%s/orders", url.PathEscape(account)), query, &resp); err != nil {
		return nil, err
	}
	return &domain.OrdersPage{Orders: resp.Orders, Total: resp.Total}, nil
}

func (c *HTTPCheckoutClient) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := c.get(ctx, "orders.get", fmt.Sprintf("/api/v1/app/orders/%d", id), nil, &order)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (c *HTTPCheckoutClient) GetOrdersByTxHash(ctx context.Context, txHash string) ([]domain.Order, error) {
	query := url.Values{}
	query.Set("txHash", txHash)

	var resp ordersResponse
	err := c.get(ctx, "orders.by_tx", "/api/v1/app/orders", query, &resp)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *HTTPCheckoutClient) GetTransactions(ctx context.Context, account, contract string, limit, offset int) (*domain.TransactionsPage, error) {
	query := url.Values{}
	query.Set("account", account)
	query.Set("contract", contract)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var resp transactionsResponse
	if err := c.get(ctx, "transactions.list", "/api/v1/app/transactions", query, &resp); err != nil {
		return nil, err
	}
	return &domain.TransactionsPage{Transactions: resp.Transactions, Total: resp.Total}, nil
}

func (c *HTTPCheckoutClient) GetNewTransactions(ctx context.Context, account, contract string, from time.Time) ([]domain.Transaction, error) {
	query := url.Values{}
	query.Set("account", account)
	query.Set("contract", contract)
	query.Set("from_date", from.UTC().Format("2006-01-02T15:04:05.000Z"))

	var resp transactionsResponse
	if err := c.get(ctx, "transactions.new", "/api/v1/app/transactions/new", query, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

func (c *HTTPCheckoutClient) GetTransaction(ctx context.Context, hash string) (*domain.Transaction, error) {
	var resp transactionResponse
	err := c.get(ctx, "transactions.get", fmt.Sprintf("/api/v1/app/transactions/%s", url.PathEscape(hash)), nil, &resp)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return resp.Transaction, nil
}

// GetCard never fails on backend errors: like the web wallet it reports them
// through the status code of the lookup.
func (c *HTTPCheckoutClient) GetCard(ctx context.Context, serial string) (*domain.CardLookup, error) {
	status, body, err := c.do(ctx, "cards.get", fmt.Sprintf("/api/v1/app/cards/%s", url.PathEscape(serial)), nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &domain.CardLookup{Status: http.StatusInternalServerError}, nil
	}

	var resp cardResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &domain.CardLookup{Status: http.StatusInternalServerError}, nil
	}
	return &domain.CardLookup{
		Card:      resp.Card,
		Challenge: resp.Challenge,
		Status:    status,
	}, nil
}

func (c *HTTPCheckoutClient) get(ctx context.Context, op, path string, query url.Values, out any) error {
	status, body, err := c.do(ctx, op, path, query)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return errNotFound
	}

	if status >= 200 && status < 300 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s: %w", op, err)
		}
		return nil
	}

	var errResp errorResponse
	message := http.StatusText(status)
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error != "" {
			message = errResp.Error
		} else if errResp.Message != "" {
			message = errResp.Message
		}
	}
	return fmt.Errorf("checkout %s: %d %s", op, status, message)
}

func (c *HTTPCheckoutClient) do(ctx context.Context, op, path string, query url.Values) (int, []byte, error) {
	ctx, span := c.tracer.Start(ctx, "checkout."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	span.SetAttributes(attribute.String("http.url", endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrCheckoutUnavailable, err)
	}
	defer response.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", response.StatusCode))

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return response.StatusCode, nil, err
	}
	if response.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(response.StatusCode))
	}
	return response.StatusCode, body, nil
}
