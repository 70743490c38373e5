package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/delivery/http/dto"
	"github.com/citizenwallet/brussels-pay-wallet/internal/domain"
	"github.com/citizenwallet/brussels-pay-wallet/internal/testutil"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/account"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/order"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/preference"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/session"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/transaction"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccount = "0x00000000000000000000000000000000000000a1"

type fakeAccounts struct{}

func (fakeAccounts) FetchBalance(_ context.Context, acc, token string) (*account.Balance, error) {
	return &account.Balance{Account: acc, Raw: "1250000", Formatted: "1.25"}, nil
}

func (fakeAccounts) ResolveCard(_ context.Context, serial string) (*account.CardAccount, error) {
	if serial != "card-1" {
		return nil, domain.ErrCardNotFound
	}
	challenge := domain.ChallengePin
	return &account.CardAccount{
		Serial:    serial,
		Account:   testAccount,
		Challenge: &challenge,
		Status:    401,
		Profile:   &domain.Profile{Account: testAccount, Username: "alice", Image: "https://ipfs.example.org/QmImage"},
	}, nil
}

type memoryPreferences struct {
	prefs map[string]domain.CardPreference
}

func (m *memoryPreferences) GetPreference(_ context.Context, serial string) (*domain.CardPreference, error) {
	p, ok := m.prefs[serial]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memoryPreferences) SavePreference(_ context.Context, pref *domain.CardPreference) error {
	m.prefs[pref.Serial] = *pref
	return nil
}

type testServer struct {
	router   *gin.Engine
	checkout *testutil.FakeCheckout
	sessions *session.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	checkout := testutil.NewFakeCheckout()
	checkout.Orders = testutil.Orders(1, 12)
	checkout.Transactions = testutil.Transactions(1, 4)

	registry, err := session.NewRegistry(context.Background(), checkout, fakeAccounts{}, nil, nil, session.Options{
		Limit:        10,
		PollInterval: time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(registry.CloseAll)

	h := NewHandler(
		registry,
		fakeAccounts{},
		preference.NewDefaultPreferenceUsecase(&memoryPreferences{prefs: map[string]domain.CardPreference{}}),
		order.NewDefaultOrderUsecase(checkout, nil, nil, order.Options{}),
		transaction.NewDefaultTransactionUsecase(checkout, nil, nil, transaction.Options{}),
		nil,
	)
	r := gin.New()
	h.RegisterRoutes(r)
	return &testServer{router: r, checkout: checkout, sessions: registry}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/sessions", dto.OpenSessionRequest{Serial: "card-1", Token: "0xtoken"})
	require.Equal(t, http.StatusCreated, w.Code)
	opened := decode[dto.SessionResponse](t, w)
	assert.Equal(t, testAccount, opened.Account)
	assert.Len(t, opened.Orders.Items, 10)
	assert.True(t, opened.Orders.HasMore)
	assert.Len(t, opened.Transactions.Items, 4)
	assert.False(t, opened.Transactions.HasMore)

	w = s.do(t, http.MethodGet, "/api/v1/sessions/"+opened.ID+"/orders?more=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode[dto.ListResponse[dto.OrderView]](t, w)
	assert.Len(t, orders.Items, 12)
	assert.False(t, orders.HasMore)
	require.NotNil(t, orders.Pagination)
	assert.Equal(t, 10, orders.Pagination.Offset)

	w = s.do(t, http.MethodGet, "/api/v1/sessions/"+opened.ID+"/orders?status=pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[dto.ListResponse[dto.OrderView]](t, w).Items)

	w = s.do(t, http.MethodDelete, "/api/v1/sessions/"+opened.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/sessions/"+opened.ID+"/orders", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpenSessionErrors(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/sessions", dto.OpenSessionRequest{Serial: "card-404"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/sessions", dto.OpenSessionRequest{Account: "0xnope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionTransactionWithOrders(t *testing.T) {
	s := newTestServer(t)
	opened, err := s.sessions.Open(context.Background(), session.OpenParams{Account: testAccount})
	require.NoError(t, err)

	hash := s.checkout.Transactions[1].Hash
	w := s.do(t, http.MethodGet, "/api/v1/sessions/"+opened.ID+"/transactions/"+hash, nil)
	require.Equal(t, http.StatusOK, w.Code)

	detail := decode[dto.TransactionDetailResponse](t, w)
	assert.Equal(t, hash, detail.Transaction.Hash)
	require.Len(t, detail.Orders, 1)
	assert.Equal(t, hash, detail.Orders[0].TxHash)

	w = s.do(t, http.MethodGet, "/api/v1/sessions/"+opened.ID+"/transactions/0xmissing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLookups(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/orders/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), decode[dto.OrderView](t, w).ID)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/orders/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/orders/abc", nil).Code)

	w = s.do(t, http.MethodGet, "/api/v1/transactions/"+s.checkout.Transactions[0].Hash, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/cards/card-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	card := decode[map[string]any](t, w)
	assert.Equal(t, testAccount, card["account"])
	assert.Equal(t, "pin", card["challenge"])
	assert.NotNil(t, card["balance"])
	profile, ok := card["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", profile["username"])
	assert.Equal(t, "https://ipfs.example.org/QmImage", profile["image"])

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/cards/card-404", nil).Code)
}

func TestPreferences(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/cards/card-1/preferences", nil, "Accept-Language", "fr-BE,fr;q=0.9")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fr", decode[dto.PreferenceResponse](t, w).Language)

	w = s.do(t, http.MethodPut, "/api/v1/cards/card-1/preferences", dto.PreferenceRequest{Language: "nl", Anonymous: true})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/cards/card-1/preferences", nil, "Accept-Language", "fr")
	pref := decode[dto.PreferenceResponse](t, w)
	assert.Equal(t, "nl", pref.Language)
	assert.True(t, pref.Anonymous)

	w = s.do(t, http.MethodPut, "/api/v1/cards/card-1/preferences", dto.PreferenceRequest{Language: "de"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
