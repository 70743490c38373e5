package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/citizenwallet/brussels-pay-wallet/internal/delivery/http/dto"
	"github.com/citizenwallet/brussels-pay-wallet/internal/state"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/scroll"
	"github.com/citizenwallet/brussels-pay-wallet/internal/usecase/session"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	TypeOrders       = "orders"
	TypeTransactions = "transactions"
	TypeViewport     = "viewport"
	TypeError        = "error"
)

// Inbound is a message from the browser. Viewport messages report the
// geometry of one list after it rendered.
type Inbound struct {
	Type           string  `json:"type"`
	List           string  `json:"list"`
	ContentHeight  float64 `json:"contentHeight"`
	ViewportHeight float64 `json:"viewportHeight"`
	ScrollY        float64 `json:"scrollY"`
}

type Outbound struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type StreamHandler struct {
	Sessions session.SessionUsecase
	Upgrader websocket.Upgrader
	Logger   *slog.Logger
}

func NewStreamHandler(sessions session.SessionUsecase, logger *slog.Logger) *StreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamHandler{
		Sessions: sessions,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		Logger: logger.With("component", "ws"),
	}
}

func (h *StreamHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/ws/sessions/:id", h.ServeSession)
}

// ServeSession streams snapshots of a session's lists and feeds viewport
// reports to scroll fetchers owned by the connection. The session stays
// alive while the connection is open; closing the session ends it.
func (h *StreamHandler) ServeSession(c *gin.Context) {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", "session", s.ID, "error", err)
		return
	}

	st := &stream{
		session:   s,
		client:    NewClient(conn, h.Logger.With("session", s.ID)),
		logger:    h.Logger.With("session", s.ID),
		scrollers: make(map[string]*scroll.Fetcher),
	}
	st.run()
}

type stream struct {
	session   *session.Session
	client    *Client
	logger    *slog.Logger
	scrollers map[string]*scroll.Fetcher

	wg sync.WaitGroup
}

func (st *stream) run() {
	detach := st.session.Attach()
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		st.client.Close()
		st.wg.Wait()
		detach()
	}()

	ordersCh, unsubOrders := st.session.Orders.Store().Subscribe()
	defer unsubOrders()
	txCh, unsubTxs := st.session.Transactions.Store().Subscribe()
	defer unsubTxs()

	st.pushOrders()
	st.pushTransactions()

	st.wg.Add(2)
	go func() {
		defer st.wg.Done()
		st.client.WritePump()
	}()
	go func() {
		defer st.wg.Done()
		st.forward(ctx, ordersCh, txCh)
	}()

	st.client.ReadPump(func(msg []byte) {
		st.handle(ctx, msg)
	})
}

func (st *stream) forward(ctx context.Context, orders, txs <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-st.client.Done():
			return
		case <-st.session.Done():
			st.logger.Info("session closed, ending stream")
			st.client.Close()
			return
		case _, ok := <-orders:
			if !ok {
				return
			}
			st.pushOrders()
		case _, ok := <-txs:
			if !ok {
				return
			}
			st.pushTransactions()
		}
	}
}

func (st *stream) handle(ctx context.Context, raw []byte) {
	var msg Inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		st.push(Outbound{Type: TypeError, Error: "invalid message"})
		return
	}
	if msg.Type != TypeViewport {
		st.push(Outbound{Type: TypeError, Error: "unsupported message type " + msg.Type})
		return
	}

	fetcher := st.scroller(msg.List)
	if fetcher == nil {
		st.push(Outbound{Type: TypeError, Error: "unknown list " + msg.List})
		return
	}
	st.session.Seen()
	fetcher.SetViewport(scroll.Geometry{
		Content: msg.ContentHeight,
		Window:  msg.ViewportHeight,
		Y:       msg.ScrollY,
	})

	if !fetcher.Mounted() {
		st.wg.Add(1)
		go func() {
			defer st.wg.Done()
			fetcher.Mount(ctx)
		}()
		return
	}
	fetcher.OnScroll(ctx)
}

// scroller returns the fetcher of list, creating it on first use. Only the
// read pump calls it.
func (st *stream) scroller(list string) *scroll.Fetcher {
	if f, ok := st.scrollers[list]; ok {
		return f
	}
	f := st.session.NewScroller(list)
	if f != nil {
		st.scrollers[list] = f
	}
	return f
}

func (st *stream) pushOrders() {
	snap := st.session.Orders.Store().Snapshot()
	st.push(Outbound{
		Type: TypeOrders,
		Data: dto.OrderList(snap, state.SortedByDate(snap.Items), snap.Pagination.CanLoadMore()),
	})
}

func (st *stream) pushTransactions() {
	snap := st.session.Transactions.Store().Snapshot()
	st.push(Outbound{
		Type: TypeTransactions,
		Data: dto.TransactionList(snap, snap.Items, snap.Pagination.CanLoadMore()),
	})
}

func (st *stream) push(msg Outbound) {
	msg.Timestamp = time.Now().UnixMilli()
	data, err := json.Marshal(msg)
	if err != nil {
		st.logger.Error("failed to encode websocket message", "type", msg.Type, "error", err)
		return
	}
	err = st.client.Send(data)
	if errors.Is(err, ErrClientBufferFull) {
		// snapshots are not resent, the browser reconnects
		st.logger.Warn("slow websocket client disconnected")
		st.client.Close()
	}
}
