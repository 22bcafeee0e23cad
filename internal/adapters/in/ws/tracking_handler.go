// Package ws streams live courier positions over WebSocket. Each connection
// subscribes to the relay hub for one courier; the hub's drop-oldest buffers
// mean a slow client skips samples instead of stalling ingestion.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/relay"
)

const writeTimeout = 10 * time.Second

// positionMessage is one position frame on the wire.
type positionMessage struct {
	CourierID  string    `json:"courier_id"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	CapturedAt time.Time `json:"captured_at"`
}

// TrackingHandler upgrades HTTP requests to tracking streams.
type TrackingHandler struct {
	hub      *relay.Hub
	store    ports.LocationStore
	getOrder queries.GetOrderQueryHandler
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewTrackingHandler creates the handler.
func NewTrackingHandler(
	hub *relay.Hub,
	store ports.LocationStore,
	getOrder queries.GetOrderQueryHandler,
	logger *slog.Logger,
) (*TrackingHandler, error) {
	if hub == nil {
		return nil, errs.NewValueIsRequiredError("hub")
	}
	if store == nil {
		return nil, errs.NewValueIsRequiredError("store")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &TrackingHandler{
		hub:      hub,
		store:    store,
		getOrder: getOrder,
		logger:   logger.With("component", "tracking_ws"),
	}, nil
}

// RegisterRoutes mounts the tracking endpoints.
func (h *TrackingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/couriers/:courierId/track", h.Track)
	e.GET("/api/v1/orders/:orderId/track", h.TrackOrder)
}

// Track handles GET /api/v1/couriers/:courierId/track. Sends the current
// position immediately, then every accepted sample until the client or the
// hub goes away.
func (h *TrackingHandler) Track(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("courierId"))
	if err != nil {
		return ctx.NoContent(http.StatusBadRequest)
	}

	sub := h.hub.Subscribe(courierID)
	if sub == nil {
		return ctx.NoContent(http.StatusServiceUnavailable)
	}

	conn, err := h.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		h.hub.Unsubscribe(sub)
		return nil
	}

	go h.stream(conn, sub, &courierID)

	return nil
}

// TrackOrder handles GET /api/v1/orders/:orderId/track. Subscribes to the
// order's feed; a not-yet-assigned order streams nothing until a courier
// accepts and the assignment binds the feed. For an already assigned order
// the binding is refreshed here so the feed carries samples even when the
// assignment predates this process.
func (h *TrackingHandler) TrackOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return ctx.NoContent(http.StatusBadRequest)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return ctx.NoContent(http.StatusBadRequest)
	}

	resp, err := h.getOrder.Handle(ctx.Request().Context(), query)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.NoContent(http.StatusNotFound)
	case err != nil:
		return ctx.NoContent(http.StatusInternalServerError)
	}

	if resp.CourierID != nil {
		h.hub.Bind(orderID, *resp.CourierID)
	}

	sub := h.hub.SubscribeOrder(orderID)
	if sub == nil {
		return ctx.NoContent(http.StatusServiceUnavailable)
	}

	conn, err := h.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		h.hub.Unsubscribe(sub)
		return nil
	}

	go h.stream(conn, sub, resp.CourierID)

	return nil
}

// stream pumps the subscription into the socket. courierID, when known,
// seeds the stream with the courier's last stored position; an order feed
// opened before assignment starts empty.
func (h *TrackingHandler) stream(conn *websocket.Conn, sub *relay.Subscription, courierID *kernel.UUID) {
	defer func() {
		h.hub.Unsubscribe(sub)
		_ = conn.Close()
	}()

	// Reader goroutine only to observe the close handshake; inbound frames
	// are ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if courierID != nil {
		// The request context dies with the handler return; the hijacked
		// connection outlives it.
		current, err := h.store.Get(context.Background(), *courierID)
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			// no position yet, stream from the first accepted sample
		case err != nil:
			h.logger.Error("Failed to load current position", "courierId", *courierID, "error", err)
			return
		default:
			if err := h.send(conn, current); err != nil {
				return
			}
		}
	}

	for {
		select {
		case sample, open := <-sub.Samples():
			if !open {
				return
			}
			if err := h.send(conn, sample); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *TrackingHandler) send(conn *websocket.Conn, sample tracking.Sample) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	return conn.WriteJSON(positionMessage{
		CourierID:  sample.CourierID().String(),
		Lat:        sample.Point().Lat(),
		Lon:        sample.Point().Lon(),
		CapturedAt: sample.CapturedAt(),
	})
}
