// Package relay fans accepted location samples out to live subscribers.
// Feeds exist per courier and per order: an order feed can be opened before
// a courier is assigned and starts carrying samples once the assignment
// binds it to a courier. Each subscriber gets a small buffered channel and a
// slow consumer drops the oldest sample rather than blocking the ingest path.
package relay

import (
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
)

const subscriberBuffer = 16

var _ ports.TrackingBroadcaster = (*Hub)(nil)

type topicKind int

const (
	courierTopic topicKind = iota
	orderTopic
)

// Subscription is one live feed of samples. Close it through
// Hub.Unsubscribe when the consumer goes away.
type Subscription struct {
	kind topicKind
	key  kernel.UUID
	ch   chan tracking.Sample
}

// Samples is the feed channel. It is closed when the subscription is
// removed or the hub shuts down.
func (s *Subscription) Samples() <-chan tracking.Sample {
	return s.ch
}

// Hub routes samples from the report-location handler to WebSocket
// sessions. Safe for concurrent use.
type Hub struct {
	mu          sync.RWMutex
	closed      bool
	courierSubs map[kernel.UUID]map[*Subscription]struct{}
	orderSubs   map[kernel.UUID]map[*Subscription]struct{}

	// courierByOrder is the assignment binding; ordersByCourier is its
	// reverse index used on the broadcast path.
	courierByOrder  map[kernel.UUID]kernel.UUID
	ordersByCourier map[kernel.UUID]map[kernel.UUID]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		courierSubs:     make(map[kernel.UUID]map[*Subscription]struct{}),
		orderSubs:       make(map[kernel.UUID]map[*Subscription]struct{}),
		courierByOrder:  make(map[kernel.UUID]kernel.UUID),
		ordersByCourier: make(map[kernel.UUID]map[kernel.UUID]struct{}),
	}
}

// Subscribe registers a feed for one courier. Returns nil when the hub is
// already closed.
func (h *Hub) Subscribe(courierID kernel.UUID) *Subscription {
	return h.subscribe(courierTopic, courierID)
}

// SubscribeOrder registers a feed for one order. The feed may be opened
// before the order has a courier; it stays silent until Bind ties the order
// to one. Returns nil when the hub is already closed.
func (h *Hub) SubscribeOrder(orderID kernel.UUID) *Subscription {
	return h.subscribe(orderTopic, orderID)
}

func (h *Hub) subscribe(kind topicKind, key kernel.UUID) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	sub := &Subscription{
		kind: kind,
		key:  key,
		ch:   make(chan tracking.Sample, subscriberBuffer),
	}

	subs := h.topicSubs(kind)
	group, ok := subs[key]
	if !ok {
		group = make(map[*Subscription]struct{})
		subs[key] = group
	}
	group[sub] = struct{}{}

	return sub
}

func (h *Hub) topicSubs(kind topicKind) map[kernel.UUID]map[*Subscription]struct{} {
	if kind == orderTopic {
		return h.orderSubs
	}
	return h.courierSubs
}

// Unsubscribe removes the feed and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.topicSubs(sub.kind)
	group, ok := subs[sub.key]
	if !ok {
		return
	}
	if _, ok := group[sub]; !ok {
		return
	}

	delete(group, sub)
	if len(group) == 0 {
		delete(subs, sub.key)
	}
	close(sub.ch)
}

// Bind ties an order feed to a courier: from now on the courier's samples
// also reach the order's subscribers. Rebinding replaces the previous
// courier. Safe to call for orders nobody subscribed to.
func (h *Hub) Bind(orderID, courierID kernel.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	if prev, ok := h.courierByOrder[orderID]; ok {
		h.dropReverse(prev, orderID)
	}

	h.courierByOrder[orderID] = courierID
	orders, ok := h.ordersByCourier[courierID]
	if !ok {
		orders = make(map[kernel.UUID]struct{})
		h.ordersByCourier[courierID] = orders
	}
	orders[orderID] = struct{}{}
}

// Unbind removes the order's courier binding, silencing its feed. Called
// when the order reaches a terminal status.
func (h *Hub) Unbind(orderID kernel.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	courierID, ok := h.courierByOrder[orderID]
	if !ok {
		return
	}
	delete(h.courierByOrder, orderID)
	h.dropReverse(courierID, orderID)
}

func (h *Hub) dropReverse(courierID, orderID kernel.UUID) {
	orders, ok := h.ordersByCourier[courierID]
	if !ok {
		return
	}
	delete(orders, orderID)
	if len(orders) == 0 {
		delete(h.ordersByCourier, courierID)
	}
}

// Broadcast delivers the sample to every subscriber of its courier and of
// every order currently bound to that courier. When a subscriber's buffer
// is full the oldest buffered sample is dropped, so the feed always
// converges on the latest position.
func (h *Hub) Broadcast(sample tracking.Sample) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}

	for sub := range h.courierSubs[sample.CourierID()] {
		deliver(sub, sample)
	}
	for orderID := range h.ordersByCourier[sample.CourierID()] {
		for sub := range h.orderSubs[orderID] {
			deliver(sub, sample)
		}
	}
}

func deliver(sub *Subscription, sample tracking.Sample) {
	select {
	case sub.ch <- sample:
	default:
		// Full buffer: evict the oldest sample and retry once. If
		// another producer refilled the slot the new sample is dropped.
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- sample:
		default:
		}
	}
}

// Close shuts the hub down and closes every open feed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for _, group := range h.courierSubs {
		for sub := range group {
			close(sub.ch)
		}
	}
	for _, group := range h.orderSubs {
		for sub := range group {
			close(sub.ch)
		}
	}
	h.courierSubs = make(map[kernel.UUID]map[*Subscription]struct{})
	h.orderSubs = make(map[kernel.UUID]map[*Subscription]struct{})
	h.courierByOrder = make(map[kernel.UUID]kernel.UUID)
	h.ordersByCourier = make(map[kernel.UUID]map[kernel.UUID]struct{})
}
