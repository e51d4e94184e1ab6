// Package live keeps connected viewers in sync with the store. Writers
// publish topic names; each viewer holds cancellable streams that re-run
// their query when a topic fires and push the full result.
package live

import (
	"context"
	"log"
	"sync"
)

// Hub fans topic notifications out to the subscriptions of this process
type Hub struct {
	subs map[string]map[*Subscription]struct{}

	register   chan *Subscription
	unregister chan *Subscription
	broadcast  chan string
}

// Subscription receives a signal on C when its topic changes. C holds at
// most one pending signal, so bursts of changes collapse into one.
type Subscription struct {
	Topic string
	C     chan struct{}

	hub  *Hub
	once sync.Once
}

// NewHub creates a hub and starts its run loop
func NewHub() *Hub {
	h := &Hub{
		subs:       make(map[string]map[*Subscription]struct{}),
		register:   make(chan *Subscription),
		unregister: make(chan *Subscription),
		broadcast:  make(chan string, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case sub := <-h.register:
			if h.subs[sub.Topic] == nil {
				h.subs[sub.Topic] = make(map[*Subscription]struct{})
			}
			h.subs[sub.Topic][sub] = struct{}{}

		case sub := <-h.unregister:
			if subs, ok := h.subs[sub.Topic]; ok {
				delete(subs, sub)
				if len(subs) == 0 {
					delete(h.subs, sub.Topic)
				}
			}

		case topic := <-h.broadcast:
			for sub := range h.subs[topic] {
				select {
				case sub.C <- struct{}{}:
				default:
					// A signal is already pending
				}
			}
		}
	}
}

// Subscribe registers interest in a topic
func (h *Hub) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		Topic: topic,
		C:     make(chan struct{}, 1),
		hub:   h,
	}
	h.register <- sub
	return sub
}

// Close stops delivery to the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unregister <- s
	})
}

// Notify signals every subscription on topic
func (h *Hub) Notify(topic string) {
	select {
	case h.broadcast <- topic:
	default:
		log.Printf("[live] broadcast queue full, dropping %s", topic)
	}
}

// Publish implements service.Publisher for single-process deployments
func (h *Hub) Publish(ctx context.Context, topic string) error {
	h.Notify(topic)
	return nil
}
