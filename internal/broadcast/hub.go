// Package broadcast fans single-record mutation events out to live sessions.
//
// Delivery is at-most-once and best-effort: each subscriber owns a bounded
// channel, and when it is full new events are dropped for that subscriber
// (drop-new). There is no replay — a client that missed events must request
// a fresh snapshot on reconnect. Publishers never block on subscribers.
package broadcast

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Muhammet-Aksoy/stokv1/internal/dto"

	"github.com/rs/zerolog/log"
)

// DefaultBufferSize is the per-subscriber channel capacity. A shop LAN
// produces a handful of mutations per minute; 64 outstanding events means
// the subscriber stopped reading.
const DefaultBufferSize = 64

type subscriber struct {
	sessionID string
	ch        chan dto.ServerMessage
}

// Hub is the in-process publish/subscribe switchboard.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]*subscriber
	bufSize int
	dropped atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]*subscriber), bufSize: DefaultBufferSize}
}

// Subscribe registers a session and returns its event channel together with
// an unsubscribe func. Subscribing an already-registered session id replaces
// the previous subscription (reconnect with the same id).
func (h *Hub) Subscribe(sessionID string) (<-chan dto.ServerMessage, func()) {
	sub := &subscriber{sessionID: sessionID, ch: make(chan dto.ServerMessage, h.bufSize)}

	h.mu.Lock()
	if old, ok := h.subs[sessionID]; ok {
		close(old.ch)
	}
	h.subs[sessionID] = sub
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if cur, ok := h.subs[sessionID]; ok && cur == sub {
			delete(h.subs, sessionID)
			close(sub.ch)
		}
	}
	return sub.ch, unsubscribe
}

// Publish delivers msg to every subscriber except the originating session.
// Never blocks: a full subscriber buffer drops the event for that subscriber
// only.
func (h *Hub) Publish(originSession string, msg dto.ServerMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, sub := range h.subs {
		if id == originSession {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
			h.dropped.Add(1)
			log.Warn().
				Str("session", id).
				Str("type", msg.Type).
				Msg("broadcast: subscriber buffer full, event dropped")
		}
	}
}

// PublishMutation wraps a mutation event in the live-channel envelope and
// fans it out. One successful single-record mutation maps to exactly one
// publish.
func (h *Hub) PublishMutation(originSession, kind, entityType string, payload any) {
	now := time.Now().UTC()
	h.Publish(originSession, dto.ServerMessage{
		Type: "dataUpdated",
		Data: dto.MutationEvent{
			Kind:       kind,
			EntityType: entityType,
			Payload:    payload,
			Timestamp:  now,
		},
		Timestamp: now,
	})
}

// SubscriberCount reports the number of live sessions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped reports how many events were discarded on full buffers.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }
