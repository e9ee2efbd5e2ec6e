// Package websocket
package websocket

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"pulsedeck/internal/domain"
	"pulsedeck/internal/logger"
)

// Source supplies the hub with snapshot data: the latest published
// snapshot for init frames and the 60-sample series for series frames.
type Source interface {
	Latest() domain.Snapshot
	Series() *domain.NetSeries
}

type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	snapshots  chan domain.Snapshot

	source Source
	count  atomic.Int64
	ticks  int

	log logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		snapshots:  make(chan domain.Snapshot, 16),
		log:        log,
	}
}

// SetSource must be called before Run; it exists because the hub and
// the aggregation loop reference each other.
func (h *Hub) SetSource(source Source) {
	h.source = source
}

// ClientCount is safe to call from any goroutine.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Publish hands one tick's snapshot to the hub. Never blocks the
// aggregation loop; a full buffer drops the frame.
func (h *Hub) Publish(snap domain.Snapshot) {
	select {
	case h.snapshots <- snap:
	default:
		h.log.Warn("ws: snapshot buffer full, dropping frame")
	}
}

func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.log.Info("ws: hub shutting down")
			for client := range h.clients {
				close(client.send)
			}
			return ctx.Err()

		case c := <-h.register:
			h.clients[c] = true
			h.count.Store(int64(len(h.clients)))
			h.sendInit(c)
			h.log.Info("ws: client registered", "id", c.ID, "total_clients", len(h.clients))

		case c := <-h.unregister:
			if !h.clients[c] {
				continue
			}
			delete(h.clients, c)
			h.count.Store(int64(len(h.clients)))
			close(c.send)
			h.log.Info("ws: client unregistered", "id", c.ID, "total_clients", len(h.clients))

		case snap := <-h.snapshots:
			h.broadcast(snap)
		}
	}
}

// sendInit queues the full-snapshot welcome frame for a new client.
func (h *Hub) sendInit(c *Client) {
	snap := h.source.Latest()
	snap.Series = h.source.Series()

	message, err := json.Marshal(domain.WsEnvelope{Type: domain.WsTypeInit, Data: snap})
	if err != nil {
		h.log.Error("ws: failed to marshal init frame", "error", err)
		return
	}

	select {
	case c.send <- message:
	default:
		h.log.Warn("ws: client send buffer full on init", "id", c.ID)
	}
}

// broadcast fans one tick out to every client: metrics-only frames,
// with a series frame every fifth tick.
func (h *Hub) broadcast(snap domain.Snapshot) {
	if len(h.clients) == 0 {
		return
	}

	h.ticks++
	envType := domain.WsTypeMetrics
	if h.ticks%5 == 0 {
		envType = domain.WsTypeSeries
		snap.Series = h.source.Series()
	}

	message, err := json.Marshal(domain.WsEnvelope{Type: envType, Data: snap})
	if err != nil {
		h.log.Error("ws: failed to marshal frame", "error", err)
		return
	}

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			h.log.Warn("ws: client send buffer full, force unregister", "id", client.ID)
			delete(h.clients, client)
			h.count.Store(int64(len(h.clients)))
			close(client.send)
		}
	}
}
