// Package ws broadcasts recorded events to connected spectator clients
// over websockets. Delivery is best effort: slow clients lose messages,
// the recording path never blocks.
package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/okian/skudd/internal/domain/model"
	"github.com/okian/skudd/pkg/logger"
	"github.com/okian/skudd/pkg/metrics"
)

const broadcastBuffer = 256

// Update is the message pushed to clients after each append.
type Update struct {
	Type      string      `json:"type"`
	Event     model.Event `json:"event"`
	HomeGoals int         `json:"homeGoals"`
	AwayGoals int         `json:"awayGoals"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of active clients and fans updates out to them.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan Update
	register   chan *Client
	unregister chan *Client
	logger     logger.Logger
}

// NewHub creates a hub; Run must be started before use.
func NewHub(l logger.Logger) *Hub {
	if l == nil {
		l = logger.Get().Named("ws")
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Update, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     l,
	}
}

// Run owns the client set until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
			}
			h.clients = map[*Client]struct{}{}
			metrics.UpdateWSClients(0)
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			metrics.UpdateWSClients(len(h.clients))
			h.logger.Info(ctx, "live client connected",
				logger.String("client", c.id),
				logger.Int("total", len(h.clients)),
			)

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				metrics.UpdateWSClients(len(h.clients))
				h.logger.Info(ctx, "live client disconnected",
					logger.String("client", c.id),
					logger.Int("total", len(h.clients)),
				)
			}

		case u := <-h.broadcast:
			payload, err := json.Marshal(u)
			if err != nil {
				h.logger.Warn(ctx, "dropping unmarshalable update", logger.Error(err))
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- payload:
					metrics.RecordWSMessageSent()
				default:
					metrics.RecordWSMessageDropped()
				}
			}
		}
	}
}

// Broadcast offers an update to the hub without blocking.
func (h *Hub) Broadcast(u Update) {
	select {
	case h.broadcast <- u:
	default:
		metrics.RecordWSMessageDropped()
	}
}
