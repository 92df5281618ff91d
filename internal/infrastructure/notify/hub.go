// Package notify implementa el notificador de cambios: un hub en proceso para los suscriptores
// locales (SSE del panel de administración) y un relay por Redis Pub/Sub para varias instancias.
package notify

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

const defaultBuffer = 64

var (
	_ ports.ChangeNotifier   = (*Hub)(nil)
	_ ports.ChangeSubscriber = (*Hub)(nil)
)

// Hub reparte eventos a los suscriptores cuyo filtro coincide. Notify nunca bloquea:
// si el buffer de un suscriptor está lleno el evento se descarta para ese suscriptor.
type Hub struct {
	mu      sync.RWMutex
	subs    map[uint64]*subscription
	nextID  uint64
	buffer  int
	closed  bool
	dropped atomic.Uint64
	log     *logger.Logger
}

// NewHub crea un hub con buffer eventos por suscriptor.
func NewHub(buffer int, log *logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		subs:   make(map[uint64]*subscription),
		buffer: buffer,
		log:    log.Component("notify_hub"),
	}
}

// Notify entrega el evento a cada suscriptor que lo acepta. Como mucho una vez.
func (h *Hub) Notify(_ context.Context, ev entity.ChangeEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		if !s.filter.Match(ev) {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			h.dropped.Add(1)
			h.log.Debug().Uint64("subscriber", s.id).Str("entity_id", ev.EntityID).
				Str("change_kind", ev.ChangeKind).Msg("suscriptor lento, evento descartado")
		}
	}
	return nil
}

// Subscribe registra un suscriptor. El caller debe llamar Close al terminar.
// Sobre un hub cerrado devuelve una suscripción con el canal ya cerrado.
func (h *Hub) Subscribe(filter entity.ChangeFilter) ports.Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	s := &subscription{id: h.nextID, hub: h, filter: filter, ch: make(chan entity.ChangeEvent, h.buffer)}
	if h.closed {
		s.once.Do(func() { close(s.ch) })
		return s
	}
	h.subs[s.id] = s
	return s
}

// Subscribers número de suscriptores activos.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped total de entregas descartadas por buffers llenos.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Close cierra todas las suscripciones. Notify posteriores no entregan nada.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, s := range h.subs {
		delete(h.subs, id)
		s.once.Do(func() { close(s.ch) })
	}
}

func (h *Hub) remove(s *subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s.id]; ok {
		delete(h.subs, s.id)
	}
	s.once.Do(func() { close(s.ch) })
}

type subscription struct {
	id     uint64
	hub    *Hub
	filter entity.ChangeFilter
	ch     chan entity.ChangeEvent
	once   sync.Once
}

func (s *subscription) Events() <-chan entity.ChangeEvent { return s.ch }

func (s *subscription) Close() { s.hub.remove(s) }
