package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

const defaultKeepAlive = 25 * time.Second

// EventsHandler expone los avisos de cambio como Server-Sent Events para los tableros.
// Cada evento lleva entity_type, entity_id y change_kind; el cliente relee lo que necesite.
type EventsHandler struct {
	subscriber ports.ChangeSubscriber
	keepAlive  time.Duration
}

// NewEventsHandler construye el handler. keepAlive <= 0 usa 25s.
func NewEventsHandler(subscriber ports.ChangeSubscriber, keepAlive time.Duration) *EventsHandler {
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &EventsHandler{subscriber: subscriber, keepAlive: keepAlive}
}

// Stream GET /api/events?entity_type=&entity_id=
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	filter := entity.ChangeFilter{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
	}
	sub := h.subscriber.Subscribe(filter)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Close()
		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()

		fmt.Fprint(w, ": conectado\n\n")
		if err := w.Flush(); err != nil {
			return
		}
		for {
			select {
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := writeEvent(w, ev); err != nil {
					return
				}
			case <-ticker.C:
				// el cliente se desconectó si el flush falla
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, ev entity.ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.ChangeKind, data)
	return w.Flush()
}
