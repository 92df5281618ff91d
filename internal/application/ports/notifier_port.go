package ports

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// ChangeNotifier publica avisos de "una fila cambió". La entrega es best effort (como mucho una vez):
// un suscriptor que pierde un aviso debe releer, no depender de él.
type ChangeNotifier interface {
	Notify(ctx context.Context, event entity.ChangeEvent) error
}

// Subscription flujo de eventos de un suscriptor. Close libera el canal.
type Subscription interface {
	Events() <-chan entity.ChangeEvent
	Close()
}

// ChangeSubscriber lado de suscripción del notificador (tableros de administración).
type ChangeSubscriber interface {
	Subscribe(filter entity.ChangeFilter) Subscription
}

// Publish envía los eventos sin propagar errores: un fallo de notificación no revierte
// una operación ya confirmada, solo se registra.
func Publish(ctx context.Context, n ChangeNotifier, log *logger.Logger, events ...entity.ChangeEvent) {
	if n == nil {
		return
	}
	for _, ev := range events {
		if err := n.Notify(ctx, ev); err != nil && log != nil {
			log.Warn().Err(err).
				Str("entity_type", ev.EntityType).
				Str("entity_id", ev.EntityID).
				Str("change_kind", ev.ChangeKind).
				Msg("notificación de cambio no entregada")
		}
	}
}
