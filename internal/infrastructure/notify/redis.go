package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/pkg/config"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// DefaultChannel canal de Pub/Sub si la configuración no define uno.
const DefaultChannel = "tienda:changes"

const pingTimeout = 5 * time.Second

var _ ports.ChangeNotifier = (*RedisPublisher)(nil)

// NewRedisClient crea el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// RedisPublisher publica cada ChangeEvent como JSON en un canal de Redis. Cada instancia de la API
// corre un RedisRelay que lo reenvía a su hub local.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	log     *logger.Logger
}

// NewRedisPublisher construye el publicador. El caller conserva la propiedad del cliente.
func NewRedisPublisher(client *redis.Client, channel string, log *logger.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisPublisher{client: client, channel: channel, log: log.Component("redis_publisher")}
}

// Notify publica el evento. El error se devuelve para que el caller lo registre; nunca revierte nada.
func (p *RedisPublisher) Notify(ctx context.Context, ev entity.ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	p.log.Debug().Str("channel", p.channel).Str("entity_type", ev.EntityType).
		Str("entity_id", ev.EntityID).Str("change_kind", ev.ChangeKind).Msg("evento publicado")
	return nil
}

// RedisRelay escucha el canal de Redis y reenvía cada evento a un notificador local (el Hub).
type RedisRelay struct {
	client  *redis.Client
	channel string
	target  ports.ChangeNotifier
	log     *logger.Logger

	mu      sync.Mutex
	running bool
}

// NewRedisRelay construye el relay.
func NewRedisRelay(client *redis.Client, channel string, target ports.ChangeNotifier, log *logger.Logger) *RedisRelay {
	if channel == "" {
		channel = DefaultChannel
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RedisRelay{client: client, channel: channel, target: target, log: log.Component("redis_relay")}
}

// Run se suscribe y reenvía eventos hasta que ctx se cancele. Bloquea: llamarlo en una goroutine.
// ready, si no es nil, se cierra cuando la suscripción quedó confirmada.
func (r *RedisRelay) Run(ctx context.Context, ready chan<- struct{}) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("relay ya está corriendo")
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// Esperar la confirmación de la suscripción
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", r.channel, err)
	}
	r.log.Info().Str("channel", r.channel).Msg("relay de cambios suscrito")
	if ready != nil {
		close(ready)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("relay de cambios detenido")
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				r.log.Warn().Msg("canal de Redis cerrado")
				return nil
			}
			var ev entity.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				r.log.Error().Err(err).Str("payload", msg.Payload).Msg("evento inválido en el canal")
				continue
			}
			if err := r.target.Notify(ctx, ev); err != nil {
				r.log.Warn().Err(err).Str("entity_id", ev.EntityID).Msg("reenvío local fallido")
			}
		}
	}
}
