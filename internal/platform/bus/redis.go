package bus

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisNotifier implementa Notifier sobre pub/sub de Redis.
// Con una sola instancia de la API no hace falta; con varias, mantiene
// las suscripciones en vivo sincronizadas entre procesos.
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// OpenRedis parsea la URL, conecta y hace ping.
func OpenRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("bus: parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("bus: ping redis: %w", err)
	}

	return client, nil
}

func (n *RedisNotifier) Publish(ctx context.Context, topic string) error {
	if err := n.client.Publish(ctx, topic, "1").Err(); err != nil {
		return fmt.Errorf("bus: publish %s: %w", topic, err)
	}
	return nil
}

func (n *RedisNotifier) Subscribe(ctx context.Context, topic string) (<-chan struct{}, func(), error) {
	ps := n.client.Subscribe(ctx, topic)

	// Fuerza el SUBSCRIBE antes de devolver, para no perder avisos tempranos.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("bus: subscribe %s: %w", topic, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range ps.Channel() {
			// Colapsa avisos repetidos si nadie está leyendo.
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()

	stop := func() { _ = ps.Close() }
	return out, stop, nil
}
