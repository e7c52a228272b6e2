package bus

import "context"

// Notifier propaga avisos de "algo cambió en esta colección" entre
// instancias de la API. El aviso no lleva payload: el que escucha
// re-consulta su propio snapshot (semántica replace, ver platform/watch).
type Notifier interface {
	Publish(ctx context.Context, topic string) error

	// Subscribe devuelve un canal que recibe un tick por cada aviso
	// y una función para liberar la suscripción.
	Subscribe(ctx context.Context, topic string) (<-chan struct{}, func(), error)
}

// Topics por colección.
const (
	TopicEvents   = "doggo:changed:events"
	TopicLostPets = "doggo:changed:lostpets"
	TopicChat     = "doggo:changed:chat"
)
