package memory

import (
	"context"
	"sort"
	"sync"

	"doggo-community/internal/domain/chat"
)

// ChatRepo guarda mensajes en memoria, agrupados por evento.
type ChatRepo struct {
	mu   sync.RWMutex
	data map[string][]chat.Message // eventID -> mensajes en orden de llegada
}

func NewChatRepo() *ChatRepo {
	return &ChatRepo{data: map[string][]chat.Message{}}
}

func (r *ChatRepo) Create(ctx context.Context, m chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[m.EventID] = append(r.data[m.EventID], m)
	return nil
}

func (r *ChatRepo) ListByEvent(ctx context.Context, eventID string, limit int) ([]chat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.data[eventID]
	out := append([]chat.Message(nil), msgs...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SentAt.Before(out[j].SentAt)
	})

	// El limit recorta lo más viejo; un chat siempre muestra la cola.
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *ChatRepo) DeleteByEvent(ctx context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, eventID)
	return nil
}
