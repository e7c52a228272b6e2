package watch

import (
	"context"
	"sync"
)

// Snapshotter produce el result set completo para una suscripción.
// Cada suscripción trae el suyo (lleva su filtro adentro).
type Snapshotter[T any] func(ctx context.Context) ([]T, error)

// Subscription entrega snapshots completos (replace, no diffs):
// en cada cambio del set observado se vuelve a entregar la lista entera.
// Cancel detiene la entrega, cierra el canal y libera el slot en el hub;
// es idempotente.
type Subscription[T any] struct {
	mu     sync.Mutex
	ch     chan []T
	done   chan struct{}
	closed bool
	detach func()
}

// Updates es el canal de snapshots. Se cierra al cancelar.
func (s *Subscription[T]) Updates() <-chan []T {
	return s.ch
}

func (s *Subscription[T]) Cancel() {
	if s.detach != nil {
		s.detach()
	}
	s.closeCh()
}

func (s *Subscription[T]) closeCh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
	close(s.done)
}

// push entrega sin bloquear: si el consumidor no drenó el snapshot
// anterior, se descarta el viejo y queda solo el más reciente.
func (s *Subscription[T]) push(snapshot []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- snapshot:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

type subEntry[T any] struct {
	sub  *Subscription[T]
	snap Snapshotter[T]
}

// Hub reparte snapshots a suscriptores vivos. No guarda estado del dominio:
// en cada Broadcast re-consulta vía el Snapshotter de cada suscripción,
// así nunca se entrega una copia cacheada vieja.
type Hub[T any] struct {
	mu     sync.Mutex
	seq    int64
	subs   map[int64]subEntry[T]
	closed bool
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[int64]subEntry[T])}
}

// Subscribe registra una suscripción y entrega el snapshot inicial
// de inmediato. Si ctx se cancela, la suscripción se cancela sola.
func (h *Hub[T]) Subscribe(ctx context.Context, snap Snapshotter[T]) (*Subscription[T], error) {
	initial, err := snap(ctx)
	if err != nil {
		return nil, err
	}

	// Buffer de 1: siempre hay a lo más un snapshot pendiente,
	// el más nuevo reemplaza al que no se consumió.
	sub := &Subscription[T]{
		ch:   make(chan []T, 1),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.closeCh()
		return sub, nil
	}
	h.seq++
	id := h.seq
	sub.detach = func() { h.remove(id) }
	h.subs[id] = subEntry[T]{sub: sub, snap: snap}
	h.mu.Unlock()

	sub.push(initial)

	go func() {
		select {
		case <-ctx.Done():
			sub.Cancel()
		case <-sub.done:
		}
	}()

	return sub, nil
}

// Broadcast re-consulta y entrega el snapshot actual a cada suscriptor.
// Si el snapshot de una suscripción falla, esa entrega se omite
// (el suscriptor sigue vivo y recibirá el próximo cambio).
func (h *Hub[T]) Broadcast(ctx context.Context) {
	h.mu.Lock()
	entries := make([]subEntry[T], 0, len(h.subs))
	for _, e := range h.subs {
		entries = append(entries, e)
	}
	h.mu.Unlock()

	for _, e := range entries {
		snapshot, err := e.snap(ctx)
		if err != nil {
			continue
		}
		e.sub.push(snapshot)
	}
}

// Close cancela todas las suscripciones vivas.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*Subscription[T], 0, len(h.subs))
	for _, e := range h.subs {
		subs = append(subs, e.sub)
	}
	h.subs = map[int64]subEntry[T]{}
	h.mu.Unlock()

	for _, s := range subs {
		s.closeCh()
	}
}

func (h *Hub[T]) remove(id int64) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}
