package watch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvSnapshot(t *testing.T, sub *Subscription[string]) []string {
	t.Helper()
	select {
	case s, ok := <-sub.Updates():
		if !ok {
			t.Fatalf("updates channel closed unexpectedly")
		}
		return s
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for snapshot")
		return nil
	}
}

func TestHub_InitialSnapshotDeliveredImmediately(t *testing.T) {
	hub := NewHub[string]()
	defer hub.Close()

	sub, err := hub.Subscribe(context.Background(), func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	defer sub.Cancel()

	assert.Equal(t, []string{"a", "b"}, recvSnapshot(t, sub))
}

func TestHub_BroadcastDeliversFullSnapshot(t *testing.T) {
	hub := NewHub[string]()
	defer hub.Close()

	current := []string{"a"}
	sub, err := hub.Subscribe(context.Background(), func(ctx context.Context) ([]string, error) {
		return current, nil
	})
	require.NoError(t, err)
	defer sub.Cancel()

	assert.Equal(t, []string{"a"}, recvSnapshot(t, sub))

	// El set cambia: el broadcast re-entrega la lista entera, no un diff.
	current = []string{"a", "b", "c"}
	hub.Broadcast(context.Background())
	assert.Equal(t, []string{"a", "b", "c"}, recvSnapshot(t, sub))
}

func TestHub_SlowConsumerKeepsOnlyLatest(t *testing.T) {
	hub := NewHub[string]()
	defer hub.Close()

	current := []string{"v1"}
	sub, err := hub.Subscribe(context.Background(), func(ctx context.Context) ([]string, error) {
		return current, nil
	})
	require.NoError(t, err)
	defer sub.Cancel()

	// Sin consumir el inicial, dos broadcasts seguidos: solo queda el último.
	current = []string{"v2"}
	hub.Broadcast(context.Background())
	current = []string{"v3"}
	hub.Broadcast(context.Background())

	assert.Equal(t, []string{"v3"}, recvSnapshot(t, sub))
}

func TestHub_CancelClosesChannelAndStopsDelivery(t *testing.T) {
	hub := NewHub[string]()
	defer hub.Close()

	sub, err := hub.Subscribe(context.Background(), func(ctx context.Context) ([]string, error) {
		return []string{"a"}, nil
	})
	require.NoError(t, err)

	recvSnapshot(t, sub)
	sub.Cancel()
	sub.Cancel() // idempotente

	_, ok := <-sub.Updates()
	assert.False(t, ok, "channel should be closed after cancel")

	// Un broadcast posterior no debe entrar en pánico ni entregar nada.
	hub.Broadcast(context.Background())
}

func TestHub_ContextCancelReleasesSubscription(t *testing.T) {
	hub := NewHub[string]()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := hub.Subscribe(ctx, func(ctx context.Context) ([]string, error) {
		return nil, nil
	})
	require.NoError(t, err)

	recvSnapshot := func() bool {
		select {
		case _, ok := <-sub.Updates():
			return ok
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out")
			return false
		}
	}
	require.True(t, recvSnapshot()) // inicial

	cancel()

	// Eventualmente el canal se cierra.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Updates():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("subscription not released after context cancel")
		}
	}
}

func TestHub_SnapshotErrorSkipsDeliveryButKeepsSubscriber(t *testing.T) {
	hub := NewHub[string]()
	defer hub.Close()

	fail := false
	current := []string{"a"}
	sub, err := hub.Subscribe(context.Background(), func(ctx context.Context) ([]string, error) {
		if fail {
			return nil, assert.AnError
		}
		return current, nil
	})
	require.NoError(t, err)
	defer sub.Cancel()

	recvSnapshot(t, sub)

	fail = true
	hub.Broadcast(context.Background())

	fail = false
	current = []string{"a", "b"}
	hub.Broadcast(context.Background())
	assert.Equal(t, []string{"a", "b"}, recvSnapshot(t, sub))
}
