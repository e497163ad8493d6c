package wal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/broker"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBroker records published events and fails after failAfter successes.
type stubBroker struct {
	mu        sync.Mutex
	published []broker.Event
	failAfter int
}

func (b *stubBroker) Publish(_ context.Context, evt broker.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failAfter >= 0 && len(b.published) >= b.failAfter {
		return errors.New("broker unavailable")
	}
	b.published = append(b.published, evt)
	return nil
}

func (b *stubBroker) Subscribe(context.Context) (<-chan broker.Event, error) {
	return nil, errors.New("not supported")
}

func (b *stubBroker) Close() error { return nil }

func (b *stubBroker) ids() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.published))
	for _, e := range b.published {
		out = append(out, e.ID)
	}
	return out
}

func TestRelay_FlushPublishesInOrder(t *testing.T) {
	w, _ := newTestWAL(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, w.Emit(ctx, swapEvent(id)))
	}

	b := &stubBroker{failAfter: -1}
	relay := NewRelay(w, b, "")

	n, err := relay.Flush(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"a", "b", "c"}, b.ids())

	pending, err := w.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRelay_FailedPublishStaysPending(t *testing.T) {
	w, _ := newTestWAL(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, w.Emit(ctx, swapEvent(id)))
	}

	b := &stubBroker{failAfter: 1}
	relay := NewRelay(w, b, "")

	n, err := relay.Flush(ctx)

	assert.Error(t, err)
	assert.Equal(t, 1, n)

	pending, err := w.ReadAll()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "b", pending[0].EventID)
	assert.Equal(t, "c", pending[1].EventID)

	// Broker recovers; the next run drains the rest in order.
	b.failAfter = -1
	n, err = relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b", "c"}, b.ids())
}

func TestRelay_ScheduledRunAndStop(t *testing.T) {
	w, _ := newTestWAL(t)
	ctx := context.Background()

	b := &stubBroker{failAfter: -1}
	relay := NewRelay(w, b, "@every 1h")
	require.NoError(t, relay.Start(ctx))

	require.NoError(t, w.Emit(ctx, swapEvent("late")))

	// Stop performs a final flush even though no tick has fired.
	relay.Stop(ctx)

	assert.Equal(t, []string{"late"}, b.ids())
}

func TestRelay_InvalidSchedule(t *testing.T) {
	w, _ := newTestWAL(t)
	relay := NewRelay(w, &stubBroker{failAfter: -1}, "not a schedule")

	assert.Error(t, relay.Start(context.Background()))
}

func TestRelay_DeliversThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventBroker := broker.NewRedisEventBroker(client)
	events, err := eventBroker.Subscribe(ctx)
	require.NoError(t, err)

	w, _ := newTestWAL(t)
	require.NoError(t, w.Emit(ctx, swapEvent("evt1")))

	relay := NewRelay(w, eventBroker, "")
	n, err := relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	select {
	case evt := <-events:
		assert.Equal(t, "evt1", evt.ID)
		assert.Equal(t, broker.EventSwapCreated, evt.Type)
		assert.True(t, evt.Concerns("bob"))
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered through redis")
	}
}
