package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/millwright/pkg/plugin"
)

func TestBus_PublishDeliversToSubscribers(t *testing.T) {
	t.Parallel()

	bus := NewBus(zap.NewNop())
	var got []string
	bus.Subscribe("telemetry.reading.received", func(ctx context.Context, e plugin.Event) {
		got = append(got, e.Source)
	})
	bus.Subscribe("telemetry.reading.received", func(ctx context.Context, e plugin.Event) {
		got = append(got, e.Source+"-2")
	})

	err := bus.Publish(context.Background(), plugin.Event{
		Topic:  "telemetry.reading.received",
		Source: "gateway",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("delivered to %d handlers, want 2", len(got))
	}
}

func TestBus_TopicIsolation(t *testing.T) {
	t.Parallel()

	bus := NewBus(zap.NewNop())
	called := false
	bus.Subscribe("fleet.snapshot.completed", func(ctx context.Context, e plugin.Event) {
		called = true
	})

	_ = bus.Publish(context.Background(), plugin.Event{Topic: "predictor.alert.raised"})
	if called {
		t.Error("handler received an event from a different topic")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus(zap.NewNop())
	count := 0
	unsubscribe := bus.Subscribe("t", func(ctx context.Context, e plugin.Event) {
		count++
	})

	_ = bus.Publish(context.Background(), plugin.Event{Topic: "t"})
	unsubscribe()
	_ = bus.Publish(context.Background(), plugin.Event{Topic: "t"})

	if count != 1 {
		t.Errorf("handler called %d times, want 1", count)
	}
}

func TestBus_PanicInHandlerIsContained(t *testing.T) {
	t.Parallel()

	bus := NewBus(zap.NewNop())
	survived := false
	bus.Subscribe("t", func(ctx context.Context, e plugin.Event) {
		panic("handler bug")
	})
	bus.Subscribe("t", func(ctx context.Context, e plugin.Event) {
		survived = true
	})

	if err := bus.Publish(context.Background(), plugin.Event{Topic: "t"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !survived {
		t.Error("panic in one handler prevented delivery to the next")
	}
}

func TestBus_PublishAsync(t *testing.T) {
	t.Parallel()

	bus := NewBus(zap.NewNop())
	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe("t", func(ctx context.Context, e plugin.Event) {
		wg.Done()
	})

	bus.PublishAsync(context.Background(), plugin.Event{Topic: "t", Timestamp: time.Now()})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handler never ran")
	}
}

func TestBus_UnsubscribeDuringDispatch(t *testing.T) {
	t.Parallel()

	bus := NewBus(zap.NewNop())
	var unsubscribe func()
	unsubscribe = bus.Subscribe("t", func(ctx context.Context, e plugin.Event) {
		unsubscribe()
	})

	// Must not deadlock: dispatch works from a snapshot of the handler list.
	_ = bus.Publish(context.Background(), plugin.Event{Topic: "t"})
	_ = bus.Publish(context.Background(), plugin.Event{Topic: "t"})
}
