package resultqueue

import (
	"context"
	"testing"

	"github.com/haltridge/epicast/internal/domain/types"
)

func TestQueue_BasicOperations(t *testing.T) {
	q := New[types.DailySummary](WithCapacity[types.DailySummary](2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	summary := types.DailySummary{Day: 1, TotalInfections: 10}
	if !q.Enqueue(ctx, summary) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	out := q.Dequeue(ctx)
	got := <-out
	if got.Day != 1 {
		t.Errorf("expected day 1, got %d", got.Day)
	}
}

func TestQueue_Capacity(t *testing.T) {
	q := New[types.DailySummary](WithCapacity[types.DailySummary](2))
	ctx := context.Background()

	if !q.Enqueue(ctx, types.DailySummary{Day: 1}) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, types.DailySummary{Day: 2}) {
		t.Error("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, types.DailySummary{Day: 3}) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestQueue_CloseDrainsThenCloses(t *testing.T) {
	q := New[types.DailySummary](WithCapacity[types.DailySummary](2))
	ctx := context.Background()

	q.Enqueue(ctx, types.DailySummary{Day: 1})
	out := q.Dequeue(ctx)

	if err := q.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if q.Enqueue(ctx, types.DailySummary{Day: 2}) {
		t.Error("expected enqueue on a closed queue to fail")
	}

	got, ok := <-out
	if !ok || got.Day != 1 {
		t.Errorf("expected buffered item 1 to drain before close, got %+v ok=%v", got, ok)
	}
	if _, ok := <-out; ok {
		t.Error("expected dequeue channel to close once drained")
	}
}

func TestQueue_ConcurrentAccess(t *testing.T) {
	q := New[types.DailySummary](WithCapacity[types.DailySummary](100))
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			q.Enqueue(ctx, types.DailySummary{Day: i})
		}
		close(done)
	}()

	received := 0
	out := q.Dequeue(ctx)
	for received < 50 {
		<-out
		received++
	}
	<-done
}
