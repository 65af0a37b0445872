package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type firedSet struct {
	mu    sync.Mutex
	order []int
}

func (f *firedSet) trigger(id int) {
	f.mu.Lock()
	f.order = append(f.order, id)
	f.mu.Unlock()
}

func (f *firedSet) snapshot() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.order...)
}

func TestSchedulerFiresInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := &firedSet{}
	s := NewScheduler(ctx, fired.trigger)

	now := time.Now()
	s.Add(2, now.Add(150*time.Millisecond))
	s.Add(1, now.Add(50*time.Millisecond))
	s.Add(3, now.Add(-time.Second))

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, []int{3, 1, 2}, fired.snapshot())
}

func TestSchedulerRemoveBeforeFire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := &firedSet{}
	s := NewScheduler(ctx, fired.trigger)

	s.Add(1, time.Now().Add(150*time.Millisecond))
	s.Remove(1)

	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, fired.snapshot())
}

func TestSchedulerAddReplacesExisting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := &firedSet{}
	s := NewScheduler(ctx, fired.trigger)

	s.Add(1, time.Now().Add(100*time.Millisecond))
	s.Add(1, time.Now().Add(time.Hour))

	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, fired.snapshot())
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fired := &firedSet{}
	s := NewScheduler(ctx, fired.trigger)
	s.Add(1, time.Now().Add(100*time.Millisecond))
	cancel()

	time.Sleep(250 * time.Millisecond)
	assert.Empty(t, fired.snapshot())
	// Add after shutdown must not block
	s.Add(2, time.Now())
}

func TestHeapOrdering(t *testing.T) {
	h := &reminderHeap{}
	now := time.Now()
	heapPush(h, entry{ReminderID: 3, TriggerAt: now.Add(3 * time.Second)})
	heapPush(h, entry{ReminderID: 1, TriggerAt: now.Add(time.Second)})
	heapPush(h, entry{ReminderID: 2, TriggerAt: now.Add(2 * time.Second)})

	assert.True(t, heapRemove(h, 2))
	assert.False(t, heapRemove(h, 42))
	assert.Equal(t, 1, heapPop(h).ReminderID)
	assert.Equal(t, 3, heapPop(h).ReminderID)
	assert.Equal(t, 0, h.Len())
}
