package reminder

import (
	"container/heap"
	"time"
)

// entry is a pending reminder in the scheduler heap. The heap is rebuilt
// from the reminders table on startup.
type entry struct {
	ReminderID int
	TriggerAt  time.Time
}

// reminderHeap is a min-heap on TriggerAt.
type reminderHeap []entry

func (h reminderHeap) Len() int { return len(h) }
func (h reminderHeap) Less(i, j int) bool {
	if h[i].TriggerAt.Equal(h[j].TriggerAt) {
		return h[i].ReminderID < h[j].ReminderID
	}
	return h[i].TriggerAt.Before(h[j].TriggerAt)
}
func (h reminderHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *reminderHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

func (h *reminderHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func heapPush(h *reminderHeap, e entry) {
	heap.Push(h, e)
}

// heapPop panics on an empty heap.
func heapPop(h *reminderHeap) entry {
	return heap.Pop(h).(entry)
}

// heapRemove drops the entry for id, reporting whether one was present.
func heapRemove(h *reminderHeap, id int) bool {
	for i, e := range *h {
		if e.ReminderID == id {
			heap.Remove(h, i)
			return true
		}
	}
	return false
}
