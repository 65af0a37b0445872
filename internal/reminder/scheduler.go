package reminder

import (
	"container/heap"
	"context"
	"time"
)

const maxSleepCap = 60 * time.Second

type queue interface {
	Add(id int, at time.Time)
	Remove(id int)
}

// Scheduler wakes up when the earliest reminder is due and hands its id to
// onTrigger. A single goroutine owns the heap; Add and Remove talk to it
// over channels. Adding an id that is already queued replaces its time.
type Scheduler struct {
	addChan    chan entry
	removeChan chan int
	ctx        context.Context
}

// NewScheduler starts the scheduler goroutine; it exits when ctx is cancelled.
// onTrigger runs on the scheduler goroutine and must not block.
func NewScheduler(ctx context.Context, onTrigger func(int)) *Scheduler {
	s := &Scheduler{
		addChan:    make(chan entry, 64),
		removeChan: make(chan int, 64),
		ctx:        ctx,
	}
	go s.run(onTrigger)
	return s
}

func (s *Scheduler) Add(id int, at time.Time) {
	select {
	case s.addChan <- entry{ReminderID: id, TriggerAt: at}:
	case <-s.ctx.Done():
	}
}

func (s *Scheduler) Remove(id int) {
	select {
	case s.removeChan <- id:
	case <-s.ctx.Done():
	}
}

func (s *Scheduler) run(onTrigger func(int)) {
	h := &reminderHeap{}
	heap.Init(h)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if h.Len() == 0 {
			return nil
		}
		dur := time.Until((*h)[0].TriggerAt)
		if dur > maxSleepCap {
			dur = maxSleepCap
		}
		if dur < 0 {
			dur = 0
		}
		timer = time.NewTimer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-s.ctx.Done():
			return

		case e := <-s.addChan:
			heapRemove(h, e.ReminderID)
			heapPush(h, e)
			timerCh = resetTimer()

		case id := <-s.removeChan:
			heapRemove(h, id)
			timerCh = resetTimer()

		case <-timerCh:
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].TriggerAt.After(now) {
				e := heapPop(h)
				onTrigger(e.ReminderID)
			}
			timerCh = resetTimer()
		}
	}
}
