// Package scheduler fires deadline reminders. Triggers sit in a min-heap
// keyed by fire time; a single loop sleeps until the earliest one is due
// and pushes it to the output channel.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fittrackapp/fittrack/internal/model"
)

var ErrInvalidFireTime = errors.New("scheduler: invalid fire time")

// Trigger is one pending reminder notification.
type Trigger struct {
	ReminderID  string
	ProjectID   string
	ProjectName string
	Deadline    time.Time
	FireAt      time.Time
}

// TriggerFor derives the trigger for an enabled reminder: the fire time
// is the deadline minus the lead. A disabled or deadline-less reminder
// yields no trigger.
func TriggerFor(reminder model.Reminder, projectName string) (Trigger, bool) {
	if !reminder.Enabled || reminder.Deadline == nil {
		return Trigger{}, false
	}
	deadline := *reminder.Deadline
	return Trigger{
		ReminderID:  reminder.ID,
		ProjectID:   reminder.ProjectID,
		ProjectName: projectName,
		Deadline:    deadline,
		FireAt:      deadline.Add(-time.Duration(reminder.RemindBefore) * time.Minute),
	}, true
}

type queueItem struct {
	trigger Trigger
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].trigger.FireAt.Before(pq[j].trigger.FireAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	out     chan Trigger
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		out:    make(chan Trigger, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// C is the due-trigger channel. It closes when the engine stops.
func (e *Engine) C() <-chan Trigger {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues a trigger. A fire time already in the past is delivered
// on the next loop pass rather than rejected.
func (e *Engine) Schedule(t Trigger) error {
	if t.FireAt.IsZero() {
		return ErrInvalidFireTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return errors.New("scheduler: engine stopped")
	}

	heap.Push(&e.queue, queueItem{trigger: t})
	e.signalWakeup()
	return nil
}

// Cancel drops every queued trigger for the reminder and reports whether
// any was removed. Used when a reminder is disabled or its project deleted.
func (e *Engine) Cancel(reminderID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.queue[:0]
	removed := false
	for _, item := range e.queue {
		if item.trigger.ReminderID == reminderID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return false
	}
	e.queue = kept
	heap.Init(&e.queue)
	e.signalWakeup()
	return true
}

// Dropped counts triggers lost to a full output channel.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.FireAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now().UTC())
			for _, t := range due {
				select {
				case e.out <- t:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Trigger, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Trigger{}, false
	}
	return e.queue[0].trigger, true
}

func (e *Engine) popDue(now time.Time) []Trigger {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Trigger, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].trigger
		if next.FireAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		out = append(out, item.trigger)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
