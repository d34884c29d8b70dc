package state

import (
	"sync"
	"time"

	"laraconsole/internal/domain"
)

const (
	// AnswerTTL is the actionability window before a ready answer goes stale.
	AnswerTTL = 90 * time.Second

	historyCap = 50
)

// AnswerBoard manages the current answer slot, the FIFO overflow queue and a
// bounded most-recent-first history. An answer id lives in exactly one of the
// three containers at any instant.
//
// One-shot stale timers are best effort; SweepStale is the authoritative
// staleness guarantee and must be driven periodically by the owner.
type AnswerBoard struct {
	observable

	mu      sync.Mutex
	current *domain.Answer
	queue   []domain.Answer
	history []domain.Answer

	nowMs     func() int64
	afterFunc func(d time.Duration, fn func()) *time.Timer
}

func NewAnswerBoard() *AnswerBoard {
	return &AnswerBoard{
		nowMs:     func() int64 { return time.Now().UnixMilli() },
		afterFunc: time.AfterFunc,
	}
}

// AnswerSnapshot is a copy of the board safe to hand to observers.
type AnswerSnapshot struct {
	Current *domain.Answer
	Queue   []domain.Answer
	History []domain.Answer
}

// Add installs the answer as current if the slot is free, otherwise appends
// it to the queue tail. ExpiresAt is stamped from the answer's own ts, and a
// guarded one-shot timer is armed for the staleness deadline.
func (b *AnswerBoard) Add(answer domain.Answer) {
	answer.ExpiresAt = answer.TS + AnswerTTL.Milliseconds()
	if answer.Status == "" {
		answer.Status = domain.AnswerReady
	}

	b.mu.Lock()
	if b.current == nil {
		copied := answer
		b.current = &copied
	} else {
		b.queue = append(b.queue, answer)
	}
	b.mu.Unlock()

	delay := time.Duration(answer.ExpiresAt-b.nowMs()) * time.Millisecond
	if delay < 0 {
		delay = 0
	}
	id := answer.AnswerID
	b.afterFunc(delay, func() {
		b.markStaleIfReady(id)
	})

	b.publish()
}

// SetStatus replaces the status of the answer in current or queue. History is
// never searched; updates to archived answers are dropped on purpose.
func (b *AnswerBoard) SetStatus(answerID string, status domain.AnswerStatus) {
	b.mu.Lock()
	changed := b.setStatusLocked(answerID, status)
	b.mu.Unlock()

	if changed {
		b.publish()
	}
}

func (b *AnswerBoard) setStatusLocked(answerID string, status domain.AnswerStatus) bool {
	if b.current != nil && b.current.AnswerID == answerID {
		b.current.Status = status
		return true
	}
	for i := range b.queue {
		if b.queue[i].AnswerID == answerID {
			b.queue[i].Status = status
			return true
		}
	}
	return false
}

// MoveToHistory removes the answer from current or queue, prepends it to
// history (truncated to capacity) and promotes the queue head if the current
// slot is now vacant.
func (b *AnswerBoard) MoveToHistory(answerID string) {
	b.mu.Lock()
	var moved *domain.Answer
	if b.current != nil && b.current.AnswerID == answerID {
		moved = b.current
		b.current = nil
	} else {
		for i := range b.queue {
			if b.queue[i].AnswerID == answerID {
				copied := b.queue[i]
				moved = &copied
				b.queue = append(b.queue[:i], b.queue[i+1:]...)
				break
			}
		}
	}
	if moved != nil {
		b.history = append([]domain.Answer{*moved}, b.history...)
		if len(b.history) > historyCap {
			b.history = b.history[:historyCap]
		}
	}
	b.promoteLocked()
	b.mu.Unlock()

	if moved != nil {
		b.publish()
	}
}

// PromoteFromQueue pops the queue head into the current slot when the slot is
// empty. This is the only path by which an answer leaves the queue alive.
func (b *AnswerBoard) PromoteFromQueue() {
	b.mu.Lock()
	promoted := b.promoteLocked()
	b.mu.Unlock()

	if promoted {
		b.publish()
	}
}

func (b *AnswerBoard) promoteLocked() bool {
	if b.current != nil || len(b.queue) == 0 {
		return false
	}
	next := b.queue[0]
	b.queue = b.queue[1:]
	b.current = &next
	return true
}

// SweepStale flips every ready answer past its deadline to stale, in place,
// across current and queue. Timers lost to process suspend do not matter as
// long as this runs periodically.
func (b *AnswerBoard) SweepStale(nowMs int64) {
	b.mu.Lock()
	changed := false
	if b.current != nil && b.current.Status == domain.AnswerReady && nowMs > b.current.ExpiresAt {
		b.current.Status = domain.AnswerStale
		changed = true
	}
	for i := range b.queue {
		if b.queue[i].Status == domain.AnswerReady && nowMs > b.queue[i].ExpiresAt {
			b.queue[i].Status = domain.AnswerStale
			changed = true
		}
	}
	b.mu.Unlock()

	if changed {
		b.publish()
	}
}

// markStaleIfReady is the one-shot timer target: it only flips an answer that
// is still ready, so a disposition that raced the timer wins.
func (b *AnswerBoard) markStaleIfReady(answerID string) {
	b.mu.Lock()
	changed := false
	if b.current != nil && b.current.AnswerID == answerID && b.current.Status == domain.AnswerReady {
		b.current.Status = domain.AnswerStale
		changed = true
	} else {
		for i := range b.queue {
			if b.queue[i].AnswerID == answerID && b.queue[i].Status == domain.AnswerReady {
				b.queue[i].Status = domain.AnswerStale
				changed = true
				break
			}
		}
	}
	b.mu.Unlock()

	if changed {
		b.publish()
	}
}

// Snapshot returns a deep copy of the three containers.
func (b *AnswerBoard) Snapshot() AnswerSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := AnswerSnapshot{
		Queue:   append([]domain.Answer(nil), b.queue...),
		History: append([]domain.Answer(nil), b.history...),
	}
	if b.current != nil {
		copied := *b.current
		snap.Current = &copied
	}
	return snap
}

// Locate reports which container holds the answer id, for diagnostics.
func (b *AnswerBoard) Locate(answerID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current != nil && b.current.AnswerID == answerID {
		return "current"
	}
	for i := range b.queue {
		if b.queue[i].AnswerID == answerID {
			return "queue"
		}
	}
	for i := range b.history {
		if b.history[i].AnswerID == answerID {
			return "history"
		}
	}
	return ""
}
