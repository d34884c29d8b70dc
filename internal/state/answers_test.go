package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laraconsole/internal/domain"
)

// fakeClock drives an AnswerBoard deterministically: one-shot timers are
// captured instead of armed, and the sweep is called by hand.
type fakeClock struct {
	mu     sync.Mutex
	nowMs  int64
	timers []capturedTimer
}

type capturedTimer struct {
	delay time.Duration
	fn    func()
}

func (c *fakeClock) now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nowMs
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.nowMs += d.Milliseconds()
	c.mu.Unlock()
}

func (c *fakeClock) afterFunc(d time.Duration, fn func()) *time.Timer {
	c.mu.Lock()
	c.timers = append(c.timers, capturedTimer{delay: d, fn: fn})
	c.mu.Unlock()
	return time.NewTimer(time.Hour)
}

func (c *fakeClock) fireTimers() {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, t := range timers {
		t.fn()
	}
}

func newTestBoard(startMs int64) (*AnswerBoard, *fakeClock) {
	clock := &fakeClock{nowMs: startMs}
	board := NewAnswerBoard()
	board.nowMs = clock.now
	board.afterFunc = clock.afterFunc
	return board, clock
}

func answer(id string, ts int64) domain.Answer {
	return domain.Answer{AnswerID: id, CommandID: "cmd-" + id, TS: ts, Text: "text " + id}
}

func TestAnswerBoardPartitionInvariant(t *testing.T) {
	t.Parallel()

	board, _ := newTestBoard(1000)
	ids := []string{"a", "b", "c", "d"}
	for i, id := range ids {
		board.Add(answer(id, int64(1000+i)))
	}

	for _, id := range ids {
		containers := 0
		snap := board.Snapshot()
		if snap.Current != nil && snap.Current.AnswerID == id {
			containers++
		}
		for _, a := range snap.Queue {
			if a.AnswerID == id {
				containers++
			}
		}
		for _, a := range snap.History {
			if a.AnswerID == id {
				containers++
			}
		}
		assert.Equal(t, 1, containers, "answer %s must live in exactly one container", id)
	}

	board.MoveToHistory("a")
	board.MoveToHistory("b")
	for _, id := range ids {
		loc := board.Locate(id)
		require.NotEmpty(t, loc, "answer %s vanished", id)
	}
}

func TestAnswerBoardPromotionOnVacate(t *testing.T) {
	t.Parallel()

	board, _ := newTestBoard(1000)
	board.Add(answer("A", 1000))
	board.Add(answer("B", 1001))
	board.Add(answer("C", 1002))

	snap := board.Snapshot()
	require.NotNil(t, snap.Current)
	require.Equal(t, "A", snap.Current.AnswerID)
	require.Len(t, snap.Queue, 2)

	board.MoveToHistory("A")

	snap = board.Snapshot()
	require.NotNil(t, snap.Current)
	assert.Equal(t, "B", snap.Current.AnswerID)
	require.Len(t, snap.Queue, 1)
	assert.Equal(t, "C", snap.Queue[0].AnswerID)
	require.Len(t, snap.History, 1)
	assert.Equal(t, "A", snap.History[0].AnswerID)
}

func TestAnswerBoardMoveFromQueue(t *testing.T) {
	t.Parallel()

	board, _ := newTestBoard(1000)
	board.Add(answer("A", 1000))
	board.Add(answer("B", 1001))
	board.Add(answer("C", 1002))

	// Removing from the middle of the queue must not touch current.
	board.MoveToHistory("B")

	snap := board.Snapshot()
	require.NotNil(t, snap.Current)
	assert.Equal(t, "A", snap.Current.AnswerID)
	require.Len(t, snap.Queue, 1)
	assert.Equal(t, "C", snap.Queue[0].AnswerID)
	assert.Equal(t, "history", board.Locate("B"))
}

func TestAnswerBoardStalenessWindow(t *testing.T) {
	t.Parallel()

	const start = int64(100_000)
	board, _ := newTestBoard(start)
	board.Add(answer("A", start))

	// One millisecond inside the window: still ready.
	board.SweepStale(start + AnswerTTL.Milliseconds() - 1)
	assert.Equal(t, domain.AnswerReady, board.Snapshot().Current.Status)

	// One millisecond past: stale.
	board.SweepStale(start + AnswerTTL.Milliseconds() + 1)
	assert.Equal(t, domain.AnswerStale, board.Snapshot().Current.Status)
}

func TestAnswerBoardStalenessSkipsDisposedAnswers(t *testing.T) {
	t.Parallel()

	const start = int64(100_000)
	board, clock := newTestBoard(start)
	board.Add(answer("A", start))

	clock.advance(time.Second)
	board.SetStatus("A", domain.AnswerApproved)

	clock.advance(90 * time.Second)
	board.SweepStale(clock.now())
	assert.Equal(t, domain.AnswerApproved, board.Snapshot().Current.Status,
		"an approved answer must never be flipped stale")

	// The one-shot timer armed at creation must respect the same guard.
	clock.fireTimers()
	assert.Equal(t, domain.AnswerApproved, board.Snapshot().Current.Status)
}

func TestAnswerBoardOneShotTimerFlipsReadyAnswer(t *testing.T) {
	t.Parallel()

	const start = int64(50_000)
	board, clock := newTestBoard(start)
	board.Add(answer("A", start))

	require.Len(t, clock.timers, 1)
	assert.Equal(t, AnswerTTL, clock.timers[0].delay)

	clock.advance(91 * time.Second)
	clock.fireTimers()
	assert.Equal(t, domain.AnswerStale, board.Snapshot().Current.Status)
}

func TestAnswerBoardSweepCoversQueue(t *testing.T) {
	t.Parallel()

	const start = int64(10_000)
	board, clock := newTestBoard(start)
	board.Add(answer("A", start))
	board.Add(answer("B", start))
	board.Add(answer("C", start+60_000))

	clock.advance(91 * time.Second)
	board.SweepStale(clock.now())

	snap := board.Snapshot()
	assert.Equal(t, domain.AnswerStale, snap.Current.Status)
	assert.Equal(t, domain.AnswerStale, snap.Queue[0].Status)
	assert.Equal(t, domain.AnswerReady, snap.Queue[1].Status, "C is still inside its window")
}

func TestAnswerBoardSetStatusIgnoresHistory(t *testing.T) {
	t.Parallel()

	board, _ := newTestBoard(1000)
	board.Add(answer("A", 1000))
	board.SetStatus("A", domain.AnswerSpoken)
	board.MoveToHistory("A")

	board.SetStatus("A", domain.AnswerStale)
	require.Len(t, board.Snapshot().History, 1)
	assert.Equal(t, domain.AnswerSpoken, board.Snapshot().History[0].Status,
		"archived answers are immutable")
}

func TestAnswerBoardHistoryCap(t *testing.T) {
	t.Parallel()

	board, _ := newTestBoard(1000)
	for i := 0; i < 60; i++ {
		id := answerID(i)
		board.Add(answer(id, int64(1000+i)))
		board.MoveToHistory(id)
	}

	snap := board.Snapshot()
	assert.Nil(t, snap.Current)
	assert.Len(t, snap.History, 50)
	assert.Equal(t, answerID(59), snap.History[0].AnswerID, "history is most-recent-first")
}

func TestAnswerBoardPromoteNoopWhenOccupied(t *testing.T) {
	t.Parallel()

	board, _ := newTestBoard(1000)
	board.Add(answer("A", 1000))
	board.Add(answer("B", 1001))

	board.PromoteFromQueue()
	snap := board.Snapshot()
	assert.Equal(t, "A", snap.Current.AnswerID)
	assert.Len(t, snap.Queue, 1)
}

func TestAnswerBoardNotifiesObservers(t *testing.T) {
	t.Parallel()

	board, _ := newTestBoard(1000)
	var notified int
	board.Subscribe(func() { notified++ })

	board.Add(answer("A", 1000))
	board.SetStatus("A", domain.AnswerApproved)
	board.MoveToHistory("A")

	assert.GreaterOrEqual(t, notified, 3)
}

func answerID(i int) string {
	return string(rune('a'+i%26)) + string(rune('0'+i/26))
}
