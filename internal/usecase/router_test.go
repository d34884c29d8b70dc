package usecase

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laraconsole/internal/domain"
	"laraconsole/internal/state"
)

type fakeNotifier struct {
	mu    sync.Mutex
	kinds []domain.NotificationKind
	msgs  []string
}

func (n *fakeNotifier) Notify(kind domain.NotificationKind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	n.msgs = append(n.msgs, message)
}

func (n *fakeNotifier) last() (domain.NotificationKind, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.kinds) == 0 {
		return "", ""
	}
	return n.kinds[len(n.kinds)-1], n.msgs[len(n.msgs)-1]
}

type routerFixture struct {
	router     *Router
	session    *state.SessionState
	transcript *state.TranscriptLog
	answers    *state.AnswerBoard
	tasks      *state.TaskList
	notifier   *fakeNotifier
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		session:    state.NewSessionState("Lara"),
		transcript: state.NewTranscriptLog(200),
		answers:    state.NewAnswerBoard(),
		tasks:      state.NewTaskList(false),
		notifier:   &fakeNotifier{},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.router = NewRouter(f.session, f.transcript, f.answers, f.tasks, f.notifier, log)
	return f
}

func TestRouterAnswerReadyLandsOnBoard(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)
	f.router.AnswerReady(domain.Answer{AnswerID: "ans-1", TS: 1000, Text: "42", Status: domain.AnswerReady})

	snap := f.answers.Snapshot()
	require.NotNil(t, snap.Current)
	assert.Equal(t, "ans-1", snap.Current.AnswerID)

	kind, msg := f.notifier.last()
	assert.Equal(t, domain.NotifySuccess, kind)
	assert.Equal(t, "Answer ready!", msg)
}

func TestRouterAnswerReadyResolvesLinkedTask(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)
	f.tasks.Add(domain.Task{TaskID: "task-1", TS: 900, Summary: "send the recap"})

	f.router.AnswerReady(domain.Answer{AnswerID: "ans-1", TS: 1000, TaskID: "task-1"})

	got, ok := f.tasks.Get("task-1")
	require.True(t, ok)
	assert.Equal(t, domain.TaskSuccess, got.Status)
	assert.Equal(t, "ans-1", got.AnswerID)
}

func TestRouterSpeakingLifecycle(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)
	f.router.AnswerReady(domain.Answer{AnswerID: "A", TS: 1000})
	f.router.AnswerReady(domain.Answer{AnswerID: "B", TS: 1001})

	f.router.SpeakingStarted("A", 2000)
	snap := f.answers.Snapshot()
	require.NotNil(t, snap.Current)
	assert.Equal(t, domain.AnswerApproved, snap.Current.Status)

	// Ending speech archives the answer and promotes the next one.
	f.router.SpeakingEnded("A", 3000, 1000)
	snap = f.answers.Snapshot()
	require.NotNil(t, snap.Current)
	assert.Equal(t, "B", snap.Current.AnswerID)
	require.Len(t, snap.History, 1)
	assert.Equal(t, domain.AnswerSpoken, snap.History[0].Status)
}

func TestRouterSpeechCanceledRejectsAnswer(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)
	f.router.AnswerReady(domain.Answer{AnswerID: "A", TS: 1000})
	f.router.SpeechCanceled("A")

	assert.Equal(t, domain.AnswerRejected, f.answers.Snapshot().Current.Status)
}

func TestRouterTaskStatusNotifications(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)
	f.tasks.Add(domain.Task{TaskID: "t1", Summary: "email"})
	f.tasks.Add(domain.Task{TaskID: "t2", Summary: "calendar"})

	f.router.TaskStatus("t1", domain.TaskSuccess, "sent to 3 people")
	kind, msg := f.notifier.last()
	assert.Equal(t, domain.NotifySuccess, kind)
	assert.Equal(t, "Task completed: sent to 3 people", msg)

	// Without a detail the id stands in.
	f.router.TaskStatus("t2", domain.TaskFailure, "")
	kind, msg = f.notifier.last()
	assert.Equal(t, domain.NotifyError, kind)
	assert.Equal(t, "Task failed: t2", msg)
}

func TestRouterCallStatusEdges(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)

	f.router.CallStatus(domain.CallConnected, "CA1", "")
	assert.Equal(t, domain.CallConnected, f.session.Snapshot().CallStatus)
	kind, _ := f.notifier.last()
	assert.Equal(t, domain.NotifySuccess, kind)

	f.router.CallStatus(domain.CallFailed, "CA1", "")
	_, msg := f.notifier.last()
	assert.Equal(t, "Call failed: Unknown error", msg)
}

func TestRouterConnectionEdges(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)

	f.router.ConnectionChanged(domain.ConnConnected)
	f.router.ConnectionChanged(domain.ConnDisconnected)
	f.router.ConnectionLost()
	f.router.ConnectionLost()

	snap := f.session.Snapshot()
	assert.Equal(t, domain.ConnDisconnected, snap.ConnStatus)
	assert.Equal(t, 2, snap.Reconnects)

	// Reconnecting successfully resets the counter.
	f.router.ConnectionChanged(domain.ConnConnected)
	assert.Zero(t, f.session.Snapshot().Reconnects)
}

func TestRouterPongIgnoresUnknownRTT(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)
	f.router.Pong(-1, 0)
	assert.EqualValues(t, -1, f.session.Snapshot().RTTMs)

	f.router.Pong(27, 0)
	assert.EqualValues(t, 27, f.session.Snapshot().RTTMs)
}

func TestRouterTranscriptAndSession(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)
	f.router.SessionInfo(domain.Session{SessionID: "sess-1", AgentName: "Lara"})
	f.router.Transcript(domain.TranscriptLine{ID: "l1", Text: "hello there"})

	assert.Equal(t, "sess-1", f.session.Snapshot().Session.SessionID)
	assert.Equal(t, 1, f.transcript.Len())
}

func TestRouterServerErrorNotifies(t *testing.T) {
	t.Parallel()

	f := newRouterFixture(t)
	f.router.ServerError(domain.ServerError{Code: "rate_limited", Message: "slow down", Recoverable: true})

	kind, msg := f.notifier.last()
	assert.Equal(t, domain.NotifyError, kind)
	assert.Equal(t, "slow down", msg)
}
