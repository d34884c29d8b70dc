package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"laraconsole/internal/domain"
	"laraconsole/internal/ports"
	"laraconsole/internal/state"
)

// SweepInterval drives the periodic staleness/eviction backstop. One-shot
// timers can be lost across process suspend; the sweep cannot.
const SweepInterval = 10 * time.Second

// Router is the event-reconciliation core: it receives decoded backend events
// from the transport and folds them into the state containers, emitting
// operator notifications along the way. It implements ports.EventHandler and
// ports.ConnectionObserver.
type Router struct {
	log        *slog.Logger
	session    *state.SessionState
	transcript *state.TranscriptLog
	answers    *state.AnswerBoard
	tasks      *state.TaskList
	notifier   ports.Notifier

	nowMs func() int64
}

func NewRouter(
	session *state.SessionState,
	transcript *state.TranscriptLog,
	answers *state.AnswerBoard,
	tasks *state.TaskList,
	notifier ports.Notifier,
	log *slog.Logger,
) *Router {
	return &Router{
		log:        log,
		session:    session,
		transcript: transcript,
		answers:    answers,
		tasks:      tasks,
		notifier:   notifier,
		nowMs:      func() int64 { return time.Now().UnixMilli() },
	}
}

// RunSweeper blocks until ctx is done, running the periodic stale-answer and
// task-eviction sweeps.
func (r *Router) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := r.nowMs()
			r.answers.SweepStale(now)
			r.tasks.SweepExpired(now)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Router) SessionInfo(session domain.Session) {
	r.session.MergeSession(session)
}

func (r *Router) Transcript(line domain.TranscriptLine) {
	r.transcript.Add(line)
}

func (r *Router) WakeDetected(wake domain.WakeDetected) {
	r.notifier.Notify(domain.NotifyInfo, fmt.Sprintf("Wake word detected: %q", wake.Phrase))
}

func (r *Router) CommandStarted(cmd domain.CommandStarted) {
	r.log.Info("command started", "commandId", cmd.CommandID, "method", cmd.Method)
}

func (r *Router) AgentStatus(status domain.AgentStatus, commandID, detail string) {
	r.session.SetAgentStatus(status)
	if status == domain.AgentResearching {
		r.notifier.Notify(domain.NotifyInfo, "Agent is researching...")
	}
}

func (r *Router) AnswerReady(answer domain.Answer) {
	r.answers.Add(answer)
	if answer.TaskID != "" {
		r.tasks.LinkAnswer(answer.TaskID, answer.AnswerID)
	}
	r.notifier.Notify(domain.NotifySuccess, "Answer ready!")
}

func (r *Router) SpeakingStarted(answerID string, ts int64) {
	r.answers.SetStatus(answerID, domain.AnswerApproved)
	r.notifier.Notify(domain.NotifyInfo, "Agent is speaking...")
}

func (r *Router) SpeakingEnded(answerID string, ts, durationMs int64) {
	r.answers.SetStatus(answerID, domain.AnswerSpoken)
	r.answers.MoveToHistory(answerID)
	r.notifier.Notify(domain.NotifySuccess, "Speaking completed")
}

func (r *Router) SpeechCanceled(answerID string) {
	r.answers.SetStatus(answerID, domain.AnswerRejected)
	r.notifier.Notify(domain.NotifyInfo, "Speech canceled")
}

func (r *Router) TaskProposed(task domain.Task) {
	r.tasks.Add(task)
	r.notifier.Notify(domain.NotifyInfo, "New task: "+task.Summary)
}

func (r *Router) TaskStatus(taskID string, status domain.TaskStatus, detail string) {
	r.tasks.UpdateStatus(taskID, status, detail)
	label := detail
	if label == "" {
		label = taskID
	}
	switch status {
	case domain.TaskSuccess:
		r.notifier.Notify(domain.NotifySuccess, "Task completed: "+label)
	case domain.TaskFailure:
		r.notifier.Notify(domain.NotifyError, "Task failed: "+label)
	}
}

func (r *Router) CallStatus(status domain.CallStatus, callSID, reason string) {
	r.session.SetCallStatus(status, callSID)
	switch status {
	case domain.CallConnected:
		r.notifier.Notify(domain.NotifySuccess, "Call connected!")
	case domain.CallFailed:
		if reason == "" {
			reason = "Unknown error"
		}
		r.notifier.Notify(domain.NotifyError, "Call failed: "+reason)
	}
}

func (r *Router) Pong(rttMs int64, serverTS int64) {
	if rttMs >= 0 {
		r.session.SetRTT(rttMs)
	}
}

func (r *Router) ServerError(err domain.ServerError) {
	r.notifier.Notify(domain.NotifyError, err.Message)
	r.log.Warn("server error", "code", err.Code, "recoverable", err.Recoverable)
}

func (r *Router) ConnectionChanged(status domain.ConnectionStatus) {
	r.session.SetConnectionStatus(status)
	if status == domain.ConnConnected {
		r.session.ResetReconnects()
		r.notifier.Notify(domain.NotifySuccess, "Connected to server")
	}
}

func (r *Router) ConnectionLost() {
	r.session.IncrementReconnects()
	r.notifier.Notify(domain.NotifyWarning, "Connection lost, reconnecting...")
}
