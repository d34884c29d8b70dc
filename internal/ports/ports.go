package ports

import (
	"laraconsole/internal/domain"
	"laraconsole/internal/protocol"
)

// EventHandler receives decoded backend events from the transport. The
// transport guarantees handlers are invoked one at a time, in arrival order.
type EventHandler interface {
	SessionInfo(session domain.Session)
	Transcript(line domain.TranscriptLine)
	WakeDetected(wake domain.WakeDetected)
	CommandStarted(cmd domain.CommandStarted)
	AgentStatus(status domain.AgentStatus, commandID, detail string)
	AnswerReady(answer domain.Answer)
	SpeakingStarted(answerID string, ts int64)
	SpeakingEnded(answerID string, ts, durationMs int64)
	SpeechCanceled(answerID string)
	TaskProposed(task domain.Task)
	TaskStatus(taskID string, status domain.TaskStatus, detail string)
	CallStatus(status domain.CallStatus, callSID, reason string)
	Pong(rttMs int64, serverTS int64)
	ServerError(err domain.ServerError)
}

// ConnectionObserver is told about connection lifecycle edges.
// ConnectionLost fires only when an established socket drops unexpectedly,
// never on a clean local close.
type ConnectionObserver interface {
	ConnectionChanged(status domain.ConnectionStatus)
	ConnectionLost()
}

// CommandSender sends outbound commands over the live connection.
type CommandSender interface {
	Send(cmd protocol.Command) error
	Status() domain.ConnectionStatus
}

// Notifier displays a transient notification to the operator.
type Notifier interface {
	Notify(kind domain.NotificationKind, message string)
}

// SettingsStore persists the configuration surface across runs.
type SettingsStore interface {
	Load() (domain.Settings, error)
	Save(settings domain.Settings) error
}
