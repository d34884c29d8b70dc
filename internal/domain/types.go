package domain

// ConnectionStatus models the websocket connection lifecycle.
type ConnectionStatus string

const (
	ConnDisconnected ConnectionStatus = "disconnected"
	ConnConnecting   ConnectionStatus = "connecting"
	ConnConnected    ConnectionStatus = "connected"
)

// AgentStatus is set wholesale by agent_status events; never derived locally.
type AgentStatus string

const (
	AgentIdle        AgentStatus = "idle"
	AgentListening   AgentStatus = "listening"
	AgentResearching AgentStatus = "researching"
	AgentReady       AgentStatus = "ready"
	AgentSpeaking    AgentStatus = "speaking"
)

// CallStatus tracks the phone-call leg; empty means no call attempted yet.
type CallStatus string

const (
	CallNone      CallStatus = ""
	CallDialing   CallStatus = "dialing"
	CallConnected CallStatus = "connected"
	CallEnded     CallStatus = "ended"
	CallFailed    CallStatus = "failed"
)

// AnswerStatus is the disposition of a backend-produced answer.
type AnswerStatus string

const (
	AnswerReady    AnswerStatus = "ready"
	AnswerApproved AnswerStatus = "approved"
	AnswerRejected AnswerStatus = "rejected"
	AnswerSpoken   AnswerStatus = "spoken"
	AnswerStale    AnswerStatus = "stale"
)

// TaskStatus is the progression of a proposed side-effect action.
type TaskStatus string

const (
	TaskQueued   TaskStatus = "queued"
	TaskApproved TaskStatus = "approved"
	TaskRejected TaskStatus = "rejected"
	TaskRunning  TaskStatus = "running"
	TaskSuccess  TaskStatus = "success"
	TaskFailure  TaskStatus = "failure"
)

// Terminal reports whether a task status ends its lifecycle.
func (s TaskStatus) Terminal() bool {
	return s == TaskSuccess || s == TaskFailure
}

// NotificationKind classifies transient user-facing notifications.
type NotificationKind string

const (
	NotifyInfo    NotificationKind = "info"
	NotifySuccess NotificationKind = "success"
	NotifyWarning NotificationKind = "warning"
	NotifyError   NotificationKind = "error"
)

// Session is the remote session identity. All timestamps in this package are
// unix milliseconds, matching the wire protocol.
type Session struct {
	SessionID    string `json:"sessionId"`
	CallSID      string `json:"callSid,omitempty"`
	MeetingLabel string `json:"meetingLabel,omitempty"`
	AgentName    string `json:"agentName"`
}

// TranscriptLine is a spoken line; a second arrival with the same ID is an
// in-place merge, used for partial-to-final corrections.
type TranscriptLine struct {
	ID      string `json:"id"`
	TS      int64  `json:"ts"`
	Text    string `json:"text"`
	Partial bool   `json:"partial"`
	Speaker string `json:"speaker,omitempty"`
	Wake    bool   `json:"wake,omitempty"`
}

// SourceRef cites material backing an answer.
type SourceRef struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
	URL     string `json:"url,omitempty"`
}

// AnswerMetrics carries optional backend quality measurements.
type AnswerMetrics struct {
	LatencyMs  int64   `json:"latencyMs,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Answer is a backend response awaiting operator disposition. It lives in
// exactly one of the answer board's three containers at a time.
type Answer struct {
	AnswerID   string         `json:"answerId"`
	CommandID  string         `json:"commandId"`
	TS         int64          `json:"ts"`
	Text       string         `json:"text"`
	Sources    []SourceRef    `json:"sources,omitempty"`
	Metrics    *AnswerMetrics `json:"metrics,omitempty"`
	Status     AnswerStatus   `json:"status"`
	ExpiresAt  int64          `json:"expiresAt,omitempty"`
	TaskID     string         `json:"taskId,omitempty"`
	QuestionID string         `json:"questionId,omitempty"`
}

// Task is a proposed side-effect action tracked to completion.
type Task struct {
	TaskID   string     `json:"taskId"`
	TS       int64      `json:"ts"`
	Summary  string     `json:"summary"`
	Payload  string     `json:"payload,omitempty"`
	Detail   string     `json:"detail,omitempty"`
	Status   TaskStatus `json:"status"`
	AnswerID string     `json:"answerId,omitempty"`
}

// MeetingInfo describes a meeting the agent should dial into.
type MeetingInfo struct {
	Label       string `json:"label"`
	DialIn      string `json:"dialIn"`
	DTMF        string `json:"dtmf,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// Notification is a transient operator-facing message.
type Notification struct {
	ID      string           `json:"id"`
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
	TS      int64            `json:"ts"`
}

// TranscriptFilter selects which transcript lines a view shows.
type TranscriptFilter string

const (
	FilterAll      TranscriptFilter = "all"
	FilterCommands TranscriptFilter = "commands"
)

// Settings is the persisted configuration surface consumed by the core.
type Settings struct {
	BackendURL           string `json:"backendUrl"`
	AuthToken            string `json:"authToken"`
	AgentName            string `json:"agentName"`
	WakePhrase           string `json:"wakePhrase"`
	AutoScrollTranscript bool   `json:"autoScrollTranscript"`
	ConfirmBeforeSpeak   bool   `json:"confirmBeforeSpeaking"`
	AutoRaiseHandHint    bool   `json:"autoRaiseHandHint"`
	TaskAutoRun          bool   `json:"taskAutoRun"`
	CallIDMode           bool   `json:"callIdMode"`
	CallID               string `json:"callId,omitempty"`
}

// DefaultSettings mirrors the values used when no settings row exists yet.
func DefaultSettings() Settings {
	return Settings{
		BackendURL:           "ws://localhost:8080/ws",
		AgentName:            "Lara",
		WakePhrase:           "hey lara",
		AutoScrollTranscript: true,
		ConfirmBeforeSpeak:   true,
		AutoRaiseHandHint:    true,
		CallID:               "1234",
	}
}
