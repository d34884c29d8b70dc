package protocol

import (
	"encoding/json"

	"laraconsole/internal/domain"
)

// Inbound event type values.
const (
	EventSessionInfo     = "session_info"
	EventTranscript      = "transcript"
	EventWakeDetected    = "wake_detected"
	EventCommandStarted  = "command_started"
	EventAgentStatus     = "agent_status"
	EventAnswerReady     = "answer_ready"
	EventSpeakingStarted = "speaking_started"
	EventSpeakingEnded   = "speaking_ended"
	EventSpeechCanceled  = "speech_canceled"
	EventTaskProposed    = "task_proposed"
	EventTaskStatus      = "task_status"
	EventCallStatus      = "call_status"
	EventPong            = "pong"
	EventError           = "error"
)

// Event is the flat decode target for every inbound frame. Which fields are
// populated depends on Type; unused fields stay zero.
type Event struct {
	Type string `json:"type"`

	// session_info
	SessionID    string `json:"sessionId,omitempty"`
	AgentName    string `json:"agentName,omitempty"`
	CallSID      string `json:"callSid,omitempty"`
	MeetingLabel string `json:"meetingLabel,omitempty"`

	// transcript
	ID      string `json:"id,omitempty"`
	Text    string `json:"text,omitempty"`
	Partial bool   `json:"partial,omitempty"`
	Speaker string `json:"speaker,omitempty"`
	Wake    bool   `json:"wake,omitempty"`

	// wake_detected
	Phrase string `json:"phrase,omitempty"`
	By     string `json:"by,omitempty"`

	// command_started / agent_status / answer_ready
	CommandID string `json:"commandId,omitempty"`
	Method    string `json:"method,omitempty"`
	Detail    string `json:"detail,omitempty"`

	// answer_ready / speaking_* / speech_canceled
	AnswerID   string                `json:"answerId,omitempty"`
	Sources    []domain.SourceRef    `json:"sources,omitempty"`
	Metrics    *domain.AnswerMetrics `json:"metrics,omitempty"`
	TaskID     string                `json:"taskId,omitempty"`
	QuestionID string                `json:"question_id,omitempty"`
	DurationMs int64                 `json:"durationMs,omitempty"`

	// task_proposed / task_status / call_status: Status doubles as
	// AgentStatus, TaskStatus and CallStatus depending on Type.
	Summary string          `json:"summary,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Status  string          `json:"status,omitempty"`
	Reason  string          `json:"reason,omitempty"`

	// pong / error
	TS          int64  `json:"ts,omitempty"`
	ServerTS    int64  `json:"serverTs,omitempty"`
	Code        string `json:"code,omitempty"`
	Message     string `json:"message,omitempty"`
	Recoverable bool   `json:"recoverable,omitempty"`
}

// DecodeEvent parses one inbound frame.
func DecodeEvent(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// ControlFrame covers call-id-mode frames that sit outside the typed event
// table: the registration confirmation, echo frames, and bare error frames.
type ControlFrame struct {
	Status string `json:"status,omitempty"`
	CallID string `json:"call_id,omitempty"`
	Echo   bool   `json:"echo,omitempty"`
	Error  string `json:"error,omitempty"`
}

// DecodeControlFrame reports whether the payload is a control frame rather
// than a typed event. Typed events always carry a "type" field; control
// frames never do.
func DecodeControlFrame(payload []byte) (ControlFrame, bool) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ControlFrame{}, false
	}
	if probe.Type != "" {
		return ControlFrame{}, false
	}
	var frame ControlFrame
	if err := json.Unmarshal(payload, &frame); err != nil {
		return ControlFrame{}, false
	}
	if frame.Status == "" && !frame.Echo && frame.Error == "" {
		return ControlFrame{}, false
	}
	return frame, true
}
