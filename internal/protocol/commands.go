package protocol

import "laraconsole/internal/domain"

// Outbound command type values.
const (
	CmdHello            = "hello"
	CmdJoinCall         = "join_call"
	CmdEndCall          = "end_call"
	CmdForceCommandNext = "force_command_next"
	CmdTextQuery        = "text_query"
	CmdApproveSpeak     = "approve_speak"
	CmdRejectAnswer     = "reject_answer"
	CmdCancelSpeech     = "cancel_speech"
	CmdApproveTask      = "approve_task"
	CmdRejectTask       = "reject_task"
	CmdSetSettings      = "set_settings"
	CmdRequestHistory   = "request_history"
	CmdPing             = "ping"
)

// Command is any outbound frame. CommandType is used for logging and gating;
// the concrete struct is what goes on the wire.
type Command interface {
	CommandType() string
}

type Hello struct {
	Type          string   `json:"type"`
	ClientVersion string   `json:"clientVersion"`
	Supports      []string `json:"supports,omitempty"`
}

func NewHello(clientVersion string, supports []string) Hello {
	return Hello{Type: CmdHello, ClientVersion: clientVersion, Supports: supports}
}

func (c Hello) CommandType() string { return c.Type }

// JoinCall uses the structured meeting shape; a raw invite string is not part
// of the protocol.
type JoinCall struct {
	Type    string             `json:"type"`
	Meeting domain.MeetingInfo `json:"meeting"`
}

func NewJoinCall(meeting domain.MeetingInfo) JoinCall {
	return JoinCall{Type: CmdJoinCall, Meeting: meeting}
}

func (c JoinCall) CommandType() string { return c.Type }

type EndCall struct {
	Type string `json:"type"`
}

func NewEndCall() EndCall { return EndCall{Type: CmdEndCall} }

func (c EndCall) CommandType() string { return c.Type }

type ForceCommandNext struct {
	Type string `json:"type"`
}

func NewForceCommandNext() ForceCommandNext { return ForceCommandNext{Type: CmdForceCommandNext} }

func (c ForceCommandNext) CommandType() string { return c.Type }

type TextQuery struct {
	Type    string           `json:"type"`
	Payload TextQueryPayload `json:"payload"`
}

type TextQueryPayload struct {
	Text string `json:"text"`
}

func NewTextQuery(text string) TextQuery {
	return TextQuery{Type: CmdTextQuery, Payload: TextQueryPayload{Text: text}}
}

func (c TextQuery) CommandType() string { return c.Type }

type ApproveSpeak struct {
	Type     string `json:"type"`
	AnswerID string `json:"answerId"`
}

func NewApproveSpeak(answerID string) ApproveSpeak {
	return ApproveSpeak{Type: CmdApproveSpeak, AnswerID: answerID}
}

func (c ApproveSpeak) CommandType() string { return c.Type }

type RejectAnswer struct {
	Type     string `json:"type"`
	AnswerID string `json:"answerId"`
	Reason   string `json:"reason,omitempty"`
}

func NewRejectAnswer(answerID, reason string) RejectAnswer {
	return RejectAnswer{Type: CmdRejectAnswer, AnswerID: answerID, Reason: reason}
}

func (c RejectAnswer) CommandType() string { return c.Type }

type CancelSpeech struct {
	Type     string `json:"type"`
	AnswerID string `json:"answerId"`
}

func NewCancelSpeech(answerID string) CancelSpeech {
	return CancelSpeech{Type: CmdCancelSpeech, AnswerID: answerID}
}

func (c CancelSpeech) CommandType() string { return c.Type }

type ApproveTask struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
}

func NewApproveTask(taskID string) ApproveTask {
	return ApproveTask{Type: CmdApproveTask, TaskID: taskID}
}

func (c ApproveTask) CommandType() string { return c.Type }

type RejectTask struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
	Reason string `json:"reason,omitempty"`
}

func NewRejectTask(taskID, reason string) RejectTask {
	return RejectTask{Type: CmdRejectTask, TaskID: taskID, Reason: reason}
}

func (c RejectTask) CommandType() string { return c.Type }

// ClientSettings is the subset of settings the backend cares about.
type ClientSettings struct {
	WakePhrase         string `json:"wakePhrase,omitempty"`
	ConfirmBeforeSpeak *bool  `json:"confirmBeforeSpeaking,omitempty"`
	AutoRaiseHandHint  *bool  `json:"autoRaiseHandHint,omitempty"`
	TranscriptFilter   string `json:"transcriptFilter,omitempty"`
}

type SetSettings struct {
	Type     string         `json:"type"`
	Settings ClientSettings `json:"settings"`
}

func NewSetSettings(settings ClientSettings) SetSettings {
	return SetSettings{Type: CmdSetSettings, Settings: settings}
}

func (c SetSettings) CommandType() string { return c.Type }

type RequestHistory struct {
	Type  string `json:"type"`
	Limit int    `json:"limit,omitempty"`
}

func NewRequestHistory(limit int) RequestHistory {
	return RequestHistory{Type: CmdRequestHistory, Limit: limit}
}

func (c RequestHistory) CommandType() string { return c.Type }

type Ping struct {
	Type string `json:"type"`
	TS   int64  `json:"ts"`
}

func NewPing(ts int64) Ping { return Ping{Type: CmdPing, TS: ts} }

func (c Ping) CommandType() string { return c.Type }

// CallRegister is the alternate-mode handshake frame: a bare call_id sent as
// the first message instead of hello.
type CallRegister struct {
	CallID string `json:"call_id"`
}

func NewCallRegister(callID string) CallRegister { return CallRegister{CallID: callID} }

func (c CallRegister) CommandType() string { return "call_register" }
