package usecase

import (
	"log/slog"

	"laraconsole/internal/domain"
	"laraconsole/internal/ports"
	"laraconsole/internal/protocol"
	"laraconsole/internal/state"
)

// Dispatcher is the core's write side: each method builds exactly one
// outbound command and hands it to the transport. Commands sent while
// disconnected are dropped with a warning; there is no replay buffer, and no
// local state changes until a corresponding event arrives -- with the single
// exception of the optimistic call-status clear on EndCall.
type Dispatcher struct {
	sender  ports.CommandSender
	session *state.SessionState
	log     *slog.Logger
}

func NewDispatcher(sender ports.CommandSender, session *state.SessionState, log *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, session: session, log: log}
}

func (d *Dispatcher) JoinCall(meeting domain.MeetingInfo) {
	d.send(protocol.NewJoinCall(meeting))
}

func (d *Dispatcher) EndCall() {
	if d.send(protocol.NewEndCall()) {
		d.session.ClearCallStatus()
	}
}

func (d *Dispatcher) ForceCommandNext() {
	d.send(protocol.NewForceCommandNext())
}

func (d *Dispatcher) TextQuery(text string) {
	d.send(protocol.NewTextQuery(text))
}

func (d *Dispatcher) ApproveSpeak(answerID string) {
	d.send(protocol.NewApproveSpeak(answerID))
}

func (d *Dispatcher) RejectAnswer(answerID, reason string) {
	d.send(protocol.NewRejectAnswer(answerID, reason))
}

func (d *Dispatcher) CancelSpeech(answerID string) {
	d.send(protocol.NewCancelSpeech(answerID))
}

func (d *Dispatcher) ApproveTask(taskID string) {
	d.send(protocol.NewApproveTask(taskID))
}

func (d *Dispatcher) RejectTask(taskID, reason string) {
	d.send(protocol.NewRejectTask(taskID, reason))
}

func (d *Dispatcher) SetSettings(settings protocol.ClientSettings) {
	d.send(protocol.NewSetSettings(settings))
}

func (d *Dispatcher) RequestHistory(limit int) {
	d.send(protocol.NewRequestHistory(limit))
}

// Raw forwards an arbitrary prebuilt command, for surfaces that compose their
// own frames.
func (d *Dispatcher) Raw(cmd protocol.Command) {
	d.send(cmd)
}

func (d *Dispatcher) send(cmd protocol.Command) bool {
	if d.sender.Status() != domain.ConnConnected {
		d.log.Warn("dropping command, transport not connected", "command", cmd.CommandType())
		return false
	}
	if err := d.sender.Send(cmd); err != nil {
		d.log.Warn("command send failed", "command", cmd.CommandType(), "error", err)
		return false
	}
	return true
}
