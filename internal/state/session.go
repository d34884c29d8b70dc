package state

import (
	"sync"

	"laraconsole/internal/domain"
)

// SessionState tracks connection lifecycle, remote session identity, call
// lifecycle, agent activity and round-trip latency. Pure state: it is only
// mutated by transport-delivered events or explicit local resets.
type SessionState struct {
	observable

	mu          sync.Mutex
	connStatus  domain.ConnectionStatus
	session     domain.Session
	callStatus  domain.CallStatus
	agentStatus domain.AgentStatus
	rttMs       int64
	reconnects  int
}

// SessionSnapshot is a copy of the session slice.
type SessionSnapshot struct {
	ConnStatus  domain.ConnectionStatus
	Session     domain.Session
	CallStatus  domain.CallStatus
	AgentStatus domain.AgentStatus
	RTTMs       int64
	Reconnects  int
}

func NewSessionState(agentName string) *SessionState {
	return &SessionState{
		connStatus:  domain.ConnDisconnected,
		session:     domain.Session{AgentName: agentName},
		agentStatus: domain.AgentIdle,
		rttMs:       -1,
	}
}

// SetConnectionStatus records a connection lifecycle edge. Session identity
// is deliberately left alone; a drop does not forget who we were talking to.
func (s *SessionState) SetConnectionStatus(status domain.ConnectionStatus) {
	s.mu.Lock()
	s.connStatus = status
	s.mu.Unlock()

	s.publish()
}

// MergeSession applies a session_info event. Empty optional fields do not
// overwrite known values.
func (s *SessionState) MergeSession(session domain.Session) {
	s.mu.Lock()
	s.session.SessionID = session.SessionID
	if session.AgentName != "" {
		s.session.AgentName = session.AgentName
	}
	if session.CallSID != "" {
		s.session.CallSID = session.CallSID
	}
	if session.MeetingLabel != "" {
		s.session.MeetingLabel = session.MeetingLabel
	}
	s.mu.Unlock()

	s.publish()
}

// SetCallStatus applies a call_status event, picking up the call SID when the
// server provides one.
func (s *SessionState) SetCallStatus(status domain.CallStatus, callSID string) {
	s.mu.Lock()
	s.callStatus = status
	if callSID != "" {
		s.session.CallSID = callSID
	}
	s.mu.Unlock()

	s.publish()
}

// ClearCallStatus is the optimistic local clear on an end-call dispatch; the
// next call_status event overrides it.
func (s *SessionState) ClearCallStatus() {
	s.mu.Lock()
	s.callStatus = domain.CallNone
	s.mu.Unlock()

	s.publish()
}

// SetAgentStatus applies an agent_status event wholesale.
func (s *SessionState) SetAgentStatus(status domain.AgentStatus) {
	s.mu.Lock()
	s.agentStatus = status
	s.mu.Unlock()

	s.publish()
}

// SetRTT records the latest heartbeat round trip.
func (s *SessionState) SetRTT(rttMs int64) {
	s.mu.Lock()
	s.rttMs = rttMs
	s.mu.Unlock()

	s.publish()
}

// IncrementReconnects counts a lost connection.
func (s *SessionState) IncrementReconnects() {
	s.mu.Lock()
	s.reconnects++
	s.mu.Unlock()

	s.publish()
}

// ResetReconnects zeroes the counter after a successful open.
func (s *SessionState) ResetReconnects() {
	s.mu.Lock()
	s.reconnects = 0
	s.mu.Unlock()

	s.publish()
}

// Reset clears the remote identity. Only an explicit disconnect-and-reset
// calls this, never a routine drop.
func (s *SessionState) Reset() {
	s.mu.Lock()
	agentName := s.session.AgentName
	s.session = domain.Session{AgentName: agentName}
	s.callStatus = domain.CallNone
	s.agentStatus = domain.AgentIdle
	s.rttMs = -1
	s.mu.Unlock()

	s.publish()
}

// Snapshot returns a copy of the session slice.
func (s *SessionState) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		ConnStatus:  s.connStatus,
		Session:     s.session,
		CallStatus:  s.callStatus,
		AgentStatus: s.agentStatus,
		RTTMs:       s.rttMs,
		Reconnects:  s.reconnects,
	}
}
