package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"laraconsole/internal/domain"
)

func TestSessionDropKeepsIdentity(t *testing.T) {
	t.Parallel()

	s := NewSessionState("Lara")
	s.SetConnectionStatus(domain.ConnConnected)
	s.MergeSession(domain.Session{SessionID: "sess-1", AgentName: "Lara", MeetingLabel: "standup"})

	// A network drop must not forget who we were talking to.
	s.SetConnectionStatus(domain.ConnDisconnected)
	s.IncrementReconnects()

	snap := s.Snapshot()
	assert.Equal(t, domain.ConnDisconnected, snap.ConnStatus)
	assert.Equal(t, "sess-1", snap.Session.SessionID)
	assert.Equal(t, "standup", snap.Session.MeetingLabel)
	assert.Equal(t, 1, snap.Reconnects)
}

func TestSessionReconnectCounterResetOnOpen(t *testing.T) {
	t.Parallel()

	s := NewSessionState("Lara")
	s.IncrementReconnects()
	s.IncrementReconnects()
	s.ResetReconnects()
	assert.Zero(t, s.Snapshot().Reconnects)
}

func TestSessionMergePreservesOptionalFields(t *testing.T) {
	t.Parallel()

	s := NewSessionState("Lara")
	s.MergeSession(domain.Session{SessionID: "sess-1", AgentName: "Lara", CallSID: "CA123"})
	s.MergeSession(domain.Session{SessionID: "sess-2", AgentName: "Lara"})

	snap := s.Snapshot()
	assert.Equal(t, "sess-2", snap.Session.SessionID)
	assert.Equal(t, "CA123", snap.Session.CallSID, "absent callSid must not wipe the known one")
}

func TestSessionCallStatusLifecycle(t *testing.T) {
	t.Parallel()

	s := NewSessionState("Lara")
	assert.Equal(t, domain.CallNone, s.Snapshot().CallStatus)

	s.SetCallStatus(domain.CallDialing, "")
	s.SetCallStatus(domain.CallConnected, "CA9")
	snap := s.Snapshot()
	assert.Equal(t, domain.CallConnected, snap.CallStatus)
	assert.Equal(t, "CA9", snap.Session.CallSID)

	// Optimistic local clear on end-call intent; server echo lands later.
	s.ClearCallStatus()
	assert.Equal(t, domain.CallNone, s.Snapshot().CallStatus)
	s.SetCallStatus(domain.CallEnded, "CA9")
	assert.Equal(t, domain.CallEnded, s.Snapshot().CallStatus)
}

func TestSessionResetClearsIdentityKeepsAgentName(t *testing.T) {
	t.Parallel()

	s := NewSessionState("Lara")
	s.MergeSession(domain.Session{SessionID: "sess-1", AgentName: "Lara", CallSID: "CA1"})
	s.SetAgentStatus(domain.AgentSpeaking)
	s.SetRTT(42)

	s.Reset()

	snap := s.Snapshot()
	assert.Empty(t, snap.Session.SessionID)
	assert.Empty(t, snap.Session.CallSID)
	assert.Equal(t, "Lara", snap.Session.AgentName)
	assert.Equal(t, domain.AgentIdle, snap.AgentStatus)
	assert.EqualValues(t, -1, snap.RTTMs)
}
