// Package transport owns the single reconnecting websocket connection to the
// backend. It decodes inbound frames into typed events for the rest of the
// core and carries outbound commands; it holds no business state.
package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"laraconsole/internal/domain"
	"laraconsole/internal/ports"
	"laraconsole/internal/protocol"
)

// ErrNotConnected is returned by Send when no live connection exists.
var ErrNotConnected = errors.New("transport is not connected")

const writeTimeout = 10 * time.Second

// Config controls endpoint, handshake mode and retry behavior. Zero tunables
// fall back to the defaults below.
type Config struct {
	URL           string
	Token         string
	ClientName    string
	ClientVersion string
	Supports      []string

	// CallIDMode switches the open handshake from the hello announcement to
	// a bare call_id registration frame.
	CallIDMode bool
	CallID     string

	MinBackoff        time.Duration
	MaxBackoff        time.Duration
	BackoffFactor     float64
	DialTimeout       time.Duration
	HeartbeatInterval time.Duration
}

func (cfg *Config) applyDefaults() {
	if cfg.ClientName == "" {
		cfg.ClientName = "LaraConsole"
	}
	if cfg.ClientVersion == "" {
		cfg.ClientVersion = "0.1.0"
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	if cfg.BackoffFactor <= 1 {
		cfg.BackoffFactor = 1.5
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 4 * time.Second
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 15 * time.Second
	}
}

// Client is the reconnecting duplex connection. Inbound events are delivered
// to the handler one at a time from a single read loop, so handlers run to
// completion in arrival order.
type Client struct {
	cfg      Config
	log      *slog.Logger
	handler  ports.EventHandler
	observer ports.ConnectionObserver

	mu      sync.Mutex
	conn    *websocket.Conn
	status  domain.ConnectionStatus
	cancel  context.CancelFunc
	runDone chan struct{}

	writeMu sync.Mutex

	pingMu     sync.Mutex
	lastPingMs int64

	nowMs func() int64
}

func NewClient(cfg Config, handler ports.EventHandler, observer ports.ConnectionObserver, log *slog.Logger) *Client {
	cfg.applyDefaults()
	return &Client{
		cfg:      cfg,
		log:      log,
		handler:  handler,
		observer: observer,
		status:   domain.ConnDisconnected,
		nowMs:    func() int64 { return time.Now().UnixMilli() },
	}
}

// Connect starts the connection loop. Calling it while a loop is running
// tears the old one down first, so there is never a duplicate socket.
func (c *Client) Connect(ctx context.Context) {
	c.Close()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.mu.Lock()
	c.cancel = cancel
	c.runDone = done
	c.mu.Unlock()

	go c.run(runCtx, done)
}

// Close performs the clean teardown: stops the heartbeat, closes the socket
// without retry and leaves the status at disconnected. Idempotent.
func (c *Client) Close() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.runDone
	c.cancel = nil
	c.runDone = nil
	conn := c.conn
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if conn != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(500*time.Millisecond))
		_ = conn.Close()
	}
	if done != nil {
		<-done
	}
}

// Status implements ports.CommandSender.
func (c *Client) Status() domain.ConnectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Send writes one command frame. Fire-and-forget: no queuing, no replay.
func (c *Client) Send(cmd protocol.Command) error {
	c.mu.Lock()
	conn := c.conn
	status := c.status
	c.mu.Unlock()

	if conn == nil || status != domain.ConnConnected {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := conn.WriteJSON(cmd); err != nil {
		return fmt.Errorf("write %s: %w", cmd.CommandType(), err)
	}
	return nil
}

func (c *Client) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	backoff := c.cfg.MinBackoff
	for {
		c.setStatus(domain.ConnConnecting)

		dialCtx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
		conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.buildURL(), nil)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				c.setStatus(domain.ConnDisconnected)
				return
			}
			c.log.Warn("dial failed, retrying", "error", err, "backoff", backoff)
			if !sleepCtx(ctx, backoff) {
				c.setStatus(domain.ConnDisconnected)
				return
			}
			backoff = nextBackoff(backoff, c.cfg.BackoffFactor, c.cfg.MaxBackoff)
			continue
		}

		backoff = c.cfg.MinBackoff
		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		c.setStatus(domain.ConnConnected)

		if err := c.handshake(); err != nil {
			c.log.Warn("handshake send failed", "error", err)
		}

		hbStop := make(chan struct{})
		go c.heartbeat(ctx, hbStop)

		readErr := c.readLoop(conn)
		close(hbStop)

		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		_ = conn.Close()

		if ctx.Err() != nil {
			c.setStatus(domain.ConnDisconnected)
			return
		}

		c.log.Warn("connection lost, retrying", "error", readErr)
		c.setStatus(domain.ConnDisconnected)
		if c.observer != nil {
			c.observer.ConnectionLost()
		}
		if !sleepCtx(ctx, backoff) {
			return
		}
		backoff = nextBackoff(backoff, c.cfg.BackoffFactor, c.cfg.MaxBackoff)
	}
}

// handshake performs exactly one open announcement per connection: hello in
// direct mode, the call_id registration frame in alternate mode. Never both.
func (c *Client) handshake() error {
	if c.cfg.CallIDMode {
		return c.Send(protocol.NewCallRegister(c.cfg.CallID))
	}
	return c.Send(protocol.NewHello(c.cfg.ClientVersion, c.cfg.Supports))
}

func (c *Client) heartbeat(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ts := c.nowMs()
			c.pingMu.Lock()
			c.lastPingMs = ts
			c.pingMu.Unlock()
			if err := c.Send(protocol.NewPing(ts)); err != nil {
				c.log.Debug("heartbeat send failed", "error", err)
			}
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.dispatch(payload)
	}
}

// dispatch decodes one frame and routes it. Decode failures and unknown event
// types are dropped and logged; they never tear down the connection.
func (c *Client) dispatch(payload []byte) {
	if frame, ok := protocol.DecodeControlFrame(payload); ok {
		c.handleControlFrame(frame)
		return
	}

	ev, err := protocol.DecodeEvent(payload)
	if err != nil {
		c.log.Warn("dropping malformed frame", "error", err)
		return
	}

	switch ev.Type {
	case protocol.EventSessionInfo:
		c.handler.SessionInfo(domain.Session{
			SessionID:    ev.SessionID,
			CallSID:      ev.CallSID,
			MeetingLabel: ev.MeetingLabel,
			AgentName:    ev.AgentName,
		})
	case protocol.EventTranscript:
		c.handler.Transcript(domain.TranscriptLine{
			ID:      ev.ID,
			TS:      ev.TS,
			Text:    ev.Text,
			Partial: ev.Partial,
			Speaker: ev.Speaker,
			Wake:    ev.Wake,
		})
	case protocol.EventWakeDetected:
		c.handler.WakeDetected(domain.WakeDetected{TS: ev.TS, Phrase: ev.Phrase, By: ev.By})
	case protocol.EventCommandStarted:
		c.handler.CommandStarted(domain.CommandStarted{CommandID: ev.CommandID, TS: ev.TS, Method: ev.Method})
	case protocol.EventAgentStatus:
		c.handler.AgentStatus(domain.AgentStatus(ev.Status), ev.CommandID, ev.Detail)
	case protocol.EventAnswerReady:
		c.handler.AnswerReady(domain.Answer{
			AnswerID:   ev.AnswerID,
			CommandID:  ev.CommandID,
			TS:         ev.TS,
			Text:       ev.Text,
			Sources:    ev.Sources,
			Metrics:    ev.Metrics,
			Status:     domain.AnswerReady,
			TaskID:     ev.TaskID,
			QuestionID: ev.QuestionID,
		})
	case protocol.EventSpeakingStarted:
		c.handler.SpeakingStarted(ev.AnswerID, ev.TS)
	case protocol.EventSpeakingEnded:
		c.handler.SpeakingEnded(ev.AnswerID, ev.TS, ev.DurationMs)
	case protocol.EventSpeechCanceled:
		c.handler.SpeechCanceled(ev.AnswerID)
	case protocol.EventTaskProposed:
		c.handler.TaskProposed(domain.Task{
			TaskID:  ev.TaskID,
			TS:      ev.TS,
			Summary: ev.Summary,
			Payload: string(ev.Payload),
		})
	case protocol.EventTaskStatus:
		c.handler.TaskStatus(ev.TaskID, domain.TaskStatus(ev.Status), ev.Detail)
	case protocol.EventCallStatus:
		c.handler.CallStatus(domain.CallStatus(ev.Status), ev.CallSID, ev.Reason)
	case protocol.EventPong:
		c.handler.Pong(c.rttFor(ev.TS), ev.ServerTS)
	case protocol.EventError:
		c.handler.ServerError(domain.ServerError{Code: ev.Code, Message: ev.Message, Recoverable: ev.Recoverable})
	default:
		c.log.Warn("dropping unknown event type", "type", ev.Type)
	}
}

func (c *Client) handleControlFrame(frame protocol.ControlFrame) {
	switch {
	case frame.Error != "":
		c.handler.ServerError(domain.ServerError{Code: "server", Message: frame.Error, Recoverable: true})
	case frame.Echo:
		c.log.Debug("ignoring echo frame")
	case frame.Status == "connected":
		c.log.Info("call registration confirmed", "call_id", frame.CallID)
	default:
		c.log.Debug("ignoring control frame", "status", frame.Status)
	}
}

// rttFor prefers the timestamp echoed back by the server; if it is missing,
// the locally stamped send time is used.
func (c *Client) rttFor(echoedTS int64) int64 {
	sent := echoedTS
	if sent == 0 {
		c.pingMu.Lock()
		sent = c.lastPingMs
		c.pingMu.Unlock()
	}
	if sent == 0 {
		return -1
	}
	return c.nowMs() - sent
}

func (c *Client) setStatus(status domain.ConnectionStatus) {
	c.mu.Lock()
	if c.status == status {
		c.mu.Unlock()
		return
	}
	c.status = status
	c.mu.Unlock()

	if c.observer != nil {
		c.observer.ConnectionChanged(status)
	}
}

func (c *Client) buildURL() string {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return c.cfg.URL
	}
	q := u.Query()
	if c.cfg.Token != "" {
		q.Set("token", c.cfg.Token)
	}
	q.Set("client", c.cfg.ClientName)
	u.RawQuery = q.Encode()
	return u.String()
}

func nextBackoff(current time.Duration, factor float64, max time.Duration) time.Duration {
	next := time.Duration(float64(current) * factor)
	if next > max {
		return max
	}
	return next
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
