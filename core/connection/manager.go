// Package connection keeps a duplex message channel to the translation
// server open for the lifetime of a session.
package connection

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/koscakluka/medtranslate-core/core/protocol"
)

var (
	ErrNotConnected       = errors.New("not connected to server")
	ErrConnectTimeout     = errors.New("connect timed out")
	ErrClosed             = errors.New("connection closed")
	ErrReconnectExhausted = errors.New("reconnect attempts exhausted")
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Conn is a single open channel carrying text frames.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	// Close sends a normal closure to the peer and releases the channel.
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// ReconnectDelay returns min(base * 1.5^attempts, max).
func ReconnectDelay(attempts int, base, maxDelay time.Duration) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	delay := float64(base) * math.Pow(1.5, float64(attempts))
	if delay >= float64(maxDelay) || math.IsInf(delay, 0) {
		return maxDelay
	}
	return time.Duration(delay)
}

// Manager owns the channel lifecycle: dialing, the handshake, heartbeats,
// inbound decoding and reconnection with backoff.
//
// Manager is safe for concurrent use. Callbacks are invoked from the
// Manager's goroutines without any lock held.
type Manager struct {
	dialer  Dialer
	url     string
	options ManagerOptions

	mu        sync.Mutex
	state     State
	conn      Conn
	gen       uint64
	wanted    bool
	attempts  int
	reconnect *time.Timer
	stopBeat  chan struct{}

	// writeMu orders frames on the wire; the farewell is always last.
	writeMu sync.Mutex
}

func NewManager(dialer Dialer, url string, opts ...ManagerOption) *Manager {
	options := defaultManagerOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Manager{dialer: dialer, url: url, options: options}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) ReconnectAttempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// Connect opens the channel and sends the handshake. A failed attempt is
// returned and retried in the background until Close is called.
// Calling Connect while connecting or connected is a no-op.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	m.wanted = true
	if m.state != StateDisconnected {
		m.mu.Unlock()
		return nil
	}
	gen := m.beginAttemptLocked()
	m.mu.Unlock()
	m.notifyState(StateConnecting)

	return m.dial(ctx, gen)
}

func (m *Manager) beginAttemptLocked() uint64 {
	m.gen++
	m.state = StateConnecting
	return m.gen
}

func (m *Manager) dial(ctx context.Context, gen uint64) error {
	ctx, span := tracer.Start(ctx, "dial server")
	defer span.End()
	span.SetAttributes(attribute.String("connection.url", m.url))

	dialCtx, cancel := context.WithTimeout(ctx, m.options.ConnectTimeout)
	defer cancel()

	conn, err := m.dialer.Dial(dialCtx, m.url)
	if err == nil && m.options.Handshake != nil {
		if handshake := m.options.Handshake(); handshake != nil {
			err = m.writeHandshake(conn, gen, handshake)
		} else {
			err = ErrClosed
		}
		if err != nil {
			_ = conn.Close()
		}
	}
	if err != nil {
		if errors.Is(dialCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", ErrConnectTimeout, err)
		}
		err = fmt.Errorf("failed to connect: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to connect")
		m.failed(gen, err)
		return err
	}

	m.mu.Lock()
	if gen != m.gen || !m.wanted {
		m.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	m.state = StateConnected
	m.conn = conn
	m.attempts = 0
	stop := make(chan struct{})
	m.stopBeat = stop
	m.mu.Unlock()

	logger.Info("connected", "url", m.url)
	go m.readLoop(conn, gen)
	go m.heartbeat(conn, gen, stop)
	m.notifyState(StateConnected)
	return nil
}

// failed records a failed dial or a dropped channel and schedules a retry
// when the session still wants a connection.
func (m *Manager) failed(gen uint64, err error) {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.state = StateDisconnected
	m.conn = nil
	if m.stopBeat != nil {
		close(m.stopBeat)
		m.stopBeat = nil
	}
	if !m.wanted {
		m.mu.Unlock()
		m.notifyState(StateDisconnected)
		return
	}

	if m.options.MaxReconnectAttempts > 0 && m.attempts >= m.options.MaxReconnectAttempts {
		m.wanted = false
		m.mu.Unlock()
		logger.Error("giving up on reconnecting", "attempts", m.options.MaxReconnectAttempts, "error", err)
		m.notifyState(StateDisconnected)
		m.notifyError(fmt.Errorf("%w: %w", ErrReconnectExhausted, err))
		return
	}

	delay := ReconnectDelay(m.attempts, m.options.ReconnectBase, m.options.ReconnectMax)
	m.attempts++
	attempt := m.attempts
	m.reconnect = time.AfterFunc(delay, func() { m.retry(gen) })
	m.mu.Unlock()

	logger.Warn("connection lost, retrying", "attempt", attempt, "delay", delay, "error", err)
	m.notifyState(StateDisconnected)
}

func (m *Manager) retry(prev uint64) {
	m.mu.Lock()
	if prev != m.gen || !m.wanted || m.state != StateDisconnected {
		m.mu.Unlock()
		return
	}
	m.reconnect = nil
	gen := m.beginAttemptLocked()
	m.mu.Unlock()
	m.notifyState(StateConnecting)

	if err := m.dial(context.Background(), gen); err != nil && !errors.Is(err, ErrClosed) {
		logger.Warn("reconnect attempt failed", "error", err)
	}
}

func (m *Manager) readLoop(conn Conn, gen uint64) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			m.failed(gen, fmt.Errorf("failed to read message: %w", err))
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			logger.Warn("dropping inbound frame", "error", err)
			continue
		}
		if msg.MessageType() == protocol.TypePong {
			continue
		}
		if m.options.OnMessage != nil {
			m.options.OnMessage(msg)
		}
	}
}

func (m *Manager) heartbeat(conn Conn, gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(m.options.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := m.send(conn, gen, protocol.NewPing()); err != nil {
				logger.Debug("skipping heartbeat", "error", err)
				return
			}
		}
	}
}

// Send writes a message on the open channel.
func (m *Manager) Send(msg protocol.Message) error {
	m.mu.Lock()
	conn, gen := m.conn, m.gen
	m.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	return m.send(conn, gen, msg)
}

func (m *Manager) send(conn Conn, gen uint64, msg protocol.Message) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	live := m.state == StateConnected && m.gen == gen && m.conn == conn
	m.mu.Unlock()
	if !live {
		return ErrNotConnected
	}
	return m.writeLocked(conn, msg)
}

// writeHandshake writes the first frame of a dialed channel unless the
// attempt was superseded or closed while dialing.
func (m *Manager) writeHandshake(conn Conn, gen uint64, msg protocol.Message) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	current := gen == m.gen && m.wanted
	m.mu.Unlock()
	if !current {
		return ErrClosed
	}
	return m.writeLocked(conn, msg)
}

func (m *Manager) writeLocked(conn Conn, msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", msg.MessageType(), err)
	}
	if err := conn.WriteMessage(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", msg.MessageType(), err)
	}
	return nil
}

// Close stops reconnecting and heartbeats, sends farewell if the channel is
// open and closes it normally. Nothing is written after the farewell.
func (m *Manager) Close(farewell protocol.Message) error {
	m.mu.Lock()
	m.wanted = false
	m.attempts = 0
	if m.reconnect != nil {
		m.reconnect.Stop()
		m.reconnect = nil
	}
	if m.stopBeat != nil {
		close(m.stopBeat)
		m.stopBeat = nil
	}
	conn := m.conn
	wasConnected := m.state == StateConnected
	m.gen++
	if wasConnected {
		m.state = StateClosing
	} else {
		m.state = StateDisconnected
	}
	m.mu.Unlock()

	if !wasConnected {
		m.notifyState(StateDisconnected)
		return nil
	}
	m.notifyState(StateClosing)

	var errs []error
	m.writeMu.Lock()
	if farewell != nil {
		if err := m.writeLocked(conn, farewell); err != nil {
			errs = append(errs, err)
		}
	}
	if err := conn.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
	}
	m.writeMu.Unlock()

	m.mu.Lock()
	if m.state == StateClosing {
		m.state = StateDisconnected
		m.conn = nil
	}
	m.mu.Unlock()
	m.notifyState(StateDisconnected)

	return errors.Join(errs...)
}

func (m *Manager) notifyState(state State) {
	if m.options.OnStateChange != nil {
		m.options.OnStateChange(state)
	}
}

func (m *Manager) notifyError(err error) {
	if m.options.OnError != nil {
		m.options.OnError(err)
	}
}
