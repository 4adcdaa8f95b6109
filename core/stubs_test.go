package orchestration

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/koscakluka/medtranslate-core/core/audio"
	"github.com/koscakluka/medtranslate-core/core/connection"
	"github.com/koscakluka/medtranslate-core/core/events"
	"github.com/koscakluka/medtranslate-core/core/protocol"
	"github.com/koscakluka/medtranslate-core/core/speechtotext"
	"github.com/koscakluka/medtranslate-core/core/texttospeech"
)

func newTestOrchestrator(t *testing.T, server *serverStub, opts ...OrchestratorOption) (*Orchestrator, *eventRecorder) {
	t.Helper()

	recorder := &eventRecorder{}
	opts = append([]OrchestratorOption{
		WithTransport(server, "ws://translate.test/ws"),
		WithEventHandler(recorder.handle),
	}, opts...)
	o := NewOrchestrator(opts...)
	t.Cleanup(o.Close)
	return o, recorder
}

func startTestSession(t *testing.T, o *Orchestrator) {
	t.Helper()

	if err := o.StartSession(context.Background(), "es"); err != nil {
		t.Fatalf("expected session to start, got %v", err)
	}
	waitFor(t, func() bool { return o.Snapshot().Connected })
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for condition")
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func eventsOf[T events.Event](r *eventRecorder) []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []T
	for _, event := range r.events {
		if typed, ok := event.(T); ok {
			matched = append(matched, typed)
		}
	}
	return matched
}

func (r *eventRecorder) notifications() []string {
	var messages []string
	for _, n := range eventsOf[events.Notification](r) {
		messages = append(messages, n.Message)
	}
	return messages
}

func (r *eventRecorder) notified(message string) bool {
	for _, m := range r.notifications() {
		if m == message {
			return true
		}
	}
	return false
}

type frame struct {
	Type      protocol.Type `json:"type"`
	Text      string        `json:"text"`
	From      string        `json:"from"`
	To        string        `json:"to"`
	SessionID string        `json:"session_id"`
}

// serverStub is a connection.Dialer whose connections record every frame
// and optionally answer translate requests.
type serverStub struct {
	mu       sync.Mutex
	conns    []*connStub
	frames   []frame
	failures int
	dials    atomic.Int32

	reply func(request frame) (string, bool)
}

func (s *serverStub) Dial(context.Context, string) (connection.Conn, error) {
	s.dials.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return nil, errors.New("connection refused")
	}
	conn := &connStub{server: s, inbound: make(chan []byte, 16), done: make(chan struct{})}
	s.conns = append(s.conns, conn)
	return conn, nil
}

func (s *serverStub) record(f frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
}

func (s *serverStub) written() []frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]frame(nil), s.frames...)
}

func (s *serverStub) count(kind protocol.Type) int {
	n := 0
	for _, f := range s.written() {
		if f.Type == kind {
			n++
		}
	}
	return n
}

func (s *serverStub) translations() []frame {
	var requests []frame
	for _, f := range s.written() {
		if f.Type == protocol.TypeTranslate {
			requests = append(requests, f)
		}
	}
	return requests
}

func (s *serverStub) last() *connStub {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns[len(s.conns)-1]
}

type connStub struct {
	server   *serverStub
	inbound  chan []byte
	done     chan struct{}
	doneOnce sync.Once
	closed   atomic.Bool
}

func (c *connStub) ReadMessage() ([]byte, error) {
	select {
	case data := <-c.inbound:
		return data, nil
	case <-c.done:
		return nil, errors.New("connection reset")
	}
}

func (c *connStub) WriteMessage(data []byte) error {
	if c.closed.Load() {
		return errors.New("write on closed connection")
	}

	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	c.server.record(f)

	if f.Type == protocol.TypeTranslate && c.server.reply != nil {
		if text, ok := c.server.reply(f); ok {
			c.push(protocol.Translation{Type: protocol.TypeTranslation, Text: text, Original: f.Text})
		}
	}
	return nil
}

func (c *connStub) push(msg protocol.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.inbound <- data:
	default:
	}
}

func (c *connStub) Close() error {
	c.closed.Store(true)
	c.drop()
	return nil
}

func (c *connStub) drop() {
	c.doneOnce.Do(func() { close(c.done) })
}

// speechStub is a SpeechSource driven by the test.
type speechStub struct {
	mu        sync.Mutex
	calls     []speechtotext.TranscriptionOptions
	stops     int
	err       error
	endOnStop bool
}

func (s *speechStub) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := speechtotext.NewTranscriptionOptions(opts...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, options)
	return s.err
}

func (s *speechStub) StopTranscribing() error {
	s.mu.Lock()
	s.stops++
	endOnStop := s.endOnStop && len(s.calls) > 0
	s.mu.Unlock()

	if endOnStop {
		s.end("")
	}
	return nil
}

func (s *speechStub) transcribeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *speechStub) stopCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

func (s *speechStub) current() speechtotext.TranscriptionOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func (s *speechStub) interim(transcript string) {
	if callback := s.current().InterimTranscriptionCallback; callback != nil {
		callback(transcript)
	}
}

// end finishes the current pass the way a recognizer does: the final
// transcript, when there is one, followed by the end callback.
func (s *speechStub) end(transcript string) {
	options := s.current()
	if transcript != "" && options.TranscriptionCallback != nil {
		options.TranscriptionCallback(transcript)
	}
	if options.EndedCallback != nil {
		options.EndedCallback()
	}
}

func (s *speechStub) fail(err error) {
	if callback := s.current().ErrorCallback; callback != nil {
		callback(err)
	}
}

type speakCall struct {
	text    string
	options texttospeech.SpeakOptions
}

type synthesizerStub struct {
	mu    sync.Mutex
	calls []speakCall
	err   error
}

func (s *synthesizerStub) Synthesize(_ context.Context, text string, opts ...texttospeech.SpeakOption) (audio.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, speakCall{text: text, options: texttospeech.NewSpeakOptions(opts...)})
	if s.err != nil {
		return audio.Clip{}, s.err
	}
	return audio.Clip{Encoding: audio.GetDefaultEncodingInfo(), Data: []byte{0, 0}}, nil
}

func (s *synthesizerStub) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var texts []string
	for _, call := range s.calls {
		texts = append(texts, call.text)
	}
	return texts
}

type playerStub struct {
	plays atomic.Int32
}

func (p *playerStub) Play(context.Context, audio.Clip) error {
	p.plays.Add(1)
	return nil
}

type systemStub struct {
	mu    sync.Mutex
	calls []speakCall
}

func (s *systemStub) Speak(_ context.Context, text string, opts ...texttospeech.SpeakOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, speakCall{text: text, options: texttospeech.NewSpeakOptions(opts...)})
	return nil
}

func (s *systemStub) spoken() []speakCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]speakCall(nil), s.calls...)
}
