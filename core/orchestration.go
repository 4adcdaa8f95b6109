// Package orchestration drives a translation session: it turns slider
// gestures into recordings, sends transcripts over the session channel,
// speaks translations and sequences interview questions.
//
// All session state is owned by one runtime goroutine. Public methods,
// timers, provider callbacks and connection callbacks are queued onto it, so
// state is never touched concurrently. Events are delivered to handlers on a
// second goroutine, which leaves handlers free to call back into the
// orchestrator.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/koscakluka/medtranslate-core/core/audio"
	"github.com/koscakluka/medtranslate-core/core/connection"
	"github.com/koscakluka/medtranslate-core/core/events"
	"github.com/koscakluka/medtranslate-core/core/gesture"
	"github.com/koscakluka/medtranslate-core/core/interview"
	"github.com/koscakluka/medtranslate-core/core/language"
	"github.com/koscakluka/medtranslate-core/core/protocol"
	"github.com/koscakluka/medtranslate-core/core/texttospeech"
	"github.com/koscakluka/medtranslate-core/core/transport/websocket"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrClosed        = errors.New("orchestrator closed")
	ErrSessionActive = errors.New("session already active")
	ErrNoSession     = errors.New("no active session")
	ErrSameLanguage  = errors.New("target language matches the clinician language")
	ErrNotReady      = errors.New("waiting for the current translation")
)

type Orchestrator struct {
	// mu guards state while a task runs and while Snapshot copies it.
	mu    sync.Mutex
	state sessionState
	flow  *interview.Flow

	tasks        *serialQueue[func()]
	speechCalls  *serialQueue[func()]
	dispatch     *serialQueue[events.Event]
	closeOnce    sync.Once
	baseContext  context.Context
	cancelBase   context.CancelFunc
	emitCallback eventEmitter
	handlers     []func(events.Event)
	callbacks    callbacks

	conn              *connection.Manager
	dialer            connection.Dialer
	serverURL         string
	connectionOptions []connection.ManagerOption
	handshake         atomic.Pointer[protocol.StartSession]

	clinician language.Code
	catalog   language.Catalog

	recognizer     *gesture.Recognizer
	gestureOptions gesture.Options
	tapPolicy      TapPolicy
	epoch          time.Time
	holdTimer      *time.Timer
	holdGen        uint64

	speechSource SpeechSource
	recognition  uint64
	elapsedStop  chan struct{}

	voices       map[language.Code]*streamedVoice
	defaultVoice *streamedVoice
	player       audio.Player
	system       SpeechSynthesizer
	speechRate   float64
	playback     uint64
	stopPlayback context.CancelFunc
	settleDelay  time.Duration
	settleTimer  *time.Timer
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		flow:           interview.NewFlow(),
		serverURL:      DefaultServerURL,
		clinician:      "en",
		catalog:        language.DefaultCatalog(),
		gestureOptions: gesture.DefaultOptions(),
		voices:         map[language.Code]*streamedVoice{},
		speechRate:     texttospeech.DefaultRate,
		settleDelay:    DefaultSettleDelay,
		epoch:          time.Now(),
		state: sessionState{
			side:   language.SideLeft,
			status: StatusReady,
			prompt: PromptIdle,
		},
	}

	for _, opt := range opts {
		opt(o)
	}

	o.baseContext, o.cancelBase = context.WithCancel(context.Background())
	o.recognizer = gesture.NewRecognizer(o.gestureOptions)
	o.emitCallback = newCallbackEventEmitter(o.callbacks)
	if o.dialer == nil {
		o.dialer = websocket.NewDialer()
	}

	connectionOptions := append([]connection.ManagerOption{
		connection.WithHandshake(func() protocol.Message {
			if start := o.handshake.Load(); start != nil {
				return *start
			}
			return nil
		}),
		connection.WithOnStateChange(func(state connection.State) {
			o.post(func() { o.connectionChanged(state) })
		}),
		connection.WithOnMessage(func(msg protocol.Message) {
			o.post(func() { o.handleMessage(msg) })
		}),
		connection.WithOnError(func(err error) {
			o.post(func() { o.connectionFailed(err) })
		}),
	}, o.connectionOptions...)
	o.conn = connection.NewManager(o.dialer, o.serverURL, connectionOptions...)

	o.dispatch = newSerialQueue(o.deliver)
	o.speechCalls = newSerialQueue(func(call func()) { call() })
	o.tasks = newSerialQueue(func(task func()) {
		o.mu.Lock()
		defer o.mu.Unlock()
		task()
	})

	return o
}

// Close ends the session, stops the runtime and waits until every queued
// event was delivered.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		_ = o.call(func() { o.endSession() })

		o.tasks.close()
		o.tasks.wait()
		o.cancelBase()
		o.speechCalls.close()
		o.speechCalls.wait()
		o.dispatch.close()
		o.dispatch.wait()
	})
}

// post queues task onto the runtime. Tasks posted after Close are dropped.
func (o *Orchestrator) post(task func()) bool {
	return o.tasks.push(task)
}

// call runs task on the runtime and waits for it to finish.
func (o *Orchestrator) call(task func()) error {
	done := make(chan struct{})
	if !o.post(func() {
		defer close(done)
		task()
	}) {
		return ErrClosed
	}
	<-done
	return nil
}

func (o *Orchestrator) emit(event events.Event) {
	o.dispatch.push(event)
}

func (o *Orchestrator) deliver(event events.Event) {
	logger.Debug("event", "group", event.Kind().Group(), "kind", string(event.Kind()), "seq", event.Sequence())
	o.emitCallback(event)
	for _, handler := range o.handlers {
		handler(event)
	}
}

func (o *Orchestrator) notify(level events.NotificationLevel, message string, err error) {
	o.emit(events.NewNotification(level, message, err))
}

func (o *Orchestrator) setStatus(status Status) {
	if o.state.status == status {
		return
	}
	o.state.status = status
	o.emit(events.NewStatusChanged(string(status)))
}

func (o *Orchestrator) setPrompt(prompt string) {
	if o.state.prompt == prompt {
		return
	}
	o.state.prompt = prompt
	o.emit(events.NewPromptChanged(prompt))
}

// ready returns the session to idle: nothing in flight, idle prompt shown.
func (o *Orchestrator) ready() {
	o.setStatus(StatusReady)
	o.setPrompt(PromptIdle)
}

// StartSession opens a session translating between the clinician language
// and target. It blocks until the first connection attempt finishes; a
// failed attempt is returned and retried in the background.
func (o *Orchestrator) StartSession(ctx context.Context, target language.Code) error {
	ctx, span := tracer.Start(ctx, "start session")
	defer span.End()

	var err error
	if callErr := o.call(func() { err = o.startSession(target) }); callErr != nil {
		return callErr
	}
	if err != nil {
		return err
	}

	if err := o.conn.Connect(ctx); err != nil {
		err = fmt.Errorf("failed to connect to server: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to connect to server")
		o.post(func() {
			if o.state.session.Active {
				o.notify(events.NotificationError, "Could not connect to server", err)
			}
		})
		return err
	}
	return nil
}

func (o *Orchestrator) startSession(target language.Code) error {
	if o.state.session.Active {
		return ErrSessionActive
	}
	if target == "" || target == o.clinician {
		return fmt.Errorf("%w: %s", ErrSameLanguage, target)
	}

	o.state.session = Session{ID: uuid.NewString(), Active: true}
	o.state.target = target
	o.state.side = language.SideLeft
	o.state.recording = Recording{}
	o.flow = interview.NewFlow()
	o.updateHandshake()

	logger.Info("session started", "session_id", o.state.session.ID, "direction", o.directionLocked().String())
	o.emit(events.NewDirectionChanged(o.state.side, o.directionLocked()))
	o.emit(events.NewSliderMoved(sidePosition(o.state.side)))
	o.state.status, o.state.prompt = StatusReady, PromptIdle
	o.emit(events.NewStatusChanged(string(StatusReady)))
	o.emit(events.NewPromptChanged(PromptIdle))
	return nil
}

// EndSession stops everything the session started: recording, heartbeat,
// reconnects, playback and timers. end_session is the last message sent.
func (o *Orchestrator) EndSession() {
	_ = o.call(func() { o.endSession() })
}

func (o *Orchestrator) endSession() {
	if !o.state.session.Active {
		return
	}
	id := o.state.session.ID
	o.state.session.Active = false

	o.cancelHold()
	o.recognizer.Cancel()
	o.abortRecording()
	o.cancelPlayback()
	if o.flow.Active() {
		o.stopInterview()
	}

	if err := o.conn.Close(protocol.NewEndSession(id)); err != nil {
		recordedErr := fmt.Errorf("failed to close session channel: %w", err)
		span := trace.SpanFromContext(o.baseContext)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		logger.Warn("failed to close session channel", "session_id", id, "error", err)
	}
	o.handshake.Store(nil)

	logger.Info("session ended", "session_id", id)
	o.ready()
}

// SnapTo commits the slider to side. It is ignored while recording.
func (o *Orchestrator) SnapTo(side language.Side) {
	_ = o.call(func() { o.snapTo(side) })
}

func (o *Orchestrator) snapTo(side language.Side) {
	if o.state.recording.Active {
		return
	}
	o.emit(events.NewSliderMoved(sidePosition(side)))
	if o.state.side == side {
		return
	}

	o.state.side = side
	o.updateHandshake()
	o.emit(events.NewDirectionChanged(side, o.directionLocked()))
}

func (o *Orchestrator) updateHandshake() {
	if !o.state.session.Active {
		return
	}
	start := protocol.NewStartSession(o.state.session.ID, o.directionLocked())
	o.handshake.Store(&start)
}

func (o *Orchestrator) connectionChanged(state connection.State) {
	connected := state == connection.StateConnected
	if o.state.connected == connected {
		return
	}
	o.state.connected = connected
	o.emit(events.NewConnectionChanged(connected))

	// A reply never arrives on a new channel.
	if !connected && o.state.session.Active && o.state.status == StatusTranslating {
		logger.Warn("connection dropped with a translation outstanding")
		o.notify(events.NotificationInfo, "Translation interrupted - try again", nil)
		o.ready()
	}
}

func (o *Orchestrator) connectionFailed(err error) {
	logger.Error("session channel failed", "error", err)
	if o.state.session.Active {
		o.notify(events.NotificationError, "Connection to server lost", err)
	}
}

func sidePosition(side language.Side) float64 {
	if side == language.SideRight {
		return 1
	}
	return 0
}
