package orchestration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/koscakluka/medtranslate-core/core/audio"
	"github.com/koscakluka/medtranslate-core/core/connection"
	"github.com/koscakluka/medtranslate-core/core/events"
	"github.com/koscakluka/medtranslate-core/core/language"
	"github.com/koscakluka/medtranslate-core/core/speechtotext"
	"github.com/koscakluka/medtranslate-core/core/texttospeech"
)

const (
	DefaultServerURL   = "ws://localhost:8080/ws"
	DefaultSettleDelay = 500 * time.Millisecond

	elapsedInterval = 250 * time.Millisecond
)

type OrchestratorOption func(*Orchestrator)

// SpeechSource captures one utterance per Transcribe call and reports it
// through the callbacks in the transcription options.
type SpeechSource interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	StopTranscribing() error
}

// AudioSynthesizer turns text into audio that is played through the
// configured audio.Player.
type AudioSynthesizer interface {
	Synthesize(ctx context.Context, text string, opts ...texttospeech.SpeakOption) (audio.Clip, error)
}

// SpeechSynthesizer speaks text itself and returns once it is done.
type SpeechSynthesizer interface {
	Speak(ctx context.Context, text string, opts ...texttospeech.SpeakOption) error
}

// TapPolicy decides what a short press without a drag does.
type TapPolicy int

const (
	TapStartsRecording TapPolicy = iota
	TapRejected
)

func (p TapPolicy) String() string {
	if p == TapRejected {
		return "reject"
	}
	return "record"
}

func ParseTapPolicy(s string) (TapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "record":
		return TapStartsRecording, nil
	case "reject":
		return TapRejected, nil
	}
	return 0, fmt.Errorf("unknown tap policy %q", s)
}

// WithTransport sets the dialer and server URL of the session channel. The
// default dials url over gorilla/websocket.
func WithTransport(dialer connection.Dialer, url string) OrchestratorOption {
	return func(o *Orchestrator) {
		o.dialer = dialer
		o.serverURL = url
	}
}

func WithServerURL(url string) OrchestratorOption {
	return func(o *Orchestrator) { o.serverURL = url }
}

func WithHeartbeatInterval(interval time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.connectionOptions = append(o.connectionOptions, connection.WithHeartbeatInterval(interval))
	}
}

func WithConnectTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.connectionOptions = append(o.connectionOptions, connection.WithConnectTimeout(timeout))
	}
}

func WithReconnectBackoff(base, max time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.connectionOptions = append(o.connectionOptions, connection.WithReconnectBackoff(base, max))
	}
}

// WithMaxReconnectAttempts limits reconnects after a drop. Zero retries
// forever.
func WithMaxReconnectAttempts(attempts int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.connectionOptions = append(o.connectionOptions, connection.WithMaxReconnectAttempts(attempts))
	}
}

// WithSettleDelay is the pause between a spoken interview question and the
// automatic start of the patient's answer recording.
func WithSettleDelay(delay time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if delay >= 0 {
			o.settleDelay = delay
		}
	}
}

func WithHoldThreshold(threshold time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if threshold > 0 {
			o.gestureOptions.HoldThreshold = threshold
		}
	}
}

func WithDragThreshold(threshold float64) OrchestratorOption {
	return func(o *Orchestrator) {
		if threshold > 0 {
			o.gestureOptions.DragThreshold = threshold
		}
	}
}

// WithSnapZone sets the fraction of the track at each edge that commits a
// snap to that edge.
func WithSnapZone(zone float64) OrchestratorOption {
	return func(o *Orchestrator) {
		if zone > 0 && zone <= 0.5 {
			o.gestureOptions.SnapZone = zone
		}
	}
}

// WithTrackWidth sets the slider width in pointer units. The thumb and
// padding keep their default size.
func WithTrackWidth(width float64) OrchestratorOption {
	return func(o *Orchestrator) {
		if width > 0 {
			o.gestureOptions.Track.Width = width
		}
	}
}

func WithTapPolicy(policy TapPolicy) OrchestratorOption {
	return func(o *Orchestrator) { o.tapPolicy = policy }
}

func WithClinicianLanguage(code language.Code) OrchestratorOption {
	return func(o *Orchestrator) { o.clinician = code }
}

func WithCatalog(catalog language.Catalog) OrchestratorOption {
	return func(o *Orchestrator) { o.catalog = catalog }
}

func WithSpeechSource(source SpeechSource) OrchestratorOption {
	return func(o *Orchestrator) { o.speechSource = source }
}

// WithStreamedVoice makes synthesizer the primary provider for languages.
// Without languages it becomes the provider for every language that has no
// other streamed voice. Its audio is played through the audio player.
func WithStreamedVoice(name string, synthesizer AudioSynthesizer, languages ...language.Code) OrchestratorOption {
	return func(o *Orchestrator) {
		voice := &streamedVoice{name: name, synthesizer: synthesizer}
		if len(languages) == 0 {
			o.defaultVoice = voice
			return
		}
		for _, code := range languages {
			o.voices[code] = voice
		}
	}
}

func WithAudioPlayer(player audio.Player) OrchestratorOption {
	return func(o *Orchestrator) { o.player = player }
}

// WithSystemSynthesizer sets the platform synthesizer. It speaks languages
// without a streamed voice and is the fallback when a streamed voice fails.
func WithSystemSynthesizer(synthesizer SpeechSynthesizer) OrchestratorOption {
	return func(o *Orchestrator) { o.system = synthesizer }
}

func WithSpeechRate(rate float64) OrchestratorOption {
	return func(o *Orchestrator) {
		if rate > 0 {
			o.speechRate = rate
		}
	}
}

// WithEventHandler registers a handler that receives every event. Handlers
// run on a dedicated goroutine in emission order and may call back into the
// orchestrator.
func WithEventHandler(handler func(events.Event)) OrchestratorOption {
	return func(o *Orchestrator) {
		if handler != nil {
			o.handlers = append(o.handlers, handler)
		}
	}
}

type callbacks struct {
	onStatusChanged      func(status Status)
	onDirectionChanged   func(side language.Side, direction language.Direction)
	onPromptChanged      func(prompt string)
	onConnectionChanged  func(connected bool)
	onNotification       func(level events.NotificationLevel, message string)
	onInterimTranscript  func(transcript string)
	onTranscript         func(transcript string)
	onTranslation        func(text string)
	onAnswerCaptured     func(stepIndex int, answer string)
	onRecordingElapsed   func(elapsed time.Duration)
	onInterviewCompleted func(summary string)
}

func WithStatusCallback(callback func(status Status)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onStatusChanged = callback }
}

func WithDirectionCallback(callback func(side language.Side, direction language.Direction)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onDirectionChanged = callback }
}

func WithPromptCallback(callback func(prompt string)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onPromptChanged = callback }
}

func WithConnectionCallback(callback func(connected bool)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onConnectionChanged = callback }
}

// WithNotificationCallback registers a callback for messages meant to be
// shown to the user, such as a denied microphone or a server error.
func WithNotificationCallback(callback func(level events.NotificationLevel, message string)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onNotification = callback }
}

// WithInterimTranscriptionCallback registers a callback for the latest
// interim transcript. Each call replaces the previous one.
func WithInterimTranscriptionCallback(callback func(transcript string)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onInterimTranscript = callback }
}

// WithTranscriptionCallback registers a callback for transcripts that were
// long enough to be sent for translation.
func WithTranscriptionCallback(callback func(transcript string)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onTranscript = callback }
}

func WithTranslationCallback(callback func(text string)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onTranslation = callback }
}

func WithAnswerCapturedCallback(callback func(stepIndex int, answer string)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onAnswerCaptured = callback }
}

func WithRecordingElapsedCallback(callback func(elapsed time.Duration)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onRecordingElapsed = callback }
}

func WithInterviewCompletedCallback(callback func(summary string)) OrchestratorOption {
	return func(o *Orchestrator) { o.callbacks.onInterviewCompleted = callback }
}

type streamedVoice struct {
	name        string
	synthesizer AudioSynthesizer
}
