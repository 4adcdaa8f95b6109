package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/koscakluka/medtranslate-core/core/events"
	"github.com/koscakluka/medtranslate-core/core/language"
	"github.com/koscakluka/medtranslate-core/core/texttospeech"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const systemProvider = "system"

// speak plays text in lang through the primary provider for lang, falling
// back to the system synthesizer when a streamed voice fails. Both paths end
// in playbackEnded.
func (o *Orchestrator) speak(text string, lang language.Code) {
	o.cancelPlayback()
	o.playback++
	pass := o.playback

	ctx, cancel := context.WithCancel(o.baseContext)
	o.stopPlayback = cancel
	o.setStatus(StatusSpeaking)

	locale := o.catalog.SpeechCode(lang)
	voice := o.voiceFor(lang)
	opts := []texttospeech.SpeakOption{
		texttospeech.WithLanguage(locale),
		texttospeech.WithRate(o.speechRate),
	}

	go func() {
		defer cancel()

		ctx, span := tracer.Start(ctx, "speak translation")
		defer span.End()
		span.SetAttributes(attribute.String("speech.language", locale))

		if voice != nil {
			o.post(func() { o.playbackStarted(pass, voice.name, locale, text) })
			err := o.playStreamed(ctx, voice, text, opts)
			if err == nil || ctx.Err() != nil {
				o.post(func() { o.playbackEnded(pass, voice.name, err) })
				return
			}

			span.RecordError(err)
			logger.Warn("streamed voice failed, falling back to system speech", "voice", voice.name, "language", locale, "error", err)
			o.post(func() {
				if pass == o.playback {
					o.emit(events.NewPlaybackEnded(voice.name, err))
				}
			})
		}

		o.post(func() { o.playbackStarted(pass, systemProvider, locale, text) })
		err := o.speakSystem(ctx, text, opts)
		if err != nil && ctx.Err() == nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "system speech failed")
			logger.Error("system speech failed", "language", locale, "error", err)
		}
		o.post(func() { o.playbackEnded(pass, systemProvider, err) })
	}()
}

func (o *Orchestrator) voiceFor(lang language.Code) *streamedVoice {
	if voice, ok := o.voices[lang]; ok {
		return voice
	}
	return o.defaultVoice
}

func (o *Orchestrator) playStreamed(ctx context.Context, voice *streamedVoice, text string, opts []texttospeech.SpeakOption) error {
	if o.player == nil {
		return fmt.Errorf("%w: no audio player", texttospeech.ErrPlaybackBlocked)
	}

	clip, err := voice.synthesizer.Synthesize(ctx, text, opts...)
	if err != nil {
		return fmt.Errorf("failed to synthesize speech: %w", err)
	}
	if err := o.player.Play(ctx, clip); err != nil {
		return fmt.Errorf("%w: %w", texttospeech.ErrPlaybackBlocked, err)
	}
	return nil
}

func (o *Orchestrator) speakSystem(ctx context.Context, text string, opts []texttospeech.SpeakOption) error {
	if o.system == nil {
		return fmt.Errorf("%w: no system synthesizer", texttospeech.ErrPlaybackBlocked)
	}
	if err := o.system.Speak(ctx, text, opts...); err != nil {
		return fmt.Errorf("failed to speak: %w", err)
	}
	return nil
}

func (o *Orchestrator) playbackStarted(pass uint64, provider, locale, text string) {
	if pass != o.playback {
		return
	}
	o.emit(events.NewPlaybackStarted(provider, language.Code(locale), text))
}

// playbackEnded is the one continuation after speech, whichever provider
// spoke.
func (o *Orchestrator) playbackEnded(pass uint64, provider string, err error) {
	if pass != o.playback {
		return
	}
	o.stopPlayback = nil
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	o.emit(events.NewPlaybackEnded(provider, err))
	if !o.state.session.Active {
		return
	}

	o.ready()
	if o.flow.Active() && o.state.side == language.SideLeft {
		o.scheduleAnswerRecording()
	}
}

// scheduleAnswerRecording flips to the patient's side and starts recording
// the answer once the question has settled.
func (o *Orchestrator) scheduleAnswerRecording() {
	o.cancelSettle()
	step := o.flow.StepIndex()
	o.settleTimer = time.AfterFunc(o.settleDelay, func() {
		o.post(func() {
			o.settleTimer = nil
			if !o.state.session.Active || !o.flow.Active() || o.flow.StepIndex() != step {
				return
			}
			if o.state.status != StatusReady || o.state.recording.Active {
				return
			}
			o.snapTo(language.SideRight)
			o.startRecording()
		})
	})
}

func (o *Orchestrator) cancelSettle() {
	if o.settleTimer != nil {
		o.settleTimer.Stop()
		o.settleTimer = nil
	}
}

func (o *Orchestrator) cancelPlayback() {
	o.playback++
	o.cancelSettle()
	if o.stopPlayback != nil {
		o.stopPlayback()
		o.stopPlayback = nil
	}
}
