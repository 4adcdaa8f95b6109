package orchestration

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/koscakluka/medtranslate-core/core/events"
	"github.com/koscakluka/medtranslate-core/core/speechtotext"
)

// minTranscriptLength is the shortest transcript worth translating. Shorter
// results are treated as noise.
const minTranscriptLength = 2

// StartRecording starts capturing speech in the current direction, as a
// hold on the slider would.
func (o *Orchestrator) StartRecording() {
	_ = o.call(func() { o.startRecording() })
}

// StopRecording ends the capture. The transcript heard so far is translated
// once the speech source finishes.
func (o *Orchestrator) StopRecording() {
	_ = o.call(func() { o.stopRecording() })
}

func (o *Orchestrator) startRecording() {
	if !o.state.session.Active || o.state.recording.Active {
		return
	}
	if o.state.status != StatusReady {
		o.notify(events.NotificationInfo, "Wait for the current translation to finish", ErrNotReady)
		return
	}
	if o.speechSource == nil {
		o.notify(events.NotificationError, speechtotext.UserMessage(speechtotext.ErrUnsupported), speechtotext.ErrUnsupported)
		return
	}

	o.cancelSettle()
	o.state.recording.Active = true
	o.state.recording.StartedAt = time.Now()
	o.state.recording.LatestTranscript = ""

	direction := o.directionLocked()
	o.setStatus(StatusListening)
	o.setPrompt(PromptListening)
	o.emit(events.NewRecordingStarted(direction))
	o.startElapsedTicker()
	o.startRecognition()
}

// startRecognition starts one recognition pass. A recording can span
// several passes when the speaker pauses before saying anything.
func (o *Orchestrator) startRecognition() {
	o.recognition++
	pass := o.recognition
	source := o.speechSource
	ctx := o.baseContext
	locale := o.catalog.SpeechCode(o.directionLocked().From)

	o.speechCalls.push(func() {
		err := source.Transcribe(ctx,
			speechtotext.WithLanguage(locale),
			speechtotext.WithInterimTranscriptionCallback(func(transcript string) {
				o.post(func() { o.transcriptUpdated(pass, transcript) })
			}),
			speechtotext.WithTranscriptionCallback(func(transcript string) {
				o.post(func() { o.transcriptUpdated(pass, transcript) })
			}),
			speechtotext.WithErrorCallback(func(err error) {
				o.post(func() { o.recognitionFailed(pass, err) })
			}),
			speechtotext.WithEndedCallback(func() {
				o.post(func() { o.recognitionEnded(pass) })
			}),
		)
		if err != nil {
			o.post(func() { o.recognitionFailed(pass, err) })
		}
	})
}

func (o *Orchestrator) transcriptUpdated(pass uint64, transcript string) {
	if pass != o.recognition {
		return
	}
	o.state.recording.LatestTranscript = transcript
	o.emit(events.NewTranscriptInterimUpdated(transcript))
}

func (o *Orchestrator) recognitionFailed(pass uint64, err error) {
	if pass != o.recognition {
		return
	}
	switch {
	case errors.Is(err, speechtotext.ErrNoSpeech):
		logger.Debug("no speech yet", "error", err)
		return
	case errors.Is(err, speechtotext.ErrAborted):
		logger.Debug("recognition aborted", "error", err)
		return
	}

	logger.Warn("speech recognition failed", "error", err)
	o.abortRecording()
	o.notify(events.NotificationError, speechtotext.UserMessage(err), err)
	o.ready()
}

func (o *Orchestrator) recognitionEnded(pass uint64) {
	if pass != o.recognition || !o.state.session.Active {
		return
	}

	transcript := strings.TrimSpace(o.state.recording.LatestTranscript)
	tooShort := utf8.RuneCountInString(transcript) < minTranscriptLength
	if tooShort && o.state.recording.Active {
		logger.Debug("speech ended without a transcript, listening again")
		o.startRecognition()
		return
	}

	// Ignore anything the finished pass might still deliver.
	o.recognition++
	o.finishRecording()
	if tooShort {
		o.setStatus(StatusReady)
		o.setPrompt(PromptNoSpeech)
		return
	}

	o.emit(events.NewTranscriptFinal(transcript))
	o.translate(transcript)
}

// stopRecording closes the capture; recognitionEnded decides what happens
// to the transcript.
func (o *Orchestrator) stopRecording() {
	if !o.state.recording.Active {
		return
	}
	o.finishRecording()

	source := o.speechSource
	o.speechCalls.push(func() {
		if err := source.StopTranscribing(); err != nil {
			logger.Warn("failed to stop speech recognition", "error", err)
		}
	})
}

// abortRecording drops the recording and its transcript.
func (o *Orchestrator) abortRecording() {
	wasActive := o.state.recording.Active
	o.recognition++
	o.finishRecording()
	if !wasActive || o.speechSource == nil {
		return
	}

	source := o.speechSource
	o.speechCalls.push(func() {
		if err := source.StopTranscribing(); err != nil {
			logger.Warn("failed to stop speech recognition", "error", err)
		}
	})
}

func (o *Orchestrator) finishRecording() {
	if !o.state.recording.Active {
		return
	}
	o.stopElapsedTicker()
	o.state.recording.Accumulated = o.state.recording.Elapsed(time.Now())
	o.state.recording.Active = false
	o.emit(events.NewRecordingStopped())
}

func (o *Orchestrator) startElapsedTicker() {
	o.stopElapsedTicker()
	stop := make(chan struct{})
	o.elapsedStop = stop

	go func() {
		ticker := time.NewTicker(elapsedInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				o.post(func() {
					if o.elapsedStop == stop {
						o.emit(events.NewRecordingElapsed(o.state.recording.Elapsed(now)))
					}
				})
			}
		}
	}()
}

func (o *Orchestrator) stopElapsedTicker() {
	if o.elapsedStop != nil {
		close(o.elapsedStop)
		o.elapsedStop = nil
	}
}
