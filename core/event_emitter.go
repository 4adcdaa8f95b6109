package orchestration

import events "github.com/koscakluka/medtranslate-core/core/events"

type eventEmitter func(events.Event)

func newCallbackEventEmitter(opts callbacks) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.StatusChanged:
			if opts.onStatusChanged != nil {
				opts.onStatusChanged(Status(typedEvent.Status))
			}
		case events.DirectionChanged:
			if opts.onDirectionChanged != nil {
				opts.onDirectionChanged(typedEvent.Side, typedEvent.Direction)
			}
		case events.PromptChanged:
			if opts.onPromptChanged != nil {
				opts.onPromptChanged(typedEvent.Prompt)
			}
		case events.ConnectionChanged:
			if opts.onConnectionChanged != nil {
				opts.onConnectionChanged(typedEvent.Connected)
			}
		case events.Notification:
			if opts.onNotification != nil {
				opts.onNotification(typedEvent.Level, typedEvent.Message)
			}
		case events.TranscriptInterimUpdated:
			if opts.onInterimTranscript != nil {
				opts.onInterimTranscript(typedEvent.Transcript)
			}
		case events.TranscriptFinal:
			if opts.onTranscript != nil {
				opts.onTranscript(typedEvent.Transcript)
			}
		case events.TranslationReceived:
			if opts.onTranslation != nil {
				opts.onTranslation(typedEvent.Text)
			}
		case events.AnswerCaptured:
			if opts.onAnswerCaptured != nil {
				opts.onAnswerCaptured(typedEvent.StepIndex, typedEvent.Answer)
			}
		case events.RecordingElapsed:
			if opts.onRecordingElapsed != nil {
				opts.onRecordingElapsed(typedEvent.Elapsed)
			}
		case events.InterviewCompleted:
			if opts.onInterviewCompleted != nil {
				opts.onInterviewCompleted(typedEvent.Summary)
			}
		}
	}
}
