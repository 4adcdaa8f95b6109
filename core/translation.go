package orchestration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/koscakluka/medtranslate-core/core/connection"
	"github.com/koscakluka/medtranslate-core/core/events"
	"github.com/koscakluka/medtranslate-core/core/language"
	"github.com/koscakluka/medtranslate-core/core/protocol"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SendPhrase translates text in the current direction as if it had been
// spoken.
func (o *Orchestrator) SendPhrase(text string) error {
	var err error
	if callErr := o.call(func() { err = o.sendPhrase(text) }); callErr != nil {
		return callErr
	}
	return err
}

func (o *Orchestrator) sendPhrase(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if !o.state.session.Active {
		return ErrNoSession
	}
	if o.state.status != StatusReady || o.state.recording.Active {
		o.notify(events.NotificationInfo, "Wait for the current translation to finish", ErrNotReady)
		return ErrNotReady
	}
	o.translate(text)
	return nil
}

// translate sends text for translation. Responses are matched to requests
// by order alone: a new request is only issued once the previous one was
// spoken or captured.
func (o *Orchestrator) translate(text string) {
	_, span := tracer.Start(o.baseContext, "translate")
	defer span.End()

	direction := o.directionLocked()
	span.SetAttributes(
		attribute.String("translation.from", direction.From.String()),
		attribute.String("translation.to", direction.To.String()),
	)
	o.emit(events.NewTranslationRequested(text, direction))

	err := o.conn.Send(protocol.NewTranslate(text, direction, o.state.session.ID))
	if err == nil {
		o.setStatus(StatusTranslating)
		return
	}

	err = fmt.Errorf("failed to send translation request: %w", err)
	span.RecordError(err)
	span.SetStatus(codes.Error, "failed to send translation request")
	if errors.Is(err, connection.ErrNotConnected) {
		o.notify(events.NotificationError, "Not connected to server", err)
	} else {
		logger.Error("failed to send translation request", "error", err)
		o.notify(events.NotificationError, "Could not send translation", err)
	}
	o.ready()
}

func (o *Orchestrator) handleMessage(msg protocol.Message) {
	switch msg := msg.(type) {
	case protocol.Translation:
		o.translationReceived(msg)
	case protocol.Error:
		if !o.state.session.Active {
			return
		}
		logger.Warn("server reported an error", "message", msg.Message)
		o.notify(events.NotificationError, msg.Message, errors.New(msg.Message))
		if !o.state.recording.Active {
			o.ready()
		}
	case protocol.SessionStarted:
		logger.Info("server acknowledged session", "session_id", msg.SessionID)
	case protocol.SessionEnded:
		logger.Info("server ended session")
	}
}

func (o *Orchestrator) translationReceived(msg protocol.Translation) {
	if !o.state.session.Active {
		return
	}
	if o.state.status != StatusTranslating {
		logger.Warn("dropping translation with no request outstanding", "status", string(o.state.status))
		return
	}
	o.emit(events.NewTranslationReceived(msg.Text, msg.Original))

	direction := o.directionLocked()
	if o.capturesAnswer(direction) {
		step := o.flow.StepIndex()
		if o.flow.Capture(msg.Text) {
			o.emit(events.NewAnswerCaptured(step, msg.Text))
		}
		o.ready()
		o.advanceInterview()
		return
	}

	o.speak(msg.Text, direction.To)
}

// capturesAnswer reports whether a translation is the patient's answer to
// the current interview question. Answers are read by the clinician and are
// never spoken.
func (o *Orchestrator) capturesAnswer(direction language.Direction) bool {
	return o.flow.Active() && o.state.side == language.SideRight && direction.To == o.clinician
}
