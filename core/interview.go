package orchestration

import (
	"fmt"

	"github.com/koscakluka/medtranslate-core/core/events"
	"github.com/koscakluka/medtranslate-core/core/interview"
	"github.com/koscakluka/medtranslate-core/core/language"
)

// StartInterview asks questions one by one. Each question is spoken to the
// patient, the answer is recorded on the patient's side and stored instead
// of being spoken. The summary is reported once the last question was
// answered.
func (o *Orchestrator) StartInterview(questions []string) error {
	var err error
	if callErr := o.call(func() { err = o.startInterview(questions) }); callErr != nil {
		return callErr
	}
	return err
}

// StartPresetInterview starts the interview for a named specialty.
func (o *Orchestrator) StartPresetInterview(specialty string) error {
	questions, ok := interview.Preset(specialty)
	if !ok {
		return fmt.Errorf("unknown interview preset %q", specialty)
	}
	return o.StartInterview(questions)
}

func (o *Orchestrator) startInterview(questions []string) error {
	if !o.state.session.Active {
		return ErrNoSession
	}
	if o.state.recording.Active || o.state.status != StatusReady {
		return ErrNotReady
	}
	if err := o.flow.Start(questions); err != nil {
		return fmt.Errorf("failed to start interview: %w", err)
	}

	logger.Info("interview started", "questions", len(questions))
	o.emit(events.NewInterviewStarted(len(questions)))
	o.advanceInterview()
	return nil
}

// AdvanceInterview moves to the next question without waiting for an
// answer. The current step stays unanswered. It is refused with ErrNotReady
// while a translation is outstanding, since replies are matched to requests
// by order.
func (o *Orchestrator) AdvanceInterview() error {
	var err error
	if callErr := o.call(func() { err = o.skipQuestion() }); callErr != nil {
		return callErr
	}
	return err
}

func (o *Orchestrator) skipQuestion() error {
	if !o.flow.Active() {
		return nil
	}
	if o.state.status == StatusTranslating {
		o.notify(events.NotificationInfo, "Wait for the current translation to finish", ErrNotReady)
		return ErrNotReady
	}
	o.cancelPlayback()
	o.abortRecording()
	o.ready()
	o.advanceInterview()
	return nil
}

// SkipInterview ends the interview early and reports the summary so far.
func (o *Orchestrator) SkipInterview() {
	_ = o.call(func() {
		if !o.flow.Active() {
			return
		}
		o.cancelSettle()
		o.stopInterview()
	})
}

func (o *Orchestrator) advanceInterview() {
	question, ok, err := o.flow.Advance()
	if err != nil {
		return
	}
	if !ok {
		o.completeInterview(false)
		return
	}

	o.snapTo(language.SideLeft)
	o.emit(events.NewInterviewQuestionAsked(o.flow.StepIndex(), question))
	o.translate(question)
}

func (o *Orchestrator) stopInterview() {
	if err := o.flow.Stop(); err != nil {
		return
	}
	o.completeInterview(true)
}

func (o *Orchestrator) completeInterview(skipped bool) {
	summary := interview.Render(o.flow.Summary())
	logger.Info("interview finished", "steps", o.flow.Len(), "skipped", skipped)
	o.emit(events.NewInterviewCompleted(summary, skipped))
}
