package interview

import (
	"errors"
	"strings"
	"testing"
)

func TestFlowAdvancesOneStepAtATimeAndTerminatesAtEnd(t *testing.T) {
	flow := NewFlow()
	questions := []string{"q1", "q2", "q3"}

	if err := flow.Start(questions); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	if flow.StepIndex() != NotStarted {
		t.Fatalf("expected step index %d before advancing, got %d", NotStarted, flow.StepIndex())
	}

	for i, want := range questions {
		previous := flow.StepIndex()
		question, ok, err := flow.Advance()
		if err != nil || !ok {
			t.Fatalf("step %d: expected a question, got ok=%v err=%v", i, ok, err)
		}
		if question != want {
			t.Fatalf("step %d: expected %q, got %q", i, want, question)
		}
		if flow.StepIndex() != previous+1 {
			t.Fatalf("expected step index to increase by one, got %d -> %d", previous, flow.StepIndex())
		}
		if !flow.Active() {
			t.Fatalf("expected flow to stay active before the end")
		}
	}

	if _, ok, err := flow.Advance(); ok || err != nil {
		t.Fatalf("expected the final advance to end the flow, got ok=%v err=%v", ok, err)
	}
	if flow.Active() || flow.StepIndex() != len(questions) {
		t.Fatalf("expected idle flow at step %d, got active=%v step=%d", len(questions), flow.Active(), flow.StepIndex())
	}
	if _, _, err := flow.Advance(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected advance on an idle flow to fail, got %v", err)
	}
}

func TestFlowCaptureOverwritesCurrentStep(t *testing.T) {
	flow := NewFlow()
	_ = flow.Start([]string{"q1", "q2"})

	if flow.Capture("too early") {
		t.Fatalf("expected capture before the first question to be rejected")
	}

	flow.Advance()
	flow.Capture("first")
	flow.Capture("second")

	state := flow.State()
	if state.Answers[0] != "second" || !state.Answered[0] {
		t.Fatalf("expected the second capture to replace the first, got %+v", state)
	}
	if len(state.Answers) != 2 {
		t.Fatalf("expected answers to stay indexed by step, got %d", len(state.Answers))
	}
}

func TestSummaryKeepsUnansweredSteps(t *testing.T) {
	flow := NewFlow()
	_ = flow.Start([]string{"q1", "q2", "q3"})

	flow.Advance()
	flow.Capture("a1")
	flow.Advance() // never answered
	flow.Advance()
	flow.Capture("a3")
	flow.Advance()

	summary := flow.Summary()
	if !summary.Completed {
		t.Fatalf("expected completed summary")
	}
	if len(summary.Entries) != 3 {
		t.Fatalf("expected every question in the summary, got %d", len(summary.Entries))
	}
	if summary.Entries[1].Answered || summary.Entries[1].Answer != "" {
		t.Fatalf("expected second entry to be blank, got %+v", summary.Entries[1])
	}

	rendered := Render(summary)
	if !strings.Contains(rendered, "2. q2\n   Answer: \n") {
		t.Fatalf("expected blank answer line for q2, got:\n%s", rendered)
	}
	if strings.Contains(rendered, "ended early") {
		t.Fatalf("expected no early-end marker, got:\n%s", rendered)
	}
}

func TestStopEndsEarly(t *testing.T) {
	flow := NewFlow()
	_ = flow.Start([]string{"q1", "q2"})
	flow.Advance()

	if err := flow.Stop(); err != nil {
		t.Fatalf("expected stop to succeed, got %v", err)
	}
	if flow.Active() {
		t.Fatalf("expected flow to be idle after stop")
	}
	if flow.Capture("late") {
		t.Fatalf("expected capture after stop to be rejected")
	}

	summary := flow.Summary()
	if summary.Completed {
		t.Fatalf("expected stopped flow summary to be incomplete")
	}
	if !strings.Contains(Render(summary), "ended early") {
		t.Fatalf("expected early-end marker")
	}
}

func TestStateIsIndependentOfFlow(t *testing.T) {
	flow := NewFlow()
	if err := flow.Start([]string{"q1", "q2"}); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	if _, _, err := flow.Advance(); err != nil {
		t.Fatalf("expected advance to succeed, got %v", err)
	}
	flow.Capture("a1")

	state := flow.State()
	if !state.Active || state.StepIndex != 0 || state.Answers[0] != "a1" || !state.Answered[0] {
		t.Fatalf("unexpected state %+v", state)
	}
	state.Questions[0] = "changed"
	state.Answers[0] = "changed"
	state.Answered[1] = true

	again := flow.State()
	if again.Questions[0] != "q1" || again.Answers[0] != "a1" || again.Answered[1] {
		t.Fatalf("expected flow to be unaffected by edits to a copy, got %+v", again)
	}
}

func TestStartValidation(t *testing.T) {
	flow := NewFlow()
	if err := flow.Start(nil); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}

	_ = flow.Start([]string{"q1"})
	if err := flow.Start([]string{"q2"}); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		questions, ok := Preset(name)
		if !ok || len(questions) == 0 {
			t.Fatalf("expected preset %q to have questions", name)
		}
	}
	if _, ok := Preset("dermatology"); ok {
		t.Fatalf("expected unknown preset to be missing")
	}
}
