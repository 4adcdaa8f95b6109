// Package interview sequences a scripted set of clinician questions and
// collects the patient's answer to each one.
package interview

import (
	"errors"
	"slices"

	"github.com/jinzhu/copier"
)

var (
	ErrNoQuestions    = errors.New("interview has no questions")
	ErrAlreadyRunning = errors.New("interview already running")
	ErrNotRunning     = errors.New("interview not running")
)

// NotStarted is the step index before the first Advance.
const NotStarted = -1

// Flow is the interview state machine: Idle -> Running(step) -> Idle.
//
// Flow is not safe for concurrent use.
type Flow struct {
	active    bool
	stepIndex int
	questions []string
	answers   []string
	answered  []bool
}

func NewFlow() *Flow {
	return &Flow{stepIndex: NotStarted}
}

// Start resets the flow to the given questions. The first question is
// obtained with Advance.
func (f *Flow) Start(questions []string) error {
	if f.active {
		return ErrAlreadyRunning
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	f.active = true
	f.stepIndex = NotStarted
	f.questions = slices.Clone(questions)
	f.answers = make([]string, len(questions))
	f.answered = make([]bool, len(questions))
	return nil
}

// Advance moves to the next step and returns its question. Reaching the end
// of the question set ends the flow and returns ok=false.
func (f *Flow) Advance() (question string, ok bool, err error) {
	if !f.active {
		return "", false, ErrNotRunning
	}

	f.stepIndex++
	if f.stepIndex >= len(f.questions) {
		f.stepIndex = len(f.questions)
		f.active = false
		return "", false, nil
	}
	return f.questions[f.stepIndex], true, nil
}

// Capture stores the answer for the current step, replacing any earlier
// answer for it.
func (f *Flow) Capture(answer string) bool {
	if !f.active || f.stepIndex < 0 || f.stepIndex >= len(f.questions) {
		return false
	}

	f.answers[f.stepIndex] = answer
	f.answered[f.stepIndex] = true
	return true
}

// Stop ends the flow early. Steps never reached stay unanswered.
func (f *Flow) Stop() error {
	if !f.active {
		return ErrNotRunning
	}
	f.active = false
	return nil
}

func (f *Flow) Active() bool   { return f.active }
func (f *Flow) StepIndex() int { return f.stepIndex }
func (f *Flow) Len() int       { return len(f.questions) }

// Current returns the question of the current step.
func (f *Flow) Current() (string, bool) {
	if f.stepIndex < 0 || f.stepIndex >= len(f.questions) {
		return "", false
	}
	return f.questions[f.stepIndex], true
}

type State struct {
	Active    bool
	StepIndex int
	Questions []string
	Answers   []string
	Answered  []bool
}

// State returns a deep copy of the flow. Callers may modify it freely.
func (f *Flow) State() State {
	current := State{
		Active:    f.active,
		StepIndex: f.stepIndex,
		Questions: f.questions,
		Answers:   f.answers,
		Answered:  f.answered,
	}

	var state State
	// Copying between identical types cannot fail.
	_ = copier.CopyWithOption(&state, &current, copier.Option{DeepCopy: true})
	return state
}

type Entry struct {
	Question string
	Answer   string
	Answered bool
}

type Summary struct {
	Entries []Entry
	// Completed is false when the flow was stopped before the last step.
	Completed bool
}

// Summary lists every question in order, answered or not.
func (f *Flow) Summary() Summary {
	summary := Summary{
		Entries:   make([]Entry, len(f.questions)),
		Completed: f.stepIndex >= len(f.questions),
	}
	for i, question := range f.questions {
		summary.Entries[i] = Entry{Question: question, Answer: f.answers[i], Answered: f.answered[i]}
	}
	return summary
}
