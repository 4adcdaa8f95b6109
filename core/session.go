package orchestration

import (
	"time"

	"github.com/koscakluka/medtranslate-core/core/interview"
	"github.com/koscakluka/medtranslate-core/core/language"
)

type Status string

const (
	StatusReady       Status = "ready"
	StatusListening   Status = "listening"
	StatusTranslating Status = "translating"
	StatusSpeaking    Status = "speaking"
)

const (
	PromptIdle      = "Slide mic & hold to speak"
	PromptListening = "Listening..."
	PromptNoSpeech  = "No speech detected - try again"
)

type Session struct {
	ID     string
	Active bool
}

// Recording is the capture state. Accumulated carries over between the
// recordings of one session.
type Recording struct {
	Active           bool
	StartedAt        time.Time
	Accumulated      time.Duration
	LatestTranscript string
}

// Elapsed is the session recording time at now.
func (r Recording) Elapsed(now time.Time) time.Duration {
	if !r.Active {
		return r.Accumulated
	}
	return r.Accumulated + now.Sub(r.StartedAt)
}

// State is a point-in-time copy of the orchestrator's session state.
type State struct {
	Session   Session
	Clinician language.Code
	Target    language.Code
	Side      language.Side
	Direction language.Direction
	Status    Status
	Prompt    string
	Connected bool

	ReconnectAttempts int

	Recording Recording
	Interview interview.State
}

// sessionState is owned by the runtime goroutine.
type sessionState struct {
	session   Session
	target    language.Code
	side      language.Side
	status    Status
	prompt    string
	connected bool
	recording Recording
}

// Snapshot returns a copy of the current state that shares nothing with the
// orchestrator.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	state := State{
		Session:   o.state.session,
		Clinician: o.clinician,
		Target:    o.state.target,
		Side:      o.state.side,
		Direction: o.directionLocked(),
		Status:    o.state.status,
		Prompt:    o.state.prompt,
		Connected: o.state.connected,
		Recording: o.state.recording,
		Interview: o.flow.State(),
	}
	o.mu.Unlock()

	state.ReconnectAttempts = o.conn.ReconnectAttempts()
	return state
}

func (o *Orchestrator) directionLocked() language.Direction {
	return language.DirectionFor(o.state.side, o.clinician, o.state.target)
}
