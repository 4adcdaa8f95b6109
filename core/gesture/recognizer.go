package gesture

import (
	"time"

	"github.com/koscakluka/medtranslate-core/core/language"
)

type IntentKind int

const (
	IntentNone IntentKind = iota
	// IntentDrag reports the thumb tracking the pointer; not terminal.
	IntentDrag
	IntentTap
	IntentStartRecording
	IntentStopRecording
	IntentSnapTo
)

func (k IntentKind) String() string {
	switch k {
	case IntentDrag:
		return "drag"
	case IntentTap:
		return "tap"
	case IntentStartRecording:
		return "start_recording"
	case IntentStopRecording:
		return "stop_recording"
	case IntentSnapTo:
		return "snap_to"
	}
	return "none"
}

type Intent struct {
	Kind     IntentKind
	Side     language.Side
	Position float64
}

// State is what the recognizer needs to know about the control it drives.
type State struct {
	Recording bool
	Side      language.Side
}

// Recognizer tracks a single interaction at a time. It is not safe for
// concurrent use; the orchestrator drives it from its runtime.
type Recognizer struct {
	opts Options

	samples     []Sample
	tracking    bool
	holdEmitted bool
	dragging    bool
}

func NewRecognizer(opts Options) *Recognizer {
	return &Recognizer{opts: opts}
}

func (r *Recognizer) Options() Options { return r.opts }

// Tracking reports whether an interaction is in progress.
func (r *Recognizer) Tracking() bool { return r.tracking }

// Dragging reports whether the interaction in progress became a drag. The
// hold timer must be cancelled once this turns true.
func (r *Recognizer) Dragging() bool { return r.dragging }

// Down starts an interaction. While recording it is a no-op: the only
// transition available then is the stop on release. It reports whether the
// caller should arm the hold timer.
func (r *Recognizer) Down(x float64, at time.Duration, state State) (armHold bool) {
	if state.Recording {
		return false
	}

	r.reset()
	r.tracking = true
	r.samples = append(r.samples, Sample{Phase: PhaseDown, X: x, At: at})
	return true
}

func (r *Recognizer) Move(x float64, at time.Duration, state State) Intent {
	if !r.tracking || r.holdEmitted {
		return Intent{}
	}

	r.samples = append(r.samples, Sample{Phase: PhaseMove, X: x, At: at})
	c := Classify(r.samples, state.Side, r.opts)
	if c.Kind == KindDrag {
		r.dragging = true
		return Intent{Kind: IntentDrag, Position: c.Position}
	}
	return Intent{}
}

// Hold is called when the hold timer fires.
func (r *Recognizer) Hold(at time.Duration, state State) Intent {
	if !r.tracking || r.holdEmitted || r.dragging {
		return Intent{}
	}

	r.samples = append(r.samples, Sample{Phase: PhaseTick, At: at})
	if Classify(r.samples, state.Side, r.opts).Kind != KindHold {
		return Intent{}
	}

	r.holdEmitted = true
	if state.Recording {
		return Intent{}
	}
	return Intent{Kind: IntentStartRecording}
}

// Up ends the interaction and returns its terminal intent.
func (r *Recognizer) Up(x float64, at time.Duration, state State) Intent {
	defer r.reset()

	if state.Recording {
		return Intent{Kind: IntentStopRecording}
	}
	if !r.tracking {
		return Intent{}
	}

	r.samples = append(r.samples, Sample{Phase: PhaseUp, X: x, At: at})
	c := Classify(r.samples, state.Side, r.opts)
	switch c.Kind {
	case KindTap:
		return Intent{Kind: IntentTap}
	case KindSnap:
		return Intent{Kind: IntentSnapTo, Side: c.Side, Position: c.Position}
	case KindHold:
		if !r.holdEmitted {
			// Released before the timer callback ran.
			return Intent{Kind: IntentTap}
		}
	}

	// Held: recording started (or failed to) when the timer fired.
	return Intent{}
}

// Cancel drops the interaction in progress without emitting anything.
func (r *Recognizer) Cancel() { r.reset() }

func (r *Recognizer) reset() {
	r.samples = r.samples[:0]
	r.tracking = false
	r.holdEmitted = false
	r.dragging = false
}
