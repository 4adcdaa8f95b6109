package orchestration

import (
	"time"

	"github.com/koscakluka/medtranslate-core/core/events"
	"github.com/koscakluka/medtranslate-core/core/gesture"
)

// PointerDown starts a slider interaction at x, in track units. While
// recording only the release matters.
func (o *Orchestrator) PointerDown(x float64) {
	at := time.Since(o.epoch)
	_ = o.call(func() { o.pointerDown(x, at) })
}

func (o *Orchestrator) PointerMove(x float64) {
	at := time.Since(o.epoch)
	_ = o.call(func() { o.pointerMove(x, at) })
}

func (o *Orchestrator) PointerUp(x float64) {
	at := time.Since(o.epoch)
	_ = o.call(func() { o.pointerUp(x, at) })
}

// PointerCancel drops the interaction in progress, for example when the
// pointer leaves the window.
func (o *Orchestrator) PointerCancel() {
	_ = o.call(func() {
		o.cancelHold()
		o.recognizer.Cancel()
		o.emit(events.NewSliderMoved(sidePosition(o.state.side)))
	})
}

func (o *Orchestrator) gestureState() gesture.State {
	return gesture.State{Recording: o.state.recording.Active, Side: o.state.side}
}

func (o *Orchestrator) pointerDown(x float64, at time.Duration) {
	if !o.state.session.Active {
		return
	}
	state := o.gestureState()
	if !state.Recording && o.state.status != StatusReady {
		o.notify(events.NotificationInfo, "Wait for the current translation to finish", ErrNotReady)
		return
	}

	if !o.recognizer.Down(x, at, state) {
		return
	}

	o.cancelHold()
	o.holdGen++
	gen := o.holdGen
	threshold := o.recognizer.Options().HoldThreshold
	// The timer fires exactly one threshold after the press.
	o.holdTimer = time.AfterFunc(threshold, func() {
		o.post(func() { o.holdFired(gen, at+threshold) })
	})
}

func (o *Orchestrator) holdFired(gen uint64, at time.Duration) {
	if gen != o.holdGen {
		return
	}
	o.holdTimer = nil
	o.apply(o.recognizer.Hold(at, o.gestureState()))
}

func (o *Orchestrator) pointerMove(x float64, at time.Duration) {
	intent := o.recognizer.Move(x, at, o.gestureState())
	if o.recognizer.Dragging() {
		o.cancelHold()
	}
	o.apply(intent)
}

func (o *Orchestrator) pointerUp(x float64, at time.Duration) {
	o.cancelHold()
	o.apply(o.recognizer.Up(x, at, o.gestureState()))
}

func (o *Orchestrator) cancelHold() {
	o.holdGen++
	if o.holdTimer != nil {
		o.holdTimer.Stop()
		o.holdTimer = nil
	}
}

func (o *Orchestrator) apply(intent gesture.Intent) {
	switch intent.Kind {
	case gesture.IntentDrag:
		o.emit(events.NewSliderMoved(intent.Position))
	case gesture.IntentTap:
		if o.tapPolicy == TapRejected {
			o.notify(events.NotificationInfo, "Hold the mic to speak", nil)
			return
		}
		o.startRecording()
	case gesture.IntentStartRecording:
		o.startRecording()
	case gesture.IntentStopRecording:
		o.stopRecording()
	case gesture.IntentSnapTo:
		o.snapTo(intent.Side)
	}
}
