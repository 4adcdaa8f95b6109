package gesture

import (
	"testing"

	"github.com/koscakluka/medtranslate-core/core/language"
)

func TestRecognizerTapEmitsTapOnly(t *testing.T) {
	r := NewRecognizer(DefaultOptions())
	state := State{Side: language.SideLeft}

	if armHold := r.Down(100, 0, state); !armHold {
		t.Fatalf("expected down to request the hold timer")
	}
	if intent := r.Up(102, ms(120), state); intent.Kind != IntentTap {
		t.Fatalf("expected tap, got %s", intent.Kind)
	}
	if r.Tracking() {
		t.Fatalf("expected interaction to be finished after up")
	}
}

func TestRecognizerHoldStartsThenReleaseStops(t *testing.T) {
	r := NewRecognizer(DefaultOptions())
	state := State{Side: language.SideLeft}

	r.Down(100, 0, state)
	if intent := r.Hold(ms(300), state); intent.Kind != IntentStartRecording {
		t.Fatalf("expected hold to start recording, got %s", intent.Kind)
	}
	if intent := r.Hold(ms(300), state); intent.Kind != IntentNone {
		t.Fatalf("expected a second hold fire to be ignored, got %s", intent.Kind)
	}

	state.Recording = true
	if intent := r.Move(300, ms(400), state); intent.Kind != IntentNone {
		t.Fatalf("expected movement while held to be ignored, got %s", intent.Kind)
	}
	if intent := r.Up(300, ms(900), state); intent.Kind != IntentStopRecording {
		t.Fatalf("expected release while recording to stop, got %s", intent.Kind)
	}
}

func TestRecognizerHoldWithoutRecordingEmitsNothingOnRelease(t *testing.T) {
	r := NewRecognizer(DefaultOptions())
	state := State{Side: language.SideLeft}

	r.Down(100, 0, state)
	r.Hold(ms(300), state)

	// recording failed to start, so nothing is active on release
	if intent := r.Up(100, ms(800), state); intent.Kind != IntentNone {
		t.Fatalf("expected no intent after a hold, got %s", intent.Kind)
	}
}

func TestRecognizerReleaseBeforeHoldCallbackIsTap(t *testing.T) {
	r := NewRecognizer(DefaultOptions())
	state := State{Side: language.SideLeft}

	r.Down(100, 0, state)
	if intent := r.Up(100, ms(350), state); intent.Kind != IntentTap {
		t.Fatalf("expected tap when the timer never fired, got %s", intent.Kind)
	}
}

func TestRecognizerDownWhileRecordingIsIgnored(t *testing.T) {
	r := NewRecognizer(DefaultOptions())
	state := State{Side: language.SideLeft, Recording: true}

	if armHold := r.Down(100, 0, state); armHold {
		t.Fatalf("expected down while recording not to arm the hold timer")
	}
	if r.Tracking() {
		t.Fatalf("expected no interaction to be tracked while recording")
	}
	if intent := r.Up(250, ms(100), state); intent.Kind != IntentStopRecording {
		t.Fatalf("expected release while recording to stop regardless of drag, got %s", intent.Kind)
	}
}

func TestRecognizerDragSnapsAndBlocksHold(t *testing.T) {
	r := NewRecognizer(DefaultOptions())
	state := State{Side: language.SideLeft}

	r.Down(40, 0, state)
	intent := r.Move(200, ms(50), state)
	if intent.Kind != IntentDrag || !r.Dragging() {
		t.Fatalf("expected drag tracking, got %s", intent.Kind)
	}
	if intent := r.Hold(ms(300), state); intent.Kind != IntentNone {
		t.Fatalf("expected hold to be ignored after a drag, got %s", intent.Kind)
	}

	intent = r.Up(310, ms(400), state)
	if intent.Kind != IntentSnapTo || intent.Side != language.SideRight {
		t.Fatalf("expected snap right, got %+v", intent)
	}
}
