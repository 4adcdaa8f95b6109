// Package gesture turns one continuous pointer interaction on the slider
// control into a single intent: tap, hold-to-talk, or drag-to-snap.
//
// Classify is a pure function over timestamped samples. Recognizer keeps the
// samples of the interaction in progress and reports intents as they become
// terminal; the caller owns the hold timer and calls Recognizer.Hold when it
// fires.
package gesture

import (
	"math"
	"time"

	"github.com/koscakluka/medtranslate-core/core/language"
)

type Phase int

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	// PhaseTick observes the passage of time without a position, e.g. the
	// hold timer firing.
	PhaseTick
)

// Sample is one pointer observation. At is measured from any fixed origin
// shared by the samples of one interaction.
type Sample struct {
	Phase Phase
	X     float64
	At    time.Duration
}

type Kind int

const (
	KindPending Kind = iota
	KindTap
	KindHold
	KindDrag
	KindSnap
)

func (k Kind) String() string {
	switch k {
	case KindTap:
		return "tap"
	case KindHold:
		return "hold"
	case KindDrag:
		return "drag"
	case KindSnap:
		return "snap"
	}
	return "pending"
}

// Classification is the result of classifying the samples seen so far.
type Classification struct {
	Kind Kind
	// Side is the snap target for KindSnap.
	Side language.Side
	// Position is the thumb position as a fraction of the track interior,
	// set for KindDrag and KindSnap.
	Position float64
	Released bool
}

// Track is the slider geometry, in the same units as Sample.X.
type Track struct {
	Width      float64
	ThumbWidth float64
	Padding    float64
}

func DefaultTrack() Track {
	return Track{Width: 320, ThumbWidth: 56, Padding: 4}
}

func (t Track) interior() float64 {
	return t.Width - t.ThumbWidth - 2*t.Padding
}

// ThumbOffset is the thumb's left edge for a pointer at x, clamped to the
// track interior.
func (t Track) ThumbOffset(x float64) float64 {
	return max(0, min(x-t.Padding-t.ThumbWidth/2, t.interior()))
}

// Fraction is ThumbOffset relative to the track interior, in [0, 1].
func (t Track) Fraction(x float64) float64 {
	interior := t.interior()
	if interior <= 0 {
		return 0
	}
	return t.ThumbOffset(x) / interior
}

type Options struct {
	HoldThreshold time.Duration
	DragThreshold float64
	// SnapZone is the fraction of the track at either edge that commits a
	// snap to that edge.
	SnapZone float64
	Track    Track
}

func DefaultOptions() Options {
	return Options{
		HoldThreshold: 300 * time.Millisecond,
		DragThreshold: 10,
		SnapZone:      0.3,
		Track:         DefaultTrack(),
	}
}

// Classify classifies one interaction. Samples before the first PhaseDown and
// after the first PhaseUp are ignored. current is the side the control rests
// on, used when a drag is released outside both snap zones.
//
// The hold timer is considered fired by any sample at or after
// HoldThreshold, unless a drag was detected first. Once held, movement no
// longer turns the interaction into a drag.
func Classify(samples []Sample, current language.Side, opts Options) Classification {
	start := -1
	for i, s := range samples {
		if s.Phase == PhaseDown {
			start = i
			break
		}
	}
	if start < 0 {
		return Classification{Kind: KindPending}
	}

	down := samples[start]
	held, dragged, released := false, false, false
	lastX := down.X
	for _, s := range samples[start+1:] {
		if !dragged && s.At-down.At >= opts.HoldThreshold {
			held = true
		}

		if s.Phase == PhaseMove || s.Phase == PhaseUp {
			if !held {
				if math.Abs(s.X-down.X) > opts.DragThreshold {
					dragged = true
				}
				if dragged {
					lastX = s.X
				}
			}
		}

		if s.Phase == PhaseUp {
			released = true
			break
		}
	}

	switch {
	case held:
		return Classification{Kind: KindHold, Released: released}
	case dragged && released:
		position := opts.Track.Fraction(lastX)
		return Classification{Kind: KindSnap, Side: snapSide(position, current, opts.SnapZone), Position: position, Released: true}
	case dragged:
		return Classification{Kind: KindDrag, Position: opts.Track.Fraction(lastX)}
	case released:
		return Classification{Kind: KindTap, Released: true}
	}
	return Classification{Kind: KindPending}
}

func snapSide(position float64, current language.Side, zone float64) language.Side {
	switch {
	case position < zone:
		return language.SideLeft
	case position > 1-zone:
		return language.SideRight
	}
	return current
}
