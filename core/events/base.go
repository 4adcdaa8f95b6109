package events

import (
	"strings"
	"sync/atomic"
	"time"
)

// Kind names an event as "<group>.<name>", e.g. "session.status_changed".
type Kind string

// Group is the part of the kind before the first dot.
func (k Kind) Group() string {
	group, _, _ := strings.Cut(string(k), ".")
	return group
}

type Event interface {
	Kind() Kind
	Timestamp() time.Time
	Sequence() uint64
}

var sequence atomic.Uint64

type Base struct {
	kind      Kind
	timestamp time.Time
	sequence  uint64
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now(), sequence: sequence.Add(1)}
}

func (b Base) Kind() Kind           { return b.kind }
func (b Base) Timestamp() time.Time { return b.timestamp }

// Sequence orders events by creation, also when timestamps collide.
func (b Base) Sequence() uint64 { return b.sequence }
