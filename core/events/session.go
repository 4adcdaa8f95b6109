package events

import "github.com/koscakluka/medtranslate-core/core/language"

const (
	KindStatusChanged     Kind = "session.status_changed"
	KindDirectionChanged  Kind = "session.direction_changed"
	KindPromptChanged     Kind = "session.prompt_changed"
	KindConnectionChanged Kind = "session.connection_changed"
	KindNotification      Kind = "session.notification"
	KindSliderMoved       Kind = "session.slider_moved"
)

type StatusChanged struct {
	Base
	Status string
}

func NewStatusChanged(status string) StatusChanged {
	return StatusChanged{Base: NewBase(KindStatusChanged), Status: status}
}

type DirectionChanged struct {
	Base
	Side      language.Side
	Direction language.Direction
}

func NewDirectionChanged(side language.Side, direction language.Direction) DirectionChanged {
	return DirectionChanged{Base: NewBase(KindDirectionChanged), Side: side, Direction: direction}
}

type PromptChanged struct {
	Base
	Prompt string
}

func NewPromptChanged(prompt string) PromptChanged {
	return PromptChanged{Base: NewBase(KindPromptChanged), Prompt: prompt}
}

type ConnectionChanged struct {
	Base
	Connected bool
}

func NewConnectionChanged(connected bool) ConnectionChanged {
	return ConnectionChanged{Base: NewBase(KindConnectionChanged), Connected: connected}
}

type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

// Notification carries a message meant to be shown to the user. Err is set
// when the notification reports a failure.
type Notification struct {
	Base
	Level   NotificationLevel
	Message string
	Err     error
}

func NewNotification(level NotificationLevel, message string, err error) Notification {
	return Notification{Base: NewBase(KindNotification), Level: level, Message: message, Err: err}
}

// SliderMoved reports the thumb position as a fraction of the track, 0 at
// the left edge and 1 at the right.
type SliderMoved struct {
	Base
	Position float64
}

func NewSliderMoved(position float64) SliderMoved {
	return SliderMoved{Base: NewBase(KindSliderMoved), Position: position}
}
