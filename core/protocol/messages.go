// Package protocol defines the JSON messages exchanged with the translation
// backend over the session socket. Every message carries a "type"
// discriminator.
package protocol

import "github.com/koscakluka/medtranslate-core/core/language"

type Type string

const (
	// client -> server
	TypeStartSession Type = "start_session"
	TypeTranslate    Type = "translate"
	TypePing         Type = "ping"
	TypeEndSession   Type = "end_session"

	// server -> client
	TypeTranslation    Type = "translation"
	TypeError          Type = "error"
	TypePong           Type = "pong"
	TypeSessionStarted Type = "session_started"
	TypeSessionEnded   Type = "session_ended"
)

// Message is implemented by every wire message.
type Message interface {
	MessageType() Type
}

type StartSession struct {
	Type      Type          `json:"type" jsonschema:"enum=start_session"`
	SessionID string        `json:"session_id"`
	From      language.Code `json:"from"`
	To        language.Code `json:"to"`
}

func NewStartSession(sessionID string, direction language.Direction) StartSession {
	return StartSession{Type: TypeStartSession, SessionID: sessionID, From: direction.From, To: direction.To}
}

func (StartSession) MessageType() Type { return TypeStartSession }

type Translate struct {
	Type      Type          `json:"type" jsonschema:"enum=translate"`
	Text      string        `json:"text"`
	From      language.Code `json:"from"`
	To        language.Code `json:"to"`
	SessionID string        `json:"session_id"`
}

func NewTranslate(text string, direction language.Direction, sessionID string) Translate {
	return Translate{Type: TypeTranslate, Text: text, From: direction.From, To: direction.To, SessionID: sessionID}
}

func (Translate) MessageType() Type { return TypeTranslate }

type Ping struct {
	Type Type `json:"type" jsonschema:"enum=ping"`
}

func NewPing() Ping { return Ping{Type: TypePing} }

func (Ping) MessageType() Type { return TypePing }

type EndSession struct {
	Type      Type   `json:"type" jsonschema:"enum=end_session"`
	SessionID string `json:"session_id"`
}

func NewEndSession(sessionID string) EndSession {
	return EndSession{Type: TypeEndSession, SessionID: sessionID}
}

func (EndSession) MessageType() Type { return TypeEndSession }

// Translation is the translated text for the most recent translate request.
type Translation struct {
	Type Type   `json:"type" jsonschema:"enum=translation"`
	Text string `json:"text"`
	// Original echoes the source text when the backend provides it.
	Original string `json:"original,omitempty"`
}

func (Translation) MessageType() Type { return TypeTranslation }

// Error carries a user-facing error string.
type Error struct {
	Type    Type   `json:"type" jsonschema:"enum=error"`
	Message string `json:"message"`
}

func (Error) MessageType() Type { return TypeError }

type Pong struct {
	Type Type `json:"type" jsonschema:"enum=pong"`
}

func (Pong) MessageType() Type { return TypePong }

type SessionStarted struct {
	Type      Type   `json:"type" jsonschema:"enum=session_started"`
	SessionID string `json:"session_id,omitempty"`
}

func (SessionStarted) MessageType() Type { return TypeSessionStarted }

type SessionEnded struct {
	Type Type `json:"type" jsonschema:"enum=session_ended"`
}

func (SessionEnded) MessageType() Type { return TypeSessionEnded }
