package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/koscakluka/medtranslate-core/core/language"
)

func TestEncodeTranslateUsesWireFieldNames(t *testing.T) {
	data, err := Encode(NewTranslate("hello", language.Direction{From: "en", To: "es"}, "sess-1"))
	if err != nil {
		t.Fatalf("expected encode to succeed, got %v", err)
	}

	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("expected JSON object, got %v", err)
	}

	want := map[string]string{"type": "translate", "text": "hello", "from": "en", "to": "es", "session_id": "sess-1"}
	for key, value := range want {
		if fields[key] != value {
			t.Fatalf("expected %s=%q, got %q", key, value, fields[key])
		}
	}
}

func TestEncodePingIsTypeOnly(t *testing.T) {
	data, err := Encode(NewPing())
	if err != nil {
		t.Fatalf("expected encode to succeed, got %v", err)
	}
	if string(data) != `{"type":"ping"}` {
		t.Fatalf("expected bare ping, got %s", data)
	}
}

func TestDecodeDispatchesOnType(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"translation","original":"hello","text":"hola"}`))
	if err != nil {
		t.Fatalf("expected decode to succeed, got %v", err)
	}
	translation, ok := msg.(Translation)
	if !ok {
		t.Fatalf("expected Translation, got %T", msg)
	}
	if translation.Text != "hola" || translation.Original != "hello" {
		t.Fatalf("unexpected translation payload %+v", translation)
	}

	msg, err = Decode([]byte(`{"type":"error","message":"Translation failed"}`))
	if err != nil {
		t.Fatalf("expected decode to succeed, got %v", err)
	}
	if e, ok := msg.(Error); !ok || e.Message != "Translation failed" {
		t.Fatalf("expected Error message, got %#v", msg)
	}

	if msg, err := Decode([]byte(`{"type":"pong"}`)); err != nil || msg.MessageType() != TypePong {
		t.Fatalf("expected pong, got %#v (%v)", msg, err)
	}
}

func TestDecodeRejectsUnknownAndMalformed(t *testing.T) {
	cases := map[string]error{
		`not json`:                        ErrMalformed,
		`{"text":"no type"}`:              ErrMalformed,
		`{"type":"translation","text":1}`: ErrMalformed,
		`{"type":"surprise"}`:             ErrUnknownType,
		`["type","translation"]`:          ErrMalformed,
	}

	for frame, want := range cases {
		if _, err := Decode([]byte(frame)); !errors.Is(err, want) {
			t.Fatalf("frame %s: expected %v, got %v", frame, want, err)
		}
	}
}

func TestSchemaCoversEveryMessage(t *testing.T) {
	schemas := Schema()

	for _, typ := range []Type{
		TypeStartSession, TypeTranslate, TypePing, TypeEndSession,
		TypeTranslation, TypeError, TypePong, TypeSessionStarted, TypeSessionEnded,
	} {
		schema, ok := schemas[typ]
		if !ok || schema == nil {
			t.Fatalf("expected schema for %s", typ)
		}
		if schema.Properties == nil {
			t.Fatalf("expected %s schema to have properties", typ)
		}
		if _, ok := schema.Properties.Get("type"); !ok {
			t.Fatalf("expected %s schema to describe the type discriminator", typ)
		}
	}
}
