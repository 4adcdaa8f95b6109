package protocol

import "github.com/invopop/jsonschema"

// Schema returns the JSON Schema of every message type, keyed by type.
func Schema() map[Type]*jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}

	messages := []Message{
		StartSession{}, Translate{}, Ping{}, EndSession{},
		Translation{}, Error{}, Pong{}, SessionStarted{}, SessionEnded{},
	}

	schemas := make(map[Type]*jsonschema.Schema, len(messages))
	for _, msg := range messages {
		schemas[msg.MessageType()] = reflector.Reflect(msg)
	}
	return schemas
}
