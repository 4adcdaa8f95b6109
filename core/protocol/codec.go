package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

// Encode marshals an outbound message.
func Encode(msg Message) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil message", ErrMalformed)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s message: %w", msg.MessageType(), err)
	}
	return data, nil
}

// Decode parses an inbound frame by its type discriminator. Frames that are
// not JSON objects, lack a type, or carry a type the client does not
// understand return an error wrapping ErrMalformed or ErrUnknownType.
func Decode(data []byte) (Message, error) {
	var envelope struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if envelope.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}

	var msg Message
	switch envelope.Type {
	case TypeTranslation:
		msg = decodeAs[Translation](data)
	case TypeError:
		msg = decodeAs[Error](data)
	case TypePong:
		msg = decodeAs[Pong](data)
	case TypeSessionStarted:
		msg = decodeAs[SessionStarted](data)
	case TypeSessionEnded:
		msg = decodeAs[SessionEnded](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, envelope.Type)
	}

	if msg == nil {
		return nil, fmt.Errorf("%w: invalid %s payload", ErrMalformed, envelope.Type)
	}
	return msg, nil
}

func decodeAs[T Message](data []byte) Message {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil
	}
	return msg
}
