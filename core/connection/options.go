package connection

import (
	"time"

	"github.com/koscakluka/medtranslate-core/core/protocol"
)

const (
	DefaultHeartbeatInterval = 25 * time.Second
	DefaultConnectTimeout    = 8 * time.Second
	DefaultReconnectBase     = 1 * time.Second
	DefaultReconnectMax      = 30 * time.Second
)

type ManagerOption func(*ManagerOptions)

type ManagerOptions struct {
	HeartbeatInterval time.Duration
	ConnectTimeout    time.Duration
	ReconnectBase     time.Duration
	ReconnectMax      time.Duration
	// MaxReconnectAttempts stops retrying after that many consecutive
	// failures. Zero retries forever.
	MaxReconnectAttempts int

	// Handshake builds the first message sent on every new channel.
	Handshake func() protocol.Message

	OnMessage     func(protocol.Message)
	OnStateChange func(State)
	OnError       func(error)
}

func defaultManagerOptions() ManagerOptions {
	return ManagerOptions{
		HeartbeatInterval: DefaultHeartbeatInterval,
		ConnectTimeout:    DefaultConnectTimeout,
		ReconnectBase:     DefaultReconnectBase,
		ReconnectMax:      DefaultReconnectMax,
	}
}

func WithHeartbeatInterval(interval time.Duration) ManagerOption {
	return func(o *ManagerOptions) {
		if interval > 0 {
			o.HeartbeatInterval = interval
		}
	}
}

func WithConnectTimeout(timeout time.Duration) ManagerOption {
	return func(o *ManagerOptions) {
		if timeout > 0 {
			o.ConnectTimeout = timeout
		}
	}
}

// WithReconnectBackoff sets the first retry delay and the delay ceiling.
func WithReconnectBackoff(base, max time.Duration) ManagerOption {
	return func(o *ManagerOptions) {
		if base > 0 {
			o.ReconnectBase = base
		}
		if max > 0 {
			o.ReconnectMax = max
		}
	}
}

func WithMaxReconnectAttempts(attempts int) ManagerOption {
	return func(o *ManagerOptions) {
		if attempts >= 0 {
			o.MaxReconnectAttempts = attempts
		}
	}
}

func WithHandshake(handshake func() protocol.Message) ManagerOption {
	return func(o *ManagerOptions) { o.Handshake = handshake }
}

func WithOnMessage(callback func(protocol.Message)) ManagerOption {
	return func(o *ManagerOptions) { o.OnMessage = callback }
}

func WithOnStateChange(callback func(State)) ManagerOption {
	return func(o *ManagerOptions) { o.OnStateChange = callback }
}

func WithOnError(callback func(error)) ManagerOption {
	return func(o *ManagerOptions) { o.OnError = callback }
}
