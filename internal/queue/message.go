package queue

import (
	"encoding/json"
	"errors"
	"strings"
)

const currentVersion = 1

// Message is the envelope sent to downstream queue consumers.
type Message struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	RequestID  string          `json:"requestId,omitempty"`
	EnqueuedAt string          `json:"enqueuedAt"`
	Version    int             `json:"version"`
	Payload    json.RawMessage `json:"payload"`
}

// ErrEmptyPayload is returned when a decoded message carries no payload.
var ErrEmptyPayload = errors.New("queue message has no payload")

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	if msg.Version == 0 {
		msg.Version = currentVersion
	}
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(body []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return Message{}, err
	}
	if len(msg.Payload) == 0 || strings.TrimSpace(string(msg.Payload)) == "null" {
		return msg, ErrEmptyPayload
	}
	return msg, nil
}
