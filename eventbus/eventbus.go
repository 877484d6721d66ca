package eventbus

import (
	"context"
	"encoding/json"
	"errors"
)

// Topic manages a base topic name and its DLQ counterpart.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// DLQ returns the dead-letter topic name (e.g. my_topic.dlq).
func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

// Event is the payload envelope carried on every topic.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	LastError string          `json:"last_error,omitempty"`
}

// EventHandler is the signature of a subscriber's processing function.
// A returned error routes the event to the topic's DLQ.
type EventHandler func(ctx context.Context, event Event) error

// EventBus abstracts event publishing and subscription.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	// Subscribe consumes the base topic and runs handler per event.
	// It blocks until ctx is done.
	Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error
	Close()
}

// ErrDLQPublishFailed is returned when a failed event could not be
// parked on the DLQ either.
var ErrDLQPublishFailed = errors.New("dead-letter publish failed")
