package events

import (
	"context"

	"github.com/alfredjeanlab/kvdb/internal/model"
)

// Event topic constants
const (
	TopicKeySet     = "kvdb.key.set"
	TopicKeyDeleted = "kvdb.key.deleted"
)

// KeySet is published after a successful set. Record carries the row as
// stored, including both timestamps.
type KeySet struct {
	ID     string        `json:"id"`
	Record *model.Record `json:"record"`
}

// KeyDeleted is published after a successful delete.
type KeyDeleted struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
