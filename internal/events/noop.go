package events

import "context"

var _ Publisher = (*NoopPublisher)(nil)

// NoopPublisher discards every event. The CLI uses it when KVDB_NATS_URL is
// unset, and checks for it to skip building event payloads.
type NoopPublisher struct{}

func (*NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (*NoopPublisher) Close() error { return nil }
