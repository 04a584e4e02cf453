package main

import (
	"context"

	"github.com/alfredjeanlab/kvdb/internal/events"
	"github.com/alfredjeanlab/kvdb/internal/idgen"
)

func (a *app) eventsEnabled() bool {
	_, noop := a.publisher.(*events.NoopPublisher)
	return !noop
}

// eventID returns a fresh event ID, or false when events are disabled or
// no ID could be generated.
func (a *app) eventID() (string, bool) {
	if !a.eventsEnabled() {
		return "", false
	}
	id, err := idgen.EventID()
	if err != nil {
		a.logger.Warn("failed to generate event id", "err", err)
		return "", false
	}
	return id, true
}

// publish emits an event. Failures are logged and never fail the command.
func (a *app) publish(ctx context.Context, topic string, event any) {
	if err := a.publisher.Publish(ctx, topic, event); err != nil {
		a.logger.Warn("failed to publish event", "topic", topic, "err", err)
		return
	}
	a.logger.Debug("event published", "topic", topic)
}
