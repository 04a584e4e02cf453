package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/alfredjeanlab/kvdb/internal/model"
)

// startTestNATS starts an embedded NATS server on a random port and returns
// its client URL.
func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

// subscribe returns a channel receiving messages on topic from a separate
// connection.
func subscribe(t *testing.T, url, topic string) <-chan *nats.Msg {
	t.Helper()
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	t.Cleanup(nc.Close)

	ch := make(chan *nats.Msg, 4)
	if _, err := nc.ChanSubscribe(topic, ch); err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	if err := nc.Flush(); err != nil {
		t.Fatalf("flushing subscription: %v", err)
	}
	return ch
}

func TestNoopPublisher(t *testing.T) {
	pub := &NoopPublisher{}
	if err := pub.Publish(context.Background(), TopicKeySet, KeySet{}); err != nil {
		t.Fatalf("NoopPublisher.Publish returned unexpected error: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("NoopPublisher.Close returned unexpected error: %v", err)
	}
}

func TestPublishersImplementPublisher(t *testing.T) {
	var _ Publisher = (*NoopPublisher)(nil)
	var _ Publisher = (*NATSPublisher)(nil)
}

func TestNATSPublisher_KeySet(t *testing.T) {
	url := startTestNATS(t)
	ch := subscribe(t, url, TopicKeySet)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}

	event := KeySet{
		ID: "kv-test1",
		Record: &model.Record{
			Key: "a", Value: "1",
			InsertTS: "2024-01-01 10:00:00.000Z", UpdateTS: "2024-01-01 10:00:00.000Z",
		},
	}
	if err := pub.Publish(context.Background(), TopicKeySet, event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	// Close flushes, so the message must be on the wire afterwards.
	if err := pub.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	select {
	case msg := <-ch:
		var got KeySet
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.ID != "kv-test1" || got.Record == nil || got.Record.Key != "a" || got.Record.Value != "1" {
			t.Errorf("got %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_KeyDeleted(t *testing.T) {
	url := startTestNATS(t)
	ch := subscribe(t, url, "kvdb.>")

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	if err := pub.Publish(context.Background(), TopicKeyDeleted, KeyDeleted{ID: "kv-test2", Key: "gone"}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	pub.conn.Flush()

	select {
	case msg := <-ch:
		if msg.Subject != TopicKeyDeleted {
			t.Errorf("subject = %q, want %q", msg.Subject, TopicKeyDeleted)
		}
		var got KeyDeleted
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Key != "gone" {
			t.Errorf("got key=%q, want %q", got.Key, "gone")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	if _, err := NewNATSPublisher("nats://127.0.0.1:1"); err == nil {
		t.Fatal("expected error connecting to unreachable server")
	}
}

func TestNATSPublisher_UnmarshalableEvent(t *testing.T) {
	url := startTestNATS(t)
	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	if err := pub.Publish(context.Background(), TopicKeySet, make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}
