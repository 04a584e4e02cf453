package idgen

import (
	"regexp"
	"testing"
)

var eventIDPattern = regexp.MustCompile(`^` + regexp.QuoteMeta(EventPrefix) + `[a-zA-Z0-9]{12}$`)

func TestEventID_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := EventID()
		if err != nil {
			t.Fatalf("EventID() error on iteration %d: %v", i, err)
		}
		if !eventIDPattern.MatchString(id) {
			t.Fatalf("EventID() = %q, does not match %s", id, eventIDPattern)
		}
	}
}

func TestEventID_Uniqueness(t *testing.T) {
	const count = 10_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := EventID()
		if err != nil {
			t.Fatalf("EventID() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}
