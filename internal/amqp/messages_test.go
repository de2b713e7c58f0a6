package amqp

import (
	"testing"
	"time"
)

func TestSyncMessageRoundTrip(t *testing.T) {
	msg := NewSyncMessage(42, 3)
	if msg.Op != OpSync || msg.ID != 42 || msg.Version != 3 {
		t.Fatalf("message = %+v", msg)
	}
	if msg.Timestamp.IsZero() || time.Since(msg.Timestamp) > time.Minute {
		t.Errorf("timestamp not set: %v", msg.Timestamp)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := SyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Op != OpSync || got.ID != 42 || got.Version != 3 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestDeleteMessage(t *testing.T) {
	msg := NewDeleteMessage(7)
	if msg.Op != OpDelete || msg.ID != 7 || msg.Version != 0 {
		t.Fatalf("message = %+v", msg)
	}
	body, _ := msg.ToJSON()
	got, err := SyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Op != OpDelete || got.ID != 7 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestSyncMessageFromJSONRejects(t *testing.T) {
	cases := map[string]string{
		"not json":   "{",
		"unknown op": `{"op":"update","id":1}`,
		"missing id": `{"op":"sync"}`,
	}
	for name, body := range cases {
		if _, err := SyncMessageFromJSON([]byte(body)); err == nil {
			t.Errorf("%s: want error", name)
		}
	}
}
