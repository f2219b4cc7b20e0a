package websocket

import (
	"encoding/json"
	"testing"

	"github.com/cameroncuttingedge/chess_relay/events"
)

func TestEncodeEnvelopeOmitsNilPayload(t *testing.T) {
	data, ok := encodeEnvelope(events.OpponentDisconnected, nil)
	if !ok {
		t.Fatal("encodeEnvelope failed")
	}

	var env events.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if env.Event != events.OpponentDisconnected {
		t.Errorf("event = %q", env.Event)
	}
	if len(env.Data) != 0 {
		t.Errorf("data = %q, want omitted", env.Data)
	}
}

func TestDeliverAfterUnregisterDoesNotPanic(t *testing.T) {
	h := NewHub()
	client := &Client{
		id:   "c1",
		send: make(chan []byte, 1),
		done: make(chan struct{}),
	}
	h.register(client)

	// A broadcast can snapshot the client just before its read loop
	// unregisters it; delivering to the dead client must be a no-op,
	// never a panic.
	h.unregister(client)
	h.deliver(client, []byte(`{"event":"moveUpdate"}`))
	h.deliver(client, []byte(`{"event":"moveUpdate"}`))

	h.unregister(client) // second unregister is also a no-op
}

func TestDecodeRoomID(t *testing.T) {
	if got, ok := decodeRoomID(json.RawMessage(`"X1"`)); !ok || got != "X1" {
		t.Errorf(`decodeRoomID("X1") = (%q, %v)`, got, ok)
	}
	if _, ok := decodeRoomID(json.RawMessage(`""`)); ok {
		t.Error("empty room code accepted")
	}
	if _, ok := decodeRoomID(json.RawMessage(`{"room":"X1"}`)); ok {
		t.Error("object payload accepted as a room code")
	}
	if _, ok := decodeRoomID(nil); ok {
		t.Error("missing payload accepted as a room code")
	}
}
