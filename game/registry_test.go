package game

import (
	"errors"
	"testing"

	"github.com/cameroncuttingedge/chess_relay/events"
)

func TestRegistryGetOrCreate(t *testing.T) {
	reg := NewRegistry()

	room, created := reg.GetOrCreate("X1")
	if !created {
		t.Error("first GetOrCreate did not report creation")
	}
	if room.ID != "X1" {
		t.Errorf("room ID = %q", room.ID)
	}

	again, created := reg.GetOrCreate("X1")
	if created {
		t.Error("second GetOrCreate created a duplicate")
	}
	if again != room {
		t.Error("second GetOrCreate returned a different room")
	}

	if reg.Count() != 1 {
		t.Errorf("Count() = %d, want 1", reg.Count())
	}
}

func TestRegistryKeysAreExact(t *testing.T) {
	reg := NewRegistry()
	reg.GetOrCreate("X1")

	if _, ok := reg.Get("x1"); ok {
		t.Error("lookup with different case matched; keys must compare exactly")
	}
}

func TestRegistryGetAbsent(t *testing.T) {
	reg := NewRegistry()
	if _, ok := reg.Get("nope"); ok {
		t.Error("Get on unknown code reported a room")
	}
}

func TestRegistryRemoveIfEmpty(t *testing.T) {
	reg := NewRegistry()
	room, _ := reg.GetOrCreate("X1")
	room.Join("alice")

	if reg.RemoveIfEmpty("X1") {
		t.Error("removed a room that still had a participant")
	}

	room.Leave("alice")
	if !reg.RemoveIfEmpty("X1") {
		t.Error("failed to remove an empty room")
	}
	if _, ok := reg.Get("X1"); ok {
		t.Error("room still present after removal")
	}

	if reg.RemoveIfEmpty("X1") {
		t.Error("removing an absent room reported success")
	}
}

func TestRegistryRemoveClosesRoom(t *testing.T) {
	reg := NewRegistry()

	// bob resolves the room, then the last occupant leaves and the
	// room is deregistered before bob's join lands. The stale pointer
	// must refuse him; a second lookup gets him a live room.
	stale, _ := reg.GetOrCreate("X1")
	stale.Join("alice")
	stale.Leave("alice")
	reg.RemoveIfEmpty("X1")

	if _, err := stale.Join("bob"); !errors.Is(err, ErrRoomClosed) {
		t.Fatalf("join on deregistered room error = %v, want ErrRoomClosed", err)
	}

	live, created := reg.GetOrCreate("X1")
	if !created {
		t.Fatal("registry still held the closed room")
	}
	res, err := live.Join("bob")
	if err != nil || res.Color != White {
		t.Errorf("join on re-resolved room = (%+v, %v), want white", res, err)
	}
}

func TestRegistryRecreateAfterRemoval(t *testing.T) {
	reg := NewRegistry()
	room, _ := reg.GetOrCreate("X1")
	room.Join("alice")
	room.ApplyMove("alice", events.Move{From: "e2", To: "e4"})
	room.Leave("alice")
	reg.RemoveIfEmpty("X1")

	// A join with the same code must behave as a first-ever join:
	// fresh board, fresh white assignment.
	fresh, created := reg.GetOrCreate("X1")
	if !created {
		t.Fatal("re-created room was not fresh")
	}

	res, err := fresh.Join("bob")
	if err != nil || res.Color != White {
		t.Errorf("join on re-created room = (%+v, %v), want white", res, err)
	}

	snap := fresh.Snapshot(White)
	startingBoard := NewBoard()
	if snap.Board != startingBoard.Labels() {
		t.Error("re-created room did not reset the board")
	}
	if len(snap.Chat) != 0 {
		t.Error("re-created room kept old chat history")
	}
}
