package domain

import "testing"

func TestFleetRecordTransit(t *testing.T) {
	fleet := NewFarSideFleet(nil)

	fleet.RecordTransit("battleship", DirectionOutbound)
	fleet.RecordTransit("battleship", DirectionOutbound)
	fleet.RecordTransit("cruiser", DirectionOutbound)

	if fleet["battleship"] != 2 || fleet["cruiser"] != 1 {
		t.Fatalf("unexpected counts: %v", fleet)
	}

	fleet.RecordTransit("battleship", DirectionInbound)
	if fleet["battleship"] != 1 {
		t.Fatalf("expected battleship count 1 after inbound, got %d", fleet["battleship"])
	}
}

func TestFleetInboundFloorsAtZero(t *testing.T) {
	fleet := NewFarSideFleet(nil)

	fleet.RecordTransit("frigate", DirectionInbound)
	if !fleet.Empty() {
		t.Fatalf("expected fleet to stay empty, got %v", fleet)
	}
}

func TestFleetSnapshotOmitsZeroEntries(t *testing.T) {
	fleet := NewFarSideFleet(map[string]int{"battleship": 1})
	fleet.RecordTransit("battleship", DirectionInbound)

	snapshot := fleet.Snapshot()
	if len(snapshot) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snapshot)
	}
}

func TestFleetSeededInitialFleet(t *testing.T) {
	fleet := NewFarSideFleet(map[string]int{
		"battleship": 2,
		"":           3,  // blank keys dropped
		"cruiser":    0,  // non-positive counts dropped
		"frigate":    -1, //
	})

	if fleet["battleship"] != 2 {
		t.Fatalf("expected seeded battleship count 2, got %d", fleet["battleship"])
	}
	if len(fleet) != 1 {
		t.Fatalf("expected only valid seeds retained, got %v", fleet)
	}
	if fleet.Empty() {
		t.Fatal("seeded fleet must not report empty")
	}
}

func TestFleetKeysSorted(t *testing.T) {
	fleet := NewFarSideFleet(map[string]int{"nereus": 1, "badger": 1, "sigil": 1})
	keys := fleet.Keys()
	if len(keys) != 3 || keys[0] != "badger" || keys[1] != "nereus" || keys[2] != "sigil" {
		t.Fatalf("expected sorted keys, got %v", keys)
	}
}
