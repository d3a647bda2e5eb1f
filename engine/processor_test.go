package engine

import "testing"

func TestProcessorMoveCommitsWaypoints(t *testing.T) {
	w := newTestWorld(t, 1)
	player := w.Units[w.PlayerID]
	dest := Coordinate{X: player.Position.X + 2, Y: player.Position.Y, Floor: 0}

	a := newAction(ActionMove, player.ID, 2.0)
	a.TargetPos = &dest
	w.Queue = append(w.Queue, a)

	NewProcessor(w).DrainAll()

	if player.Position != dest {
		t.Fatalf("player did not reach destination: got %+v want %+v", player.Position, dest)
	}
	if w.Phase != PhaseDecision {
		t.Fatalf("expected DECISION after drain, got %v", w.Phase)
	}
	if len(w.Queue) != 0 {
		t.Fatal("expected empty queue after drain")
	}
	if w.Timer != decisionTimerSeconds {
		t.Fatalf("expected timer reset to %v, got %v", decisionTimerSeconds, w.Timer)
	}
}

func TestProcessorAttackAdjacentSucceeds(t *testing.T) {
	w := newTestWorld(t, 1)
	player := w.Units[w.PlayerID]

	var enemyID string
	for id, u := range w.Units {
		if u.Kind == KindEnemy {
			enemyID = id
			u.Position = Coordinate{X: player.Position.X + 1, Y: player.Position.Y, Floor: 0}
			break
		}
	}
	startHP := w.Units[enemyID].Status.HP

	a := newAction(ActionAttack, player.ID, 3)
	a.TargetUnit = &enemyID
	w.Queue = append(w.Queue, a)

	NewProcessor(w).DrainAll()

	if len(w.DamageEvents) != 1 {
		t.Fatalf("expected one damage event, got %d", len(w.DamageEvents))
	}
	if u, ok := w.Units[enemyID]; ok {
		if u.Status.HP != startHP-1 {
			t.Fatalf("expected hp %d, got %d", startHP-1, u.Status.HP)
		}
	} else if startHP-1 > 0 {
		t.Fatal("enemy removed despite surviving hp")
	}
}

func TestProcessorAttackAtRangeTwoRejected(t *testing.T) {
	w := newTestWorld(t, 1)
	player := w.Units[w.PlayerID]

	var enemyID string
	for id, u := range w.Units {
		if u.Kind == KindEnemy {
			enemyID = id
			u.Position = Coordinate{X: player.Position.X + 2, Y: player.Position.Y, Floor: 0}
			break
		}
	}

	a := newAction(ActionAttack, player.ID, 3)
	a.TargetUnit = &enemyID
	w.Queue = append(w.Queue, a)

	NewProcessor(w).DrainAll()

	if len(w.DamageEvents) != 0 {
		t.Fatal("expected no damage event at Manhattan distance 2")
	}
}

func TestProcessorClimbChangesFloor(t *testing.T) {
	w := newTestWorld(t, 1)
	player := w.Units[w.PlayerID]

	// Find the stair tile on floor 0 and teleport the player onto it
	// directly (this is a unit test of CLIMB, not of pathing to it).
	var stair Coordinate
	found := false
	for x := 0; x < w.Floors[0].Width && !found; x++ {
		for y := 0; y < w.Floors[0].Height && !found; y++ {
			if w.Floors[0].Tiles[x][y].Type == TileStairsUp {
				stair = Coordinate{X: x, Y: y, Floor: 0}
				found = true
			}
		}
	}
	if !found {
		t.Fatal("no STAIRS_UP tile found on floor 0")
	}
	w.UpdateUnitPosition(player.ID, stair)

	a := newAction(ActionClimb, player.ID, 3)
	w.Queue = append(w.Queue, a)
	NewProcessor(w).DrainAll()

	if player.Position.Floor != 1 {
		t.Fatalf("expected player on floor 1 after climb, got %d", player.Position.Floor)
	}
	if player.Position.X != stair.X || player.Position.Y != stair.Y {
		t.Fatalf("expected climb to preserve x,y: got %+v", player.Position)
	}
}

func TestProcessorWaitIsNoop(t *testing.T) {
	w := newTestWorld(t, 1)
	player := w.Units[w.PlayerID]
	before := player.Position

	w.Queue = append(w.Queue, newAction(ActionWait, player.ID, 0))
	NewProcessor(w).DrainAll()

	if player.Position != before {
		t.Fatal("WAIT should not move the unit")
	}
}

func TestProcessorStepIterator(t *testing.T) {
	w := newTestWorld(t, 1)
	player := w.Units[w.PlayerID]
	dest := Coordinate{X: player.Position.X + 1, Y: player.Position.Y, Floor: 0}
	a := newAction(ActionMove, player.ID, 1.0)
	a.TargetPos = &dest
	w.Queue = append(w.Queue, a, newAction(ActionWait, player.ID, 0))

	p := NewProcessor(w)
	if p.Done() {
		t.Fatal("should not be done before any Advance")
	}
	if !p.Advance() {
		t.Fatal("expected first Advance to execute an action")
	}
	if player.Position != dest {
		t.Fatal("first Advance should have committed the move")
	}
	if !p.Advance() {
		t.Fatal("expected second Advance to execute the WAIT")
	}
	if p.Advance() {
		t.Fatal("expected no more actions to advance")
	}
	if !p.Done() {
		t.Fatal("expected Done() true once the queue is drained")
	}
}
