package engine

import "math"

// VisionMode selects how an enemy's isVisible sensor is computed.
type VisionMode int

const (
	// VisionDistance is the spec-adopted behavior: sight is plain
	// Manhattan-distance-gated, no facing cone (spec §9).
	VisionDistance VisionMode = iota
	// VisionCone restricts sight to a 120-degree cone along the
	// enemy's facing, dot product >= 0.3 — the optional extension
	// spec §9 flags behind configuration.
	VisionCone
)

// PlannerConfig tunes optional AI behavior; the zero value selects
// VisionDistance.
type PlannerConfig struct {
	VisionMode VisionMode
}

// Planner runs the per-enemy perception/state-machine/destination
// pipeline described in spec §4.5, once per Execution phase.
type Planner struct {
	cfg PlannerConfig
}

// NewPlanner constructs a Planner with the given configuration.
func NewPlanner(cfg PlannerConfig) *Planner {
	return &Planner{cfg: cfg}
}

// Plan runs perception, state transitions, destination choice, and
// action emission for every living enemy in w, returning the flat list
// of Actions to append to the queue. It does not mutate enemy AP; AP is
// debited when each intent is queued via World.QueueAction.
func (p *Planner) Plan(w *World) []Action {
	var out []Action

	reserved := map[string]bool{}
	for _, u := range w.Units {
		if u.Kind == KindPlayer {
			reserved[u.Position.Key()] = true
		}
	}

	for _, enemy := range w.Units {
		if enemy.Kind != KindEnemy || enemy.Status.HP <= 0 {
			continue
		}
		if enemy.Memory == nil {
			enemy.Memory = &EnemyMemory{State: StateSleep}
		}
		out = append(out, p.planEnemy(w, enemy, reserved)...)
	}
	return out
}

func (p *Planner) planEnemy(w *World, enemy *Unit, reserved map[string]bool) []Action {
	target := p.selectTarget(w, enemy)
	if target == nil {
		return nil
	}

	predicted := p.predictTargetPos(w, target)

	mem := enemy.Memory
	if mem.State == StateSleep && enemy.Status.HP < enemy.Status.MaxHP {
		mem.State = StateWander
	}

	currentDist := manhattan(enemy.Position, target.Position)
	isVisible := p.isVisible(enemy, target, currentDist)
	isAudible := currentDist <= target.Status.noiseLevel()
	isDetected := isVisible || isAudible

	switch {
	case isDetected:
		pos := predicted
		mem.LastKnownTargetPos = &pos
		mem.State = StateChase
	case mem.State == StateChase:
		mem.State = StateSearch
	case mem.State == StateSearch && mem.LastKnownTargetPos != nil &&
		mem.LastKnownTargetPos.X == enemy.Position.X && mem.LastKnownTargetPos.Y == enemy.Position.Y:
		mem.LastKnownTargetPos = nil
		mem.State = StateWander
	}

	distToPredicted := manhattan(enemy.Position, predicted)
	if currentDist == 1 && enemy.Status.AP >= 3 && distToPredicted <= 1 {
		return []Action{attackAction(enemy, target)}
	}

	dest := p.chooseDestination(w, enemy, mem)
	if dest == nil {
		return nil
	}

	validDest, ok := reserveDestination(w, *dest, reserved)
	if !ok {
		return nil
	}
	reserved[validDest.Key()] = true

	actualDest, costAccumulated, reachIndex := simulateBudgetedPath(w, enemy, validDest, target.Position)

	var actions []Action
	if reachIndex > 0 && actualDest != enemy.Position {
		actions = append(actions, moveAction(enemy, actualDest, costAccumulated))
	}

	if enemy.Status.AP-costAccumulated >= 3 && manhattan(actualDest, predicted) <= 1 {
		actions = append(actions, attackAction(enemy, target))
	}

	return actions
}

// selectTarget picks the PLAYER unit on the same floor with minimum
// Manhattan distance to enemy, or nil if none exist.
func (p *Planner) selectTarget(w *World, enemy *Unit) *Unit {
	var best *Unit
	bestDist := -1
	for _, u := range w.Units {
		if u.Kind != KindPlayer || u.Position.Floor != enemy.Position.Floor {
			continue
		}
		d := manhattan(enemy.Position, u.Position)
		if best == nil || d < bestDist {
			best, bestDist = u, d
		}
	}
	return best
}

// predictTargetPos returns the tile the AI expects the player to occupy
// once the player's already-queued MOVE resolves, if that tile is not
// currently occupied by anyone else.
func (p *Planner) predictTargetPos(w *World, target *Unit) Coordinate {
	for _, a := range w.Queue {
		if a.Kind != ActionMove || a.ActorID != target.ID || a.TargetPos == nil {
			continue
		}
		if blocker := occupant(w.Units, a.TargetPos.X, a.TargetPos.Y, a.TargetPos.Floor, target.ID); blocker == nil {
			return *a.TargetPos
		}
	}
	return target.Position
}

func (p *Planner) isVisible(enemy, target *Unit, currentDist int) bool {
	if enemy.Memory.State == StateSleep {
		return false
	}
	if currentDist > enemy.Status.SightRange {
		return false
	}
	if p.cfg.VisionMode != VisionCone {
		return true
	}
	return facingDot(enemy, target) >= 0.3
}

func facingDot(enemy, target *Unit) float64 {
	fx, fy := facingVector(enemy.Facing)
	dx := float64(target.Position.X - enemy.Position.X)
	dy := float64(target.Position.Y - enemy.Position.Y)
	mag := dx*dx + dy*dy
	if mag == 0 {
		return 1
	}
	inv := 1 / math.Sqrt(mag)
	return fx*dx*inv + fy*dy*inv
}

func facingVector(f Facing) (float64, float64) {
	switch f {
	case FacingUp:
		return 0, -1
	case FacingDown:
		return 0, 1
	case FacingLeft:
		return -1, 0
	case FacingRight:
		return 1, 0
	}
	return 0, 1
}

// chooseDestination implements spec §4.5 step 7.
func (p *Planner) chooseDestination(w *World, enemy *Unit, mem *EnemyMemory) *Coordinate {
	switch mem.State {
	case StateChase, StateSearch:
		return mem.LastKnownTargetPos
	case StateWander:
		fd := w.Floors[enemy.Position.Floor]
		for attempt := 0; attempt < 3; attempt++ {
			dx := w.rng.Range(-1, 1)
			dy := w.rng.Range(-1, 1)
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := enemy.Position.X+dx, enemy.Position.Y+dy
			t := fd.at(nx, ny)
			if t != nil && t.Metadata.Walkable {
				c := Coordinate{X: nx, Y: ny, Floor: enemy.Position.Floor}
				return &c
			}
		}
		return nil
	default:
		return nil
	}
}

// reserveDestination finds the smallest spiral ring (radius 0..2) around
// dest whose first walkable, in-bounds, unreserved tile becomes the
// planning pass's committed destination for this enemy.
func reserveDestination(w *World, dest Coordinate, reserved map[string]bool) (Coordinate, bool) {
	fd := w.Floors[dest.Floor]
	for radius := 0; radius <= 2; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if maxAbs(dx, dy) != radius {
					continue
				}
				x, y := dest.X+dx, dest.Y+dy
				t := fd.at(x, y)
				if t == nil || !t.Metadata.Walkable {
					continue
				}
				c := Coordinate{X: x, Y: y, Floor: dest.Floor}
				if reserved[c.Key()] {
					continue
				}
				return c, true
			}
		}
	}
	return Coordinate{}, false
}

func maxAbs(a, b int) int {
	aa, ab := absInt(a), absInt(b)
	if aa > ab {
		return aa
	}
	return ab
}

// simulateBudgetedPath paths enemy to dest and walks it step-by-step,
// accumulating local step costs (1.0 straight, 1.5 diagonal — no
// pass-through surcharge, since the search already rejects occupied
// non-goal tiles) until the next step would cross target's current
// position or would exceed enemy's remaining AP. It returns the last
// waypoint reached, the AP spent getting there, and that waypoint's
// index into the path (0 means "never moved").
func simulateBudgetedPath(w *World, enemy *Unit, dest, targetPos Coordinate) (Coordinate, float64, int) {
	path := FindPath(enemy.Position, dest, w.Floors, w.Units, enemy.ID)
	if len(path) == 0 {
		return enemy.Position, 0, 0
	}

	actual := path[0]
	var cost float64
	index := 0
	for i := 1; i < len(path); i++ {
		prev, next := path[i-1], path[i]
		step := straightStepCost
		if next.X != prev.X && next.Y != prev.Y {
			step = diagonalStepCost
		}
		if next.X == targetPos.X && next.Y == targetPos.Y && next.Floor == targetPos.Floor {
			break
		}
		if enemy.Status.AP < cost+step {
			break
		}
		cost += step
		actual = next
		index = i
	}
	return actual, cost, index
}

func moveAction(enemy *Unit, dest Coordinate, cost float64) Action {
	a := newAction(ActionMove, enemy.ID, cost)
	d := dest
	a.TargetPos = &d
	return a
}

func attackAction(enemy, target *Unit) Action {
	a := newAction(ActionAttack, enemy.ID, 3)
	id := target.ID
	a.TargetUnit = &id
	return a
}
