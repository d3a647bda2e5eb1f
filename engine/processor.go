package engine

import "log"

// StepDelay is the animation-pacing delay a real-time host should wait
// between calls to Advance; it is not a semantic requirement of the
// core (spec §5) — DrainAll never sleeps on it.
const StepDelay = 300 // milliseconds

// Processor resolves queued Actions sequentially against a World,
// re-reading live state before each step (spec §4.6). It is exposed as
// a step-iterator per spec §9: Advance() performs one action's worth of
// mutation and returns; a real-time host paces calls to it on a timer,
// a test harness calls it synchronously.
type Processor struct {
	w     *World
	index int
}

// NewProcessor returns a Processor that will drain w's current queue
// starting from its first element.
func NewProcessor(w *World) *Processor {
	return &Processor{w: w}
}

// Done reports whether every queued action has been processed.
func (p *Processor) Done() bool {
	return p.index >= len(p.w.Queue)
}

// Advance executes the next queued action, if any, and reports whether
// one was executed.
func (p *Processor) Advance() bool {
	if p.Done() {
		return false
	}
	a := p.w.Queue[p.index]
	p.index++
	p.execute(a)
	return true
}

// DrainAll advances the processor to completion, then clears the queue,
// returns the world to DECISION, and resets the timer (spec §4.6).
func (p *Processor) DrainAll() {
	for p.Advance() {
	}
	p.w.ClearActionQueue()
	p.w.SetPhase(PhaseDecision)
	p.w.Timer = decisionTimerSeconds
}

func (p *Processor) execute(a Action) {
	switch a.Kind {
	case ActionMove:
		p.executeMove(a)
	case ActionAttack:
		p.executeAttack(a)
	case ActionClimb:
		p.executeClimb(a)
	case ActionWait:
		// no state change
	}
}

func (p *Processor) executeMove(a Action) {
	w := p.w
	mover, ok := w.Units[a.ActorID]
	if !ok || a.TargetPos == nil {
		return
	}

	path := FindPath(mover.Position, *a.TargetPos, w.Floors, w.Units, mover.ID)
	if len(path) == 0 {
		return
	}

	for i := 1; i < len(path); i++ {
		wp := path[i]
		isFinal := i == len(path)-1
		blocker := occupant(w.Units, wp.X, wp.Y, wp.Floor, mover.ID)

		if blocker != nil {
			if isFinal {
				log.Printf("engine: unit %s blocked at destination, stopping short", mover.ID)
				return
			}
			if mover.Kind == KindPlayer && blocker.Kind == KindEnemy {
				// pass through
			} else {
				log.Printf("engine: unit %s blocked mid-path, stopping", mover.ID)
				return
			}
		}

		w.UpdateUnitPosition(mover.ID, wp)
	}
}

func (p *Processor) executeAttack(a Action) {
	w := p.w
	if a.TargetUnit == nil {
		return
	}
	attacker, ok := w.Units[a.ActorID]
	if !ok || attacker.Status.HP <= 0 {
		return
	}
	target, ok := w.Units[*a.TargetUnit]
	if !ok || target.Status.HP <= 0 {
		return
	}
	if attacker.Position.Floor != target.Position.Floor {
		return
	}
	if manhattan(attacker.Position, target.Position) > 1 {
		return
	}
	w.ApplyDamage(target.ID, 1, nowMillis())
}

func (p *Processor) executeClimb(a Action) {
	w := p.w
	unit, ok := w.Units[a.ActorID]
	if !ok {
		return
	}
	fd := w.Floors[unit.Position.Floor]
	tile := fd.at(unit.Position.X, unit.Position.Y)
	if tile == nil {
		return
	}

	var delta int
	switch tile.Type {
	case TileStairsUp:
		delta = 1
	case TileStairsDown:
		delta = -1
	default:
		return
	}

	targetFloor := unit.Position.Floor + delta
	if targetFloor < 0 || targetFloor >= len(w.Floors) {
		return
	}
	w.UpdateUnitPosition(unit.ID, Coordinate{X: unit.Position.X, Y: unit.Position.Y, Floor: targetFloor})
}
