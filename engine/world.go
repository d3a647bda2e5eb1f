package engine

import "log"

// Phase is the two-state game clock: DECISION (player queues intents,
// timer counts down) or EXECUTION (queue drains).
type Phase int

const (
	PhaseDecision Phase = iota
	PhaseExecution
)

func (p Phase) String() string {
	if p == PhaseExecution {
		return "EXECUTION"
	}
	return "DECISION"
}

const decisionTimerSeconds = 5.0

// World is the single mutable aggregate the whole simulation runs
// against. Every mutation funnels through the methods below; nothing
// else may assign into its exported fields from outside the package.
// The model is single-threaded cooperative (spec §5): callers must
// serialize their own access, World does not lock internally.
type World struct {
	Floors   []*FloorData
	Units    map[string]*Unit
	Phase    Phase
	Timer    float64
	Queue    []Action
	Seed     uint64
	PlayerID string

	VisibleTiles  map[string]bool
	ExploredTiles map[string]bool
	DebugFOW      bool
	DamageEvents  []DamageEvent

	rng     *PRNG
	planner *Planner
	opts    GenerateOptions
}

// NewWorld constructs an empty World ready for InitGame.
func NewWorld(opts GenerateOptions) *World {
	return &World{opts: opts, planner: NewPlanner(PlannerConfig{VisionMode: VisionDistance})}
}

// SetPlannerConfig overrides the AI planner's configuration (e.g. to
// opt into the 120-degree facing-cone vision extension, spec §9).
func (w *World) SetPlannerConfig(cfg PlannerConfig) {
	w.planner = NewPlanner(cfg)
}

// InitGame generates a fresh map, installs its units, and recomputes the
// player's FOV/explored tiles from scratch (spec §4.7).
func (w *World) InitGame(seed uint64) error {
	rng := NewPRNG(seed)
	gm, err := GenerateMap(rng, w.opts)
	if err != nil {
		return err
	}

	w.Floors = gm.floors
	w.Units = gm.units
	w.PlayerID = gm.playerID
	w.Seed = seed
	w.rng = rng
	w.Phase = PhaseDecision
	w.Timer = decisionTimerSeconds
	w.Queue = nil
	w.DebugFOW = false
	w.DamageEvents = nil

	if player, ok := w.Units[w.PlayerID]; ok {
		w.VisibleTiles = CalculateFOV(player.Position, player.Status.SightRange, w.Floors)
	} else {
		w.VisibleTiles = map[string]bool{}
	}
	w.ExploredTiles = map[string]bool{}
	for k := range w.VisibleTiles {
		w.ExploredTiles[k] = true
	}
	return nil
}

// SetPhase transitions the world to p. Entering DECISION regenerates
// every unit's AP. Entering EXECUTION runs the AI planner and splices
// its intents onto the queue (spec §4.7).
func (w *World) SetPhase(p Phase) {
	w.Phase = p
	switch p {
	case PhaseDecision:
		for _, u := range w.Units {
			u.Status.AP = minFloat(u.Status.MaxAP, u.Status.AP+u.Status.apRecovery())
		}
	case PhaseExecution:
		intents := w.planner.Plan(w)
		w.Queue = append(w.Queue, intents...)
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// UpdateTimer advances the decision countdown by delta seconds,
// clamped to >= 0. No-op outside DECISION.
func (w *World) UpdateTimer(delta float64) {
	if w.Phase != PhaseDecision {
		return
	}
	w.Timer -= delta
	if w.Timer < 0 {
		w.Timer = 0
	}
}

// QueueAction pre-debits the acting unit's AP (if it still exists) and
// appends a to the queue. Callers are responsible for ensuring
// sufficient AP before calling (spec §4.7/§7 — the core itself is
// tolerant and performs no rejection).
func (w *World) QueueAction(a Action) {
	if a.Cost > 0 {
		if u, ok := w.Units[a.ActorID]; ok {
			u.Status.AP -= a.Cost
		}
	}
	w.Queue = append(w.Queue, a)
}

// CancelAction pops the most recently queued action and refunds its
// cost. No-op if the queue is empty.
func (w *World) CancelAction() {
	if len(w.Queue) == 0 {
		return
	}
	last := w.Queue[len(w.Queue)-1]
	w.Queue = w.Queue[:len(w.Queue)-1]
	if last.Cost > 0 {
		if u, ok := w.Units[last.ActorID]; ok {
			u.Status.AP += last.Cost
		}
	}
}

// ClearActionQueue empties the queue with no refunds — used only at the
// end of an Execution phase.
func (w *World) ClearActionQueue() {
	w.Queue = nil
}

// UpdateUnitPosition moves a unit. If the unit is the player, this also
// recomputes visibleTiles and merges them into exploredTiles (spec
// §4.3/§4.7).
func (w *World) UpdateUnitPosition(id string, pos Coordinate) {
	u, ok := w.Units[id]
	if !ok {
		return
	}
	u.Position = pos
	if u.Kind == KindPlayer {
		w.VisibleTiles = CalculateFOV(pos, u.Status.SightRange, w.Floors)
		for k := range w.VisibleTiles {
			w.ExploredTiles[k] = true
		}
	}
}

// UnitStatusPatch carries the subset of UnitStatus fields to merge via
// UpdateUnitStatus; nil fields are left untouched.
type UnitStatusPatch struct {
	HP, MaxHP    *int
	AP, MaxAP    *float64
	APRecovery   *float64
	SightRange   *int
	NoiseLevel   *int
	MovementMode *MovementMode
}

// UpdateUnitStatus merges non-nil fields of patch into the unit's
// status, then recomputes IsInjured.
func (w *World) UpdateUnitStatus(id string, patch UnitStatusPatch) {
	u, ok := w.Units[id]
	if !ok {
		return
	}
	s := &u.Status
	if patch.HP != nil {
		s.HP = *patch.HP
	}
	if patch.MaxHP != nil {
		s.MaxHP = *patch.MaxHP
	}
	if patch.AP != nil {
		s.AP = *patch.AP
	}
	if patch.MaxAP != nil {
		s.MaxAP = *patch.MaxAP
	}
	if patch.APRecovery != nil {
		s.APRecovery = *patch.APRecovery
	}
	if patch.SightRange != nil {
		s.SightRange = *patch.SightRange
	}
	if patch.NoiseLevel != nil {
		s.NoiseLevel = patch.NoiseLevel
	}
	if patch.MovementMode != nil {
		s.MovementMode = *patch.MovementMode
	}
	s.IsInjured = s.HP < s.MaxHP/2
}

// ApplyDamage reduces a unit's HP by amount, removing and logging it on
// death, otherwise refreshing IsInjured; either way a DamageEvent is
// appended (spec §4.7).
func (w *World) ApplyDamage(id string, amount int, timestamp int64) {
	u, ok := w.Units[id]
	if !ok {
		return
	}
	u.Status.HP -= amount
	w.DamageEvents = append(w.DamageEvents, DamageEvent{
		ID:        newUnitID(),
		Position:  u.Position,
		Amount:    amount,
		Timestamp: timestamp,
	})
	if u.Status.HP <= 0 {
		delete(w.Units, id)
		log.Printf("engine: unit %s (%s) died", id, u.Name)
		return
	}
	u.Status.IsInjured = u.Status.HP < u.Status.MaxHP/2
}

// RemoveDamageEvent deletes the event with the given id, if present.
func (w *World) RemoveDamageEvent(id string) {
	for i, e := range w.DamageEvents {
		if e.ID == id {
			w.DamageEvents = append(w.DamageEvents[:i], w.DamageEvents[i+1:]...)
			return
		}
	}
}

// ToggleDebugFOW flips the debug fog-of-war flag; renderers treat all
// tiles as visible while it is set, the true VisibleTiles are unchanged.
func (w *World) ToggleDebugFOW() {
	w.DebugFOW = !w.DebugFOW
}

// ToggleSneak flips a unit's movement mode between RUN and SNEAK.
func (w *World) ToggleSneak(id string) {
	u, ok := w.Units[id]
	if !ok {
		return
	}
	if u.Status.MovementMode == MoveRun {
		u.Status.MovementMode = MoveSneak
	} else {
		u.Status.MovementMode = MoveRun
	}
}
