package engine

// PhaseController owns the decision timer. A host delivers wall-clock
// deltas via Tick; when the timer expires during DECISION, it flips the
// world to EXECUTION (which runs AI planning as a side effect of
// SetPhase) and drains the action queue, returning the world to
// DECISION with the timer reset (spec §4.8).
type PhaseController struct {
	w *World
}

// NewPhaseController returns a controller bound to w.
func NewPhaseController(w *World) *PhaseController {
	return &PhaseController{w: w}
}

// Tick advances the decision timer by delta seconds. When it reaches
// zero it triggers an Execution phase that drains to completion before
// Tick returns.
func (c *PhaseController) Tick(delta float64) {
	if c.w.Phase != PhaseDecision {
		return
	}
	c.w.UpdateTimer(delta)
	if c.w.Timer <= 0 {
		c.ForceExecution()
	}
}

// ForceExecution transitions straight to EXECUTION (running the AI
// planner) and drains the queue, regardless of the current timer value.
// Used by hosts that want to cut a decision window short.
func (c *PhaseController) ForceExecution() {
	c.w.SetPhase(PhaseExecution)
	NewProcessor(c.w).DrainAll()
}
