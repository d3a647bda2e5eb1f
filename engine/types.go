package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// Coordinate is a grid position on a specific floor. Equality is
// component-wise.
type Coordinate struct {
	X, Y, Floor int
}

// Key returns the "x,y,floor" string form used to index visible/explored
// tile sets.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%d,%d,%d", c.X, c.Y, c.Floor)
}

func manhattan(a, b Coordinate) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// TileType enumerates the kinds of tile a map can contain.
type TileType int

const (
	TileEmpty TileType = iota
	TileConcrete
	TileMud
	TileStairsUp
	TileStairsDown
	TileWall
)

// TileMetadata carries the numeric/boolean facts a tile's type implies.
type TileMetadata struct {
	NoiseCoefficient float64
	SpawnWeight      float64
	Interactable     bool
	Opacity          float64 // >= 1 blocks vision
	Walkable         bool
}

// Tile is a coordinate plus its type and metadata.
type Tile struct {
	Coord    Coordinate
	Type     TileType
	Metadata TileMetadata
}

func metadataFor(t TileType) TileMetadata {
	switch t {
	case TileWall:
		return TileMetadata{NoiseCoefficient: 0, Opacity: 1, Walkable: false}
	case TileStairsUp, TileStairsDown:
		return TileMetadata{NoiseCoefficient: 1, Opacity: 0, Walkable: true, Interactable: true}
	case TileMud:
		return TileMetadata{NoiseCoefficient: 1.5, Opacity: 0, Walkable: true}
	default: // TileEmpty, TileConcrete
		return TileMetadata{NoiseCoefficient: 1, Opacity: 0, Walkable: true}
	}
}

// FloorData is a single floor's tiles, indexed [x][y].
type FloorData struct {
	Width, Height int
	Tiles         [][]Tile
}

func newFloorData(width, height int) *FloorData {
	tiles := make([][]Tile, width)
	for x := range tiles {
		tiles[x] = make([]Tile, height)
	}
	return &FloorData{Width: width, Height: height, Tiles: tiles}
}

func (f *FloorData) inBounds(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}

func (f *FloorData) at(x, y int) *Tile {
	if !f.inBounds(x, y) {
		return nil
	}
	return &f.Tiles[x][y]
}

// UnitKind distinguishes the single player faction from enemies.
type UnitKind int

const (
	KindPlayer UnitKind = iota
	KindEnemy
)

func (k UnitKind) String() string {
	switch k {
	case KindPlayer:
		return "PLAYER"
	case KindEnemy:
		return "ENEMY"
	default:
		return "UNKNOWN"
	}
}

// Facing is the direction a unit is oriented towards.
type Facing int

const (
	FacingUp Facing = iota
	FacingDown
	FacingLeft
	FacingRight
)

// MovementMode toggles between audible running and quiet sneaking.
type MovementMode int

const (
	MoveRun MovementMode = iota
	MoveSneak
)

// UnitStatus holds a unit's numeric/boolean combat attributes.
type UnitStatus struct {
	HP, MaxHP         int
	AP, MaxAP         float64
	APRecovery        float64
	SightRange        int
	IsInjured         bool
	NoiseLevel        *int // nil means "use default 3"
	MovementMode      MovementMode
}

func (s UnitStatus) noiseLevel() int {
	if s.NoiseLevel != nil {
		return *s.NoiseLevel
	}
	return 3
}

func (s UnitStatus) apRecovery() float64 {
	if s.APRecovery > 0 {
		return s.APRecovery
	}
	return 5
}

// EnemyState is the AI state machine's current mode.
type EnemyState int

const (
	StateSleep EnemyState = iota
	StateWander
	StateChase
	StateSearch
)

func (s EnemyState) String() string {
	switch s {
	case StateSleep:
		return "SLEEP"
	case StateWander:
		return "WANDER"
	case StateChase:
		return "CHASE"
	case StateSearch:
		return "SEARCH"
	default:
		return "UNKNOWN"
	}
}

// EnemyMemory is the optional AI-only payload attached to enemy units.
type EnemyMemory struct {
	State              EnemyState
	LastKnownTargetPos *Coordinate
}

// Unit is a player or enemy actor. Units never hold references to other
// units; they are always addressed by ID through the World's unit map.
type Unit struct {
	ID       string       `json:"id"`
	Kind     UnitKind     `json:"kind"`
	Faction  UnitKind     `json:"faction"` // mirrors Kind for this single-player-faction design
	Name     string       `json:"name"`
	Position Coordinate   `json:"position"`
	Status   UnitStatus   `json:"status"`
	Facing   Facing       `json:"facing"`
	Memory   *EnemyMemory `json:"memory,omitempty"` // only set when Kind == KindEnemy
}

func newUnitID() string {
	return uuid.New().String()
}

// ActionKind tags the four queueable intent shapes.
type ActionKind int

const (
	ActionMove ActionKind = iota
	ActionAttack
	ActionClimb
	ActionWait
)

func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "MOVE"
	case ActionAttack:
		return "ATTACK"
	case ActionClimb:
		return "CLIMB"
	case ActionWait:
		return "WAIT"
	default:
		return "UNKNOWN"
	}
}

// ActionStatus tracks a queued action's place in its lifecycle.
type ActionStatus int

const (
	ActionQueued ActionStatus = iota
	ActionExecuting
	ActionCompleted
)

// Action is a queued intent: a unit's commitment to move, attack, climb
// or wait, resolved step-by-step by the Action Processor.
type Action struct {
	ID         string       `json:"id"`
	Kind       ActionKind   `json:"kind"`
	ActorID    string       `json:"actorId"`
	TargetPos  *Coordinate  `json:"targetPos,omitempty"`
	TargetUnit *string      `json:"targetUnit,omitempty"`
	Cost       float64      `json:"cost"`
	Status     ActionStatus `json:"status"`
}

func newAction(kind ActionKind, actorID string, cost float64) Action {
	return Action{ID: uuid.New().String(), Kind: kind, ActorID: actorID, Cost: cost, Status: ActionQueued}
}

// DamageEvent is a transient UI notification snapshotting a hit.
type DamageEvent struct {
	ID        string     `json:"id"`
	Position  Coordinate `json:"position"`
	Amount    int        `json:"amount"`
	Timestamp int64      `json:"timestamp"` // unix millis, passed to ApplyDamage (the processor stamps it via nowMillis)
}
