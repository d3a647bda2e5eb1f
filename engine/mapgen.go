package engine

import "fmt"

// Map generation constants, locked per spec §6.
const (
	DefaultWidth       = 20
	DefaultHeight      = 20
	DefaultFloors      = 2
	WallDensity        = 0.2
	PlazaSize          = 5
	StairMinDistance   = 5
	minEnemies         = 3
	maxEnemies         = 5
	spawnAttemptBudget = 100
)

// GenerateOptions parameterizes map generation; the zero value is not
// valid, use NewGenerateOptions for the spec-locked default.
type GenerateOptions struct {
	Width, Height, Floors int
}

// NewGenerateOptions returns the default 20x20, 2-floor configuration.
func NewGenerateOptions() GenerateOptions {
	return GenerateOptions{Width: DefaultWidth, Height: DefaultHeight, Floors: DefaultFloors}
}

// generatedMap is the fragment GenerateMap produces: floors plus the
// units to install and the player's spawn position.
type generatedMap struct {
	floors      []*FloorData
	units       map[string]*Unit
	playerID    string
	stairCoord  Coordinate // (sx, sy) shared by floor 0 and floor 1
}

// GenerateMap builds a fresh floor stack, carves the spawn plaza, places
// stairs, and spawns the player and enemies, per spec §4.2. All
// randomness is drawn from rng so identical seeds yield identical maps.
func GenerateMap(rng *PRNG, opts GenerateOptions) (*generatedMap, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.Floors <= 0 {
		return nil, fmt.Errorf("engine: invalid map dimensions %dx%d floors=%d", opts.Width, opts.Height, opts.Floors)
	}

	floors := make([]*FloorData, opts.Floors)
	for f := 0; f < opts.Floors; f++ {
		floors[f] = fillFloor(rng, opts.Width, opts.Height, f)
	}

	cx, cy := opts.Width/2, opts.Height/2
	carvePlaza(floors[0], cx, cy)

	sx, sy := pickStairCoordinate(rng, opts.Width, opts.Height, cx, cy)
	placeStairs(floors, 0, sx, sy)

	units := make(map[string]*Unit)
	player := spawnPlayer(cx, cy)
	units[player.ID] = player

	enemyCount := 3 + rng.Range(0, 2)
	spawnEnemies(rng, floors[0], units, cx, cy, enemyCount)

	return &generatedMap{
		floors:     floors,
		units:      units,
		playerID:   player.ID,
		stairCoord: Coordinate{X: sx, Y: sy, Floor: 0},
	}, nil
}

func fillFloor(rng *PRNG, width, height, floor int) *FloorData {
	fd := newFloorData(width, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			tt := TileConcrete
			if rng.Next() < WallDensity {
				tt = TileWall
			}
			fd.Tiles[x][y] = Tile{
				Coord:    Coordinate{X: x, Y: y, Floor: floor},
				Type:     tt,
				Metadata: metadataFor(tt),
			}
		}
	}
	return fd
}

// carvePlaza forces a PlazaSize x PlazaSize block centered at (cx,cy) to
// walkable, transparent concrete, per spec §4.2 step 2.
func carvePlaza(fd *FloorData, cx, cy int) {
	half := PlazaSize / 2
	for dx := -half; dx <= half; dx++ {
		for dy := -half; dy <= half; dy++ {
			if t := fd.at(cx+dx, cy+dy); t != nil {
				t.Type = TileConcrete
				t.Metadata = metadataFor(TileConcrete)
			}
		}
	}
}

// pickStairCoordinate rejection-samples an inner-bounds tile at least
// StairMinDistance (Chebyshev) away from the plaza center.
func pickStairCoordinate(rng *PRNG, width, height, cx, cy int) (int, int) {
	bestX, bestY, bestDist := 1, 1, -1
	for attempt := 0; attempt < spawnAttemptBudget; attempt++ {
		sx := rng.Range(1, width-2)
		sy := rng.Range(1, height-2)
		if chebyshev(sx, sy, cx, cy) >= StairMinDistance {
			return sx, sy
		}
		if d := chebyshev(sx, sy, cx, cy); d > bestDist {
			bestX, bestY, bestDist = sx, sy, d
		}
	}
	// Map too small to satisfy the distance rule (e.g. under test
	// pressure with tiny dimensions) — fall back to the farthest
	// candidate seen rather than loop forever.
	return bestX, bestY
}

func chebyshev(x1, y1, x2, y2 int) int {
	dx, dy := absInt(x1-x2), absInt(y1-y2)
	if dx > dy {
		return dx
	}
	return dy
}

func placeStairs(floors []*FloorData, floor0 int, sx, sy int) {
	if t := floors[floor0].at(sx, sy); t != nil {
		t.Type = TileStairsUp
		t.Metadata = metadataFor(TileStairsUp)
	}
	if len(floors) > floor0+1 {
		if t := floors[floor0+1].at(sx, sy); t != nil {
			t.Type = TileStairsDown
			t.Metadata = metadataFor(TileStairsDown)
		}
	}
}

func spawnPlayer(cx, cy int) *Unit {
	return &Unit{
		ID:      newUnitID(),
		Kind:    KindPlayer,
		Faction: KindPlayer,
		Name:    "Player",
		Position: Coordinate{X: cx, Y: cy, Floor: 0},
		Status: UnitStatus{
			HP: 100, MaxHP: 100,
			AP: 10, MaxAP: 10, APRecovery: 5,
			SightRange: 10,
			NoiseLevel: intPtr(3),
		},
		Facing: FacingDown,
	}
}

func intPtr(v int) *int { return &v }

// spawnEnemies rejection-samples n walkable, unoccupied tiles Manhattan
// distant >6 from the plaza center, abandoning each attempt budget after
// spawnAttemptBudget tries (spec §4.2 step 5, §8 "never hangs").
func spawnEnemies(rng *PRNG, fd *FloorData, units map[string]*Unit, cx, cy, n int) {
	occupied := func(x, y int) bool {
		for _, u := range units {
			if u.Position.X == x && u.Position.Y == y && u.Position.Floor == 0 {
				return true
			}
		}
		return false
	}

	for i := 0; i < n; i++ {
		placed := false
		for attempt := 0; attempt < spawnAttemptBudget; attempt++ {
			x := rng.Range(0, fd.Width-1)
			y := rng.Range(0, fd.Height-1)
			t := fd.at(x, y)
			if t == nil || !t.Metadata.Walkable {
				continue
			}
			if absInt(x-cx)+absInt(y-cy) <= 6 {
				continue
			}
			if occupied(x, y) {
				continue
			}
			e := &Unit{
				ID:      newUnitID(),
				Kind:    KindEnemy,
				Faction: KindEnemy,
				Name:    fmt.Sprintf("Enemy %d", i+1),
				Position: Coordinate{X: x, Y: y, Floor: 0},
				Status: UnitStatus{
					HP: 3, MaxHP: 3,
					AP: 8, MaxAP: 8, APRecovery: 4,
					SightRange: 7,
				},
				Facing: FacingDown,
				Memory: &EnemyMemory{State: StateSleep},
			}
			units[e.ID] = e
			placed = true
			break
		}
		if !placed {
			// Abandon spawning this enemy (and, implicitly, any further
			// ones) rather than hang; spec §8 boundary case.
			return
		}
	}
}
