package engine

import "testing"

func TestFindPathStraightLine(t *testing.T) {
	fd := openFloor(10, 10)
	path := FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 3, Y: 0}, []*FloorData{fd}, nil, "mover")
	if path == nil {
		t.Fatal("expected a path")
	}
	if path[0] != (Coordinate{X: 0, Y: 0}) || path[len(path)-1] != (Coordinate{X: 3, Y: 0}) {
		t.Fatalf("path endpoints wrong: %v", path)
	}
	for i := 1; i < len(path); i++ {
		dx, dy := path[i].X-path[i-1].X, path[i].Y-path[i-1].Y
		if absInt(dx) > 1 || absInt(dy) > 1 || (dx == 0 && dy == 0) {
			t.Fatalf("illegal step from %v to %v", path[i-1], path[i])
		}
	}
}

func TestFindPathSameTile(t *testing.T) {
	fd := openFloor(10, 10)
	path := FindPath(Coordinate{X: 4, Y: 4}, Coordinate{X: 4, Y: 4}, []*FloorData{fd}, nil, "mover")
	if len(path) != 1 {
		t.Fatalf("expected single-element path, got %v", path)
	}
}

func TestFindPathBlockedByWalls(t *testing.T) {
	fd := openFloor(5, 5)
	for y := 0; y < 5; y++ {
		fd.Tiles[2][y] = Tile{Type: TileWall, Metadata: metadataFor(TileWall)}
	}
	path := FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 4, Y: 0}, []*FloorData{fd}, nil, "mover")
	if path != nil {
		t.Fatalf("expected no path through a solid wall, got %v", path)
	}
}

func TestFindPathRejectsWalkableGoalOccupiedByOther(t *testing.T) {
	fd := openFloor(5, 5)
	units := map[string]*Unit{
		"blocker": {ID: "blocker", Kind: KindEnemy, Position: Coordinate{X: 2, Y: 0}},
	}
	path := FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 2, Y: 0}, []*FloorData{fd}, units, "mover")
	if path != nil {
		t.Fatalf("expected no path terminating on an occupied tile, got %v", path)
	}
}

func TestFindPathPlayerPassesThroughEnemy(t *testing.T) {
	fd := openFloor(5, 5)
	// Wall off every other route so the only way through is the
	// enemy's tile.
	for y := 1; y < 5; y++ {
		fd.Tiles[1][y] = Tile{Type: TileWall, Metadata: metadataFor(TileWall)}
	}
	units := map[string]*Unit{
		"enemy": {ID: "enemy", Kind: KindEnemy, Position: Coordinate{X: 1, Y: 0}},
		"mover": {ID: "mover", Kind: KindPlayer, Position: Coordinate{X: 0, Y: 0}},
	}
	path := FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 2, Y: 0}, []*FloorData{fd}, units, "mover")
	if path == nil {
		t.Fatal("expected player to be able to path through an enemy tile en route")
	}
}

func TestFindPathEnemyBlockedByPlayer(t *testing.T) {
	fd := openFloor(5, 5)
	// Wall off every other route so the only way through is the
	// player's tile.
	for y := 0; y < 5; y++ {
		if y == 0 {
			continue
		}
		fd.Tiles[1][y] = Tile{Type: TileWall, Metadata: metadataFor(TileWall)}
	}
	units := map[string]*Unit{
		"player": {ID: "player", Kind: KindPlayer, Position: Coordinate{X: 1, Y: 0}},
		"mover":  {ID: "mover", Kind: KindEnemy, Position: Coordinate{X: 0, Y: 0}},
	}
	path := FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 2, Y: 0}, []*FloorData{fd}, units, "mover")
	if path != nil {
		t.Fatalf("expected enemy to be blocked by the player's tile, got %v", path)
	}
}

func TestFindPathPreconditionOutOfBounds(t *testing.T) {
	fd := openFloor(5, 5)
	path := FindPath(Coordinate{X: 0, Y: 0}, Coordinate{X: 10, Y: 10}, []*FloorData{fd}, nil, "mover")
	if path != nil {
		t.Fatal("expected nil path for an out-of-bounds destination")
	}
}
