package engine

import "testing"

func TestGenerateMapDeterminism(t *testing.T) {
	opts := NewGenerateOptions()
	a, err := GenerateMap(NewPRNG(42), opts)
	if err != nil {
		t.Fatalf("GenerateMap: %v", err)
	}
	b, err := GenerateMap(NewPRNG(42), opts)
	if err != nil {
		t.Fatalf("GenerateMap: %v", err)
	}

	if a.stairCoord != b.stairCoord {
		t.Fatalf("stair coords diverged: %v vs %v", a.stairCoord, b.stairCoord)
	}
	if len(a.units) != len(b.units) {
		t.Fatalf("unit counts diverged: %d vs %d", len(a.units), len(b.units))
	}
	for x := 0; x < opts.Width; x++ {
		for y := 0; y < opts.Height; y++ {
			if a.floors[0].Tiles[x][y].Type != b.floors[0].Tiles[x][y].Type {
				t.Fatalf("tile (%d,%d) diverged", x, y)
			}
		}
	}
}

func TestGenerateMapPlazaAndStairs(t *testing.T) {
	opts := NewGenerateOptions()
	gm, err := GenerateMap(NewPRNG(42), opts)
	if err != nil {
		t.Fatalf("GenerateMap: %v", err)
	}

	cx, cy := opts.Width/2, opts.Height/2
	center := gm.floors[0].Tiles[cx][cy]
	if !center.Metadata.Walkable || center.Type != TileConcrete {
		t.Fatalf("plaza center not walkable concrete: %+v", center)
	}

	player, ok := gm.units[gm.playerID]
	if !ok {
		t.Fatal("player unit missing")
	}
	if player.Position.X != cx || player.Position.Y != cy || player.Position.Floor != 0 {
		t.Fatalf("player not spawned at plaza center: %+v", player.Position)
	}

	enemyCount := 0
	for _, u := range gm.units {
		if u.Kind == KindEnemy {
			enemyCount++
		}
	}
	if enemyCount < 3 || enemyCount > 5 {
		t.Fatalf("enemy count %d outside [3,5]", enemyCount)
	}

	sx, sy := gm.stairCoord.X, gm.stairCoord.Y
	if chebyshev(sx, sy, cx, cy) < StairMinDistance {
		t.Fatalf("stairs too close to plaza: (%d,%d) vs center (%d,%d)", sx, sy, cx, cy)
	}
	if gm.floors[0].Tiles[sx][sy].Type != TileStairsUp {
		t.Fatalf("floor 0 stair tile not STAIRS_UP: %v", gm.floors[0].Tiles[sx][sy].Type)
	}
	if gm.floors[1].Tiles[sx][sy].Type != TileStairsDown {
		t.Fatalf("floor 1 stair tile not STAIRS_DOWN: %v", gm.floors[1].Tiles[sx][sy].Type)
	}
}

func TestSpawnEnemiesNeverHangsUnderPressure(t *testing.T) {
	opts := GenerateOptions{Width: 5, Height: 5, Floors: 1}
	gm, err := GenerateMap(NewPRNG(1), opts)
	if err != nil {
		t.Fatalf("GenerateMap: %v", err)
	}
	enemyCount := 0
	for _, u := range gm.units {
		if u.Kind == KindEnemy {
			enemyCount++
		}
	}
	if enemyCount > 5 {
		t.Fatalf("enemy count %d should never exceed requested max", enemyCount)
	}
}
