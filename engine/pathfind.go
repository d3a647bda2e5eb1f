package engine

import "container/heap"

const (
	straightStepCost = 1.0
	diagonalStepCost = 1.5
	passThroughCost  = 3.0
)

var neighborDeltas = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

type pathNode struct {
	x, y     int
	g, f     float64
	order    int // insertion order, used as the tie-break
	parent   *pathNode
	index    int // heap bookkeeping
}

type openHeap []*pathNode

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].order < h[j].order
}
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *openHeap) Push(x any) {
	n := *h
	item := x.(*pathNode)
	item.index = len(n)
	*h = append(n, item)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

func octileHeuristic(dx, dy int) float64 {
	adx, ady := float64(absInt(dx)), float64(absInt(dy))
	min := adx
	if ady < min {
		min = ady
	}
	return (adx + ady) - 0.5*min
}

func occupant(units map[string]*Unit, x, y, floor int, excludeID string) *Unit {
	for id, u := range units {
		if id == excludeID {
			continue
		}
		if u.Position.X == x && u.Position.Y == y && u.Position.Floor == floor {
			return u
		}
	}
	return nil
}

// FindPath runs 8-directional weighted A* from start to end on
// start.Floor, honoring static walls and dynamic unit occupancy, per
// spec §4.4. Returns nil if no path exists or the preconditions fail.
// The returned path, if any, runs start..end inclusive and never
// changes floor (cross-floor motion is the CLIMB action's job).
func FindPath(start, end Coordinate, floors []*FloorData, units map[string]*Unit, moverID string) []Coordinate {
	if start.Floor < 0 || start.Floor >= len(floors) {
		return nil
	}
	fd := floors[start.Floor]
	if !fd.inBounds(end.X, end.Y) {
		return nil
	}
	endTile := fd.at(end.X, end.Y)
	if endTile == nil || !endTile.Metadata.Walkable {
		return nil
	}
	if start.X == end.X && start.Y == end.Y {
		return []Coordinate{start}
	}

	var mover *Unit
	if u, ok := units[moverID]; ok {
		mover = u
	}

	open := &openHeap{}
	heap.Init(open)
	openIndex := make(map[[2]int]*pathNode)
	closed := make(map[[2]int]bool)

	order := 0
	startNode := &pathNode{x: start.X, y: start.Y, g: 0, f: octileHeuristic(end.X-start.X, end.Y-start.Y), order: order}
	order++
	heap.Push(open, startNode)
	openIndex[[2]int{start.X, start.Y}] = startNode

	var goalNode *pathNode

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		key := [2]int{current.x, current.y}
		delete(openIndex, key)
		if closed[key] {
			continue
		}
		closed[key] = true

		if current.x == end.X && current.y == end.Y {
			goalNode = current
			break
		}

		for _, d := range neighborDeltas {
			nx, ny := current.x+d[0], current.y+d[1]
			nkey := [2]int{nx, ny}
			if closed[nkey] {
				continue
			}
			tile := fd.at(nx, ny)
			if tile == nil || !tile.Metadata.Walkable {
				continue
			}

			stepCost := straightStepCost
			if d[0] != 0 && d[1] != 0 {
				stepCost = diagonalStepCost
			}

			isGoal := nx == end.X && ny == end.Y
			blocker := occupant(units, nx, ny, start.Floor, moverID)
			if blocker != nil {
				if isGoal {
					continue // cannot terminate on a unit
				}
				if mover != nil && mover.Kind == KindPlayer && blocker.Kind == KindEnemy {
					stepCost = passThroughCost
				} else {
					continue // blocked
				}
			}

			gPrime := current.g + stepCost
			if existing, ok := openIndex[nkey]; ok {
				if gPrime >= existing.g {
					continue
				}
				existing.g = gPrime
				existing.f = gPrime + octileHeuristic(end.X-nx, end.Y-ny)
				existing.parent = current
				heap.Fix(open, existing.index)
				continue
			}

			node := &pathNode{
				x: nx, y: ny,
				g:      gPrime,
				f:      gPrime + octileHeuristic(end.X-nx, end.Y-ny),
				order:  order,
				parent: current,
			}
			order++
			heap.Push(open, node)
			openIndex[nkey] = node
		}
	}

	if goalNode == nil {
		return nil
	}

	var rev []Coordinate
	for n := goalNode; n != nil; n = n.parent {
		rev = append(rev, Coordinate{X: n.x, Y: n.y, Floor: start.Floor})
	}
	path := make([]Coordinate, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}
