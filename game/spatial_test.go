package game

import "testing"

func hasRef(refs []EntityRef, kind EntityKind, idx int) bool {
	for _, r := range refs {
		if r.Kind == kind && r.Idx == idx {
			return true
		}
	}
	return false
}

func TestSpatialGridInsertAndQuery(t *testing.T) {
	grid := NewSpatialGrid(7200, 5400)

	grid.Insert(100, 100, EntityRef{Kind: KindPlayer, Idx: 0})

	if !hasRef(grid.QueryBuf(100, 100, 50, nil), KindPlayer, 0) {
		t.Error("expected to find entity at (100,100)")
	}
	if hasRef(grid.QueryBuf(3000, 3000, 50, nil), KindPlayer, 0) {
		t.Error("should not find entity at (3000,3000)")
	}
}

func TestSpatialGridClear(t *testing.T) {
	grid := NewSpatialGrid(7200, 5400)

	grid.Insert(500, 500, EntityRef{Kind: KindMob, Idx: 0})
	grid.Clear()

	results := grid.QueryBuf(500, 500, 100, nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results after clear, got %d", len(results))
	}
}

func TestSpatialGridBoundaryClamp(t *testing.T) {
	grid := NewSpatialGrid(7200, 5400)

	// Negative coords should clamp to 0
	grid.Insert(-10, -10, EntityRef{Kind: KindPlayer, Idx: 0})
	if !hasRef(grid.QueryBuf(0, 0, 50, nil), KindPlayer, 0) {
		t.Error("expected to find entity inserted at negative coords")
	}

	// Beyond world edge should clamp to max
	grid.Insert(9000, 9000, EntityRef{Kind: KindPlayer, Idx: 1})
	if !hasRef(grid.QueryBuf(7200, 5400, 50, nil), KindPlayer, 1) {
		t.Error("expected to find entity inserted beyond world edge")
	}
}

func TestSpatialGridQueryBufReuse(t *testing.T) {
	grid := NewSpatialGrid(1000, 1000)
	grid.Insert(10, 10, EntityRef{Kind: KindMob, Idx: 3})

	buf := make([]EntityRef, 0, 8)
	buf = grid.QueryBuf(10, 10, 5, buf)
	if len(buf) != 1 {
		t.Fatalf("expected 1 result, got %d", len(buf))
	}
	buf = grid.QueryBuf(900, 900, 5, buf[:0])
	if len(buf) != 0 {
		t.Errorf("expected 0 results far away, got %d", len(buf))
	}
}

func TestSpatialGridEdgeCellsAgree(t *testing.T) {
	grid := NewSpatialGrid(7200, 5400)

	// a body pushed right onto the far corner must be found from just inside it
	grid.Insert(7200, 5400, EntityRef{Kind: KindMob, Idx: 4})
	if !hasRef(grid.QueryBuf(7190, 5390, 10, nil), KindMob, 4) {
		t.Error("expected to find entity on the far corner")
	}
	grid.Insert(7199.9, 0, EntityRef{Kind: KindMob, Idx: 5})
	if !hasRef(grid.QueryBuf(7300, -50, 10, nil), KindMob, 5) {
		t.Error("expected a query past the edge to reach the edge cell")
	}
}
