package core

import (
	"testing"
)

func TestNewGrid(t *testing.T) {
	g := NewGrid(10, 4)

	if g.Width() != 10 || g.Height() != 4 {
		t.Errorf("size = (%d,%d), want (10,4)", g.Width(), g.Height())
	}
	if got := g.At(0, 0); !got.Equals(EmptyCell()) {
		t.Errorf("new grid cell = %+v, want empty", got)
	}

	z := NewGrid(-3, -1)
	if z.Width() != 0 || z.Height() != 0 {
		t.Errorf("negative size grid = (%d,%d), want (0,0)", z.Width(), z.Height())
	}
}

func TestGridSetAtBounds(t *testing.T) {
	g := NewGrid(3, 2)

	g.Set(1, 1, NewCell('x'))
	if got := g.At(1, 1); got.Rune != 'x' {
		t.Errorf("At(1,1) = %+v, want 'x'", got)
	}

	// Out-of-range writes are dropped, reads return empty.
	g.Set(5, 0, NewCell('y'))
	g.Set(0, -1, NewCell('y'))
	if got := g.At(5, 0); !got.Equals(EmptyCell()) {
		t.Errorf("out of range At = %+v, want empty", got)
	}
}

func TestGridWriteString(t *testing.T) {
	g := NewGrid(10, 1)

	n := g.WriteString(2, 0, "ab", DefaultStyle())
	if n != 2 {
		t.Errorf("consumed %d columns, want 2", n)
	}
	if g.At(2, 0).Rune != 'a' || g.At(3, 0).Rune != 'b' {
		t.Errorf("row = %q", g.RowString(0))
	}
}

func TestGridWriteStringWide(t *testing.T) {
	g := NewGrid(5, 1)

	n := g.WriteString(0, 0, "漢a", DefaultStyle())
	if n != 3 {
		t.Errorf("consumed %d columns, want 3", n)
	}
	if g.At(0, 0).Rune != '漢' || g.At(0, 0).Width != 2 {
		t.Errorf("wide cell = %+v", g.At(0, 0))
	}
	if !g.At(1, 0).IsContinuation() {
		t.Errorf("cell (1,0) should be continuation, got %+v", g.At(1, 0))
	}
	if g.At(2, 0).Rune != 'a' {
		t.Errorf("cell (2,0) = %+v", g.At(2, 0))
	}
}

func TestGridWriteStringClips(t *testing.T) {
	g := NewGrid(3, 1)

	// Wide cluster at the edge does not fit and is dropped.
	n := g.WriteString(0, 0, "ab漢c", DefaultStyle())
	if n != 2 {
		t.Errorf("consumed %d columns, want 2 (wide cluster clipped)", n)
	}
	if g.At(2, 0).Rune != ' ' {
		t.Errorf("clipped cell = %+v, want empty", g.At(2, 0))
	}

	if n := g.WriteString(0, 5, "off grid", DefaultStyle()); n != 0 {
		t.Errorf("write on missing row consumed %d columns", n)
	}
}

func TestGridFillClips(t *testing.T) {
	g := NewGrid(4, 4)
	mark := NewCell('#')

	g.Fill(NewScreenRect(2, 2, 10, 10), mark)

	if g.At(2, 2).Rune != '#' || g.At(3, 3).Rune != '#' {
		t.Error("fill should cover in-bounds region")
	}
	if g.At(1, 1).Rune != ' ' {
		t.Error("fill should not touch cells outside rect")
	}
}

func TestGridSnapshotRestore(t *testing.T) {
	g := NewGrid(6, 2)
	g.WriteString(0, 0, "before", DefaultStyle())

	snap := g.Snapshot()

	// A failed render attempt scribbles over the grid, then rolls back.
	g.WriteString(0, 0, "broken", DefaultStyle())
	g.WriteString(0, 1, "!!!", DefaultStyle())

	g.Restore(snap)

	if got := g.RowString(0); got != "before" {
		t.Errorf("row 0 after restore = %q, want %q", got, "before")
	}
	if got := g.RowString(1); got != "" {
		t.Errorf("row 1 after restore = %q, want empty", got)
	}
}

func TestGridRestoreSizeMismatch(t *testing.T) {
	g := NewGrid(4, 1)
	g.WriteString(0, 0, "keep", DefaultStyle())

	g.Restore(NewGrid(2, 2))
	g.Restore(nil)

	if got := g.RowString(0); got != "keep" {
		t.Errorf("row 0 = %q, mismatched restore should be a no-op", got)
	}
}

func TestGridRowString(t *testing.T) {
	g := NewGrid(8, 1)
	g.WriteString(0, 0, "ab", DefaultStyle())

	if got := g.RowString(0); got != "ab" {
		t.Errorf("RowString = %q, want %q (trailing blanks trimmed)", got, "ab")
	}
	if g.Row(5) != nil {
		t.Error("Row out of range should be nil")
	}
}
