package snapshot

import (
	"sync"
	"testing"
)

func TestPublishedLatestIsNilBeforePublish(t *testing.T) {
	var p Published
	if p.Latest() != nil {
		t.Fatal("expected nil before first Publish")
	}
}

func TestPublishedLatestReturnsMostRecent(t *testing.T) {
	var p Published
	first := &Snapshot{Revision: 1}
	second := &Snapshot{Revision: 2}

	p.Publish(first)
	if p.Latest().Revision != 1 {
		t.Fatalf("revision = %d, want 1", p.Latest().Revision)
	}

	p.Publish(second)
	if p.Latest().Revision != 2 {
		t.Fatalf("revision = %d, want 2", p.Latest().Revision)
	}
}

func TestPublishedConcurrentReadersSeeAValidSnapshot(t *testing.T) {
	var p Published
	p.Publish(&Snapshot{Revision: 1, Width: 1, Height: 1, Cells: []Cell{{Rune: 'x'}}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := p.Latest()
			if s == nil || s.Revision == 0 {
				t.Error("reader observed an invalid snapshot")
			}
		}()
	}
	wg.Wait()
}

func TestCellAtOutOfBoundsReturnsZeroValue(t *testing.T) {
	s := &Snapshot{Width: 2, Height: 2, Cells: make([]Cell, 4)}
	if c := s.CellAt(-1, 0); c != (Cell{}) {
		t.Fatalf("CellAt(-1,0) = %+v, want zero value", c)
	}
	if c := s.CellAt(2, 0); c != (Cell{}) {
		t.Fatalf("CellAt(2,0) = %+v, want zero value", c)
	}
}

func TestCellAtInBoundsIndexesRowMajor(t *testing.T) {
	s := &Snapshot{Width: 2, Height: 2, Cells: []Cell{
		{Rune: 'a'}, {Rune: 'b'},
		{Rune: 'c'}, {Rune: 'd'},
	}}
	if s.CellAt(1, 1).Rune != 'd' {
		t.Fatalf("CellAt(1,1) = %+v, want 'd'", s.CellAt(1, 1))
	}
}
