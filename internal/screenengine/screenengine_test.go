package screenengine

import (
	"strings"
	"testing"

	"github.com/oconsole/go-condrv/internal/constants"
	"github.com/oconsole/go-condrv/internal/vtinput"
)

func TestWriteTextAdvancesCursorAndWraps(t *testing.T) {
	e := NewMinimal(4, 2, 0)
	if err := e.WriteText([]byte("abcde")); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	snap := e.Snapshot()
	if snap.CellAt(0, 0).Rune != 'a' || snap.CellAt(3, 0).Rune != 'd' {
		t.Fatalf("row 0 = %q %q", snap.CellAt(0, 0).Rune, snap.CellAt(3, 0).Rune)
	}
	if snap.CellAt(0, 1).Rune != 'e' {
		t.Fatalf("expected wrap to row 1, got %q", snap.CellAt(0, 1).Rune)
	}
}

func TestSetTitleTruncatesToMaxRunes(t *testing.T) {
	e := NewMinimal(1, 1, 0)
	long := strings.Repeat("x", constants.MaxTitleRunes+500)
	e.SetTitle(long)

	if got := len([]rune(e.Title())); got != constants.MaxTitleRunes {
		t.Fatalf("title length = %d, want %d", got, constants.MaxTitleRunes)
	}
}

func TestSetTitleUnderLimitIsUnmodified(t *testing.T) {
	e := NewMinimal(1, 1, 0)
	e.SetTitle("short title")
	if e.Title() != "short title" {
		t.Fatalf("title = %q", e.Title())
	}
}

func TestSetTitleDoesNotMutateGrid(t *testing.T) {
	e := NewMinimal(4, 2, 0)
	e.WriteText([]byte("ab"))
	before := e.Snapshot().Cells

	e.SetTitle(strings.Repeat("z", 10000))
	after := e.Snapshot().Cells

	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("cell %d changed from %+v to %+v after SetTitle", i, before[i], after[i])
		}
	}
}

func TestPushAndReadKeyEventsDrainsQueue(t *testing.T) {
	e := NewMinimal(1, 1, 0)
	e.PushKeyEvent(vtinput.KeyEvent{VirtualKeyCode: 1})
	e.PushKeyEvent(vtinput.KeyEvent{VirtualKeyCode: 2})

	events := e.ReadKeyEvents()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if len(e.ReadKeyEvents()) != 0 {
		t.Fatal("expected queue to be empty after drain")
	}
}

func TestPushKeyEventDropsOldestWhenBounded(t *testing.T) {
	e := NewMinimal(1, 1, 2)
	e.PushKeyEvent(vtinput.KeyEvent{VirtualKeyCode: 1})
	e.PushKeyEvent(vtinput.KeyEvent{VirtualKeyCode: 2})
	e.PushKeyEvent(vtinput.KeyEvent{VirtualKeyCode: 3})

	events := e.ReadKeyEvents()
	if len(events) != 2 || events[0].VirtualKeyCode != 2 || events[1].VirtualKeyCode != 3 {
		t.Fatalf("events = %+v, want [2 3]", events)
	}
}

func TestSnapshotRevisionIncreasesOnMutation(t *testing.T) {
	e := NewMinimal(2, 2, 0)
	r0 := e.Snapshot().Revision
	e.WriteText([]byte("a"))
	r1 := e.Snapshot().Revision
	if r1 <= r0 {
		t.Fatalf("revision did not advance: %d -> %d", r0, r1)
	}
}
