// Package screenengine defines the boundary the dispatch loop talks to
// for screen-buffer mutation and title state. The real VT output state
// machine is out of scope; Minimal is a small reference implementation
// good enough to exercise raw-write/raw-read/user-defined handling end
// to end in tests and the cmd/ entry point.
package screenengine

import (
	"sync"

	"github.com/oconsole/go-condrv/internal/constants"
	"github.com/oconsole/go-condrv/internal/snapshot"
	"github.com/oconsole/go-condrv/internal/vtinput"
)

// Engine is everything the dispatch loop needs from the screen-buffer
// and VT-output collaborator.
type Engine interface {
	// WriteText consumes raw-write payload bytes.
	WriteText(data []byte) error
	// ReadKeyEvents drains and returns all queued decoded key events,
	// for a raw-read reply.
	ReadKeyEvents() []vtinput.KeyEvent
	// PushKeyEvent queues a key event the dispatch loop just decoded.
	PushKeyEvent(event vtinput.KeyEvent)
	// Snapshot returns the current immutable view for publication.
	Snapshot() snapshot.Snapshot
	// SetTitle handles the user-defined title-set request (OSC-2 path).
	SetTitle(title string)
}

// Minimal is a reference Engine: a fixed row-major rune/attribute grid,
// a bounded FIFO of pending key events, and an OSC title setter that
// truncates to constants.MaxTitleRunes. It performs no VT parsing of
// its own; WriteText writes every rune other than '\n' (control
// characters included) left-to-right, wrapping at the grid width, and
// treats '\n' as a line break, which is enough to prove the dispatch loop's
// plumbing without reimplementing a real terminal.
type Minimal struct {
	mu sync.Mutex

	width, height int
	cells         []snapshot.Cell
	cursorX       int
	cursorY       int
	title         string
	revision      uint64

	keyQueue []vtinput.KeyEvent
	maxQueue int
}

// NewMinimal creates a Minimal engine with the given grid dimensions
// and a bounded key queue of maxQueue events (0 means unbounded).
func NewMinimal(width, height, maxQueue int) *Minimal {
	return &Minimal{
		width:    width,
		height:   height,
		cells:    make([]snapshot.Cell, width*height),
		maxQueue: maxQueue,
	}
}

// WriteText appends each rune of data (decoded as UTF-8) to the grid,
// advancing the cursor and wrapping at the configured width. It never
// returns an error; invalid UTF-8 bytes are replaced with U+FFFD by the
// range-over-string decoder, matching Go's standard decoding behavior.
func (m *Minimal) WriteText(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range string(data) {
		if r == '\n' {
			m.cursorX = 0
			m.cursorY++
		} else {
			m.putRune(r)
			m.cursorX++
		}
		if m.cursorX >= m.width {
			m.cursorX = 0
			m.cursorY++
		}
		if m.cursorY >= m.height {
			m.cursorY = m.height - 1
			m.scrollUp()
		}
	}
	m.revision++
	return nil
}

func (m *Minimal) putRune(r rune) {
	if m.cursorY < 0 || m.cursorY >= m.height || m.cursorX < 0 || m.cursorX >= m.width {
		return
	}
	m.cells[m.cursorY*m.width+m.cursorX] = snapshot.Cell{Rune: r, Attributes: constants.DefaultAttributes}
}

func (m *Minimal) scrollUp() {
	if m.height <= 1 {
		for i := range m.cells {
			m.cells[i] = snapshot.Cell{}
		}
		return
	}
	copy(m.cells, m.cells[m.width:])
	for i := len(m.cells) - m.width; i < len(m.cells); i++ {
		m.cells[i] = snapshot.Cell{}
	}
}

// ReadKeyEvents drains the pending key queue.
func (m *Minimal) ReadKeyEvents() []vtinput.KeyEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	drained := m.keyQueue
	m.keyQueue = nil
	return drained
}

// PushKeyEvent appends event to the queue, dropping the oldest entry if
// the queue is at its bound.
func (m *Minimal) PushKeyEvent(event vtinput.KeyEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxQueue > 0 && len(m.keyQueue) >= m.maxQueue {
		m.keyQueue = m.keyQueue[1:]
	}
	m.keyQueue = append(m.keyQueue, event)
}

// SetTitle truncates title to constants.MaxTitleRunes and stores it.
// Truncation operates on runes, not bytes, so it never splits a
// multi-byte UTF-8 sequence.
func (m *Minimal) SetTitle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	runes := []rune(title)
	if len(runes) > constants.MaxTitleRunes {
		runes = runes[:constants.MaxTitleRunes]
	}
	m.title = string(runes)
	m.revision++
}

// Title returns the currently stored title.
func (m *Minimal) Title() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.title
}

// Snapshot returns an immutable copy of the current grid state.
func (m *Minimal) Snapshot() snapshot.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	cells := make([]snapshot.Cell, len(m.cells))
	copy(cells, m.cells)

	return snapshot.Snapshot{
		Revision:          m.revision,
		Title:             m.title,
		Width:             m.width,
		Height:            m.height,
		CursorX:           m.cursorX,
		CursorY:           m.cursorY,
		CursorVisible:     true,
		CursorSizePercent: constants.DefaultCursorSizePercent,
		DefaultAttributes: constants.DefaultAttributes,
		Cells:             cells,
	}
}
