package condrv

import (
	"sync"

	"github.com/oconsole/go-condrv/internal/comm"
	"github.com/oconsole/go-condrv/internal/screenengine"
	"github.com/oconsole/go-condrv/internal/snapshot"
	"github.com/oconsole/go-condrv/internal/vtinput"
)

// FakePort is a deterministic, in-memory transport double for tests
// that construct a Server; its ReadNextIO returns the same configured
// packet on every call.
type FakePort = comm.FakePort

// FakeScreenEngine is a call-tracking screenengine.Engine double for
// tests that need to assert on dispatch behavior without depending on
// screenengine.Minimal's grid semantics.
type FakeScreenEngine struct {
	mu sync.Mutex

	WriteTextCalls int
	LastWrite      []byte
	WriteTextErr   error

	SetTitleCalls int
	LastTitle     string

	pendingKeys []vtinput.KeyEvent
	pushedKeys  []vtinput.KeyEvent

	SnapshotValue snapshot.Snapshot
}

// NewFakeScreenEngine returns a FakeScreenEngine ready for use.
func NewFakeScreenEngine() *FakeScreenEngine {
	return &FakeScreenEngine{}
}

// WriteText records the call and returns WriteTextErr.
func (f *FakeScreenEngine) WriteText(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.WriteTextCalls++
	f.LastWrite = append([]byte(nil), data...)
	return f.WriteTextErr
}

// ReadKeyEvents drains and returns the pending key queue, which tests
// populate directly via QueueKeyEvents.
func (f *FakeScreenEngine) ReadKeyEvents() []vtinput.KeyEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	drained := f.pendingKeys
	f.pendingKeys = nil
	return drained
}

// PushKeyEvent records event both in PushedKeys (for assertions) and in
// the queue ReadKeyEvents drains.
func (f *FakeScreenEngine) PushKeyEvent(event vtinput.KeyEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushedKeys = append(f.pushedKeys, event)
	f.pendingKeys = append(f.pendingKeys, event)
}

// QueueKeyEvents seeds the queue ReadKeyEvents will drain, for tests
// simulating input already decoded before a raw-read arrives.
func (f *FakeScreenEngine) QueueKeyEvents(events ...vtinput.KeyEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pendingKeys = append(f.pendingKeys, events...)
}

// PushedKeys returns every key event ever passed to PushKeyEvent, in
// order, regardless of whether it has since been drained.
func (f *FakeScreenEngine) PushedKeys() []vtinput.KeyEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]vtinput.KeyEvent(nil), f.pushedKeys...)
}

// SetTitle records the call.
func (f *FakeScreenEngine) SetTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SetTitleCalls++
	f.LastTitle = title
}

// Snapshot returns SnapshotValue as configured by the test.
func (f *FakeScreenEngine) Snapshot() snapshot.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.SnapshotValue
}

var _ screenengine.Engine = (*FakeScreenEngine)(nil)
