package condrv

import (
	"context"
	"testing"
	"time"

	"github.com/oconsole/go-condrv/internal/uapi"
)

func TestNewServerRequiresPort(t *testing.T) {
	_, err := NewServer(ServerParams{})
	if err == nil {
		t.Fatal("expected error for missing Port")
	}
	if !IsCode(err, ErrCodeInvalidState) {
		t.Fatalf("expected ErrCodeInvalidState, got %v", err)
	}
}

func TestNewServerUsesDefaultEngineWhenNil(t *testing.T) {
	port := &FakePort{}
	server, err := NewServer(ServerParams{Port: port})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if server.Snapshots() == nil {
		t.Fatal("expected a non-nil Snapshots handle")
	}

	server.Start(context.Background())
	defer func() {
		server.Stop()
		server.Wait()
	}()
	deadline := time.Now().Add(time.Second)
	for server.Snapshots().Latest() == nil && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	snap := server.Snapshots().Latest()
	if snap == nil {
		t.Fatal("expected a published snapshot")
	}
	if snap.Width != DefaultWidth || snap.Height != DefaultHeight {
		t.Fatalf("snapshot size = %dx%d, want %dx%d", snap.Width, snap.Height, DefaultWidth, DefaultHeight)
	}
}

func TestServerStartPublishesASnapshotAndStops(t *testing.T) {
	port := &FakePort{}
	// ReadNextIO returns this connect packet on every call; Stop ends the loop.
	port.NextPacket = uapi.IoPacket{}
	port.NextPacket.Descriptor.Function = uapi.ConsoleIoConnect
	port.NextPacket.Descriptor.Identifier = 1

	server, err := NewServer(ServerParams{Port: port})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	server.Start(ctx)
	deadline := time.Now().Add(time.Second)
	for server.Snapshots().Latest() == nil && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	server.Stop()
	server.Wait()

	if server.Snapshots().Latest() == nil {
		t.Fatal("expected the dispatch loop to publish a snapshot")
	}
}

func TestFeedTerminalInputReachesDispatchLoop(t *testing.T) {
	port := &FakePort{}
	engine := NewFakeScreenEngine()
	server, err := NewServer(ServerParams{Port: port, Engine: engine})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	server.FeedTerminalInput([]byte("x"))

	keys := engine.PushedKeys()
	if len(keys) != 1 || keys[0].UnicodeChar != 'x' {
		t.Fatalf("pushed keys = %+v, want one 'x' key event", keys)
	}
}
