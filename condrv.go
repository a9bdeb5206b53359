package condrv

import (
	"context"

	"github.com/oconsole/go-condrv/internal/dispatch"
	"github.com/oconsole/go-condrv/internal/interfaces"
	"github.com/oconsole/go-condrv/internal/screenengine"
	"github.com/oconsole/go-condrv/internal/snapshot"
)

// ServerParams configures a Server: its transport, its screen-engine
// collaborator, and the dependencies the dispatch loop needs. A plain
// struct literal assembled by cmd/, with no external config-file
// format.
type ServerParams struct {
	// Port is the Device-Comm transport. Required.
	Port interfaces.Port

	// Engine is the screen-buffer/VT-output collaborator. If nil,
	// NewServer creates a screenengine.Minimal sized Width x Height (or
	// DefaultWidth x DefaultHeight if those are zero) with a bounded key
	// queue. Width and Height are ignored when Engine is non-nil.
	Engine screenengine.Engine

	// Width and Height size the default screenengine.Minimal when Engine
	// is nil. Zero means DefaultWidth / DefaultHeight.
	Width, Height int

	// ClientCommand is the command line for the console client.
	// NewServer does not read it and launches no client process;
	// cmd/condrv-server fills it from runtime.ResolveDefaultClientCommand
	// when the -client flag is empty.
	ClientCommand string

	// Logger receives dispatch-loop diagnostics (optional).
	Logger interfaces.Logger

	// Observer receives dispatch-loop telemetry (optional; defaults to
	// a Metrics-backed observer).
	Observer interfaces.Observer
}

const (
	// DefaultWidth and DefaultHeight size the screenengine.Minimal grid
	// NewServer constructs when params.Engine is nil.
	DefaultWidth       = 80
	DefaultHeight      = 24
	defaultKeyQueueCap = 256
)

// Server owns one dispatch loop, its published snapshot slot, and the
// metrics this process accumulates. It is the top-level object
// cmd/condrv-server wires together.
type Server struct {
	loop      *dispatch.Loop
	published *snapshot.Published
	metrics   *Metrics
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewServer assembles a Server from params. It does not start the
// dispatch loop; call Start for that.
func NewServer(params ServerParams) (*Server, error) {
	if params.Port == nil {
		return nil, NewInvalidStateError("NewServer", "Port is required")
	}

	engine := params.Engine
	if engine == nil {
		width, height := params.Width, params.Height
		if width == 0 {
			width = DefaultWidth
		}
		if height == 0 {
			height = DefaultHeight
		}
		engine = screenengine.NewMinimal(width, height, defaultKeyQueueCap)
	}

	metrics := NewMetrics()
	observer := params.Observer
	if observer == nil {
		observer = NewMetricsObserver(metrics)
	}

	published := &snapshot.Published{}
	loop := dispatch.New(dispatch.Config{
		Port:      params.Port,
		Engine:    engine,
		Published: published,
		Logger:    params.Logger,
		Observer:  observer,
	})

	return &Server{loop: loop, published: published, metrics: metrics}, nil
}

// Start runs the dispatch loop on its own goroutine until ctx is
// cancelled or the loop exits on a fatal error. Start returns
// immediately; call Wait to block for loop exit.
func (s *Server) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		s.loop.Run(loopCtx.Done())
	}()
}

// Stop cancels the dispatch loop's context.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait blocks until the dispatch loop has exited.
func (s *Server) Wait() {
	if s.done != nil {
		<-s.done
	}
}

// Snapshots exposes the single consumer-facing handle onto the
// server's published screen-buffer state.
func (s *Server) Snapshots() *snapshot.Published { return s.published }

// Metrics returns the server's metrics counters.
func (s *Server) Metrics() *Metrics { return s.metrics }

// FeedTerminalInput decodes raw terminal bytes into key events and
// queues them for the next raw-read request. This is how an external
// pty reader (outside this server's scope) supplies synthesized input.
func (s *Server) FeedTerminalInput(data []byte) {
	s.loop.FeedTerminalInput(data)
}
