// Package interfaces defines the narrow boundaries the ConDrv server talks
// across: the transport to the driver, logging, and metrics observation.
// Kept separate from the concrete implementations to avoid import cycles
// between internal/comm, internal/message, and internal/dispatch.
package interfaces

import "github.com/oconsole/go-condrv/internal/uapi"

// Port is the Device-Comm abstraction: a narrow, mockable transport to the
// console driver. Every call is synchronous and deterministic; the port
// owns its handle and duplicates on construction to establish ownership.
type Port interface {
	// ConfigureServer registers the "input-available" event handle with the
	// driver.
	ConfigureServer(info uapi.IoServerInformation) error

	// AllowUIAccess opts the server into UI-access routing. No payload.
	AllowUIAccess() error

	// ReadNextIO blocks until the driver returns the next request. If reply
	// is non-nil, it is the completion for the previous request (chained
	// completion), minimizing round-trips.
	ReadNextIO(reply *uapi.IoComplete) (uapi.IoPacket, error)

	// CompleteIO delivers an out-of-band completion.
	CompleteIO(completion uapi.IoComplete) error

	// ReadInput copies operation.Buffer.Size bytes of input payload
	// starting at operation.Buffer.Offset into the operation's buffer.
	ReadInput(operation *uapi.IoOperation) error

	// WriteOutput is the symmetric output push.
	WriteOutput(operation *uapi.IoOperation) error
}

// Logger is the minimal logging surface components in this package depend
// on, satisfied by *logging.Logger.
type Logger interface {
	Printf(format string, args ...any)
	Debugf(format string, args ...any)
}

// Observer receives dispatch-loop telemetry. Implementations must be
// goroutine-safe if shared across loops, though a single Loop instance only
// ever calls it from its own dispatch goroutine.
type Observer interface {
	ObserveRequest(verb uint32, durationNs uint64, success bool)
	ObserveDecode(outcome string)
	ObserveSnapshotPublished(revision uint64)
}
