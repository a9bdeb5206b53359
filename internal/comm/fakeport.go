// Package comm provides the Device-Comm Port implementations: the real
// Windows transport (device control calls against the ConDrv handle)
// and a deterministic in-memory fake for tests.
package comm

import (
	"unsafe"

	"github.com/oconsole/go-condrv/internal/uapi"
)

// FakePort is a deterministic, in-memory interfaces.Port double. It
// fills ReadInput buffers with a repeating byte pattern derived from
// the requested offset, records the last WriteOutput and CompleteIO
// calls, and counts invocations of every method except ReadNextIO,
// mirroring the upstream test double used to exercise the message layer.
type FakePort struct {
	ReadCalls     int
	WriteCalls    int
	CompleteCalls int
	ConfigureCalls int
	AllowUICalls  int

	LastWrite      uapi.IoOperation
	WrittenBytes   []byte
	LastComplete   uapi.IoComplete
	LastServerInfo uapi.IoServerInformation

	// NextPacket and NextErr are returned by ReadNextIO.
	NextPacket uapi.IoPacket
	NextErr    error

	// ReadInputErr, WriteOutputErr, CompleteIOErr, ConfigureErr,
	// AllowUIErr let tests force a failure on every matching call while
	// they are set.
	ReadInputErr   error
	WriteOutputErr error
	CompleteIOErr  error
	ConfigureErr   error
	AllowUIErr     error
}

// ConfigureServer records info and returns ConfigureErr.
func (f *FakePort) ConfigureServer(info uapi.IoServerInformation) error {
	f.ConfigureCalls++
	f.LastServerInfo = info
	return f.ConfigureErr
}

// AllowUIAccess returns AllowUIErr.
func (f *FakePort) AllowUIAccess() error {
	f.AllowUICalls++
	return f.AllowUIErr
}

// ReadNextIO returns NextPacket and NextErr on every call. A non-nil
// reply is recorded in LastComplete (CompleteCalls is not incremented).
func (f *FakePort) ReadNextIO(reply *uapi.IoComplete) (uapi.IoPacket, error) {
	if reply != nil {
		f.LastComplete = *reply
	}
	return f.NextPacket, f.NextErr
}

// CompleteIO records completion and returns CompleteIOErr.
func (f *FakePort) CompleteIO(completion uapi.IoComplete) error {
	f.CompleteCalls++
	f.LastComplete = completion
	return f.CompleteIOErr
}

// ReadInput fills operation.Buffer with byte (offset+i)&0xFF for each
// position i, matching the upstream fake's deterministic fill pattern.
func (f *FakePort) ReadInput(operation *uapi.IoOperation) error {
	f.ReadCalls++
	if f.ReadInputErr != nil {
		return f.ReadInputErr
	}
	if operation.Buffer.Data == nil {
		return nil
	}
	dst := unsafe.Slice((*byte)(operation.Buffer.Data), operation.Buffer.Size)
	for i := range dst {
		dst[i] = byte((operation.Buffer.Offset + uint32(i)) & 0xFF)
	}
	return nil
}

// WriteOutput records the operation and copies its buffer into
// WrittenBytes, then returns WriteOutputErr.
func (f *FakePort) WriteOutput(operation *uapi.IoOperation) error {
	f.WriteCalls++
	f.LastWrite = *operation
	if operation.Buffer.Data != nil {
		src := unsafe.Slice((*byte)(operation.Buffer.Data), operation.Buffer.Size)
		f.WrittenBytes = append([]byte(nil), src...)
	} else {
		f.WrittenBytes = nil
	}
	return f.WriteOutputErr
}
