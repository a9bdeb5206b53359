//go:build windows

package comm

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/oconsole/go-condrv/internal/uapi"
)

// transportError and handleError are local, since internal/comm must
// not import the root package (the root package wires up a comm.Port,
// which would make that an import cycle). The dispatch loop recognizes
// these by behavior (they satisfy error) rather than by concrete type;
// they are not condrv.Error values, and nothing in the root package
// wraps them, so IsCode does not classify them.
type transportError struct {
	op  string
	err error
}

func (e *transportError) Error() string { return "condrv: " + e.op + ": " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

type handleError struct{ msg string }

func (e *handleError) Error() string { return "condrv: NewHandlePort: " + e.msg }

// HandlePort is the real Device-Comm Port: a ConDrv server handle
// talked to via DeviceIoControl. It duplicates its handle on
// construction to establish independent ownership, mirroring the
// upstream comm object's lifetime contract.
type HandlePort struct {
	handle windows.Handle
}

// NewHandlePort duplicates rawHandle into a HandlePort-owned handle.
// rawHandle must be a valid, non-null ConDrv server handle.
func NewHandlePort(rawHandle windows.Handle) (*HandlePort, error) {
	if rawHandle == 0 || rawHandle == windows.InvalidHandle {
		return nil, &handleError{"handle is null or invalid"}
	}

	process := windows.CurrentProcess()
	var dup windows.Handle
	if err := windows.DuplicateHandle(process, rawHandle, process, &dup, 0, false, windows.DUPLICATE_SAME_ACCESS); err != nil {
		return nil, &transportError{"NewHandlePort", err}
	}

	return &HandlePort{handle: dup}, nil
}

// Close releases the duplicated handle.
func (p *HandlePort) Close() error {
	if p.handle == 0 {
		return nil
	}
	err := windows.CloseHandle(p.handle)
	p.handle = 0
	return err
}

func deviceIoControl(handle windows.Handle, code uint32, in, out []byte) (uint32, error) {
	var inPtr, outPtr *byte
	if len(in) > 0 {
		inPtr = &in[0]
	}
	if len(out) > 0 {
		outPtr = &out[0]
	}

	var returned uint32
	err := windows.DeviceIoControl(handle, code, inPtr, uint32(len(in)), outPtr, uint32(len(out)), &returned, nil)
	return returned, err
}

// ConfigureServer issues IoctlSetServerInformation.
func (p *HandlePort) ConfigureServer(info uapi.IoServerInformation) error {
	buf := uapi.MarshalServerInformation(&info)
	if _, err := deviceIoControl(p.handle, uapi.IoctlSetServerInformation, buf, nil); err != nil {
		return &transportError{"ConfigureServer", err}
	}
	return nil
}

// AllowUIAccess issues IoctlAllowViaUIAccess with no payload.
func (p *HandlePort) AllowUIAccess() error {
	if _, err := deviceIoControl(p.handle, uapi.IoctlAllowViaUIAccess, nil, nil); err != nil {
		return &transportError{"AllowUIAccess", err}
	}
	return nil
}

// ReadNextIO issues IoctlReadIo. If reply is non-nil its bytes are sent
// as the request's input (chained completion); the driver's response
// is unmarshaled into a new IoPacket.
func (p *HandlePort) ReadNextIO(reply *uapi.IoComplete) (uapi.IoPacket, error) {
	var in []byte
	if reply != nil {
		in = uapi.MarshalComplete(reply)
	}

	out := make([]byte, uapi.SizeOf[uapi.IoPacket]())
	if _, err := deviceIoControl(p.handle, uapi.IoctlReadIo, in, out); err != nil {
		return uapi.IoPacket{}, &transportError{"ReadNextIO", err}
	}

	var packet uapi.IoPacket
	if err := uapi.UnmarshalPacket(out, &packet); err != nil {
		return uapi.IoPacket{}, &transportError{"ReadNextIO", err}
	}
	return packet, nil
}

// CompleteIO issues IoctlCompleteIo.
func (p *HandlePort) CompleteIO(completion uapi.IoComplete) error {
	buf := uapi.MarshalComplete(&completion)
	if _, err := deviceIoControl(p.handle, uapi.IoctlCompleteIo, buf, nil); err != nil {
		return &transportError{"CompleteIO", err}
	}
	return nil
}

// ReadInput issues IoctlReadInput, writing the result directly into
// operation.Buffer.Data.
func (p *HandlePort) ReadInput(operation *uapi.IoOperation) error {
	in := uapi.MarshalOperation(operation)
	var out []byte
	if operation.Buffer.Size > 0 && operation.Buffer.Data != nil {
		out = unsafe.Slice((*byte)(operation.Buffer.Data), operation.Buffer.Size)
	}
	if _, err := deviceIoControl(p.handle, uapi.IoctlReadInput, in, out); err != nil {
		return &transportError{"ReadInput", err}
	}
	return nil
}

// WriteOutput issues IoctlWriteOutput, sourcing the request body from
// operation.Buffer.Data.
func (p *HandlePort) WriteOutput(operation *uapi.IoOperation) error {
	in := uapi.MarshalOperation(operation)
	var body []byte
	if operation.Buffer.Size > 0 && operation.Buffer.Data != nil {
		body = unsafe.Slice((*byte)(operation.Buffer.Data), operation.Buffer.Size)
	}
	combined := append(append([]byte(nil), in...), body...)
	if _, err := deviceIoControl(p.handle, uapi.IoctlWriteOutput, combined, nil); err != nil {
		return &transportError{"WriteOutput", err}
	}
	return nil
}
