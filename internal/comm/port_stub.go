//go:build !windows

package comm

import "github.com/oconsole/go-condrv/internal/uapi"

// kernelError marks every HandlePort method on a platform without a
// ConDrv driver. internal/comm has no windows build tag available here,
// so HandlePort exists only as a stub that always fails. kernelError is
// a package-local type, not a condrv.Error, so IsCode does not classify
// it as ErrCodeKernelNotSupported.
type kernelError struct{ op string }

func (e *kernelError) Error() string { return "condrv: " + e.op + ": platform has no condrv driver" }

// HandlePort is a stub on non-Windows platforms: every device-control
// call fails immediately. It exists so code that type-asserts or
// constructs a comm.HandlePort compiles everywhere, even though it can
// never be used for anything but erroring out.
type HandlePort struct{}

// NewHandlePort always fails on non-Windows builds.
func NewHandlePort(rawHandle uintptr) (*HandlePort, error) {
	return nil, &kernelError{"NewHandlePort"}
}

func (p *HandlePort) Close() error { return nil }

func (p *HandlePort) ConfigureServer(info uapi.IoServerInformation) error {
	return &kernelError{"ConfigureServer"}
}

func (p *HandlePort) AllowUIAccess() error {
	return &kernelError{"AllowUIAccess"}
}

func (p *HandlePort) ReadNextIO(reply *uapi.IoComplete) (uapi.IoPacket, error) {
	return uapi.IoPacket{}, &kernelError{"ReadNextIO"}
}

func (p *HandlePort) CompleteIO(completion uapi.IoComplete) error {
	return &kernelError{"CompleteIO"}
}

func (p *HandlePort) ReadInput(operation *uapi.IoOperation) error {
	return &kernelError{"ReadInput"}
}

func (p *HandlePort) WriteOutput(operation *uapi.IoOperation) error {
	return &kernelError{"WriteOutput"}
}
