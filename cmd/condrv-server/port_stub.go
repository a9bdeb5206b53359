//go:build !windows

package main

import (
	"github.com/oconsole/go-condrv"
	"github.com/oconsole/go-condrv/internal/interfaces"
)

// openPort has no real implementation outside Windows: there is no
// ConDrv driver to open a handle to.
func openPort() (interfaces.Port, error) {
	return nil, condrv.NewKernelNotSupportedError("openPort")
}
