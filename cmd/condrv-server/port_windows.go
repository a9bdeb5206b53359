//go:build windows

package main

import (
	"flag"
	"strconv"

	"golang.org/x/sys/windows"

	"github.com/oconsole/go-condrv/internal/comm"
	"github.com/oconsole/go-condrv/internal/interfaces"
)

var handleFlag = flag.String("handle", "", "raw ConDrv server handle value, as passed by the driver launch")

func openPort() (interfaces.Port, error) {
	raw, err := strconv.ParseUint(*handleFlag, 0, 64)
	if err != nil {
		return nil, err
	}
	return comm.NewHandlePort(windows.Handle(raw))
}
