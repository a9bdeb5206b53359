//go:build windows

package runtime

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// ActivateLegacyConhost hands the ConDrv server handle off to the
// in-box ConhostV1.dll implementation: it loads the module, resolves
// ConsoleCreateIoThread, and invokes it with serverHandle. ConhostV1 is
// intentionally kept loaded for the process lifetime once the legacy IO
// thread takes over; there is no matching deactivation call.
func ActivateLegacyConhost(serverHandle windows.Handle) error {
	module, err := windows.LoadLibraryEx("ConhostV1.dll", 0, windows.LOAD_LIBRARY_SEARCH_SYSTEM32)
	if err != nil {
		return fmt.Errorf("condrv: ActivateLegacyConhost: load ConhostV1.dll: %w", err)
	}

	proc, err := windows.GetProcAddress(module, "ConsoleCreateIoThread")
	if err != nil {
		return fmt.Errorf("condrv: ActivateLegacyConhost: resolve ConsoleCreateIoThread: %w", err)
	}

	status, _, callErr := windows.SyscallN(proc, uintptr(serverHandle))
	if int32(status) < 0 {
		return fmt.Errorf("condrv: ActivateLegacyConhost: ConsoleCreateIoThread failed: status=%#x err=%v", status, callErr)
	}
	return nil
}
