// Package uapi holds the wire-stable ConDrv packet layout: the structures
// the driver writes directly into and reads directly out of, and the verb
// and IOCTL numbers that select among them. Keep this package free of any
// policy — it is a pure data-layout layer, mirrored on the driver's own
// CD_IO_DESCRIPTOR / CONSOLE_API_MSG surface.
package uapi

// IoDescriptor.Function verb codes. The driver sends one of these in
// ReadIo to tell the server what kind of request it is looking at.
const (
	ConsoleIoConnect      = 0x01
	ConsoleIoDisconnect   = 0x02
	ConsoleIoCreateObject = 0x03
	ConsoleIoCloseObject  = 0x04
	ConsoleIoRawWrite     = 0x05
	ConsoleIoRawRead      = 0x06
	ConsoleIoUserDefined  = 0x07
	ConsoleIoRawFlush     = 0x08
)

// CreateObjectInformation.ObjectType values.
const (
	ObjectTypeCurrentInput  = 0x01
	ObjectTypeCurrentOutput = 0x02
	ObjectTypeNewOutput     = 0x03
	ObjectTypeGeneric       = 0x04
)

// Kernel transfer methods, mirroring winioctl.h's METHOD_* constants. Used
// only to document/derive the IOCTL numbers below; Windows resolves the
// transfer method purely from the encoded value.
const (
	methodOutDirect = 2 // METHOD_OUT_DIRECT
	methodNeither   = 3 // METHOD_NEITHER
	fileAnyAccess   = 0 // FILE_ANY_ACCESS
	fileDeviceConsole = 0x00000050
)

// ctlCode reproduces the CTL_CODE macro from winioctl.h:
// ((DeviceType) << 16) | ((Access) << 14) | ((Function) << 2) | (Method)
func ctlCode(deviceType, function, method, access uint32) uint32 {
	return (deviceType << 16) | (access << 14) | (function << 2) | method
}

// ConDrv IOCTL surface used by the server. Function numbers match the
// upstream console driver; do not renumber.
var (
	IoctlReadIo               = ctlCode(fileDeviceConsole, 1, methodOutDirect, fileAnyAccess)
	IoctlCompleteIo           = ctlCode(fileDeviceConsole, 2, methodNeither, fileAnyAccess)
	IoctlReadInput            = ctlCode(fileDeviceConsole, 3, methodNeither, fileAnyAccess)
	IoctlWriteOutput          = ctlCode(fileDeviceConsole, 4, methodNeither, fileAnyAccess)
	IoctlSetServerInformation = ctlCode(fileDeviceConsole, 7, methodNeither, fileAnyAccess)
	IoctlAllowViaUIAccess     = ctlCode(fileDeviceConsole, 12, methodNeither, fileAnyAccess)
)
