package uapi

import "unsafe"

// IoDescriptor mirrors CD_IO_DESCRIPTOR: the fixed header ConDrv writes in
// front of every packet returned by IoctlReadIo. Layout must stay stable
// and trivially copyable — the driver writes directly into this memory.
type IoDescriptor struct {
	Identifier uint64 // uniquely identifies the outstanding request (LUID-equivalent)
	Process    uint64 // opaque process identifier
	Object     uint64 // opaque object identifier
	Function   uint32 // verb code, one of the ConsoleIo* constants
	InputSize  uint32 // byte size of the request's input payload
	OutputSize uint32 // byte size of its output buffer
	Reserved   uint32
}

// Compile-time size check: must stay exactly 40 bytes so it remains
// layout-compatible with the driver's CD_IO_DESCRIPTOR.
var _ [40]byte = [unsafe.Sizeof(IoDescriptor{})]byte{}

// IoBufferDescriptor describes a buffer used by IoComplete's inline write
// and by IoOperation: a pointer/size/offset triple.
type IoBufferDescriptor struct {
	Data   unsafe.Pointer
	Size   uint32
	Offset uint32
}

// IoComplete mirrors the completion structure delivered to IoctlCompleteIo.
type IoComplete struct {
	Identifier  uint64
	Status      int32  // native status code; non-negative means success
	Information uint64 // byte-count semantics on success
	Write       IoBufferDescriptor
}

// IoOperation identifies a buffer pull/push outside the main
// request/response channel (IoctlReadInput / IoctlWriteOutput).
type IoOperation struct {
	Identifier uint64
	Buffer     IoBufferDescriptor
}

// CreateObjectInformation mirrors CD_CREATE_OBJECT_INFORMATION.
type CreateObjectInformation struct {
	ObjectType    uint32 // one of the ObjectType* constants
	ShareMode     uint32
	DesiredAccess uint32
}

// ConnectionInformation mirrors CONSOLE_API_CONNECTINFO, the completion
// write-data payload staged for a successful ConsoleIoConnect reply.
type ConnectionInformation struct {
	Process uint64
	Input   uint64
	Output  uint64
}

// IoServerInformation mirrors CD_IO_SERVER_INFORMATION, the payload for
// IoctlSetServerInformation.
type IoServerInformation struct {
	InputAvailableEvent uintptr
}

// createObjectPayloadSize and userDefinedPayloadSize bound the two packet
// payload shapes ConDrv can return. The upstream CONSOLE_CREATESCREENBUFFER_MSG
// and CONSOLE_MSG_BODY_L1/L2/L3 bodies are opaque user-defined message
// payloads per spec — the core never interprets their contents, only their
// size, so they are carried here as raw bytes rather than decoded structs.
const (
	createObjectPayloadSize = 64
	userDefinedPayloadSize  = 256
)

// payloadSize is the size of the union-like region inside IoPacket: large
// enough to hold either packet shape. Go has no native union, so this uses
// a raw byte region sized to the largest variant with typed accessors
// layered on top.
const payloadSize = userDefinedPayloadSize

// IoPacketPayload is the fixed-size region following IoDescriptor in an
// IoPacket. Use AsCreateObject/AsUserDefined to reinterpret it; never read
// it directly as opaque bytes except to pass it across the wire.
type IoPacketPayload [payloadSize]byte

// CreateObjectPacket is the payload shape for ConsoleIoCreateObject.
type CreateObjectPacket struct {
	CreateObject      CreateObjectInformation
	CreateScreenBuffer [createObjectPayloadSize - 12]byte // opaque CONSOLE_CREATESCREENBUFFER_MSG body
}

// UserDefinedHeader mirrors CONSOLE_MSG_HEADER: which API family and which
// specific call within it a user-defined request selects. The dispatch
// loop reads only ApiNumber and does not decode the message body itself.
type UserDefinedHeader struct {
	ApiNumber  uint32 // selects the message-body family (L1/L2/L3)
	ApiDescriptorSize uint32
}

// UserDefinedPacket is the payload shape for ConsoleIoUserDefined: a
// header plus an opaque body big enough for any of the three message-body
// family variants the driver may send.
type UserDefinedPacket struct {
	Header UserDefinedHeader
	Body   [payloadSize - 8]byte
}

// IoPacket mirrors the on-the-wire layout ConDrv writes via IoctlReadIo:
// a descriptor followed by one of the payload shapes above.
type IoPacket struct {
	Descriptor IoDescriptor
	Payload    IoPacketPayload
}

// AsCreateObject reinterprets the packet payload as a CreateObjectPacket.
// Valid only when Descriptor.Function == ConsoleIoCreateObject.
func (p *IoPacket) AsCreateObject() *CreateObjectPacket {
	return (*CreateObjectPacket)(unsafe.Pointer(&p.Payload))
}

// AsUserDefined reinterprets the packet payload as a UserDefinedPacket.
// Valid only when Descriptor.Function == ConsoleIoUserDefined.
func (p *IoPacket) AsUserDefined() *UserDefinedPacket {
	return (*UserDefinedPacket)(unsafe.Pointer(&p.Payload))
}
