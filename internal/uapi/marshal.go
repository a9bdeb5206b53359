package uapi

import (
	"encoding/binary"
	"unsafe"
)

// MarshalError reports a fixed-layout marshaling failure.
type MarshalError string

func (e MarshalError) Error() string { return string(e) }

const (
	ErrInsufficientData MarshalError = "insufficient data for unmarshaling"
)

// MarshalDescriptor converts an IoDescriptor to its wire bytes using the
// native (little-endian) byte order ConDrv expects.
func MarshalDescriptor(d *IoDescriptor) []byte {
	buf := make([]byte, 40)
	binary.LittleEndian.PutUint64(buf[0:8], d.Identifier)
	binary.LittleEndian.PutUint64(buf[8:16], d.Process)
	binary.LittleEndian.PutUint64(buf[16:24], d.Object)
	binary.LittleEndian.PutUint32(buf[24:28], d.Function)
	binary.LittleEndian.PutUint32(buf[28:32], d.InputSize)
	binary.LittleEndian.PutUint32(buf[32:36], d.OutputSize)
	binary.LittleEndian.PutUint32(buf[36:40], d.Reserved)
	return buf
}

// UnmarshalDescriptor is the inverse of MarshalDescriptor.
func UnmarshalDescriptor(data []byte, d *IoDescriptor) error {
	if len(data) < 40 {
		return ErrInsufficientData
	}
	d.Identifier = binary.LittleEndian.Uint64(data[0:8])
	d.Process = binary.LittleEndian.Uint64(data[8:16])
	d.Object = binary.LittleEndian.Uint64(data[16:24])
	d.Function = binary.LittleEndian.Uint32(data[24:28])
	d.InputSize = binary.LittleEndian.Uint32(data[28:32])
	d.OutputSize = binary.LittleEndian.Uint32(data[32:36])
	d.Reserved = binary.LittleEndian.Uint32(data[36:40])
	return nil
}

// MarshalPacket converts an IoPacket (descriptor + raw payload region) to
// its wire bytes. The payload region is already a flat byte array, so it is
// copied verbatim; only the descriptor needs field-by-field encoding.
func MarshalPacket(p *IoPacket) []byte {
	buf := make([]byte, 40+len(p.Payload))
	copy(buf[0:40], MarshalDescriptor(&p.Descriptor))
	copy(buf[40:], p.Payload[:])
	return buf
}

// UnmarshalPacket is the inverse of MarshalPacket.
func UnmarshalPacket(data []byte, p *IoPacket) error {
	if len(data) < 40+len(p.Payload) {
		return ErrInsufficientData
	}
	if err := UnmarshalDescriptor(data[0:40], &p.Descriptor); err != nil {
		return err
	}
	copy(p.Payload[:], data[40:40+len(p.Payload)])
	return nil
}

// MarshalOperation converts an IoOperation to wire bytes. The buffer's Data
// pointer is encoded as a raw address: ConDrv dereferences it directly, the
// way a kernel driver dereferences a user-mode buffer address supplied via
// METHOD_NEITHER.
func MarshalOperation(op *IoOperation) []byte {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint64(buf[0:8], op.Identifier)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(uintptr(op.Buffer.Data)))
	binary.LittleEndian.PutUint32(buf[16:20], op.Buffer.Size)
	binary.LittleEndian.PutUint32(buf[20:24], op.Buffer.Offset)
	return buf
}

// MarshalComplete converts an IoComplete to wire bytes.
func MarshalComplete(c *IoComplete) []byte {
	buf := make([]byte, 40)
	binary.LittleEndian.PutUint64(buf[0:8], c.Identifier)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(c.Status))
	binary.LittleEndian.PutUint32(buf[12:16], 0) // padding to align Information on 8
	binary.LittleEndian.PutUint64(buf[16:24], c.Information)
	binary.LittleEndian.PutUint64(buf[24:32], uint64(uintptr(c.Write.Data)))
	binary.LittleEndian.PutUint32(buf[32:36], c.Write.Size)
	binary.LittleEndian.PutUint32(buf[36:40], c.Write.Offset)
	return buf
}

// MarshalServerInformation converts an IoServerInformation to wire bytes.
func MarshalServerInformation(info *IoServerInformation) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(info.InputAvailableEvent))
	return buf
}

// MarshalConnectionInformation converts a ConnectionInformation to wire
// bytes for use as completion inline-write data.
func MarshalConnectionInformation(info *ConnectionInformation) []byte {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint64(buf[0:8], info.Process)
	binary.LittleEndian.PutUint64(buf[8:16], info.Input)
	binary.LittleEndian.PutUint64(buf[16:24], info.Output)
	return buf
}

// SizeOf returns the size in bytes of a trivially-copyable value's native
// representation, used to validate completion write-data payloads without
// resorting to reflection-based encoding for every caller.
func SizeOf[T any]() uint32 {
	var zero T
	return uint32(unsafe.Sizeof(zero))
}
