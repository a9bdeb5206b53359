// Package message wraps a single ConDrv I/O packet with the lazy
// input/output buffer handling and completion bookkeeping the dispatch
// loop needs, independent of the concrete transport.
package message

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/oconsole/go-condrv/internal/interfaces"
	"github.com/oconsole/go-condrv/internal/uapi"
)

// sliceDataPointer returns a pointer to buf's backing array, or nil for
// an empty slice. ConDrv buffer descriptors carry a raw pointer/size
// pair; this is the Go-side equivalent of &buf[0].
func sliceDataPointer(buf []byte) unsafe.Pointer {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Pointer(&buf[0])
}

// stateError is returned (wrapped by the caller) when an ApiMessage
// operation is attempted without a bound port.
type stateError struct{ op string }

func (e *stateError) Error() string { return "condrv: " + e.op + ": message comm was nil" }

// dataError marks an offset or completion-length violation.
type dataError struct {
	op  string
	msg string
}

func (e *dataError) Error() string { return "condrv: " + e.op + ": " + e.msg }

func nativeSuccess(status int32) bool { return status >= 0 }

// ApiMessage wraps one IoPacket for the duration of its dispatch: it
// owns per-message input/output buffers, reads input payload via
// ReadInput, writes output payload via WriteOutput, and carries the
// IoComplete structure for CompleteIO.
type ApiMessage struct {
	port   interfaces.Port
	packet uapi.IoPacket
	reply  uapi.IoComplete

	readOffset  uint32
	writeOffset uint32

	inputBuffer  []byte
	outputBuffer []byte

	completionWrite []byte
}

// New binds port to packet and seeds the completion identifier from the
// packet's descriptor.
func New(port interfaces.Port, packet uapi.IoPacket) *ApiMessage {
	m := &ApiMessage{port: port, packet: packet}
	m.reply.Identifier = packet.Descriptor.Identifier
	return m
}

// Descriptor returns the packet's fixed header.
func (m *ApiMessage) Descriptor() uapi.IoDescriptor { return m.packet.Descriptor }

// Packet returns the full packet, including its opaque payload region.
func (m *ApiMessage) Packet() *uapi.IoPacket { return &m.packet }

// Completion returns the in-progress completion structure.
func (m *ApiMessage) Completion() *uapi.IoComplete { return &m.reply }

// SetReplyStatus sets the native status code to be reported on completion.
func (m *ApiMessage) SetReplyStatus(status int32) { m.reply.Status = status }

// SetReplyInformation sets the byte-count (or other status-specific
// value) to report alongside the status.
func (m *ApiMessage) SetReplyInformation(information uint64) { m.reply.Information = information }

// SetReadOffset sets the offset, in bytes, at which GetInputBuffer
// begins reading relative to the descriptor's declared input.
func (m *ApiMessage) SetReadOffset(offset uint32) { m.readOffset = offset }

// SetWriteOffset sets the offset, in bytes, at which the output flush
// in ReleaseMessageBuffers writes relative to the descriptor's declared
// output.
func (m *ApiMessage) SetWriteOffset(offset uint32) { m.writeOffset = offset }

// SetCompletionWriteData stages value as the inline write payload
// delivered alongside CompleteIO. value is copied via binary.Write, so
// it must be a fixed-size value binary.Write accepts.
func (m *ApiMessage) SetCompletionWriteData(value any) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, value); err != nil {
		return err
	}
	m.completionWrite = buf.Bytes()
	m.reply.Write = uapi.IoBufferDescriptor{Size: uint32(len(m.completionWrite))}
	if len(m.completionWrite) > 0 {
		m.reply.Write.Data = sliceDataPointer(m.completionWrite)
	}
	return nil
}

// GetInputBuffer returns the request's input payload, fetching it from
// the port on first call and caching it thereafter. The fetch is
// idempotent: subsequent calls return the same buffer without another
// round-trip.
func (m *ApiMessage) GetInputBuffer() ([]byte, error) {
	if m.port == nil {
		return nil, &stateError{"GetInputBuffer"}
	}
	if m.inputBuffer != nil {
		return m.inputBuffer, nil
	}

	descriptor := m.packet.Descriptor
	if m.readOffset > descriptor.InputSize {
		return nil, &dataError{"GetInputBuffer", "input read offset exceeds input size"}
	}

	remaining := descriptor.InputSize - m.readOffset
	m.inputBuffer = make([]byte, remaining)
	if remaining == 0 {
		return m.inputBuffer, nil
	}

	op := uapi.IoOperation{
		Identifier: descriptor.Identifier,
		Buffer: uapi.IoBufferDescriptor{
			Offset: m.readOffset,
			Size:   remaining,
			Data:   sliceDataPointer(m.inputBuffer),
		},
	}
	if err := m.port.ReadInput(&op); err != nil {
		m.inputBuffer = nil
		return nil, err
	}
	return m.inputBuffer, nil
}

// GetOutputBuffer returns a zero-initialized buffer sized to the
// request's declared output, minus the write offset. Like
// GetInputBuffer, allocation happens once and is cached.
func (m *ApiMessage) GetOutputBuffer() ([]byte, error) {
	if m.port == nil {
		return nil, &stateError{"GetOutputBuffer"}
	}
	if m.outputBuffer != nil {
		return m.outputBuffer, nil
	}

	descriptor := m.packet.Descriptor
	if m.writeOffset > descriptor.OutputSize {
		return nil, &dataError{"GetOutputBuffer", "output write offset exceeds output size"}
	}

	remaining := descriptor.OutputSize - m.writeOffset
	m.outputBuffer = make([]byte, remaining)
	return m.outputBuffer, nil
}

// ReleaseMessageBuffers drops the input buffer unconditionally and, if
// an output buffer was allocated and the reply status indicates
// success, flushes it through WriteOutput before dropping it. A failed
// reply status releases the output buffer without writing it.
func (m *ApiMessage) ReleaseMessageBuffers() error {
	if m.port == nil {
		return &stateError{"ReleaseMessageBuffers"}
	}

	m.inputBuffer = nil

	if m.outputBuffer == nil {
		return nil
	}

	if nativeSuccess(m.reply.Status) {
		info := m.reply.Information
		if info > uint64(len(m.outputBuffer)) {
			return &dataError{"ReleaseMessageBuffers", "completion information exceeds output buffer size"}
		}

		op := uapi.IoOperation{
			Identifier: m.packet.Descriptor.Identifier,
			Buffer: uapi.IoBufferDescriptor{
				Offset: m.writeOffset,
				Size:   uint32(info),
				Data:   sliceDataPointer(m.outputBuffer),
			},
		}
		if err := m.port.WriteOutput(&op); err != nil {
			return err
		}
	}

	m.outputBuffer = nil
	return nil
}

// CompleteIO delivers the staged completion structure to the port.
func (m *ApiMessage) CompleteIO() error {
	if m.port == nil {
		return &stateError{"CompleteIO"}
	}
	return m.port.CompleteIO(m.reply)
}
