package message

import (
	"testing"

	"github.com/oconsole/go-condrv/internal/comm"
	"github.com/oconsole/go-condrv/internal/uapi"
)

func makePacket(inputSize, outputSize uint32) uapi.IoPacket {
	var p uapi.IoPacket
	p.Descriptor.Identifier = 1
	p.Descriptor.Function = uapi.ConsoleIoUserDefined
	p.Descriptor.InputSize = inputSize
	p.Descriptor.OutputSize = outputSize
	return p
}

func TestGetInputBufferReadsOnce(t *testing.T) {
	port := &comm.FakePort{}
	msg := New(port, makePacket(8, 0))

	input1, err := msg.GetInputBuffer()
	if err != nil || len(input1) != 8 {
		t.Fatalf("GetInputBuffer() = %v, %v", input1, err)
	}

	input2, err := msg.GetInputBuffer()
	if err != nil {
		t.Fatalf("second GetInputBuffer: %v", err)
	}
	if &input2[0] != &input1[0] {
		t.Fatal("expected cached buffer, got a new allocation")
	}
	if port.ReadCalls != 1 {
		t.Fatalf("ReadCalls = %d, want 1", port.ReadCalls)
	}

	for i, b := range input1 {
		if b != byte(i) {
			t.Fatalf("input1[%d] = %d, want %d", i, b, i)
		}
	}
}

func TestOutputBufferWritesOnSuccessfulRelease(t *testing.T) {
	port := &comm.FakePort{}
	msg := New(port, makePacket(0, 6))

	output, err := msg.GetOutputBuffer()
	if err != nil || len(output) != 6 {
		t.Fatalf("GetOutputBuffer() = %v, %v", output, err)
	}
	for i := range output {
		output[i] = byte(0xA0 + i)
	}

	msg.SetReplyStatus(0)
	msg.SetReplyInformation(6)

	if err := msg.ReleaseMessageBuffers(); err != nil {
		t.Fatalf("ReleaseMessageBuffers: %v", err)
	}

	if port.WriteCalls != 1 {
		t.Fatalf("WriteCalls = %d, want 1", port.WriteCalls)
	}
	if len(port.WrittenBytes) != 6 {
		t.Fatalf("WrittenBytes len = %d, want 6", len(port.WrittenBytes))
	}
	for i, b := range port.WrittenBytes {
		if b != byte(0xA0+i) {
			t.Fatalf("WrittenBytes[%d] = %#x, want %#x", i, b, 0xA0+i)
		}
	}
}

func TestReleaseSkipsWriteOnFailureStatus(t *testing.T) {
	port := &comm.FakePort{}
	msg := New(port, makePacket(0, 6))

	if _, err := msg.GetOutputBuffer(); err != nil {
		t.Fatalf("GetOutputBuffer: %v", err)
	}

	msg.SetReplyStatus(-1)

	if err := msg.ReleaseMessageBuffers(); err != nil {
		t.Fatalf("ReleaseMessageBuffers: %v", err)
	}
	if port.WriteCalls != 0 {
		t.Fatalf("WriteCalls = %d, want 0 on failure status", port.WriteCalls)
	}
}

func TestInvalidOffsetsFail(t *testing.T) {
	port := &comm.FakePort{}

	readMsg := New(port, makePacket(4, 0))
	readMsg.SetReadOffset(5)
	if _, err := readMsg.GetInputBuffer(); err == nil {
		t.Fatal("expected error for read offset exceeding input size")
	}

	writeMsg := New(port, makePacket(0, 4))
	writeMsg.SetWriteOffset(5)
	if _, err := writeMsg.GetOutputBuffer(); err == nil {
		t.Fatal("expected error for write offset exceeding output size")
	}
}

func TestCompleteIOForwardsIdentifier(t *testing.T) {
	port := &comm.FakePort{}
	packet := makePacket(0, 0)
	packet.Descriptor.Identifier = 0xABCD

	msg := New(port, packet)
	msg.SetReplyStatus(0)

	if err := msg.CompleteIO(); err != nil {
		t.Fatalf("CompleteIO: %v", err)
	}
	if port.LastComplete.Identifier != 0xABCD {
		t.Fatalf("identifier = %#x, want 0xABCD", port.LastComplete.Identifier)
	}
}

func TestCompletionWriteDataRoundTrip(t *testing.T) {
	port := &comm.FakePort{}
	msg := New(port, makePacket(0, 0))

	info := uapi.ConnectionInformation{Process: 1, Input: 2, Output: 3}
	if err := msg.SetCompletionWriteData(info); err != nil {
		t.Fatalf("SetCompletionWriteData: %v", err)
	}

	if msg.Completion().Write.Size != uint32(uapi.SizeOf[uapi.ConnectionInformation]()) {
		t.Fatalf("write size = %d, want %d", msg.Completion().Write.Size, uapi.SizeOf[uapi.ConnectionInformation]())
	}
	if msg.Completion().Write.Data == nil {
		t.Fatal("expected non-nil write data pointer")
	}
}

func TestReleaseRejectsInformationExceedingOutputSize(t *testing.T) {
	port := &comm.FakePort{}
	msg := New(port, makePacket(0, 4))

	if _, err := msg.GetOutputBuffer(); err != nil {
		t.Fatalf("GetOutputBuffer: %v", err)
	}
	msg.SetReplyStatus(0)
	msg.SetReplyInformation(100)

	if err := msg.ReleaseMessageBuffers(); err == nil {
		t.Fatal("expected error for completion information exceeding output buffer size")
	}
}
