package uapi

import (
	"testing"
	"unsafe"
)

func TestStructSizes(t *testing.T) {
	tests := []struct {
		name     string
		size     uintptr
		expected int
	}{
		{"IoDescriptor", unsafe.Sizeof(IoDescriptor{}), 40},
		{"IoOperation", unsafe.Sizeof(IoOperation{}), 24},
		{"ConnectionInformation", unsafe.Sizeof(ConnectionInformation{}), 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if int(tt.size) != tt.expected {
				t.Errorf("%s size = %d, want %d", tt.name, tt.size, tt.expected)
			}
		})
	}
}

func TestDescriptorRoundTrip(t *testing.T) {
	in := IoDescriptor{
		Identifier: 0x1122334455667788,
		Process:    42,
		Object:     7,
		Function:   ConsoleIoUserDefined,
		InputSize:  128,
		OutputSize: 256,
	}

	var out IoDescriptor
	if err := UnmarshalDescriptor(MarshalDescriptor(&in), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestPacketRoundTripPreservesPayload(t *testing.T) {
	var in IoPacket
	in.Descriptor.Function = ConsoleIoCreateObject
	in.Descriptor.InputSize = 10
	create := in.AsCreateObject()
	create.CreateObject.ObjectType = ObjectTypeNewOutput

	var out IoPacket
	if err := UnmarshalPacket(MarshalPacket(&in), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Descriptor.Function != ConsoleIoCreateObject {
		t.Fatalf("descriptor not preserved: %+v", out.Descriptor)
	}
	if out.AsCreateObject().CreateObject.ObjectType != ObjectTypeNewOutput {
		t.Fatalf("payload not preserved")
	}
}

func TestUnmarshalDescriptorRejectsShortBuffer(t *testing.T) {
	var out IoDescriptor
	if err := UnmarshalDescriptor(make([]byte, 10), &out); err == nil {
		t.Fatal("expected error for short buffer")
	}
}

func TestIoctlNumbersAreDistinctAndNonZero(t *testing.T) {
	codes := []uint32{
		IoctlReadIo,
		IoctlCompleteIo,
		IoctlReadInput,
		IoctlWriteOutput,
		IoctlSetServerInformation,
		IoctlAllowViaUIAccess,
	}
	seen := make(map[uint32]bool, len(codes))
	for _, c := range codes {
		if c == 0 {
			t.Fatal("ioctl code must be non-zero")
		}
		if seen[c] {
			t.Fatalf("duplicate ioctl code: %#x", c)
		}
		seen[c] = true
	}
}

func TestSizeOfGeneric(t *testing.T) {
	if SizeOf[ConnectionInformation]() != 24 {
		t.Fatalf("SizeOf[ConnectionInformation]() = %d, want 24", SizeOf[ConnectionInformation]())
	}
}
