// Package vtinput decodes VT-encoded input bytes into structured key
// events. try_decode_vt from the original conhost replacement is realized
// here as TryDecode: a pure, total function over a byte prefix. It never
// allocates, never owns the bytes, and never retains state between calls —
// any "state" between chunks is the caller's unconsumed tail.
package vtinput

// KeyEvent is this server's analogue of a Win32 KEY_EVENT_RECORD.
type KeyEvent struct {
	KeyDown         bool
	RepeatCount     uint16
	VirtualKeyCode  uint16
	VirtualScanCode uint16
	UnicodeChar     uint16
	ControlKeyState uint32
}

// Control-key-state bits this package and its callers recognize. Values
// match the Win32 CONSOLE_KEY_EVENT control key state bitfield.
const (
	RightAltPressed  = 0x0001
	LeftAltPressed   = 0x0002
	RightCtrlPressed = 0x0004
	LeftCtrlPressed  = 0x0008
	ShiftPressed     = 0x0010
)

// KeyEventMatchesCtrlC recognizes a Ctrl+C keypress in either of two
// shapes terminals disagree about: (a) virtual key 'C' with a control
// modifier bit set, or (b) any key-down event whose Unicode payload is
// ETX (0x03). Both shapes must be supported because some terminals omit
// the virtual-key metadata and send only the encoded control character.
func KeyEventMatchesCtrlC(k KeyEvent) bool {
	if !k.KeyDown {
		return false
	}
	if k.UnicodeChar == 0x03 {
		return true
	}
	const ctrlMask = LeftCtrlPressed | RightCtrlPressed
	return k.VirtualKeyCode == 'C' && k.ControlKeyState&ctrlMask != 0
}
