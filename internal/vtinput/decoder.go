package vtinput

import "math"

// TokenKind discriminates what a decode produced.
type TokenKind uint8

const (
	// KindKeyEvent means the decoder synthesized a structured key event.
	KindKeyEvent TokenKind = iota
	// KindIgnoredSequence means the prefix was a recognized but
	// inconsequential sequence (focus events, DA1 replies).
	KindIgnoredSequence
	// KindTextUnits is reserved for higher-level wrappers that fall back
	// to code-page decoding. TryDecode itself never returns this kind.
	KindTextUnits
)

// DecodeResult is the outcome of a single TryDecode call.
type DecodeResult uint8

const (
	// Produced means Token is valid and BytesConsumed bytes were consumed.
	Produced DecodeResult = iota
	// NeedMoreData means the prefix is a valid but incomplete sequence;
	// the caller should retry once more bytes arrive, prefixed with the
	// same unconsumed tail.
	NeedMoreData
	// NoMatch means the prefix is not a supported VT sequence at all;
	// the caller should fall through to code-page text decoding.
	NoMatch
)

// Token is the result of a successful decode.
type Token struct {
	Kind          TokenKind
	BytesConsumed int
	Key           KeyEvent
}

// Virtual key codes this decoder emits, matching the Win32 VK_* constants.
const (
	vkLeft   = 0x25
	vkUp     = 0x26
	vkRight  = 0x27
	vkDown   = 0x28
	vkPrior  = 0x21 // Page Up
	vkNext   = 0x22 // Page Down
	vkEnd    = 0x23
	vkHome   = 0x24
	vkInsert = 0x2D
	vkDelete = 0x2E
	vkF1     = 0x70
	vkF2     = 0x71
	vkF3     = 0x72
	vkF4     = 0x73
)

const (
	escByte byte = 0x1b
	csiByte byte = 0x9b // C1 CSI
)

// TryDecode attempts to classify the byte prefix as a VT input sequence.
// It is a pure, total function: for any input it returns Produced (with
// 0 < BytesConsumed <= len(prefix)), NeedMoreData, or NoMatch, and never
// returns a Token with Kind == KindTextUnits.
func TryDecode(prefix []byte) (Token, DecodeResult) {
	if len(prefix) == 0 {
		return Token{}, NoMatch
	}

	// A single ESC is ambiguous: it could be a standalone Escape key or
	// the start of a longer sequence. Defer until more bytes arrive.
	if len(prefix) == 1 && prefix[0] == escByte {
		return Token{}, NeedMoreData
	}

	if prefix[0] == escByte {
		second := prefix[1]
		switch second {
		case 'O':
			return decodeSS3(prefix)
		case '[':
			return decodeCSI(prefix)
		default:
			return Token{}, NoMatch
		}
	}

	if prefix[0] == csiByte {
		return decodeCSI(prefix)
	}

	return Token{}, NoMatch
}

func makeSimpleKeyEvent(vk uint16) KeyEvent {
	return KeyEvent{
		KeyDown:        true,
		RepeatCount:    1,
		VirtualKeyCode: vk,
	}
}

func decodeSS3(bytes []byte) (Token, DecodeResult) {
	if len(bytes) < 2 {
		return Token{}, NeedMoreData
	}
	if bytes[0] != escByte || bytes[1] != 'O' {
		return Token{}, NoMatch
	}
	if len(bytes) < 3 {
		return Token{}, NeedMoreData
	}

	var vk uint16
	switch bytes[2] {
	case 'P':
		vk = vkF1
	case 'Q':
		vk = vkF2
	case 'R':
		vk = vkF3
	case 'S':
		vk = vkF4
	default:
		return Token{}, NoMatch
	}

	return Token{Kind: KindKeyEvent, BytesConsumed: 3, Key: makeSimpleKeyEvent(vk)}, Produced
}

type parsedParam struct {
	present bool
	value   uint32
}

func saturatingMulAdd10(value uint32, digit byte) uint32 {
	const maxValue = math.MaxUint32
	d := uint32(digit)
	if value > (maxValue-d)/10 {
		return maxValue
	}
	return value*10 + d
}

func saturate16(value uint32) uint16 {
	if value > 0xFFFF {
		return 0xFFFF
	}
	return uint16(value)
}

func decodeCSI(bytes []byte) (Token, DecodeResult) {
	var prefixLen int
	switch {
	case len(bytes) >= 1 && bytes[0] == csiByte:
		prefixLen = 1
	case len(bytes) >= 2 && bytes[0] == escByte && bytes[1] == '[':
		prefixLen = 2
	default:
		return Token{}, NoMatch
	}

	if len(bytes) <= prefixLen {
		return Token{}, NeedMoreData
	}

	first := bytes[prefixLen]

	// Focus events: not console input.
	if first == 'I' || first == 'O' {
		return Token{Kind: KindIgnoredSequence, BytesConsumed: prefixLen + 1}, Produced
	}

	// Basic cursor keys and home/end.
	if vk, ok := basicCursorVk(first); ok {
		return Token{Kind: KindKeyEvent, BytesConsumed: prefixLen + 1, Key: makeSimpleKeyEvent(vk)}, Produced
	}

	// DA1 response: CSI ? ... c (ignored).
	if first == '?' {
		pos := prefixLen + 1
		for pos < len(bytes) {
			ch := bytes[pos]
			if ch == 'c' {
				return Token{Kind: KindIgnoredSequence, BytesConsumed: pos + 1}, Produced
			}
			if !(ch == ';' || (ch >= '0' && ch <= '9')) {
				return Token{}, NoMatch
			}
			pos++
		}
		return Token{}, NeedMoreData
	}

	// Remaining shapes start with digits/semicolons and are disambiguated
	// by their terminator: '~' for fallback special keys, '_' for
	// win32-input-mode.
	var params [6]parsedParam
	paramIndex := 0
	var current uint32
	var currentPresent bool

	pos := prefixLen
	for pos < len(bytes) {
		ch := bytes[pos]
		switch {
		case ch >= '0' && ch <= '9':
			currentPresent = true
			current = saturatingMulAdd10(current, ch-'0')
			pos++
		case ch == ';':
			if paramIndex < len(params) {
				params[paramIndex] = parsedParam{currentPresent, current}
			}
			paramIndex++
			current = 0
			currentPresent = false
			pos++
		default:
			goto terminated
		}
	}
terminated:
	if pos >= len(bytes) {
		return Token{}, NeedMoreData
	}

	terminator := bytes[pos]
	if paramIndex < len(params) {
		params[paramIndex] = parsedParam{currentPresent, current}
	}

	switch terminator {
	case '~':
		if paramIndex != 0 || !params[0].present {
			return Token{}, NoMatch
		}
		var vk uint16
		switch params[0].value {
		case 2:
			vk = vkInsert
		case 3:
			vk = vkDelete
		case 5:
			vk = vkPrior
		case 6:
			vk = vkNext
		default:
			return Token{}, NoMatch
		}
		return Token{Kind: KindKeyEvent, BytesConsumed: pos + 1, Key: makeSimpleKeyEvent(vk)}, Produced

	case '_':
		return decodeWin32InputMode(params, pos+1), Produced

	default:
		return Token{}, NoMatch
	}
}

func basicCursorVk(b byte) (uint16, bool) {
	switch b {
	case 'A':
		return vkUp, true
	case 'B':
		return vkDown, true
	case 'C':
		return vkRight, true
	case 'D':
		return vkLeft, true
	case 'H':
		return vkHome, true
	case 'F':
		return vkEnd, true
	default:
		return 0, false
	}
}

// decodeWin32InputMode builds the key event for
// CSI Vk;Sc;Uc;Kd;Cs;Rc _. Defaults match the upstream console host:
// Vk/Sc/Uc/Kd/Cs default to 0, Rc defaults to 1. The repeat count is
// additionally clamped to a minimum of 1 even when Rc is explicitly
// present and zero — the inbox host never reports a zero-repeat key.
func decodeWin32InputMode(params [6]parsedParam, bytesConsumed int) Token {
	paramValue := func(i int, def uint32) uint32 {
		if params[i].present {
			return params[i].value
		}
		return def
	}

	vk := paramValue(0, 0)
	sc := paramValue(1, 0)
	uc := paramValue(2, 0)
	kd := paramValue(3, 0)
	cs := paramValue(4, 0)
	rc := paramValue(5, 1)

	key := KeyEvent{
		KeyDown:         kd != 0,
		RepeatCount:     saturate16(max32(rc, 1)),
		VirtualKeyCode:  saturate16(vk),
		VirtualScanCode: saturate16(sc),
		UnicodeChar:     saturate16(uc),
		ControlKeyState: cs,
	}

	// Some terminals send the virtual-key shape of Ctrl+<letter> without
	// a synthesized control byte. Recover it the way the inbox host does,
	// so KeyEventMatchesCtrlC (and any Ctrl+letter consumer) sees the
	// control code regardless of which shape the terminal chose.
	const ctrlMask = LeftCtrlPressed | RightCtrlPressed
	if key.KeyDown && key.UnicodeChar == 0 && cs&ctrlMask != 0 &&
		key.VirtualKeyCode >= 'A' && key.VirtualKeyCode <= 'Z' {
		key.UnicodeChar = key.VirtualKeyCode - 'A' + 1
	}

	return Token{Kind: KindKeyEvent, BytesConsumed: bytesConsumed, Key: key}
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
