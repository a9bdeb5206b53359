// Package constants holds protocol-level limits shared across the server.
package constants

// MaxPacketPayloadBytes bounds a single request's declared input or output
// size. ConDrv itself imposes no such ceiling (it clamps only on offset
// validation); this server adds one so a malformed or hostile descriptor
// cannot force an unbounded allocation per request.
const MaxPacketPayloadBytes = 16 * 1024 * 1024

// MaxTitleRunes bounds the title accepted via the OSC-2 path. Longer titles
// are truncated rather than rejected, matching the inbox console host.
const MaxTitleRunes = 4096

// PaletteSize is the number of legacy 16-color palette entries carried by a
// screen-buffer snapshot.
const PaletteSize = 16

// DefaultCursorSizePercent is the cursor height used when a screen engine
// does not report one explicitly.
const DefaultCursorSizePercent = 25

// DefaultAttributes is the legacy attribute word (light gray on black) used
// when a screen engine has not yet set one.
const DefaultAttributes = 0x07
