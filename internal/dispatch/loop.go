// Package dispatch implements the server's main request loop: block on
// the next I/O packet, build an Api Message, route it by verb, call the
// screen engine, publish a snapshot, and complete the I/O.
package dispatch

import (
	"runtime"
	"unicode/utf8"

	"github.com/oconsole/go-condrv/internal/constants"
	"github.com/oconsole/go-condrv/internal/interfaces"
	"github.com/oconsole/go-condrv/internal/message"
	"github.com/oconsole/go-condrv/internal/screenengine"
	"github.com/oconsole/go-condrv/internal/snapshot"
	"github.com/oconsole/go-condrv/internal/uapi"
	"github.com/oconsole/go-condrv/internal/vtinput"
)

// statusSuccess and statusFailure are the native NTSTATUS-equivalent
// codes this loop sets on a completion. Real values come from the
// driver's own status space; this server only needs "non-negative" vs
// "negative" to satisfy nt_success semantics.
const (
	statusSuccess int32 = 0
	statusFailure int32 = -1
)

// Config bundles a Loop's dependencies.
type Config struct {
	Port      interfaces.Port
	Engine    screenengine.Engine
	Published *snapshot.Published
	Logger    interfaces.Logger
	Observer  interfaces.Observer // optional
}

// Loop is a single-goroutine, OS-thread-pinned dispatch loop. All state
// it owns (decode tail, snapshot revision counter) is loop-local; the only
// object it shares across goroutines is Published.
type Loop struct {
	port      interfaces.Port
	engine    screenengine.Engine
	published *snapshot.Published
	logger    interfaces.Logger
	observer  interfaces.Observer

	decodeTail []byte
	revision   uint64
}

// New builds a Loop from cfg.
func New(cfg Config) *Loop {
	return &Loop{
		port:      cfg.Port,
		engine:    cfg.Engine,
		published: cfg.Published,
		logger:    cfg.Logger,
		observer:  cfg.Observer,
	}
}

func (l *Loop) logf(format string, args ...any) {
	if l.logger != nil {
		l.logger.Printf(format, args...)
	}
}

// Run pins the calling goroutine to its OS thread (ConDrv, like the
// driver this is modeled on, expects per-session requests to come from
// a consistent thread identity) and processes packets until ctxDone
// reports done or a fatal error occurs.
func (l *Loop) Run(ctxDone <-chan struct{}) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var pendingReply *uapi.IoComplete

	for {
		select {
		case <-ctxDone:
			return nil
		default:
		}

		packet, err := l.port.ReadNextIO(pendingReply)
		pendingReply = nil
		if err != nil {
			l.logf("dispatch: ReadNextIO failed: %v", err)
			return err
		}

		fatal, err := l.dispatchOne(packet)
		if err != nil {
			if fatal {
				l.logf("dispatch: fatal error handling packet: %v", err)
				return err
			}
			l.logf("dispatch: recoverable error handling packet: %v", err)
		}

		// dispatchOne has already delivered this packet's completion
		// through CompleteIO. pendingReply stays nil, so ReadNextIO is
		// never handed a chained completion.
	}
}

// dispatchOne builds an ApiMessage for packet, routes it by verb, and
// completes it. The bool return reports whether the error (if any) is
// fatal to the session.
func (l *Loop) dispatchOne(packet uapi.IoPacket) (fatal bool, err error) {
	descriptor := packet.Descriptor

	if descriptor.InputSize > constants.MaxPacketPayloadBytes || descriptor.OutputSize > constants.MaxPacketPayloadBytes {
		msg := message.New(l.port, packet)
		msg.SetReplyStatus(statusFailure)
		_ = msg.CompleteIO()
		l.observeRequest(descriptor.Function, false)
		return false, nil
	}

	msg := message.New(l.port, packet)

	switch descriptor.Function {
	case uapi.ConsoleIoConnect:
		err = l.handleConnect(msg)
	case uapi.ConsoleIoDisconnect:
		msg.SetReplyStatus(statusSuccess)
	case uapi.ConsoleIoCreateObject:
		msg.SetReplyStatus(statusSuccess)
	case uapi.ConsoleIoCloseObject:
		msg.SetReplyStatus(statusSuccess)
	case uapi.ConsoleIoRawWrite:
		err = l.handleRawWrite(msg)
	case uapi.ConsoleIoRawRead:
		err = l.handleRawRead(msg)
	case uapi.ConsoleIoUserDefined:
		err = l.handleUserDefined(msg, &packet)
	case uapi.ConsoleIoRawFlush:
		msg.SetReplyStatus(statusSuccess)
	default:
		msg.SetReplyStatus(statusFailure)
	}

	if err != nil {
		msg.SetReplyStatus(statusFailure)
	}

	releaseErr := msg.ReleaseMessageBuffers()
	if releaseErr != nil {
		msg.SetReplyStatus(statusFailure)
	}
	completeErr := msg.CompleteIO()

	l.publishSnapshot()
	l.observeRequest(descriptor.Function, err == nil)

	if completeErr != nil {
		return true, completeErr
	}
	if releaseErr != nil {
		return false, releaseErr
	}
	return false, err
}

func (l *Loop) handleConnect(msg *message.ApiMessage) error {
	info := uapi.ConnectionInformation{
		Process: msg.Descriptor().Process,
		Input:   msg.Descriptor().Object,
		Output:  msg.Descriptor().Object,
	}
	if err := msg.SetCompletionWriteData(uapi.MarshalConnectionInformation(&info)); err != nil {
		return err
	}
	msg.SetReplyStatus(statusSuccess)
	return nil
}

func (l *Loop) handleRawWrite(msg *message.ApiMessage) error {
	input, err := msg.GetInputBuffer()
	if err != nil {
		return err
	}
	if err := l.engine.WriteText(input); err != nil {
		return err
	}
	msg.SetReplyStatus(statusSuccess)
	msg.SetReplyInformation(uint64(len(input)))
	return nil
}

func (l *Loop) handleRawRead(msg *message.ApiMessage) error {
	output, err := msg.GetOutputBuffer()
	if err != nil {
		return err
	}

	events := l.engine.ReadKeyEvents()
	written := encodeKeyEvents(output, events)

	msg.SetReplyStatus(statusSuccess)
	msg.SetReplyInformation(uint64(written))
	return nil
}

func (l *Loop) handleUserDefined(msg *message.ApiMessage, packet *uapi.IoPacket) error {
	body := packet.AsUserDefined()
	switch body.Header.ApiNumber {
	case userDefinedSetTitle:
		input, err := msg.GetInputBuffer()
		if err != nil {
			return err
		}
		l.engine.SetTitle(string(input))
		msg.SetReplyStatus(statusSuccess)
	default:
		msg.SetReplyStatus(statusSuccess)
	}
	return nil
}

// userDefinedSetTitle is this server's selector for the title-set
// family of user-defined requests (the OSC-2 path). The real protocol's
// CONSOLE_MSG API numbers are a larger, versioned space outside this
// server's scope; this server only distinguishes the one family it
// acts on.
const userDefinedSetTitle = 1

// FeedTerminalInput decodes raw bytes received from the terminal side
// (VT-encoded keystrokes) into key events and pushes them onto the
// engine's input queue. It is safe to call with partial sequences
// across multiple invocations: any undecoded suffix is retained and
// prefixed to the next call's data.
func (l *Loop) FeedTerminalInput(data []byte) {
	buf := append(l.decodeTail, data...)
	l.decodeTail = nil

	for len(buf) > 0 {
		token, result := vtinput.TryDecode(buf)
		switch result {
		case vtinput.Produced:
			if token.Kind == vtinput.KindKeyEvent {
				l.engine.PushKeyEvent(token.Key)
				l.observeDecode("key_event")
			} else {
				l.observeDecode("ignored")
			}
			buf = buf[token.BytesConsumed:]
		case vtinput.NeedMoreData:
			l.decodeTail = append([]byte(nil), buf...)
			return
		case vtinput.NoMatch:
			r, size := utf8.DecodeRune(buf)
			l.engine.PushKeyEvent(vtinput.KeyEvent{
				KeyDown:        true,
				RepeatCount:    1,
				UnicodeChar:    saturateRune(r),
				VirtualKeyCode: 0,
			})
			l.observeDecode("literal")
			buf = buf[size:]
		}
	}
}

func saturateRune(r rune) uint16 {
	if r < 0 || r > 0xFFFF {
		return 0xFFFD
	}
	return uint16(r)
}

// encodeKeyEvents writes as many events as fit into out (each event
// takes one uint16 slot for its UnicodeChar, the minimal console-input
// encoding this server's raw-read reply uses) and returns the byte
// count written.
func encodeKeyEvents(out []byte, events []vtinput.KeyEvent) int {
	const bytesPerEvent = 2
	max := len(out) / bytesPerEvent
	if max > len(events) {
		max = len(events)
	}
	for i := 0; i < max; i++ {
		out[i*2] = byte(events[i].UnicodeChar)
		out[i*2+1] = byte(events[i].UnicodeChar >> 8)
	}
	return max * bytesPerEvent
}

func (l *Loop) publishSnapshot() {
	if l.published == nil || l.engine == nil {
		return
	}
	snap := l.engine.Snapshot()
	l.revision++
	snap.Revision = l.revision
	l.published.Publish(&snap)
	if l.observer != nil {
		l.observer.ObserveSnapshotPublished(snap.Revision)
	}
}

func (l *Loop) observeRequest(verb uint32, success bool) {
	if l.observer != nil {
		l.observer.ObserveRequest(verb, 0, success)
	}
}

func (l *Loop) observeDecode(outcome string) {
	if l.observer != nil {
		l.observer.ObserveDecode(outcome)
	}
}
