// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"io"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only repeat a held key every ~30ms, so movement keys need to
// outlive a couple of frames to feel continuous.
const keyHoldDuration = 70 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Space   bool
	Enter   bool
	Escape  bool
	Number  int    // Last digit pressed within the hold window, -1 if none
	Pressed []byte // Raw bytes received this frame
	Closed  bool   // The underlying reader is gone
}

// Any reports whether any byte arrived this frame.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit      time.Time
	left      time.Time
	right     time.Time
	space     time.Time
	enter     time.Time
	escape    time.Time
	number    time.Time
	numberVal int
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	closed  bool
	pending []byte // Start of an escape sequence cut off at the end of a read
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r io.Reader) *Stream {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	s := &Stream{
		ch:    make(chan byte, 128),
		state: keyState{numberVal: -1},
	}
	go func() {
		defer close(s.ch)
		for {
			b, err := br.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	return s.Read(time.Now())
}

// Read drains all available bytes and reports key state as of now.
func (s *Stream) Read(now time.Time) Input {
	buf := s.pending
	s.pending = nil
	carried := len(buf)
drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	// Nothing followed the held back bytes, so they really were a lone ESC.
	final := s.closed || len(buf) == carried
	return s.parse(buf, now, final)
}

// incompleteCSI reports whether tail is ESC or ESC [ with the rest still
// in flight.
func incompleteCSI(tail []byte) bool {
	switch len(tail) {
	case 1:
		return tail[0] == '\x1b'
	case 2:
		return tail[0] == '\x1b' && tail[1] == '['
	}
	return false
}

func (s *Stream) parse(buf []byte, now time.Time, final bool) Input {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if !final && incompleteCSI(buf[i:]) {
			s.pending = append([]byte(nil), buf[i:]...)
			buf = buf[:i]
			break
		}

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				s.state.right = now
				i += 2
				continue
			case 'D':
				s.state.left = now
				i += 2
				continue
			case 'A', 'B':
				i += 2
				continue
			}
		}
		applyByteToState(&s.state, b, now)
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	in := Input{
		Quit:    held(s.state.quit),
		Left:    held(s.state.left),
		Right:   held(s.state.right),
		Space:   held(s.state.space),
		Enter:   held(s.state.enter),
		Escape:  held(s.state.escape),
		Number:  -1,
		Pressed: buf,
		Closed:  s.closed,
	}
	if held(s.state.number) {
		in.Number = s.state.numberVal
	}
	return in
}

// ResetKeyInput forgets every held key, so a key used to leave a screen
// does not leak into the next one.
func ResetKeyInput(s *Stream) {
	s.state = keyState{numberVal: -1}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	case '\x1b':
		state.escape = now
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		state.number = now
		state.numberVal = int(b - '0')
	}
}
