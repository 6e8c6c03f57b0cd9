// Package input turns a raw terminal byte stream into per-frame key snapshots.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report repeats, so a held key shows up as a stream of presses.
const keyHoldDuration = 80 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Space  bool // Fire; also confirms on title and game-over screens
	Enter  bool
	Escape bool
	Pause  bool // P
	Wallet bool // W
	Shop   bool // B
	Quit   bool // Q
	Number int  // Last digit pressed, -1 if none
}

// None is the empty snapshot.
var None = Input{Number: -1}

// Key identifies one logical key in the snapshot.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeySpace
	KeyEnter
	KeyEscape
	KeyPause
	KeyWallet
	KeyShop
	KeyQuit
	numKeys
)

// Set marks key as pressed in the snapshot.
func (in *Input) Set(k Key) {
	switch k {
	case KeyLeft:
		in.Left = true
	case KeyRight:
		in.Right = true
	case KeyUp:
		in.Up = true
	case KeyDown:
		in.Down = true
	case KeySpace:
		in.Space = true
	case KeyEnter:
		in.Enter = true
	case KeyEscape:
		in.Escape = true
	case KeyPause:
		in.Pause = true
	case KeyWallet:
		in.Wallet = true
	case KeyShop:
		in.Shop = true
	case KeyQuit:
		in.Quit = true
	}
}

// Pressed returns the keys that are down in in but were not down in prev,
// plus the digit if a new one arrived. Screens act on these edges so a held
// key toggles a menu only once.
func (in Input) Pressed(prev Input) Input {
	out := Input{
		Left:   in.Left && !prev.Left,
		Right:  in.Right && !prev.Right,
		Up:     in.Up && !prev.Up,
		Down:   in.Down && !prev.Down,
		Space:  in.Space && !prev.Space,
		Enter:  in.Enter && !prev.Enter,
		Escape: in.Escape && !prev.Escape,
		Pause:  in.Pause && !prev.Pause,
		Wallet: in.Wallet && !prev.Wallet,
		Shop:   in.Shop && !prev.Shop,
		Quit:   in.Quit && !prev.Quit,
		Number: -1,
	}
	if in.Number >= 0 && in.Number != prev.Number {
		out.Number = in.Number
	}
	return out
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch        chan byte
	lastSeen  [numKeys]time.Time
	number    time.Time
	numberVal int
	closed    bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:        make(chan byte, 128),
		numberVal: -1,
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended (e.g. the SSH
// session went away).
func (s *Stream) Closed() bool {
	return s.closed
}

// Reset forgets all held keys, e.g. when switching screens.
func (s *Stream) Reset() {
	s.lastSeen = [numKeys]time.Time{}
	s.number = time.Time{}
	s.numberVal = -1
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// returns the keys pressed within the hold window.
func ReadInput(s *Stream) Input {
	return s.read(time.Now())
}

func (s *Stream) read(now time.Time) Input {
	var buf []byte
drain:
	for {
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
	s.parse(buf, now)

	in := None
	for k := Key(0); k < numKeys; k++ {
		if !s.lastSeen[k].IsZero() && now.Sub(s.lastSeen[k]) < keyHoldDuration {
			in.Set(k)
		}
	}
	if !s.number.IsZero() && now.Sub(s.number) < keyHoldDuration {
		in.Number = s.numberVal
	}
	return in
}

// parse updates key timestamps from raw bytes, decoding CSI arrow keys.
func (s *Stream) parse(buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if k, ok := arrowKeys[buf[i+2]]; ok {
				s.lastSeen[k] = now
				i += 2
				continue
			}
		}

		if b >= '0' && b <= '9' {
			s.number = now
			s.numberVal = int(b - '0')
			continue
		}
		if k, ok := byteKeys[b]; ok {
			s.lastSeen[k] = now
		}
	}
}

var arrowKeys = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
}

var byteKeys = map[byte]Key{
	'a': KeyLeft, 'A': KeyLeft, 'h': KeyLeft,
	'd': KeyRight, 'D': KeyRight, 'l': KeyRight,
	'k': KeyUp, 'K': KeyUp,
	'j': KeyDown, 'J': KeyDown, 's': KeyDown, 'S': KeyDown,
	' ':  KeySpace,
	'\r': KeyEnter, '\n': KeyEnter,
	'\x1b': KeyEscape,
	'p': KeyPause, 'P': KeyPause,
	'w': KeyWallet, 'W': KeyWallet,
	'b': KeyShop, 'B': KeyShop,
	'q': KeyQuit, 'Q': KeyQuit,
	'\x03': KeyQuit, // Ctrl+C in raw mode
}
