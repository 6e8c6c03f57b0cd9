package input

import (
	"testing"
	"time"
)

func newTestStream(bytes string) *Stream {
	s := &Stream{ch: make(chan byte, len(bytes)+1), numberVal: -1}
	for i := 0; i < len(bytes); i++ {
		s.ch <- bytes[i]
	}
	return s
}

func TestReadInputKeys(t *testing.T) {
	tests := []struct {
		name  string
		bytes string
		check func(Input) bool
	}{
		{"arrow left", "\x1b[D", func(in Input) bool { return in.Left && !in.Escape }},
		{"arrow up", "\x1b[A", func(in Input) bool { return in.Up }},
		{"letter right", "d", func(in Input) bool { return in.Right }},
		{"fire", " ", func(in Input) bool { return in.Space }},
		{"enter", "\r", func(in Input) bool { return in.Enter }},
		{"bare escape", "\x1b", func(in Input) bool { return in.Escape }},
		{"pause", "p", func(in Input) bool { return in.Pause }},
		{"wallet", "W", func(in Input) bool { return in.Wallet }},
		{"shop", "b", func(in Input) bool { return in.Shop }},
		{"quit", "q", func(in Input) bool { return in.Quit }},
		{"digit", "3", func(in Input) bool { return in.Number == 3 }},
		{"combo", "a ", func(in Input) bool { return in.Left && in.Space }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newTestStream(tt.bytes).read(time.Now())
			if !tt.check(in) {
				t.Fatalf("bytes %q -> %+v", tt.bytes, in)
			}
		})
	}
}

func TestReadInputHoldExpires(t *testing.T) {
	s := newTestStream("a")
	now := time.Now()
	if in := s.read(now); !in.Left {
		t.Fatal("left not pressed")
	}
	if in := s.read(now.Add(keyHoldDuration / 2)); !in.Left {
		t.Fatal("left released inside hold window")
	}
	if in := s.read(now.Add(keyHoldDuration * 2)); in.Left {
		t.Fatal("left still held after hold window")
	}
}

func TestReadInputNoKeys(t *testing.T) {
	in := newTestStream("").read(time.Now())
	if in != None {
		t.Fatalf("empty stream = %+v, want None", in)
	}
}

func TestStreamClosed(t *testing.T) {
	s := newTestStream("")
	close(s.ch)
	s.read(time.Now())
	if !s.Closed() {
		t.Fatal("stream not marked closed")
	}
}

func TestPressedEdges(t *testing.T) {
	prev := Input{Pause: true, Number: 2}
	cur := Input{Pause: true, Shop: true, Number: 2}
	got := cur.Pressed(prev)
	if got.Pause {
		t.Error("held pause reported as new press")
	}
	if !got.Shop {
		t.Error("new shop press not reported")
	}
	if got.Number != -1 {
		t.Errorf("repeated digit = %d, want -1", got.Number)
	}

	cur.Number = 4
	if got := cur.Pressed(prev); got.Number != 4 {
		t.Errorf("new digit = %d, want 4", got.Number)
	}
}
