package video

import (
	"bytes"
	"testing"
)

type fakeSink struct {
	frames   [][]byte
	spsReqs  int
}

func (f *fakeSink) ForwardFrame(frame []byte) {
	cp := make([]byte, len(frame))
	copy(cp, frame)
	f.frames = append(f.frames, cp)
}

func (f *fakeSink) RequestSPSHeaders() { f.spsReqs++ }

func sps() []byte {
	return []byte{0x00, 0x00, 0x00, 0x01, 0x67, 0xAA, 0xBB} // NAL type 7
}

func TestReassemblesAcrossTwoSegments(t *testing.T) {
	sink := &fakeSink{}
	r := New(sink)

	a := sps()
	b := []byte{0xCC, 0xDD, 0xEE}

	r.Feed(append([]byte{0x00, 0x00}, a...))
	r.Feed(append([]byte{0x00, 0x81}, b...))

	if len(sink.frames) != 1 {
		t.Fatalf("expected 1 forwarded frame, got %d", len(sink.frames))
	}
	want := append(append([]byte{}, a...), b...)
	if !bytes.Equal(sink.frames[0], want) {
		t.Fatalf("frame = %x, want %x", sink.frames[0], want)
	}
}

func TestLossAcrossFrameBoundaryDiscardsAndAdvances(t *testing.T) {
	sink := &fakeSink{}
	r := New(sink)

	r.Feed(append([]byte{0x00, 0x00}, sps()...))
	r.Feed(append([]byte{0x00, 0x81}, []byte{0xCC}...))
	if len(sink.frames) != 1 {
		t.Fatalf("setup: expected 1 forwarded frame, got %d", len(sink.frames))
	}

	// Frame 1, jumping straight to segment 2 (skipping 0 and 1).
	r.Feed(append([]byte{0x01, 0x02}, []byte{0xAA}...))

	if len(sink.frames) != 1 {
		t.Fatalf("expected no new frame forwarded after a loss, got %d total", len(sink.frames))
	}
	if !r.discardCurrentFrame {
		t.Fatal("expected discardCurrentFrame to be true after skipping segments 0 and 1")
	}
	if r.currentFrameNum != 1 {
		t.Fatalf("currentFrameNum = %d, want 1", r.currentFrameNum)
	}
}

func TestWithoutSPSFramesAreNotForwardedAndHeadersAreRequested(t *testing.T) {
	sink := &fakeSink{}
	r := New(sink)

	nonSPS := []byte{0xAA, 0xBB, 0xCC}
	for i := 0; i < framesPerSPSRequest; i++ {
		frameNum := byte(i)
		r.Feed(append([]byte{frameNum, 0x80}, nonSPS...)) // single segment, last flag set
	}

	if len(sink.frames) != 0 {
		t.Fatalf("expected no frames forwarded before SPS seen, got %d", len(sink.frames))
	}
	if sink.spsReqs != 1 {
		t.Fatalf("expected exactly 1 SPS re-request after %d frames, got %d", framesPerSPSRequest, sink.spsReqs)
	}
}

func TestGapWithinFrameSetsDiscard(t *testing.T) {
	sink := &fakeSink{}
	r := New(sink)

	r.Feed(append([]byte{0x05, 0x00}, sps()...))
	// Jump from segment 0 to segment 2, skipping 1.
	r.Feed(append([]byte{0x05, 0x82}, []byte{0xEE}...))

	if len(sink.frames) != 0 {
		t.Fatalf("expected frame to be discarded, but got %d forwarded", len(sink.frames))
	}
}

func TestSegmentIndexWrapsModulo128(t *testing.T) {
	sink := &fakeSink{}
	r := New(sink)

	r.Feed(append([]byte{0x02, 0x00}, sps()...))
	r.Feed([]byte{0x02, 0x7F, 0xAA}) // segment 127, not last
	r.Feed([]byte{0x02, 0x80, 0xBB}) // segment 0 again, wrapping modulo 128, last flag set

	if len(sink.frames) != 1 {
		t.Fatalf("expected the wrapped frame to be forwarded, got %d frames", len(sink.frames))
	}
}

func TestShortDatagramIgnored(t *testing.T) {
	sink := &fakeSink{}
	r := New(sink)
	r.Feed([]byte{0x01})
	if r.haveFrameNum {
		t.Fatal("a too-short datagram should not be treated as a frame header")
	}
}
