// Package video reassembles the fragmented H.264 stream the drone's video
// socket emits into whole frames, gating forwarding on having seen an SPS.
package video

const (
	frameHeaderLen = 2
	maxDatagram    = 4096

	// framesPerSPSRequest controls how often a missing-SPS stalemate
	// re-requests headers. Heuristic, not a protocol constant.
	framesPerSPSRequest = 8
)

// Sink is anything that can accept a fully reassembled frame and, on a
// sustained SPS drought, a request to re-send SPS/PPS headers. Kept
// narrow so the reassembler doesn't need to know about sockets.
type Sink interface {
	ForwardFrame(frame []byte)
	RequestSPSHeaders()
}

// Reassembler holds the fragmentation state for one video stream. It is
// not safe for concurrent use; the session runs it from a single
// goroutine reading the video socket.
type Reassembler struct {
	sink Sink

	currentFrame         []byte
	currentFrameNum      uint8
	haveFrameNum         bool
	lastSegmentReceived   int // -1 at start of frame
	discardCurrentFrame  bool
	receivedSPS          bool
	framesSinceLastSPSReq int
}

// New returns a Reassembler that forwards completed frames and SPS
// re-requests to sink.
func New(sink Sink) *Reassembler {
	return &Reassembler{sink: sink, lastSegmentReceived: -1}
}

// Feed processes one inbound video datagram. datagram must include the
// 2-byte frame/segment header; payloads shorter than that are ignored.
func (r *Reassembler) Feed(datagram []byte) {
	if len(datagram) < frameHeaderLen {
		return
	}
	frameNum := datagram[0]
	segByte := datagram[1]
	segNum := int(segByte & 0x7F)
	isLast := segByte&0x80 != 0
	payload := datagram[frameHeaderLen:]

	if !r.haveFrameNum {
		r.haveFrameNum = true
		r.startFrame(frameNum, segNum)
	} else if frameNum != r.currentFrameNum {
		r.startFrame(frameNum, segNum)
	} else if segNum != (r.lastSegmentReceived+1)&0x7F {
		r.discardCurrentFrame = true
	}

	r.lastSegmentReceived = segNum

	if !r.discardCurrentFrame {
		r.currentFrame = append(r.currentFrame, payload...)
	}

	if isLast {
		r.finishFrame()
	}
}

// startFrame begins tracking a new frame, discarding in-flight state. It
// discards the new frame outright unless its first observed segment is
// segment 0 — a clean mid-stream sync point.
func (r *Reassembler) startFrame(frameNum uint8, firstSegNum int) {
	r.currentFrameNum = frameNum
	r.currentFrame = r.currentFrame[:0]
	r.lastSegmentReceived = -1
	r.discardCurrentFrame = firstSegNum != 0
}

// finishFrame is called when the last-segment-of-frame flag arrives. It
// inspects the assembled buffer for an H.264 SPS NAL unit, forwards the
// frame if SPS has ever been seen, and otherwise counts toward the next
// SPS re-request before advancing to the next frame number.
func (r *Reassembler) finishFrame() {
	if !r.discardCurrentFrame {
		if containsSPS(r.currentFrame) {
			r.receivedSPS = true
		}
		if r.receivedSPS {
			frame := make([]byte, len(r.currentFrame))
			copy(frame, r.currentFrame)
			r.sink.ForwardFrame(frame)
		} else {
			r.framesSinceLastSPSReq++
			if r.framesSinceLastSPSReq >= framesPerSPSRequest {
				r.framesSinceLastSPSReq = 0
				r.sink.RequestSPSHeaders()
			}
		}
	}

	r.currentFrame = r.currentFrame[:0]
	r.lastSegmentReceived = -1
	r.discardCurrentFrame = false
	r.currentFrameNum++
}

// containsSPS scans for an H.264 Annex-B start code (00 00 00 01)
// followed by a NAL header whose type nibble is 7 (SPS).
func containsSPS(frame []byte) bool {
	for i := 0; i+4 < len(frame); i++ {
		if frame[i] == 0 && frame[i+1] == 0 && frame[i+2] == 0 && frame[i+3] == 1 {
			if frame[i+4]&0x1F == 7 {
				return true
			}
		}
	}
	return false
}
