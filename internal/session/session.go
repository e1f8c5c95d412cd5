// Package session implements the drone's connect/handshake/control state
// machine on top of the wire codec in telloproto: three worker goroutines
// sharing a Session, plus a blocking/non-blocking public API.
package session

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"tellogo/internal/telemetry"
	"tellogo/internal/telloproto"
	"tellogo/internal/util"
	"tellogo/internal/video"
)

// Session owns the three UDP sockets, the ack table, the cached telemetry,
// and the joystick state for one drone connection. Workers share it by
// reference for the session's lifetime; the session's own lifetime
// strictly exceeds every worker's.
type Session struct {
	opts Options

	cmdConn     *net.UDPConn
	videoConn   *net.UDPConn
	forwardConn *net.UDPConn

	acks *telloproto.AckSet
	seq  uint32 // last sequence number handed out; nextSeq atomically increments it, wraps via uint16 cast

	connMu        sync.Mutex
	connected     bool
	lastUpdate    time.Time
	connectedGen  *telloproto.Broadcast

	joyMu    sync.Mutex
	joystick joystickState

	shuttingDown atomic.Bool

	info       *telemetry.Info
	flightData atomic.Pointer[telemetry.FlightData]
	mvoData    atomic.Pointer[telemetry.MVOData]
	imuData    atomic.Pointer[telemetry.IMUData]

	reassembler *video.Reassembler

	wg sync.WaitGroup
}

type joystickState struct {
	rightX, rightY, leftY, leftX float64
	quickMode                    bool
}

// New opens the three sockets, starts the worker goroutines, and enqueues
// the initial connection request. The returned Session is immediately
// usable; callers that need to know when the drone has actually answered
// should call WaitUntilConnected.
func New(opts Options) (*Session, error) {
	opts = opts.withDefaults()

	droneAddr, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", opts.DroneIP, opts.CommandPort))
	if err != nil {
		return nil, fmt.Errorf("session: resolve drone address: %w", err)
	}
	cmdConn, err := net.DialUDP("udp4", nil, droneAddr)
	if err != nil {
		return nil, fmt.Errorf("session: open command socket: %w", err)
	}

	videoConn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: opts.VideoPort})
	if err != nil {
		cmdConn.Close()
		return nil, fmt.Errorf("session: open video socket: %w", err)
	}

	forwardAddr, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", opts.ForwardIP, opts.ForwardPort))
	if err != nil {
		cmdConn.Close()
		videoConn.Close()
		return nil, fmt.Errorf("session: resolve forward address: %w", err)
	}
	forwardConn, err := net.DialUDP("udp4", nil, forwardAddr)
	if err != nil {
		cmdConn.Close()
		videoConn.Close()
		return nil, fmt.Errorf("session: open forward socket: %w", err)
	}

	s := &Session{
		opts:         opts,
		cmdConn:      cmdConn,
		videoConn:    videoConn,
		forwardConn:  forwardConn,
		acks:         telloproto.NewAckSet(),
		seq:          1,
		connectedGen: telloproto.NewBroadcast(),
		info:         telemetry.NewInfo(),
	}
	s.reassembler = video.New(sessionVideoSink{s})

	s.wg.Add(3)
	go s.controlLoop()
	go s.commandLoop()
	go s.videoLoop()

	s.sendConnRequest()

	return s, nil
}

// sessionVideoSink adapts Session to video.Sink without exposing Session's
// full surface to the reassembler.
type sessionVideoSink struct{ s *Session }

func (v sessionVideoSink) ForwardFrame(frame []byte) {
	if _, err := v.s.forwardConn.Write(frame); err != nil {
		util.Error("[video] forward frame: %v", err)
	}
}

func (v sessionVideoSink) RequestSPSHeaders() {
	v.s.enqueue(telloproto.Packet{
		PacketType: telloproto.PacketTypeShortQuery,
		CommandID:  telloproto.RequestVideoSPSPPS,
	}, 0)
}

func (s *Session) nextSeq() uint16 {
	return uint16(atomic.AddUint32(&s.seq, 1))
}

// enqueue serializes and sends pkt on the command socket. A zero seq
// argument means "use a fixed sequence number of 0" (streaming/heartbeat
// commands); any other value is assigned as the packet's sequence number
// before send. It silently drops the send once shutdown has started.
func (s *Session) enqueue(pkt telloproto.Packet, forcedSeq uint16) uint16 {
	if s.shuttingDown.Load() {
		return 0
	}
	pkt.Direction = telloproto.ToDrone
	pkt.SequenceNumber = forcedSeq
	wire := pkt.Serialize()
	if _, err := s.cmdConn.Write(wire); err != nil {
		util.Error("[session] send command %v: %v", pkt.CommandID, err)
	}
	return pkt.SequenceNumber
}

// enqueueAcked assigns a fresh sequence number, resets its ack slot, and
// sends the packet. Callers wait on the returned sequence number.
func (s *Session) enqueueAcked(pkt telloproto.Packet) uint16 {
	seq := s.nextSeq()
	s.acks.Reset(seq)
	s.enqueue(pkt, seq)
	return seq
}

func (s *Session) sendConnRequest() {
	payload := []byte{byte(s.opts.VideoPort), byte(s.opts.VideoPort >> 8)}
	s.enqueue(telloproto.Packet{CommandID: telloproto.ConnReq, Payload: payload}, 0)
}

// Shutdown enqueues a LAND command, stops all three workers, and closes
// all sockets. Idempotent: a second call is a no-op.
func (s *Session) Shutdown() {
	if s.shuttingDown.Load() {
		return
	}
	land := telloproto.Packet{PacketType: telloproto.PacketTypeActuator, CommandID: telloproto.LandDrone, Payload: []byte{0x00}}
	if !s.shuttingDown.CompareAndSwap(false, true) {
		return
	}
	// Sent directly rather than through enqueue: enqueue drops once
	// shuttingDown is observed true, which it now is.
	if _, err := s.cmdConn.Write(land.Serialize()); err != nil {
		util.Error("[session] send land on shutdown: %v", err)
	}
	s.wg.Wait()
	s.cmdConn.Close()
	s.videoConn.Close()
	s.forwardConn.Close()
}

// IsConnected reports whether the session has received FLIGHT_DATA
// recently enough to consider the link up.
func (s *Session) IsConnected() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.connected
}

// WaitUntilConnected blocks indefinitely until the first FLIGHT_DATA
// packet establishes the connection.
func (s *Session) WaitUntilConnected() {
	for {
		s.connMu.Lock()
		connected := s.connected
		gen := s.connectedGen.Chan()
		s.connMu.Unlock()
		if connected {
			return
		}
		<-gen
	}
}

func (s *Session) FlightData() (telemetry.FlightData, bool) {
	p := s.flightData.Load()
	if p == nil {
		return telemetry.FlightData{}, false
	}
	return *p, true
}

func (s *Session) MVOData() (telemetry.MVOData, bool) {
	p := s.mvoData.Load()
	if p == nil {
		return telemetry.MVOData{}, false
	}
	return *p, true
}

func (s *Session) IMUData() (telemetry.IMUData, bool) {
	p := s.imuData.Load()
	if p == nil {
		return telemetry.IMUData{}, false
	}
	return *p, true
}
