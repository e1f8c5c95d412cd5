package session

import (
	"bytes"
	"net"
	"testing"
	"time"

	"tellogo/internal/telemetry"
	"tellogo/internal/telloproto"
)

// newTestSession builds a Session backed by a real loopback socket (so
// dispatch paths that enqueue a reply have somewhere to write) but no
// worker goroutines, sufficient for exercising dispatch/state-machine
// logic directly and synchronously.
func newTestSession(t *testing.T) *Session {
	t.Helper()
	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 9})
	if err != nil {
		t.Fatalf("dial loopback test socket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &Session{
		opts:         Options{}.withDefaults(),
		cmdConn:      conn,
		acks:         telloproto.NewAckSet(),
		connectedGen: telloproto.NewBroadcast(),
		info:         telemetry.NewInfo(),
	}
}

func flightDataPayload() []byte {
	return make([]byte, 24)
}

func TestDispatchFlightDataSetsConnectedAndAcks(t *testing.T) {
	s := newTestSession(t)
	if s.IsConnected() {
		t.Fatal("new session should start disconnected")
	}

	s.dispatch(telloproto.Packet{CommandID: telloproto.FlightData, SequenceNumber: 0, Payload: flightDataPayload()})

	if !s.IsConnected() {
		t.Fatal("expected connected after first FLIGHT_DATA")
	}
	if !s.acks.IsAcked(0) {
		t.Fatal("expected sequence 0 to be acked after dispatching FLIGHT_DATA")
	}
}

func TestLivenessGapClearsConnected(t *testing.T) {
	s := newTestSession(t)
	s.dispatch(telloproto.Packet{CommandID: telloproto.FlightData, Payload: flightDataPayload()})
	if !s.IsConnected() {
		t.Fatal("expected connected after first FLIGHT_DATA")
	}

	// Simulate a 4s gap by backdating lastUpdate directly.
	s.connMu.Lock()
	s.lastUpdate = time.Now().Add(-4 * time.Second)
	s.connMu.Unlock()

	// Second FLIGHT_DATA: the gap exceeds LivenessWindow, so this packet
	// only clears connected — it must not also re-set it.
	s.dispatch(telloproto.Packet{CommandID: telloproto.FlightData, Payload: flightDataPayload()})
	if s.IsConnected() {
		t.Fatal("expected connected false immediately after the gap is detected")
	}

	// Third FLIGHT_DATA arrives promptly: connected is restored and the
	// init sequence re-fires (observable only indirectly here via the
	// connected flag, since sendInitializationSequence only writes to a
	// loopback socket with no peer reading it).
	s.dispatch(telloproto.Packet{CommandID: telloproto.FlightData, Payload: flightDataPayload()})
	if !s.IsConnected() {
		t.Fatal("expected connected true again after the third FLIGHT_DATA")
	}
}

func TestDispatchPreservesFlightHeightLimitFallthroughBug(t *testing.T) {
	s := newTestSession(t)
	payload := []byte{0x00, 0x0A, 0x00} // success byte + 2-byte little-endian value (10)
	s.dispatch(telloproto.Packet{CommandID: telloproto.GetFlightHeightLimit, SequenceNumber: 5, Payload: payload})

	limit, ok := s.info.FlightHeightLimit()
	if !ok || limit != 10 {
		t.Fatalf("FlightHeightLimit = (%d, %v), want (10, true)", limit, ok)
	}

	warning, ok := s.info.LowBatteryWarning()
	if !ok || warning != 10 {
		t.Fatalf("expected the fallthrough bug to also set LowBatteryWarning to 10, got (%d, %v)", warning, ok)
	}
}

func TestDispatchQueryFailureLeavesFieldUnset(t *testing.T) {
	s := newTestSession(t)
	payload := []byte{0x01, 0x0A, 0x00} // success byte = 1 (failure)
	s.dispatch(telloproto.Packet{CommandID: telloproto.GetFlightHeightLimit, SequenceNumber: 6, Payload: payload})

	if _, ok := s.info.FlightHeightLimit(); ok {
		t.Fatal("expected FlightHeightLimit to remain unset after a failure response")
	}
}

func TestSetJoysticksStateAndHover(t *testing.T) {
	s := newTestSession(t)
	s.SetJoysticksState(0.5, -0.5, 0.25, -0.25)
	s.joyMu.Lock()
	j := s.joystick
	s.joyMu.Unlock()
	if j.rightX != 0.5 || j.rightY != -0.5 || j.leftX != 0.25 || j.leftY != -0.25 {
		t.Fatalf("joystick state = %+v, want rx=0.5 ry=-0.5 lx=0.25 ly=-0.25", j)
	}

	s.Hover()
	s.joyMu.Lock()
	j = s.joystick
	s.joyMu.Unlock()
	if j.rightX != 0 || j.rightY != 0 || j.leftX != 0 || j.leftY != 0 {
		t.Fatalf("expected Hover to zero all axes, got %+v", j)
	}
}

func TestSetQuickMode(t *testing.T) {
	s := newTestSession(t)
	s.SetQuickMode(true)
	s.joyMu.Lock()
	qm := s.joystick.quickMode
	s.joyMu.Unlock()
	if !qm {
		t.Fatal("expected quickMode true after SetQuickMode(true)")
	}
}

func TestReplyDroneLogHeaderBuildsSuccessBytePlusFirstTwoBytes(t *testing.T) {
	s := newTestSession(t)
	// Point the command socket at a local peer so the reply can be read
	// back off the wire.
	peer, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	if err != nil {
		t.Fatalf("listen peer: %v", err)
	}
	defer peer.Close()
	conn, err := net.DialUDP("udp4", nil, peer.LocalAddr().(*net.UDPAddr))
	if err != nil {
		t.Fatalf("dial peer: %v", err)
	}
	defer conn.Close()
	s.cmdConn = conn

	// Dispatching the request also exercises the dispatch->reply wiring
	// and acks the request's own sequence number.
	s.dispatch(telloproto.Packet{CommandID: telloproto.DroneLogHeader, SequenceNumber: 7, Payload: []byte{0x11, 0x22, 0x33}})
	if !s.acks.IsAcked(7) {
		t.Fatal("expected the DRONE_LOG_HEADER request's sequence number to be acked")
	}

	buf := make([]byte, 64)
	peer.SetReadDeadline(time.Now().Add(time.Second))
	n, err := peer.Read(buf)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	reply, ok := telloproto.Deserialize(buf[:n])
	if !ok || reply.CommandID != telloproto.DroneLogHeader || !bytes.Equal(reply.Payload, []byte{0x00, 0x11, 0x22}) {
		t.Fatalf("reply = %+v (ok=%v), want DRONE_LOG_HEADER with payload 00 11 22", reply, ok)
	}
}

func TestReplyDroneLogHeaderIgnoresShortPayload(t *testing.T) {
	s := newTestSession(t)
	s.replyDroneLogHeader(telloproto.Packet{Payload: []byte{0x01}})
	// No panic, no send attempted: nothing else to assert without
	// inspecting the wire, which this unit test deliberately avoids.
}

func TestReplyDroneLogConfigurationIgnoresShortPayload(t *testing.T) {
	s := newTestSession(t)
	s.replyDroneLogConfiguration(telloproto.Packet{Payload: []byte{0x01, 0x02}})
}

func TestReplyCurrentTimeDoesNotPanic(t *testing.T) {
	s := newTestSession(t)
	s.replyCurrentTime()
}

func TestTakeOffAsyncReturnsObservableResult(t *testing.T) {
	s := newTestSession(t)
	result := s.TakeOffAsync()

	// The command just sent needs a sequence number to ack; s.seq holds
	// the last number nextSeq handed out, so ack that one directly, since
	// the test has no socket peer to answer.
	s.acks.Ack(uint16(s.seq))

	select {
	case ok := <-result:
		if !ok {
			t.Fatal("expected TakeOffAsync's channel to report success once acked")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("TakeOffAsync's channel never received a result")
	}
}

func TestLandAsyncReturnsObservableResult(t *testing.T) {
	s := newTestSession(t)
	result := s.LandAsync()
	s.acks.Ack(uint16(s.seq))

	select {
	case ok := <-result:
		if !ok {
			t.Fatal("expected LandAsync's channel to report success once acked")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("LandAsync's channel never received a result")
	}
}
