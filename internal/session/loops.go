package session

import (
	"errors"
	"net"
	"time"

	"tellogo/internal/telemetry"
	"tellogo/internal/telloproto"
	"tellogo/internal/util"
)

// controlLoop is the 50 Hz control-plane emitter. It piggybacks the
// periodic connection-request / SPS-request cadence onto the same tick
// counter the flight-controls packet uses.
func (s *Session) controlLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(controlTickRate)
	defer ticker.Stop()

	var tick int
	for {
		if s.shuttingDown.Load() {
			return
		}
		<-ticker.C
		tick++
		if tick%timedRequestTicks == 0 {
			if s.IsConnected() {
				s.enqueue(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.RequestVideoSPSPPS}, 0)
			} else {
				s.sendConnRequest()
			}
		}

		s.joyMu.Lock()
		j := s.joystick
		s.joyMu.Unlock()

		rx := telloproto.FloatToStick(j.rightX)
		ry := telloproto.FloatToStick(j.rightY)
		ly := telloproto.FloatToStick(j.leftY)
		lx := telloproto.FloatToStick(j.leftX)
		payload := telloproto.PackFlightControls(rx, ry, ly, lx, j.quickMode, time.Now())

		s.enqueue(telloproto.Packet{
			PacketType: telloproto.PacketTypeStreaming,
			CommandID:  telloproto.SetCurrentFlightControls,
			Payload:    payload[:],
		}, 0)
	}
}

// commandLoop receives and dispatches inbound command-socket packets.
func (s *Session) commandLoop() {
	defer s.wg.Done()
	buf := make([]byte, 4096)
	for {
		if s.shuttingDown.Load() {
			return
		}
		s.cmdConn.SetReadDeadline(time.Now().Add(recvTimeout))
		n, err := s.cmdConn.Read(buf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if s.shuttingDown.Load() {
				return
			}
			util.Error("[dispatch] command recv: %v", err)
			continue
		}
		pkt, ok := telloproto.Deserialize(buf[:n])
		if !ok {
			util.Info("[dispatch] dropped malformed packet (%d bytes)", n)
			continue
		}
		s.dispatch(pkt)
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// dispatch applies one inbound packet's effect to session state, then
// marks its sequence number acked. Every inbound packet is treated as an
// ack, including unsolicited telemetry (sequence number zero) and
// drone-initiated queries — this keeps the waiter contract uniform.
func (s *Session) dispatch(pkt telloproto.Packet) {
	switch pkt.CommandID {
	case telloproto.FlightData:
		s.onFlightData(pkt.Payload)
	case telloproto.ConnAck:
		util.Info("[dispatch] received CONN_ACK")
	case telloproto.LightStrength:
		if len(pkt.Payload) >= 1 {
			s.info.SetLightStrength(pkt.Payload[0])
		}
	case telloproto.WifiState:
		if len(pkt.Payload) >= 2 {
			s.info.SetWifiState(pkt.Payload[0], pkt.Payload[1])
		}
	case telloproto.DroneLogHeader:
		s.replyDroneLogHeader(pkt)
	case telloproto.DroneLogConfiguration:
		s.replyDroneLogConfiguration(pkt)
	case telloproto.GetCurrentTime:
		s.replyCurrentTime()
	default:
		if len(pkt.Payload) >= 1 && isQueryResponse(pkt.CommandID) {
			if pkt.Payload[0] == 0 {
				telemetry.ApplyAck(s.info, pkt.CommandID, pkt.Payload[1:])
			}
		}
	}

	s.acks.Ack(pkt.SequenceNumber)
}

func isQueryResponse(cmd telloproto.CommandID) bool {
	switch cmd {
	case telloproto.GetSSID, telloproto.GetFirmwareVersion, telloproto.GetLoaderVersion,
		telloproto.GetBitrate, telloproto.GetFlightHeightLimit, telloproto.GetLowBatteryWarning,
		telloproto.GetAttitudeAngle, telloproto.GetCountryCode, telloproto.GetActivationData,
		telloproto.GetUniqueIdentifier, telloproto.GetActivationStatus:
		return true
	default:
		return false
	}
}

// onFlightData updates liveness/connected state and the cached
// FlightData. A gap of more than LivenessWindow since the previous update
// is treated as a disconnect: this packet only clears connected, it does
// not re-set it — the drone must be observed again on a subsequent
// FLIGHT_DATA before connected goes true and the init sequence re-fires.
func (s *Session) onFlightData(payload []byte) {
	fd, ok := telemetry.DecodeFlightData(payload)
	if ok {
		s.flightData.Store(&fd)
	}

	s.connMu.Lock()
	now := time.Now()
	firstConnect := false
	if !s.lastUpdate.IsZero() && now.Sub(s.lastUpdate) > s.opts.LivenessWindow {
		s.connected = false
		s.connectedGen.Signal()
	} else {
		wasConnected := s.connected
		s.connected = true
		firstConnect = !wasConnected
		s.connectedGen.Signal()
	}
	s.lastUpdate = now
	s.connMu.Unlock()

	if firstConnect {
		s.sendInitializationSequence()
	}
}

// sendInitializationSequence mirrors the fixed burst of setup requests
// issued the first time the drone is observed as connected.
func (s *Session) sendInitializationSequence() {
	util.Info("[session] connected, sending initialization sequence")
	for _, cmd := range []telloproto.CommandID{
		telloproto.GetSSID,
		telloproto.GetFirmwareVersion,
		telloproto.GetLoaderVersion,
		telloproto.GetBitrate,
		telloproto.GetFlightHeightLimit,
		telloproto.GetLowBatteryWarning,
		telloproto.GetCountryCode,
	} {
		s.enqueueAcked(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: cmd})
	}
	s.enqueue(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.RequestVideoSPSPPS}, 0)
}

// replyDroneLogHeader answers a DRONE_LOG_HEADER request with a success
// byte followed by the first two bytes of the request payload.
func (s *Session) replyDroneLogHeader(pkt telloproto.Packet) {
	if len(pkt.Payload) < 2 {
		return
	}
	reply := []byte{0x00, pkt.Payload[0], pkt.Payload[1]}
	s.enqueueAcked(telloproto.Packet{PacketType: telloproto.PacketTypeLogResponse, CommandID: telloproto.DroneLogHeader, Payload: reply})
}

// replyDroneLogConfiguration answers a DRONE_LOG_CONFIGURATION request
// with a success byte followed by request bytes [1..6] (byte 0 of the
// request is not echoed back).
func (s *Session) replyDroneLogConfiguration(pkt telloproto.Packet) {
	if len(pkt.Payload) < 7 {
		return
	}
	reply := []byte{0x00, pkt.Payload[1], pkt.Payload[2], pkt.Payload[3], pkt.Payload[4], pkt.Payload[5], pkt.Payload[6]}
	s.enqueueAcked(telloproto.Packet{PacketType: telloproto.PacketTypeLogResponse, CommandID: telloproto.DroneLogConfiguration, Payload: reply})
}

// replyCurrentTime answers a GET_CURRENT_TIME request with a fresh
// 14-byte little-endian year/month/day/hour/minute/second/millisecond
// payload built from wall-clock time, not an echo of the request.
func (s *Session) replyCurrentTime() {
	now := time.Now()
	year := uint16(now.Year())
	month := uint16(now.Month())
	day := uint16(now.Day())
	hour := uint16(now.Hour())
	min := uint16(now.Minute())
	sec := uint16(now.Second())
	ms := uint16(now.Nanosecond() / int(time.Millisecond))

	payload := make([]byte, 14)
	for i, v := range []uint16{year, month, day, hour, min, sec, ms} {
		payload[i*2] = byte(v)
		payload[i*2+1] = byte(v >> 8)
	}
	s.enqueueAcked(telloproto.Packet{PacketType: telloproto.PacketTypeLogResponse, CommandID: telloproto.GetCurrentTime, Payload: payload})
}

// videoLoop receives video-socket datagrams and feeds them to the frame
// reassembler.
func (s *Session) videoLoop() {
	defer s.wg.Done()
	buf := make([]byte, 4096)
	for {
		if s.shuttingDown.Load() {
			return
		}
		s.videoConn.SetReadDeadline(time.Now().Add(recvTimeout))
		n, _, err := s.videoConn.ReadFromUDP(buf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			if s.shuttingDown.Load() {
				return
			}
			util.Error("[video] recv: %v", err)
			continue
		}
		datagram := make([]byte, n)
		copy(datagram, buf[:n])
		s.reassembler.Feed(datagram)
	}
}
