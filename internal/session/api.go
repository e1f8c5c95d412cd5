package session

import (
	"math"

	"tellogo/internal/telloproto"
)

// waitForAck enqueues pkt with a fresh sequence number and blocks up to
// the ack timeout for the matching response. It reports whether the ack
// arrived in time.
func (s *Session) waitForAck(pkt telloproto.Packet) bool {
	seq := s.enqueueAcked(pkt)
	return s.acks.Wait(seq, s.opts.AckTimeout)
}

// waitForAckAsync enqueues pkt and returns a channel that receives the
// eventual ack result exactly once, from its own goroutine, so callers
// that don't want to block can still observe success or failure.
func (s *Session) waitForAckAsync(pkt telloproto.Packet) <-chan bool {
	seq := s.enqueueAcked(pkt)
	result := make(chan bool, 1)
	go func() {
		result <- s.acks.Wait(seq, s.opts.AckTimeout)
	}()
	return result
}

// TakeOff blocks until the drone acks the take-off command or the ack
// times out.
func (s *Session) TakeOff() bool {
	return s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeActuator, CommandID: telloproto.TakeOff})
}

// TakeOffAsync enqueues take-off and returns a channel that receives the
// ack result without blocking the caller.
func (s *Session) TakeOffAsync() <-chan bool {
	return s.waitForAckAsync(telloproto.Packet{PacketType: telloproto.PacketTypeActuator, CommandID: telloproto.TakeOff})
}

// Land blocks until the drone acks the land command or the ack times out.
func (s *Session) Land() bool {
	return s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeActuator, CommandID: telloproto.LandDrone, Payload: []byte{0x00}})
}

// LandAsync enqueues land and returns a channel that receives the ack
// result without blocking the caller.
func (s *Session) LandAsync() <-chan bool {
	return s.waitForAckAsync(telloproto.Packet{PacketType: telloproto.PacketTypeActuator, CommandID: telloproto.LandDrone, Payload: []byte{0x00}})
}

// Flip performs a flip in the given direction.
func (s *Session) Flip(dir telloproto.FlipDirection) bool {
	return s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeActuator, CommandID: telloproto.FlipDrone, Payload: []byte{byte(dir)}})
}

// PalmLand waits for a hand under the drone before landing.
func (s *Session) PalmLand() bool {
	return s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeActuator, CommandID: telloproto.PalmLand})
}

// ThrowTakeOff arms the throw-and-fly takeoff mode.
func (s *Session) ThrowTakeOff() bool {
	return s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeActuator, CommandID: telloproto.ThrowAndFly})
}

// StartSmartVideo enables the quick-mode flight profile via the joystick
// state rather than a dedicated command: the drone has no separate
// "smart video" command id in this protocol revision, so both map to the
// quick-mode flag carried on every control packet.
func (s *Session) StartSmartVideo() bool {
	s.SetQuickMode(true)
	return true
}

// StopSmartVideo clears the quick-mode flag.
func (s *Session) StopSmartVideo() bool {
	s.SetQuickMode(false)
	return true
}

// StartBouncing and StopBouncing are not separate drone commands either;
// bouncing is a caller-side oscillation of the vertical stick, so these
// exist only to satisfy the public API surface and are no-ops at the
// session level. Embedding applications drive the oscillation themselves
// via SetJoysticksState.
func (s *Session) StartBouncing() bool { return true }
func (s *Session) StopBouncing() bool  { return true }

// CancelLanding is not a distinct drone command; the protocol has no
// cancel-landing request, so this simply re-asserts hover.
func (s *Session) CancelLanding() bool {
	s.Hover()
	return true
}

// Hover zeroes the joystick state, leveling the drone in place.
func (s *Session) Hover() {
	s.SetJoysticksState(0, 0, 0, 0)
}

// SetJoysticksState updates the joystick state read by the control loop.
// Each axis is in [-1, 1]; rx/ry/lx/ly match right-X, right-Y, left-X,
// left-Y.
func (s *Session) SetJoysticksState(rx, ry, lx, ly float64) {
	s.joyMu.Lock()
	s.joystick.rightX = rx
	s.joystick.rightY = ry
	s.joystick.leftX = lx
	s.joystick.leftY = ly
	s.joyMu.Unlock()
}

// SetQuickMode toggles the quick-mode bit carried on every control packet.
func (s *Session) SetQuickMode(enabled bool) {
	s.joyMu.Lock()
	s.joystick.quickMode = enabled
	s.joyMu.Unlock()
}

// GetSSID returns the drone's SSID, issuing and waiting on a request the
// first time it's needed.
func (s *Session) GetSSID() (string, bool) {
	if v, ok := s.info.SSID(); ok {
		return v, true
	}
	if !s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.GetSSID}) {
		return "", false
	}
	return s.info.SSID()
}

// GetFirmwareVersion returns the drone's firmware version string.
func (s *Session) GetFirmwareVersion() (string, bool) {
	if v, ok := s.info.FirmwareVersion(); ok {
		return v, true
	}
	if !s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.GetFirmwareVersion}) {
		return "", false
	}
	return s.info.FirmwareVersion()
}

// GetLoaderVersion returns the drone's bootloader version string.
func (s *Session) GetLoaderVersion() (string, bool) {
	if v, ok := s.info.LoaderVersion(); ok {
		return v, true
	}
	if !s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.GetLoaderVersion}) {
		return "", false
	}
	return s.info.LoaderVersion()
}

// GetBitrate returns the configured video bitrate code.
func (s *Session) GetBitrate() (uint8, bool) {
	if v, ok := s.info.Bitrate(); ok {
		return v, true
	}
	if !s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.GetBitrate}) {
		return 0, false
	}
	return s.info.Bitrate()
}

// SetBitrate blocks until the drone acks the new bitrate code.
func (s *Session) SetBitrate(code uint8) bool {
	return s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.SetBitrate, Payload: []byte{code}})
}

// GetFlightHeightLimit returns the configured maximum flight height, in
// the drone's own units.
func (s *Session) GetFlightHeightLimit() (uint16, bool) {
	if v, ok := s.info.FlightHeightLimit(); ok {
		return v, true
	}
	if !s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.GetFlightHeightLimit}) {
		return 0, false
	}
	return s.info.FlightHeightLimit()
}

// SetFlightHeightLimit blocks until the drone acks the new height limit.
func (s *Session) SetFlightHeightLimit(limit uint16) bool {
	payload := []byte{byte(limit), byte(limit >> 8)}
	return s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.SetFlightHeightLimit, Payload: payload})
}

// GetLowBatteryWarning returns the configured low-battery warning
// threshold.
func (s *Session) GetLowBatteryWarning() (uint16, bool) {
	if v, ok := s.info.LowBatteryWarning(); ok {
		return v, true
	}
	if !s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.GetLowBatteryWarning}) {
		return 0, false
	}
	return s.info.LowBatteryWarning()
}

// SetLowBatteryWarning blocks until the drone acks the new threshold.
func (s *Session) SetLowBatteryWarning(threshold uint16) bool {
	payload := []byte{byte(threshold), byte(threshold >> 8)}
	return s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.SetLowBatteryWarning, Payload: payload})
}

// GetAttitudeAngle returns the configured maximum attitude angle.
func (s *Session) GetAttitudeAngle() (float32, bool) {
	if v, ok := s.info.AttitudeAngle(); ok {
		return v, true
	}
	if !s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.GetAttitudeAngle}) {
		return 0, false
	}
	return s.info.AttitudeAngle()
}

// SetSSID blocks until the drone acks the new network name.
func (s *Session) SetSSID(ssid string) bool {
	return s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.SetSSID, Payload: append([]byte(ssid), 0x00)})
}

// SetAttitudeAngle blocks until the drone acks the new maximum attitude
// angle.
func (s *Session) SetAttitudeAngle(degrees float32) bool {
	bits := math.Float32bits(degrees)
	payload := []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
	return s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.SetAttitudeAngle, Payload: payload})
}

// GetCountryCode returns the drone's regulatory country code.
func (s *Session) GetCountryCode() (string, bool) {
	if v, ok := s.info.CountryCode(); ok {
		return v, true
	}
	if !s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.GetCountryCode}) {
		return "", false
	}
	return s.info.CountryCode()
}

// SetCountryCode blocks until the drone acks the new regulatory country
// code.
func (s *Session) SetCountryCode(code string) bool {
	return s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.SetCountryCode, Payload: append([]byte(code), 0x00)})
}

// GetActivationData returns the raw 58-byte activation record.
func (s *Session) GetActivationData() ([58]byte, bool) {
	if v, ok := s.info.ActivationData(); ok {
		return v, true
	}
	if !s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.GetActivationData}) {
		return [58]byte{}, false
	}
	return s.info.ActivationData()
}

// GetUniqueIdentifier returns the drone's hex-encoded serial number.
func (s *Session) GetUniqueIdentifier() (string, bool) {
	if v, ok := s.info.UniqueIdentifier(); ok {
		return v, true
	}
	if !s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.GetUniqueIdentifier}) {
		return "", false
	}
	return s.info.UniqueIdentifier()
}

// SignalStrengths returns the always-present light/wifi-strength and
// wifi-disturbance readings. Unlike the other info fields these arrive
// unsolicited (LIGHT_STRENGTH, WIFI_STATE), so there is nothing to
// request on a cache miss — the zero value just means "not seen yet".
func (s *Session) SignalStrengths() (light, wifi, disturb uint8) {
	return s.info.Signals()
}

// GetActivationStatus returns whether the drone reports itself activated.
func (s *Session) GetActivationStatus() (bool, bool) {
	if v, ok := s.info.ActivationStatus(); ok {
		return v, true
	}
	if !s.waitForAck(telloproto.Packet{PacketType: telloproto.PacketTypeShortQuery, CommandID: telloproto.GetActivationStatus}) {
		return false, false
	}
	return s.info.ActivationStatus()
}
