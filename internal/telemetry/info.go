// Package telemetry holds the drone's cached info record and the live
// telemetry structs decoded from FLIGHT_DATA/log packets, plus the pure
// decoders that turn a payload byte slice into one of them.
package telemetry

import "sync"

// Info is the cached, opportunistically-filled drone info record. Every
// field starts unset; the session populates a field the first time the
// corresponding query ack arrives. Access is guarded by a single mutex
// since fields are written only by the dispatch goroutine and read by
// whichever goroutine is running a blocking getter.
type Info struct {
	mu sync.RWMutex

	ssid               *string
	firmwareVersion    *string
	loaderVersion      *string
	bitrate            *uint8
	flightHeightLimit  *uint16
	lowBatteryWarning  *uint16
	attitudeAngle      *float32
	countryCode        *string
	activationData     *[58]byte
	uniqueIdentifier   *string
	activationStatus   *bool

	lightStrength uint8
	wifiStrength  uint8
	wifiDisturb   uint8
}

// NewInfo returns an empty Info record.
func NewInfo() *Info { return &Info{} }

func (i *Info) SSID() (string, bool)              { return derefStr(i, func() *string { return i.ssid }) }
func (i *Info) FirmwareVersion() (string, bool)    { return derefStr(i, func() *string { return i.firmwareVersion }) }
func (i *Info) LoaderVersion() (string, bool)      { return derefStr(i, func() *string { return i.loaderVersion }) }
func (i *Info) CountryCode() (string, bool)        { return derefStr(i, func() *string { return i.countryCode }) }
func (i *Info) UniqueIdentifier() (string, bool)   { return derefStr(i, func() *string { return i.uniqueIdentifier }) }

func derefStr(i *Info, get func() *string) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	p := get()
	if p == nil {
		return "", false
	}
	return *p, true
}

func (i *Info) Bitrate() (uint8, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.bitrate == nil {
		return 0, false
	}
	return *i.bitrate, true
}

func (i *Info) FlightHeightLimit() (uint16, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.flightHeightLimit == nil {
		return 0, false
	}
	return *i.flightHeightLimit, true
}

func (i *Info) LowBatteryWarning() (uint16, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.lowBatteryWarning == nil {
		return 0, false
	}
	return *i.lowBatteryWarning, true
}

func (i *Info) AttitudeAngle() (float32, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.attitudeAngle == nil {
		return 0, false
	}
	return *i.attitudeAngle, true
}

func (i *Info) ActivationData() ([58]byte, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.activationData == nil {
		return [58]byte{}, false
	}
	return *i.activationData, true
}

func (i *Info) ActivationStatus() (bool, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.activationStatus == nil {
		return false, false
	}
	return *i.activationStatus, true
}

func (i *Info) Signals() (light, wifi, disturb uint8) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.lightStrength, i.wifiStrength, i.wifiDisturb
}

// The setters below are called only from the dispatch goroutine.

func (i *Info) SetSSID(v string)              { i.mu.Lock(); i.ssid = &v; i.mu.Unlock() }
func (i *Info) SetFirmwareVersion(v string)   { i.mu.Lock(); i.firmwareVersion = &v; i.mu.Unlock() }
func (i *Info) SetLoaderVersion(v string)     { i.mu.Lock(); i.loaderVersion = &v; i.mu.Unlock() }
func (i *Info) SetBitrate(v uint8)            { i.mu.Lock(); i.bitrate = &v; i.mu.Unlock() }
func (i *Info) SetFlightHeightLimit(v uint16) { i.mu.Lock(); i.flightHeightLimit = &v; i.mu.Unlock() }
func (i *Info) SetLowBatteryWarning(v uint16) { i.mu.Lock(); i.lowBatteryWarning = &v; i.mu.Unlock() }
func (i *Info) SetAttitudeAngle(v float32)    { i.mu.Lock(); i.attitudeAngle = &v; i.mu.Unlock() }
func (i *Info) SetCountryCode(v string)       { i.mu.Lock(); i.countryCode = &v; i.mu.Unlock() }
func (i *Info) SetActivationData(v [58]byte)  { i.mu.Lock(); i.activationData = &v; i.mu.Unlock() }
func (i *Info) SetUniqueIdentifier(v string)  { i.mu.Lock(); i.uniqueIdentifier = &v; i.mu.Unlock() }
func (i *Info) SetActivationStatus(v bool)    { i.mu.Lock(); i.activationStatus = &v; i.mu.Unlock() }

func (i *Info) SetLightStrength(v uint8) { i.mu.Lock(); i.lightStrength = v; i.mu.Unlock() }
func (i *Info) SetWifiState(strength, disturb uint8) {
	i.mu.Lock()
	i.wifiStrength = strength
	i.wifiDisturb = disturb
	i.mu.Unlock()
}
