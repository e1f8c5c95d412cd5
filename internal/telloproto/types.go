// Package telloproto implements the wire protocol of the drone's command
// channel: framing, CRC checks, the command id table, and the small
// bit-packing helpers the control-plane payload needs.
package telloproto

import "strings"

// Direction marks which side of the link a Packet travels.
type Direction int

const (
	ToDrone Direction = iota
	FromDrone
)

func (d Direction) String() string {
	if d == ToDrone {
		return "to-drone"
	}
	return "from-drone"
}

// TrimTrailingNulls removes trailing NUL bytes and trailing whitespace
// from a fixed-width ASCII field (leading bytes are kept), mirroring how the drone pads short
// strings (SSID, firmware version, ...) out to a fixed payload width.
func TrimTrailingNulls(b []byte) string {
	return strings.TrimRight(string(b), "\x00 \t\r\n")
}
