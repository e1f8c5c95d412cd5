package telemetry

import (
	"encoding/hex"
	"math"

	"tellogo/internal/telloproto"
)

// ApplyAck updates rec with whatever a query-response packet's command ID
// and payload tell us. It is a no-op for command IDs it doesn't recognize,
// so the dispatcher can call it unconditionally for every inbound packet.
//
// GET_FLIGHT_HEIGHT_LIMIT intentionally falls through into
// GET_LOW_BATTERY_WARNING's handling below: the original firmware's
// command dispatcher is missing a break between the two cases, so a
// height-limit response also gets written into the low-battery-warning
// field. Preserved here rather than fixed.
func ApplyAck(rec *Info, cmd telloproto.CommandID, payload []byte) {
	switch cmd {
	case telloproto.GetSSID:
		rec.SetSSID(telloproto.TrimTrailingNulls(payload))
	case telloproto.GetFirmwareVersion:
		rec.SetFirmwareVersion(telloproto.TrimTrailingNulls(payload))
	case telloproto.GetLoaderVersion:
		rec.SetLoaderVersion(telloproto.TrimTrailingNulls(payload))
	case telloproto.GetBitrate:
		if len(payload) >= 1 {
			rec.SetBitrate(payload[0])
		}
	case telloproto.GetFlightHeightLimit:
		if len(payload) >= 2 {
			rec.SetFlightHeightLimit(le16(payload))
		}
		fallthrough
	case telloproto.GetLowBatteryWarning:
		if len(payload) >= 2 {
			rec.SetLowBatteryWarning(le16(payload))
		}
	case telloproto.GetAttitudeAngle:
		if len(payload) >= 4 {
			rec.SetAttitudeAngle(leFloat32(payload))
		}
	case telloproto.GetCountryCode:
		rec.SetCountryCode(telloproto.TrimTrailingNulls(payload))
	case telloproto.GetActivationData:
		if len(payload) >= 58 {
			var raw [58]byte
			copy(raw[:], payload[:58])
			rec.SetActivationData(raw)
		}
	case telloproto.GetUniqueIdentifier:
		rec.SetUniqueIdentifier(hex.EncodeToString(payload))
	case telloproto.GetActivationStatus:
		if len(payload) >= 1 {
			rec.SetActivationStatus(payload[0] != 0)
		}
	}
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }

func leFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}
