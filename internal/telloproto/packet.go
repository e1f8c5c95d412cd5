package telloproto

import (
	"bytes"
	"encoding/binary"
)

const (
	minPacketLength = 11
	connReqPrefix   = "conn_req:"
	connAckPrefix   = "conn_ack:"
	wireMagic       = 0xCC
)

// Packet is a single framed message exchanged with the drone.
type Packet struct {
	Direction      Direction
	PacketType     uint8
	CommandID      CommandID
	SequenceNumber uint16
	Payload        []byte
}

// Serialize encodes p into its wire representation. CONN_REQ packets use
// the text pseudo-frame; everything else uses the binary frame with the
// CRC-8 header check and CRC-16 full-packet check.
func (p Packet) Serialize() []byte {
	if p.CommandID == ConnReq {
		out := make([]byte, 0, len(connReqPrefix)+len(p.Payload))
		out = append(out, connReqPrefix...)
		out = append(out, p.Payload...)
		return out
	}

	n := len(p.Payload)
	total := minPacketLength + n
	buf := make([]byte, total)

	buf[0] = wireMagic
	binary.LittleEndian.PutUint16(buf[1:3], uint16(total)<<3)
	buf[3] = CRC8(buf[0:3])
	buf[4] = p.PacketType
	binary.LittleEndian.PutUint16(buf[5:7], uint16(p.CommandID))
	binary.LittleEndian.PutUint16(buf[7:9], p.SequenceNumber)
	copy(buf[9:9+n], p.Payload)

	crc := CRC16(buf[0 : 9+n])
	binary.LittleEndian.PutUint16(buf[9+n:11+n], crc)

	return buf
}

// Deserialize parses a datagram received from the drone. ok is false if
// the bytes do not form a valid packet (too short, bad magic, bad length
// field, or either checksum fails).
func Deserialize(b []byte) (Packet, bool) {
	if len(b) < minPacketLength {
		return Packet{}, false
	}

	if bytes.Equal(b[:9], []byte(connAckPrefix)) {
		payload := make([]byte, len(b)-9)
		copy(payload, b[9:])
		return Packet{Direction: FromDrone, CommandID: ConnAck, Payload: payload}, true
	}

	if b[0] != wireMagic {
		return Packet{}, false
	}

	length := binary.LittleEndian.Uint16(b[1:3]) >> 3
	if length < minPacketLength || int(length) > len(b) {
		return Packet{}, false
	}

	if b[3] != CRC8(b[0:3]) {
		return Packet{}, false
	}

	checksum := binary.LittleEndian.Uint16(b[length-2 : length])
	if checksum != CRC16(b[0:length-2]) {
		return Packet{}, false
	}

	packetType := b[4]
	cmdID := CommandID(binary.LittleEndian.Uint16(b[5:7]))
	seq := binary.LittleEndian.Uint16(b[7:9])
	dataLen := int(length) - minPacketLength
	payload := make([]byte, dataLen)
	copy(payload, b[9:9+dataLen])

	return Packet{
		Direction:      FromDrone,
		PacketType:     packetType,
		CommandID:      cmdID,
		SequenceNumber: seq,
		Payload:        payload,
	}, true
}
