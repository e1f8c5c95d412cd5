package telloproto

import "testing"

func TestCRC8Deterministic(t *testing.T) {
	b := []byte{0xCC, 0x60, 0x00}
	a := CRC8(b)
	c := CRC8(b)
	if a != c {
		t.Fatalf("CRC8 not deterministic: %x vs %x", a, c)
	}
}

func TestCRC16Deterministic(t *testing.T) {
	b := []byte{0xCC, 0x60, 0x00, 0x00, 0x68, 0x55, 0x00, 0x01, 0x00}
	a := CRC16(b)
	c := CRC16(b)
	if a != c {
		t.Fatalf("CRC16 not deterministic: %x vs %x", a, c)
	}
}

func TestCRCChangesOnMutation(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04}
	base8 := CRC8(b)
	base16 := CRC16(b)
	b[2] ^= 0xFF
	if CRC8(b) == base8 {
		t.Fatal("CRC8 unchanged after mutating input")
	}
	if CRC16(b) == base16 {
		t.Fatal("CRC16 unchanged after mutating input")
	}
}

func TestCRCTablesHave256Entries(t *testing.T) {
	if len(crc8Table) != 256 || len(crc16Table) != 256 {
		t.Fatalf("table sizes: crc8=%d crc16=%d, want 256 each", len(crc8Table), len(crc16Table))
	}
}
