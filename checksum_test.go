package eebridge

import "testing"

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{"empty", nil, 0x00},
		{"single byte", []byte{0x42}, 0x42},
		{"small sum", []byte{0x01, 0x02, 0x03}, 0x06},
		{"overflow truncates", []byte{0xFF, 0x02}, 0x01},
		{"all ones", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0xFC},
		{"wraps to zero", []byte{0x80, 0x80}, 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.data); got != tt.want {
				t.Errorf("Checksum(%X) = 0x%02X, want 0x%02X", tt.data, got, tt.want)
			}
		})
	}
}

func TestWideChecksumKeepsHighBytesZero(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = 0xFF
	}
	got := wideChecksum(data)
	if got > 0xFF {
		t.Errorf("wideChecksum = 0x%08X, want value below 0x100", got)
	}
	if got != uint32(Checksum(data)) {
		t.Errorf("wideChecksum = 0x%08X, want 0x%08X", got, Checksum(data))
	}
}
