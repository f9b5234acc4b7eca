package eebridge

// Checksum is the 8-bit additive checksum of data: the byte-wise sum
// truncated to the low 8 bits. It travels in a 32-bit field on the wire.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// wideChecksum is Checksum widened to its wire width.
func wideChecksum(data []byte) uint32 {
	return uint32(Checksum(data))
}
