package wire

const crc8Poly = 0x07

// CRC8Update feeds one byte into a running CRC-8 (poly 0x07, MSB first, no
// reflection, no final XOR). Same algorithm as avr-libc _crc8_ccitt_update.
func CRC8Update(crc, b byte) byte {
	data := crc ^ b
	for range 8 {
		if data&0x80 != 0 {
			data = data<<1 ^ crc8Poly
		} else {
			data <<= 1
		}
	}
	return data
}

// CRC8 computes the checksum of buf starting from 0.
func CRC8(buf []byte) byte {
	var crc byte
	for _, b := range buf {
		crc = CRC8Update(crc, b)
	}
	return crc
}
