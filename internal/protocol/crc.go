package protocol

var crcTable = [16]uint32{
	0x00000000, 0x1db71064, 0x3b6e20c8, 0x26d930ac,
	0x76dc4190, 0x6b6b51f4, 0x4db26158, 0x5005713c,
	0xedb88320, 0xf00f9344, 0xd6d6a3e8, 0xcb61b38c,
	0x9b64c2b0, 0x86d3d2d4, 0xa00ae278, 0xbdbdf21c,
}

// CRC16 is the low half of a nibble-wise table CRC over data. The running
// value is inverted after every byte, so it is not a standard CRC-32.
func CRC16(data []byte) uint16 {
	crc := ^uint32(0)
	for _, b := range data {
		crc = crcTable[(crc^uint32(b))&0x0f] ^ (crc >> 4)
		crc = crcTable[(crc^uint32(b>>4))&0x0f] ^ (crc >> 4)
		crc = ^crc
	}
	return uint16(crc)
}
