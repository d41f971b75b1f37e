// Package bootcfg reads the boot configuration record stored in the flash
// config area. The record is small and fixed-size:
//
//	offset  size  field
//	0x00    2     magic "XC"
//	0x02    1     version
//	0x03    1     reserved
//	0x04    6     MAC address
//	0x0a    2     AV region, big endian
//	0x0c    3     reserved
//	0x0f    1     CRC-8 of bytes 0x00 to 0x0e
package bootcfg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/sigurn/crc8"
)

// Size is the encoded size of a Record.
const Size = 16

// Offset is the location of the record in the flash config area.
const Offset = 0x0

const (
	magic   = "XC"
	version = 1
)

var (
	ErrMagic    = errors.New("bootcfg: bad magic")
	ErrVersion  = errors.New("bootcfg: unsupported version")
	ErrChecksum = errors.New("bootcfg: checksum mismatch")
)

var table = crc8.MakeTable(crc8.CRC8)

// Region is the audio/video region the console was sold in.
type Region uint16

const (
	RegionNTSCUS Region = 0x00ff
	RegionNTSCJP Region = 0x01ff
	RegionPAL    Region = 0x02fe
)

type Record struct {
	MAC    net.HardwareAddr
	Region Region
}

// Load reads and validates the record at Offset of dev.
func Load(dev io.ReaderAt) (Record, error) {
	var buf [Size]byte
	if _, err := dev.ReadAt(buf[:], Offset); err != nil {
		return Record{}, fmt.Errorf("bootcfg: %w", err)
	}
	var r Record
	err := r.UnmarshalBinary(buf[:])
	return r, err
}

func (r *Record) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return fmt.Errorf("bootcfg: record size %d", len(b))
	}
	if string(b[0:2]) != magic {
		return ErrMagic
	}
	if b[2] != version {
		return fmt.Errorf("%w %d", ErrVersion, b[2])
	}
	if crc8.Checksum(b[:Size-1], table) != b[Size-1] {
		return ErrChecksum
	}
	r.MAC = net.HardwareAddr(append([]byte(nil), b[4:10]...))
	r.Region = Region(binary.BigEndian.Uint16(b[10:12]))
	return nil
}

func (r Record) MarshalBinary() ([]byte, error) {
	if len(r.MAC) != 6 {
		return nil, fmt.Errorf("bootcfg: invalid MAC %v", r.MAC)
	}
	b := make([]byte, Size)
	copy(b, magic)
	b[2] = version
	copy(b[4:10], r.MAC)
	binary.BigEndian.PutUint16(b[10:12], uint16(r.Region))
	b[Size-1] = crc8.Checksum(b[:Size-1], table)
	return b, nil
}
