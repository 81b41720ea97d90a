package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"
)

const (
	version   byte = 1
	kindValue byte = 1
	kindList  byte = 2
)

var (
	ErrCorrupt = errors.New("listcache: corrupt entry")
	magic4     = [...]byte{'L', 'S', 'T', 'C'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

func slidingMillis(sliding time.Duration) uint64 {
	if sliding <= 0 {
		return 0
	}
	return uint64(sliding.Milliseconds())
}

// Value: magic(4) | ver(1) | kind(1=value) | slidingMs(u64 be) | vlen(u32 be) | payload(vlen)
//
// slidingMs records the sliding window the entry was written with so the
// read path can refresh the TTL without knowing the caller's write options.
// 0 means "not sliding" (absolute or no expiry) and suppresses the refresh.
func EncodeValue(sliding time.Duration, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 8 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindValue)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], slidingMillis(sliding))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func DecodeValue(b []byte) (sliding time.Duration, payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindValue {
		return 0, nil, ErrCorrupt
	}

	off := 6

	sliding = time.Duration(binary.BigEndian.Uint64(b[off:off+8])) * time.Millisecond
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen > len(b)-off { // overflow-safe bound check
		return 0, nil, ErrCorrupt
	}
	if off+vlen != len(b) { // trailing bytes => foreign or truncated write
		return 0, nil, ErrCorrupt
	}

	return sliding, b[off : off+vlen], nil
}

// List:
//
//	magic(4) | ver(1) | kind(1=list) | slidingMs(u64 be) | n(u32 be)
//	vlen(u32 be) | payload(vlen) * n
//
// Items carry no per-item identity; position is the only address. Each
// payload is one codec-encoded element.
func EncodeList(sliding time.Duration, items [][]byte) []byte {
	total := 4 + 1 + 1 + 8 + 4
	for _, it := range items {
		total += 4 + len(it)
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindList)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], slidingMillis(sliding))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(items)))
	buf.Write(u4[:])

	for _, it := range items {
		binary.BigEndian.PutUint32(u4[:], uint32(len(it)))
		buf.Write(u4[:])
		buf.Write(it)
	}

	return buf.Bytes()
}

func DecodeList(b []byte) (sliding time.Duration, items [][]byte, err error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindList {
		return 0, nil, ErrCorrupt
	}

	off := 6

	sliding = time.Duration(binary.BigEndian.Uint64(b[off:off+8])) * time.Millisecond
	off += 8

	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if n < 0 {
		return 0, nil, ErrCorrupt
	}

	// Cap the preallocation: n comes off the wire and a forged count must
	// not translate into a huge alloc before the bound checks fail.
	items = make([][]byte, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		if off+4 > len(b) {
			return 0, nil, ErrCorrupt
		}
		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen < 0 || vlen > len(b)-off {
			return 0, nil, ErrCorrupt
		}
		items = append(items, b[off:off+vlen])
		off += vlen
	}
	if off != len(b) {
		return 0, nil, ErrCorrupt
	}

	return sliding, items, nil
}
