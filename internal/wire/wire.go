package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version      byte = 1
	kindSnapshot byte = 1

	headerLen = 4 + 1 + 1 + 8 + 4 + 4
)

var (
	ErrCorrupt = errors.New("storefront: corrupt snapshot entry")
	magic4     = [...]byte{'F', 'E', 'A', 'T'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Snapshot is a decoded frame. Payload aliases the input buffer.
type Snapshot struct {
	Gen     uint64
	Count   uint32
	Payload []byte
}

// EncodeSnapshot frames a codec payload:
//
//	magic(4) | ver(1) | kind(1) | gen(u64 be) | count(u32 be) | vlen(u32 be) | payload(vlen)
//
// count is the number of products in the payload, so an empty snapshot can be
// recognized without decoding it.
func EncodeSnapshot(gen uint64, count int, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(headerLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindSnapshot)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], gen)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(count))
	buf.Write(u4[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeSnapshot validates the frame. Trailing bytes are corruption.
func DecodeSnapshot(b []byte) (Snapshot, error) {
	if len(b) < headerLen || !hasMagic(b) || b[4] != version || b[5] != kindSnapshot {
		return Snapshot{}, ErrCorrupt
	}
	off := 6

	gen := binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	count := binary.BigEndian.Uint32(b[off : off+4])
	off += 4

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off {
		return Snapshot{}, ErrCorrupt
	}

	return Snapshot{Gen: gen, Count: count, Payload: b[off : off+vlen]}, nil
}
