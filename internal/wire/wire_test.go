package wire

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func mustDecode(t *testing.T, b []byte) Snapshot {
	t.Helper()
	s, err := DecodeSnapshot(b)
	if err != nil {
		t.Fatalf("DecodeSnapshot error: %v", err)
	}
	return s
}

func TestSnapshotRTEmptyAndNonEmpty(t *testing.T) {
	cases := []struct {
		gen     uint64
		count   int
		payload []byte
	}{
		{0, 0, nil},
		{42, 1, []byte("hello")},
		{math.MaxUint64, 3, []byte{0, 1, 2, 3, 4}},
	}
	for _, tc := range cases {
		s := mustDecode(t, EncodeSnapshot(tc.gen, tc.count, tc.payload))
		if s.Gen != tc.gen {
			t.Fatalf("gen mismatch: got %d want %d", s.Gen, tc.gen)
		}
		if int(s.Count) != tc.count {
			t.Fatalf("count mismatch: got %d want %d", s.Count, tc.count)
		}
		if !bytes.Equal(s.Payload, tc.payload) {
			t.Fatalf("payload mismatch: got %x want %x", s.Payload, tc.payload)
		}
	}
}

func TestSnapshotRejectsTrailingBytes(t *testing.T) {
	enc := EncodeSnapshot(7, 1, []byte("x"))
	enc = append(enc, 0xDE, 0xAD)
	if _, err := DecodeSnapshot(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestSnapshotCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeSnapshot(1, 1, []byte("abc"))

	mutate := func(f func(b []byte) []byte) []byte {
		cp := append([]byte(nil), enc...)
		return f(cp)
	}

	cases := map[string][]byte{
		"short":     enc[:headerLen-1],
		"bad magic": mutate(func(b []byte) []byte { b[0] = 'X'; return b }),
		"bad ver":   mutate(func(b []byte) []byte { b[4] = 9; return b }),
		"bad kind":  mutate(func(b []byte) []byte { b[5] = 9; return b }),
		"truncated": enc[:len(enc)-1],
		"vlen overflow": mutate(func(b []byte) []byte {
			binary.BigEndian.PutUint32(b[18:22], math.MaxUint32)
			return b
		}),
		"not a frame": []byte(`[{"name":"legacy json"}]`),
	}
	for name, b := range cases {
		if _, err := DecodeSnapshot(b); err != ErrCorrupt {
			t.Fatalf("%s: expected ErrCorrupt, got %v", name, err)
		}
	}
}

func TestSnapshotZeroCopyPayload(t *testing.T) {
	enc := EncodeSnapshot(5, 1, []byte("xyz"))
	s := mustDecode(t, enc)
	// payload must alias the input buffer
	enc[len(enc)-1] = 'Z'
	if s.Payload[2] != 'Z' {
		t.Fatalf("payload does not alias input")
	}
}
