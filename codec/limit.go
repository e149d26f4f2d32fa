package codec

import (
	"errors"
	"fmt"
)

// ErrTooLarge is returned when a snapshot payload exceeds the configured cap.
var ErrTooLarge = errors.New("codec: payload too large")

// LimitCodec caps payload size in both directions. A cap <= 0 is disabled.
//
// Encode refuses to produce a payload the read side would reject, so an
// oversized featured set is never stored only to be dropped on every read.
// Decode still checks, since the Fast Cache may be shared with other writers.
type LimitCodec[V any] struct {
	Inner     Codec[V]
	MaxEncode int
	MaxDecode int
}

func (c LimitCodec[V]) Encode(v V) ([]byte, error) {
	b, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	if c.MaxEncode > 0 && len(b) > c.MaxEncode {
		return nil, fmt.Errorf("%w: encoded %d > %d", ErrTooLarge, len(b), c.MaxEncode)
	}
	return b, nil
}

func (c LimitCodec[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
