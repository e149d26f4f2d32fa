// Package codec turns the featured snapshot into bytes for the Fast Cache and
// back. Every codec here must round-trip catalog.Product without loss.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
