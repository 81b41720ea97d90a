package codec

// Codec encodes/decodes values V to []byte for storage. Encode must be
// deterministic enough that Decode(Encode(v)) yields an equal value; beyond
// that the byte shape is the codec's business. Decoding bytes not produced
// by the matching Encode is allowed to fail.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
