package codec

// Codec is a single-shot content coding. Implementations must be safe for concurrent use.
type Codec interface {
	// Token returns a coding token associated with the codec itself.
	Token() string
	// Encode compresses the whole input at once.
	Encode(src []byte) ([]byte, error)
	// Decode reverses Encode.
	Decode(src []byte) ([]byte, error)
}
