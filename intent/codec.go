package intent

// Encode returns the ability bitmask of the intent: bit n is set if and only if the field bound
// to Flag(n) is true. Vector and scalar fields never affect the result.
func Encode(i Intent) byte {
	var b byte
	for f := range Flags() {
		if i.Flag(f) {
			b |= f.Bit()
		}
	}
	return b
}

// Decode returns an intent holding the booleans of the bitmask given. Bits that are not part of
// the known flag set are dropped, so a peer that knows about more abilities can still be read.
func Decode(b byte) Intent {
	var i Intent
	for f := range Flags() {
		i.SetFlag(f, b&f.Bit() != 0)
	}
	return i
}

// Compress ORs the ability bitmask of the intent into the custom section of the engine flags
// byte given.
func Compress(engineFlags byte, i Intent) byte {
	return engineFlags | Encode(i)<<CustomFlagOffset
}

// Decompress extracts the ability booleans from an engine flags byte.
func Decompress(engineFlags byte) Intent {
	return Decode(engineFlags >> CustomFlagOffset)
}

// EngineFlags strips the custom section off a compressed flags byte.
func EngineFlags(compressed byte) byte {
	return compressed & (1<<CustomFlagOffset - 1)
}

func init() {
	if flagCount > customFlagBits {
		panic("intent: more ability flags than custom bits in the compressed flags byte")
	}
}
