package symmetric

func key(b byte) []byte {
	return []byte{b, b, b, b, b, b, b, b}
}
