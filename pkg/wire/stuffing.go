package wire

// Stuff doubles every DLE in data.
func Stuff(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/8)
	for _, b := range data {
		if b == DLE {
			out = append(out, DLE)
		}
		out = append(out, b)
	}
	return out
}

// Unstuff reverses Stuff. It returns ErrInvalidEscape if a DLE is followed
// by anything other than a second DLE, or ends the input.
func Unstuff(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b == DLE {
			if i+1 >= len(data) || data[i+1] != DLE {
				return nil, ErrInvalidEscape
			}
			i++
		}
		out = append(out, b)
	}
	return out, nil
}
