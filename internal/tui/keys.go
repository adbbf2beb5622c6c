package tui

// Key is a decoded keyboard action
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySelect
	KeyStart
	KeyRestart
	KeyMute
	KeyVolumeUp
	KeyVolumeDown
	KeyQuit
)

// DecodeKeys maps raw terminal input to keys. Arrow keys arrive as
// ESC [ x or ESC O x; unknown bytes and sequences are dropped.
func DecodeKeys(b []byte) []Key {
	var keys []Key
	for i := 0; i < len(b); i++ {
		c := b[i]

		if c == 0x1b {
			if i+2 < len(b) && (b[i+1] == '[' || b[i+1] == 'O') {
				if k := arrow(b[i+2]); k != KeyNone {
					keys = append(keys, k)
				}
				i += 2
			}
			continue
		}

		if k := plainKey(c); k != KeyNone {
			keys = append(keys, k)
		}
	}
	return keys
}

// splitPending separates a trailing escape sequence that may continue in the
// next read from the bytes that can be decoded now
func splitPending(b []byte) (ready, pending []byte) {
	n := len(b)
	switch {
	case n >= 1 && b[n-1] == 0x1b:
		return b[:n-1], b[n-1:]
	case n >= 2 && b[n-2] == 0x1b && (b[n-1] == '[' || b[n-1] == 'O'):
		return b[:n-2], b[n-2:]
	}
	return b, nil
}

func arrow(c byte) Key {
	switch c {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	}
	return KeyNone
}

func plainKey(c byte) Key {
	switch c {
	case 'k':
		return KeyUp
	case 'j':
		return KeyDown
	case 'h':
		return KeyLeft
	case 'l':
		return KeyRight
	case ' ', '\r', '\n':
		return KeySelect
	case 's', 'S':
		return KeyStart
	case 'r', 'R':
		return KeyRestart
	case 'm', 'M':
		return KeyMute
	case '+', '=':
		return KeyVolumeUp
	case '-', '_':
		return KeyVolumeDown
	case 'q', 'Q', 0x03, 0x04: // Ctrl-C, Ctrl-D
		return KeyQuit
	}
	return KeyNone
}
