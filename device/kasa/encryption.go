package kasa

const initialKey byte = 171

// Transform runs the bulb firmware's autokey XOR over src, dropping the first skip bytes.
// The key always advances to the previous byte as it appeared on the wire, so
// isEncrypted selects whether that is the input byte or the output byte.
func Transform(src []byte, isEncrypted bool, skip int) []byte {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(src) {
		return []byte{}
	}
	var key = initialKey
	buffer := make([]byte, len(src)-skip)
	for i, ch := range src[skip:] {
		buffer[i] = ch ^ key
		if isEncrypted {
			key = ch
		} else {
			key = buffer[i]
		}
	}
	return buffer
}

func Encrypt(clearText []byte) []byte {
	return Transform(clearText, false, 0)
}

func Decrypt(cipherText []byte) []byte {
	return Transform(cipherText, true, 0)
}

// DecryptFrame decrypts a reply whose first headerSize bytes are framing.
func DecryptFrame(frame []byte, headerSize int) []byte {
	return Transform(frame, true, headerSize)
}
