package crypto

import (
	"crypto/rand"
	"errors"
	"math"
)

const (
	defaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	defaultSize     = 22 // 22 * 6 = 132 bits of entropy, above uuid's 128
)

var ErrAlphabetSize = errors.New("alphabet must contain between 8 and 255 ASCII characters")

// NanoIDGenerator produces short, URL-safe, collision-resistant ids.
type NanoIDGenerator struct {
	alphabet string
	mask     int
}

func getMask(alphabetLen int) int {
	for i := 1; i <= 8; i++ {
		mask := (2 << uint(i)) - 1
		if mask > alphabetLen-1 {
			return mask
		}
	}
	return 255
}

func NewNanoID(alphabet ...string) (*NanoIDGenerator, error) {
	a := defaultAlphabet
	if len(alphabet) > 0 && alphabet[0] != "" {
		a = alphabet[0]
	}

	if len(a) < 8 || len(a) > 255 {
		return nil, ErrAlphabetSize
	}
	// Generate indexes by byte position, so multi-byte runes are out.
	for _, r := range a {
		if r > 127 {
			return nil, ErrAlphabetSize
		}
	}

	return &NanoIDGenerator{alphabet: a, mask: getMask(len(a))}, nil
}

// Generate returns a random id of the given length (default 22).
func (n *NanoIDGenerator) Generate(length ...int) (string, error) {
	size := defaultSize
	if len(length) > 0 && length[0] > 0 {
		size = length[0]
	}

	alphabetLen := len(n.alphabet)
	step := int(math.Ceil(1.6 * float64(n.mask*size) / float64(alphabetLen)))

	id := make([]byte, size)
	buffer := make([]byte, step)

	for position := 0; position < size; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		for i := 0; i < step && position < size; i++ {
			index := buffer[i] & byte(n.mask)
			if int(index) < alphabetLen {
				id[position] = n.alphabet[index]
				position++
			}
		}
	}

	return string(id), nil
}
