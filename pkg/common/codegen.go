package common

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// AlphabetUpperDigits is the character set used for order numbers.
const AlphabetUpperDigits = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeGenerator produces fixed-length random codes over an alphabet.
// Uniqueness is not guaranteed here; callers that need unique codes must
// check against their own storage and retry.
type CodeGenerator struct {
	alphabet string
	length   int
	source   io.Reader
}

// NewCodeGenerator creates a generator over the given alphabet and length.
// A nil source falls back to crypto/rand.
func NewCodeGenerator(alphabet string, length int, source io.Reader) (*CodeGenerator, error) {
	if len(alphabet) < 2 {
		return nil, errors.New("codegen: alphabet must contain at least 2 characters")
	}
	if length <= 0 {
		return nil, errors.New("codegen: length must be positive")
	}
	if source == nil {
		source = rand.Reader
	}
	return &CodeGenerator{alphabet: alphabet, length: length, source: source}, nil
}

// Generate returns a new random code.
func (g *CodeGenerator) Generate() (string, error) {
	max := big.NewInt(int64(len(g.alphabet)))
	buf := make([]byte, g.length)
	for i := range buf {
		n, err := rand.Int(g.source, max)
		if err != nil {
			return "", errors.Wrap(err, "codegen: read random source")
		}
		buf[i] = g.alphabet[n.Int64()]
	}
	return string(buf), nil
}

// NewOrderNumberGenerator returns the generator used for order numbers:
// 10 characters over A-Z0-9.
func NewOrderNumberGenerator() *CodeGenerator {
	g, _ := NewCodeGenerator(AlphabetUpperDigits, 10, nil)
	return g
}
