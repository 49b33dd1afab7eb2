package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	gen, err := NewCodeGenerator(AlphabetUpperDigits, 10, nil)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, code, 10)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(AlphabetUpperDigits, r), "unexpected character %q", r)
		}
	}
}

func TestGenerateDeterministicSource(t *testing.T) {
	gen, err := NewCodeGenerator("AB", 8, zeroReader{})
	require.NoError(t, err)

	first, err := gen.Generate()
	require.NoError(t, err)
	second, err := gen.Generate()
	require.NoError(t, err)
	assert.Equal(t, first, second, "same source bytes give the same code")
	assert.Equal(t, "AAAAAAAA", first)
}

func TestNewCodeGeneratorValidation(t *testing.T) {
	_, err := NewCodeGenerator("A", 10, nil)
	assert.Error(t, err, "single-character alphabet")

	_, err = NewCodeGenerator(AlphabetUpperDigits, 0, nil)
	assert.Error(t, err, "zero length")

	_, err = NewCodeGenerator(AlphabetUpperDigits, -3, nil)
	assert.Error(t, err, "negative length")
}

func TestNewOrderNumberGenerator(t *testing.T) {
	gen := NewOrderNumberGenerator()
	require.NotNil(t, gen)

	code, err := gen.Generate()
	require.NoError(t, err)
	assert.Len(t, code, 10)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.80, Round2(1.7982))
	assert.Equal(t, 500.00, Round2(500.004))
	assert.Equal(t, 0.01, Round2(0.005))
	assert.Equal(t, -1.80, Round2(-1.7982))
}

func TestMoneyEqual(t *testing.T) {
	assert.True(t, MoneyEqual(150.00, 150.004))
	assert.True(t, MoneyEqual(0.1+0.2, 0.3))
	assert.False(t, MoneyEqual(150.00, 150.01))
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
