// Package shortcode generates random tokens for short URLs.
package shortcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet excludes ambiguous characters: 0, O, I, l, 1.
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// DefaultLength is the length of generated tokens.
const DefaultLength = 5

// Generator produces uniformly random tokens over Alphabet.
type Generator struct {
	alphabet string
	length   int
}

// NewGenerator creates a generator of DefaultLength tokens.
func NewGenerator() *Generator {
	return &Generator{
		alphabet: Alphabet,
		length:   DefaultLength,
	}
}

// Generate returns a new random token.
func (g *Generator) Generate() (string, error) {
	b := make([]byte, g.length)
	alphabetLen := big.NewInt(int64(len(g.alphabet)))

	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b[i] = g.alphabet[n.Int64()]
	}

	return string(b), nil
}
