// Package token generates opaque URL-safe tokens for account verification links.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// VerificationTokenBytes is the entropy of a verification token
const VerificationTokenBytes = 16

// ErrTokenGeneration is returned when the randomness source fails
var ErrTokenGeneration = errors.New("cannot generate token")

// RandomSource produces URL-safe strings from n bytes of randomness
type RandomSource interface {
	URLSafe(nBytes int) (string, error)
}

// CryptoSource reads from crypto/rand
type CryptoSource struct{}

// URLSafe returns n random bytes encoded as base64url without padding
func (CryptoSource) URLSafe(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Generator creates verification tokens
type Generator struct {
	source RandomSource
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{source: CryptoSource{}}
}

// NewGeneratorWithSource creates a generator backed by source
func NewGeneratorWithSource(source RandomSource) *Generator {
	return &Generator{source: source}
}

// GenerateVerificationToken returns a fresh token carrying
// VerificationTokenBytes of entropy. Nothing is persisted.
func (g *Generator) GenerateVerificationToken() (string, error) {
	tok, err := g.source.URLSafe(VerificationTokenBytes)
	if err != nil {
		return "", ErrTokenGeneration
	}
	return tok, nil
}

var defaultGenerator = NewGenerator()

// GenerateVerificationToken returns a token from crypto/rand
func GenerateVerificationToken() (string, error) {
	return defaultGenerator.GenerateVerificationToken()
}
