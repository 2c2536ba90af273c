// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is used when no cost is configured
	DefaultCost = 12

	// MaxPasswordBytes is the number of input bytes bcrypt reads
	MaxPasswordBytes = 72

	// Prefix identifies hashes produced by this package
	Prefix = "$2b$"

	legacyPrefix = "$2a$"
)

// Primitive is the bcrypt-compatible hashing library
type Primitive interface {
	GenerateFromPassword(password []byte, cost int) ([]byte, error)
	CompareHashAndPassword(hashedPassword, password []byte) error
}

type bcryptPrimitive struct{}

func (bcryptPrimitive) GenerateFromPassword(password []byte, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword(password, cost)
}

func (bcryptPrimitive) CompareHashAndPassword(hashedPassword, password []byte) error {
	return bcrypt.CompareHashAndPassword(hashedPassword, password)
}

// Hasher hashes and verifies passwords. It holds no mutable state and is
// safe for concurrent use.
type Hasher struct {
	cost      int
	primitive Primitive
}

// NewHasher creates a hasher using cost as its default work factor
func NewHasher(cost int) *Hasher {
	return &Hasher{
		cost:      cost,
		primitive: bcryptPrimitive{},
	}
}

// NewHasherWithPrimitive creates a hasher backed by p
func NewHasherWithPrimitive(cost int, p Primitive) *Hasher {
	return &Hasher{
		cost:      cost,
		primitive: p,
	}
}

// Cost returns the default work factor
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash hashes password with the default cost
func (h *Hasher) Hash(password string) (string, error) {
	return h.HashWithCost(password, h.cost)
}

// HashWithCost hashes password with a fresh random salt at the given cost
func (h *Hasher) HashWithCost(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", ErrHashPassword
	}

	hashed, err := h.primitive.GenerateFromPassword(truncate(password), cost)
	if err != nil {
		return "", ErrHashPassword
	}

	encoded := string(hashed)
	if strings.HasPrefix(encoded, legacyPrefix) {
		encoded = Prefix + strings.TrimPrefix(encoded, legacyPrefix)
	}
	return encoded, nil
}

// Verify reports whether password matches hash
func (h *Hasher) Verify(password, hash string) (bool, error) {
	err := h.primitive.CompareHashAndPassword([]byte(hash), truncate(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, ErrMalformedHash
}

// truncate drops input bcrypt would never read
func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > MaxPasswordBytes {
		b = b[:MaxPasswordBytes]
	}
	return b
}

// defaultHasher backs the package-level helpers. A configured cost goes
// through NewHasher instead.
var defaultHasher = NewHasher(DefaultCost)

// HashPassword hashes a password using bcrypt at DefaultCost
func HashPassword(password string) (string, error) {
	return defaultHasher.Hash(password)
}

// HashPasswordWithCost hashes a password using bcrypt at the given cost
func HashPasswordWithCost(password string, cost int) (string, error) {
	return defaultHasher.HashWithCost(password, cost)
}

// VerifyPassword checks if a password matches its hash
func VerifyPassword(password, hash string) (bool, error) {
	return defaultHasher.Verify(password, hash)
}
