package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"pgregory.net/rapid"
)

// MockPrimitive is a mock implementation of Primitive
type MockPrimitive struct {
	mock.Mock
}

func (m *MockPrimitive) GenerateFromPassword(password []byte, cost int) ([]byte, error) {
	args := m.Called(password, cost)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockPrimitive) CompareHashAndPassword(hashedPassword, password []byte) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("secure_password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hashed, "$2b$12$"), "unexpected prefix: %s", hashed)
	assert.Len(t, hashed, 60)
}

func TestNewHasher_ConfiguredCost(t *testing.T) {
	h := NewHasher(5)
	hashed, err := h.Hash("secure_password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hashed, "$2b$05$"), "unexpected prefix: %s", hashed)

	assert.Equal(t, 5, h.Cost())
}

func TestHashPasswordWithCost_DifferentCosts(t *testing.T) {
	hashed10, err := HashPasswordWithCost("secure_password", 10)
	require.NoError(t, err)
	hashed12, err := HashPasswordWithCost("secure_password", 12)
	require.NoError(t, err)

	assert.NotEqual(t, hashed10, hashed12)
	assert.True(t, strings.HasPrefix(hashed10, "$2b$10$"))
	assert.True(t, strings.HasPrefix(hashed12, "$2b$12$"))
}

func TestHash_FreshSaltEachCall(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("secure_password")
	require.NoError(t, err)
	second, err := h.Hash("secure_password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPassword(t *testing.T) {
	hashed, err := HashPasswordWithCost("secure_password", bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		expected bool
	}{
		{name: "correct password", password: "secure_password", expected: true},
		{name: "incorrect password", password: "incorrect_password", expected: false},
		{name: "empty password", password: "", expected: false},
		{name: "case differs", password: "Secure_password", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyPassword(tt.password, hashed)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{name: "plain text", hash: "invalid_hash_format"},
		{name: "empty", hash: ""},
		{name: "bad prefix", hash: "x" + strings.Repeat("a", 59)},
		{name: "version too new", hash: "$3b$10$" + strings.Repeat("a", 53)},
		{name: "bad cost", hash: "$2b$xx$" + strings.Repeat("a", 53)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyPassword("secure_password", tt.hash)
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrMalformedHash)
		})
	}
}

func TestHashPassword_EdgeCases(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{name: "empty", password: ""},
		{name: "single space", password: " "},
		{name: "long", password: strings.Repeat("a", 100)},
		{name: "symbols", password: "!@#$$%^&*()_+-=[]{}|;':,.<>?/~`"},
		{name: "emoji", password: "P@$$w0rd💖"},
		{name: "non-latin", password: "パスワード123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed, err := h.Hash(tt.password)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hashed, Prefix))

			ok, err := h.Verify(tt.password, hashed)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Verify("incorrect_password", hashed)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestVerify_WhitespacePassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hashed, err := h.Hash(" ")
	require.NoError(t, err)

	ok, err := h.Verify(" ", hashed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("not empty", hashed)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = h.Verify("", hashed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_NoUnicodeNormalization(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	// "é" precomposed vs "e" + combining acute accent
	hashed, err := h.Hash("caf\u00e9")
	require.NoError(t, err)

	ok, err := h.Verify("cafe\u0301", hashed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_LegacyPrefix(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("secure_password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(legacy), "$2a$"))

	ok, err := VerifyPassword("secure_password", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHash_InternalError(t *testing.T) {
	primitive := new(MockPrimitive)
	primitive.On("GenerateFromPassword", []byte("test"), 12).
		Return(nil, errors.New("simulated internal error"))

	h := NewHasherWithPrimitive(12, primitive)
	hashed, err := h.Hash("test")

	assert.Empty(t, hashed)
	assert.ErrorIs(t, err, ErrHashPassword)
	assert.Equal(t, "cannot hash password", err.Error())
	primitive.AssertExpectations(t)
}

func TestHash_InvalidCost(t *testing.T) {
	primitive := new(MockPrimitive)
	h := NewHasherWithPrimitive(DefaultCost, primitive)

	for _, cost := range []int{-1, 0, bcrypt.MinCost - 1, bcrypt.MaxCost + 1} {
		_, err := h.HashWithCost("test", cost)
		assert.ErrorIs(t, err, ErrHashPassword, "cost %d", cost)
	}
	primitive.AssertNotCalled(t, "GenerateFromPassword", mock.Anything, mock.Anything)
}

func TestHash_TruncatesToBcryptLimit(t *testing.T) {
	primitive := new(MockPrimitive)
	long := strings.Repeat("a", 100)
	primitive.On("GenerateFromPassword", []byte(strings.Repeat("a", MaxPasswordBytes)), bcrypt.MinCost).
		Return([]byte("$2a$04$abcdefghijklmnopqrstuuabcdefghijklmnopqrstuvwxyz01234"), nil)

	h := NewHasherWithPrimitive(bcrypt.MinCost, primitive)
	hashed, err := h.Hash(long)
	require.NoError(t, err)
	assert.Equal(t, "$2b$04$abcdefghijklmnopqrstuuabcdefghijklmnopqrstuvwxyz01234", hashed)
	primitive.AssertExpectations(t)
}

func testHashVerifyRoundTrip(t *rapid.T) {
	h := NewHasher(bcrypt.MinCost)
	password := rapid.StringN(0, 40, MaxPasswordBytes).Draw(t, "password")
	other := rapid.StringN(0, 40, MaxPasswordBytes).Draw(t, "other")

	hashed, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(hashed, Prefix) {
		t.Fatalf("unexpected prefix: %q", hashed)
	}
	ok, err := h.Verify(password, hashed)
	if err != nil || !ok {
		t.Fatalf("Verify should succeed for matching password: ok=%v err=%v", ok, err)
	}
	if other == password {
		return
	}
	ok, err = h.Verify(other, hashed)
	if err != nil || ok {
		t.Fatalf("Verify should fail for different password: ok=%v err=%v", ok, err)
	}
}

func TestHashVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testHashVerifyRoundTrip)
}
