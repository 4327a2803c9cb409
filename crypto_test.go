package sovereign_test

import (
	"crypto/rand"
	"testing"

	sovereign "github.com/Mycelium-Node-1/UCST-AI"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSealer(t *testing.T) *sovereign.AES256GCM {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	s, err := sovereign.NewAES256GCM(key)
	require.NoError(t, err)
	return s
}

func TestNewAES256GCM_KeyLength(t *testing.T) {
	_, err := sovereign.NewAES256GCM([]byte("short"))
	assert.Error(t, err)

	_, err = sovereign.NewAES256GCM(make([]byte, 32))
	assert.NoError(t, err)
}

func TestAES256GCM_RoundTrip(t *testing.T) {
	s := newSealer(t)
	plaintext := []byte("state glyph payload")

	sealed, err := s.Seal(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, sealed)

	opened, err := s.Unseal(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestAES256GCM_NonceVariesPerSeal(t *testing.T) {
	s := newSealer(t)
	a, err := s.Seal([]byte("same"))
	require.NoError(t, err)
	b, err := s.Seal([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestAES256GCM_TamperDetected(t *testing.T) {
	s := newSealer(t)
	sealed, err := s.Seal([]byte("payload"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = s.Unseal(sealed)
	assert.Error(t, err)
}

func TestAES256GCM_TooShort(t *testing.T) {
	s := newSealer(t)
	_, err := s.Unseal([]byte{0x01, 0x02})
	assert.Error(t, err)
}
