package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pending struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func TestDeriveKey_Deterministic(t *testing.T) {
	key1, err := DeriveKey([]byte("secret"), "activation")
	require.NoError(t, err)
	key2, err := DeriveKey([]byte("secret"), "activation")
	require.NoError(t, err)

	assert.Len(t, key1, KeySize)
	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
}

func TestDeriveKey_DifferentLabels(t *testing.T) {
	key1, err := DeriveKey([]byte("secret"), "activation")
	require.NoError(t, err)
	key2, err := DeriveKey([]byte("secret"), "access")
	require.NoError(t, err)

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different keys for different labels, got same")
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key, err := DeriveKey([]byte("secret"), "activation")
	require.NoError(t, err)

	in := pending{Email: "ada@example.com", Code: "1234"}
	sealed, err := SealJSON(in, key)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "ada@example.com")

	var out pending
	require.NoError(t, OpenJSON(sealed, key, &out))
	assert.Equal(t, in, out)
}

func TestSeal_UsesFreshNonce(t *testing.T) {
	key, _ := DeriveKey([]byte("secret"), "activation")

	a, err := SealJSON(pending{Code: "1"}, key)
	require.NoError(t, err)
	b, err := SealJSON(pending{Code: "1"}, key)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpen_Failures(t *testing.T) {
	key, _ := DeriveKey([]byte("secret"), "activation")
	other, _ := DeriveKey([]byte("secret"), "refresh")

	sealed, err := SealJSON(pending{Code: "1"}, key)
	require.NoError(t, err)

	var out pending
	assert.Error(t, OpenJSON(sealed, other, &out), "wrong key")

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xff
	assert.Error(t, OpenJSON(tampered, key, &out), "tampered ciphertext")

	assert.ErrorIs(t, OpenJSON([]byte{1, 2}, key, &out), ErrCiphertextTooShort)

	assert.Error(t, OpenJSON(sealed, []byte("short"), &out), "invalid key size")
}
