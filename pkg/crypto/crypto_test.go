package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_EncryptDecrypt(t *testing.T) {
	key, err := RandomBytes(KeySize)
	require.NoError(t, err)

	t.Run("happy path - round trip", func(t *testing.T) {
		plaintext := []byte(`{"version":1,"keys":{}}`)
		ciphertext, nonce, err := Encrypt(key, plaintext)
		require.NoError(t, err)
		require.Len(t, nonce, NonceSize)
		require.NotEqual(t, plaintext, ciphertext)

		got, err := Decrypt(key, ciphertext, nonce)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	})

	t.Run("same plaintext encrypts differently every call", func(t *testing.T) {
		plaintext := []byte("hello")
		ct1, n1, err := Encrypt(key, plaintext)
		require.NoError(t, err)
		ct2, n2, err := Encrypt(key, plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, n1, n2)
		assert.NotEqual(t, ct1, ct2)
	})

	t.Run("sad path - tampered ciphertext", func(t *testing.T) {
		ciphertext, nonce, err := Encrypt(key, []byte("secret"))
		require.NoError(t, err)

		ciphertext[0] ^= 0xff
		got, err := Decrypt(key, ciphertext, nonce)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
		assert.Nil(t, got)
	})

	t.Run("sad path - wrong key", func(t *testing.T) {
		ciphertext, nonce, err := Encrypt(key, []byte("secret"))
		require.NoError(t, err)

		otherKey, err := RandomBytes(KeySize)
		require.NoError(t, err)
		_, err = Decrypt(otherKey, ciphertext, nonce)
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("sad path - truncated nonce", func(t *testing.T) {
		ciphertext, nonce, err := Encrypt(key, []byte("secret"))
		require.NoError(t, err)

		_, err = Decrypt(key, ciphertext, nonce[:NonceSize-1])
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})
}

func Test_DeriveSharedKey(t *testing.T) {
	alice, err := GenerateKeyPair()
	require.NoError(t, err)
	bob, err := GenerateKeyPair()
	require.NoError(t, err)

	t.Run("both sides derive the same key", func(t *testing.T) {
		k1, err := DeriveSharedKey(alice.Private, bob.Public)
		require.NoError(t, err)
		k2, err := DeriveSharedKey(bob.Private, alice.Public)
		require.NoError(t, err)
		assert.Equal(t, k1, k2)
		assert.Len(t, k1, KeySize)
	})

	t.Run("third party derives a different key", func(t *testing.T) {
		eve, err := GenerateKeyPair()
		require.NoError(t, err)

		k1, err := DeriveSharedKey(alice.Private, bob.Public)
		require.NoError(t, err)
		k2, err := DeriveSharedKey(eve.Private, bob.Public)
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)
	})

	t.Run("wrap and unwrap through an ephemeral exchange", func(t *testing.T) {
		// Sender wraps a key for bob using a one-time pair; bob unwraps
		// with his private key and the ephemeral public key.
		conversationKey, err := RandomBytes(KeySize)
		require.NoError(t, err)

		ephemeral, err := GenerateKeyPair()
		require.NoError(t, err)
		wrapKey, err := DeriveSharedKey(ephemeral.Private, bob.Public)
		require.NoError(t, err)
		ciphertext, nonce, err := Encrypt(wrapKey, conversationKey)
		require.NoError(t, err)

		unwrapKey, err := DeriveSharedKey(bob.Private, ephemeral.Public)
		require.NoError(t, err)
		got, err := Decrypt(unwrapKey, ciphertext, nonce)
		require.NoError(t, err)
		assert.Equal(t, conversationKey, got)
	})
}

func Test_DeriveKeyFromPIN(t *testing.T) {
	salt, err := RandomBytes(16)
	require.NoError(t, err)

	t.Run("deterministic for same inputs", func(t *testing.T) {
		k1 := DeriveKeyFromPIN("445566", salt, 1000)
		k2 := DeriveKeyFromPIN("445566", salt, 1000)
		assert.Equal(t, k1, k2)
		assert.Len(t, k1, KeySize)
	})

	t.Run("sensitive to pin, salt and iterations", func(t *testing.T) {
		base := DeriveKeyFromPIN("445566", salt, 1000)

		assert.NotEqual(t, base, DeriveKeyFromPIN("445567", salt, 1000))

		otherSalt, err := RandomBytes(16)
		require.NoError(t, err)
		assert.NotEqual(t, base, DeriveKeyFromPIN("445566", otherSalt, 1000))

		assert.NotEqual(t, base, DeriveKeyFromPIN("445566", salt, 1001))
	})
}

func Test_RandomBytes(t *testing.T) {
	b1, err := RandomBytes(32)
	require.NoError(t, err)
	b2, err := RandomBytes(32)
	require.NoError(t, err)

	assert.Len(t, b1, 32)
	assert.NotEqual(t, b1, b2)
}
