// Package crypto provides the primitives for the encrypted-messaging key
// core:
//
//   - X25519 key agreement for device-to-device key wrapping
//   - AES-256-GCM authenticated encryption
//   - PBKDF2 for the PIN-derived backup wrap key
//   - HKDF to turn raw shared secrets into cipher keys
//   - the recovery key text format (see recovery.go)
//
// Everything here is stateless.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the size of every symmetric key and every X25519 key.
	KeySize = 32

	// NonceSize is the AES-GCM nonce size.
	NonceSize = 12

	// wrapKeyInfo domain-separates shared-secret derivation from any other
	// HKDF use of the same key material.
	wrapKeyInfo = "proximity-e2ee-wrap-v1"
)

// ErrAuthenticationFailed is returned when authenticated decryption fails:
// wrong key or tampered ciphertext. Callers must never see garbage plaintext.
var ErrAuthenticationFailed = errors.New("crypto: message authentication failed")

// KeyPair is an X25519 key pair. The private key never leaves the device.
type KeyPair struct {
	Public  []byte
	Private []byte
}

// GenerateKeyPair returns a fresh X25519 key pair.
func GenerateKeyPair() (KeyPair, error) {
	private := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, private); err != nil {
		return KeyPair{}, err
	}
	public, err := curve25519.X25519(private, curve25519.Basepoint)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{Public: public, Private: private}, nil
}

// DeriveSharedKey performs X25519 between privateKey and publicKey and
// expands the raw shared secret into an AES-256 key with HKDF-SHA256.
// Both sides of an exchange derive the same key.
func DeriveSharedKey(privateKey, publicKey []byte) ([]byte, error) {
	secret, err := curve25519.X25519(privateKey, publicKey)
	if err != nil {
		return nil, err
	}
	key := make([]byte, KeySize)
	kdf := hkdf.New(sha256.New, secret, nil, []byte(wrapKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt seals plaintext with AES-256-GCM under key, using a fresh random
// nonce. Ciphertext and nonce are returned separately because the backing
// store keeps them in separate envelope fields.
func Encrypt(key, plaintext []byte) (ciphertext, nonce []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, err
	}
	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Decrypt opens an AES-256-GCM ciphertext. A wrong key or tampered input
// yields ErrAuthenticationFailed.
func Decrypt(key, ciphertext, nonce []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, ErrAuthenticationFailed
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// DeriveKeyFromPIN stretches a user PIN into an AES-256 key with
// PBKDF2-SHA256. Salt and iteration count are stored next to the envelope
// so unlock can re-derive the same key.
func DeriveKeyFromPIN(pin string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(pin), salt, iterations, KeySize, sha256.New)
}

// RandomBytes returns n cryptographically random bytes.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
