package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// KeyBundleVersion is the current bundle serialization version.
const KeyBundleVersion = 1

// KeyBundle is the plaintext content of a key backup: every conversation key
// this user owns. Exists only in device memory and inside the encrypted
// backup envelope.
type KeyBundle struct {
	Version int                     `json:"version"`
	Keys    map[uuid.UUID][]byte    `json:"keys"`
}

func NewKeyBundle() KeyBundle {
	return KeyBundle{Version: KeyBundleVersion, Keys: make(map[uuid.UUID][]byte)}
}

func (b KeyBundle) Marshal() ([]byte, error) {
	return json.Marshal(b)
}

func ParseKeyBundle(data []byte) (KeyBundle, error) {
	var b KeyBundle
	if err := json.Unmarshal(data, &b); err != nil {
		return KeyBundle{}, err
	}
	if b.Keys == nil {
		b.Keys = make(map[uuid.UUID][]byte)
	}
	return b, nil
}

// Clone deep-copies the bundle so callers can hand it out without sharing
// the backing map.
func (b KeyBundle) Clone() KeyBundle {
	out := KeyBundle{Version: b.Version, Keys: make(map[uuid.UUID][]byte, len(b.Keys))}
	for id, key := range b.Keys {
		cp := make([]byte, len(key))
		copy(cp, key)
		out.Keys[id] = cp
	}
	return out
}

// KDFParams records how the PIN wrap key was derived, stored next to the
// envelope so unlock can re-derive it.
type KDFParams struct {
	Algorithm  string `json:"algorithm"`
	Iterations int    `json:"iterations"`
}

// BackupPayload is the JSON structure inside user_key_backups.backup_ciphertext:
// the bundle encrypted under the backup key, and the backup key encrypted
// under the PIN-derived key.
type BackupPayload struct {
	BundleCiphertext     []byte `json:"bundle_ciphertext"`
	BundleNonce          []byte `json:"bundle_nonce"`
	WrappedKeyCiphertext []byte `json:"wrapped_key_ciphertext"`
	WrappedKeyNonce      []byte `json:"wrapped_key_nonce"`
}

func (p BackupPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

func ParseBackupPayload(data []byte) (BackupPayload, error) {
	var p BackupPayload
	err := json.Unmarshal(data, &p)
	return p, err
}

// RecoveryPayload is the JSON structure inside
// user_recovery_keys.recovery_ciphertext: the backup key encrypted under a
// key imported directly from the 32-byte recovery secret.
type RecoveryPayload struct {
	WrappedKeyCiphertext []byte `json:"wrapped_key_ciphertext"`
	WrappedKeyNonce      []byte `json:"wrapped_key_nonce"`
}

func (p RecoveryPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

func ParseRecoveryPayload(data []byte) (RecoveryPayload, error) {
	var p RecoveryPayload
	err := json.Unmarshal(data, &p)
	return p, err
}

// UserKeyBackup is the per-user backup envelope row. Exactly one per user;
// created at enablement, bundle ciphertext re-upserted on every bundle
// mutation.
type UserKeyBackup struct {
	UserID uuid.UUID `bun:",pk,type:uuid"`

	// JSON-encoded BackupPayload
	BackupCiphertext []byte `bun:",notnull"`

	BackupSalt []byte    `bun:",notnull"`
	KDFParams  KDFParams `bun:"kdf_params,notnull,type:jsonb"`

	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// UserRecoveryKey is the per-user recovery envelope row. Exactly one per
// user, created together with the backup envelope.
type UserRecoveryKey struct {
	UserID uuid.UUID `bun:",pk,type:uuid"`

	// JSON-encoded RecoveryPayload
	RecoveryCiphertext []byte `bun:",notnull"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
