package models

import (
	"github.com/google/uuid"
)

// DeviceIdentity is this installation's long-term key pair together with the
// device id it is registered under. Local-only: the private key is never
// persisted remotely and never leaves the device.
type DeviceIdentity struct {
	UserID     uuid.UUID `json:"user_id"`
	DeviceID   uuid.UUID `json:"device_id"`
	PublicKey  []byte    `json:"public_key"`
	PrivateKey []byte    `json:"private_key"`
}

// RememberedBundle is the opt-in local cache of a decrypted backup, so the
// user is not re-prompted for PIN/recovery on every session on this device.
// Plaintext key material behind an explicit user opt-in; it must be kept in
// sync with the remote bundle on every mutation or it silently serves stale
// keys.
type RememberedBundle struct {
	UserID    uuid.UUID `json:"user_id"`
	BackupKey []byte    `json:"backup_key"`
	Bundle    KeyBundle `json:"bundle"`
}
