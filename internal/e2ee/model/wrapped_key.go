package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ConversationKey is a conversation's symmetric key wrapped for one
// recipient device. The only remotely stored representation of a
// conversation key; decryptable solely by the holder of DeviceID's private
// key. Unique on (conversation, user, device) with last-write-wins upserts.
type ConversationKey struct {
	ConversationID uuid.UUID `bun:",pk,type:uuid"`
	UserID         uuid.UUID `bun:",pk,type:uuid"`
	DeviceID       uuid.UUID `bun:",pk,type:uuid"`

	// JSON-encoded KeyEnvelope
	KeyCiphertext []byte `bun:",notnull"`

	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// KeyEnvelope is the wire form of a wrapped key: AES-GCM ciphertext + nonce
// plus the one-time X25519 public key the sender used for the exchange.
type KeyEnvelope struct {
	Ciphertext         []byte `json:"ciphertext"`
	Nonce              []byte `json:"nonce"`
	EphemeralPublicKey []byte `json:"epk"`
}

func (e KeyEnvelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func ParseKeyEnvelope(data []byte) (KeyEnvelope, error) {
	var e KeyEnvelope
	err := json.Unmarshal(data, &e)
	return e, err
}
