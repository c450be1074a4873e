package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDevice is the public directory entry other parties wrap keys against.
// One row per physical device per user. The matching private key lives only
// in that device's local store (DeviceIdentity).
type UserDevice struct {
	ID     uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`
	UserID uuid.UUID `bun:",notnull,type:uuid"`

	// X25519 — other devices derive per-wrap shared secrets against this
	PublicKey []byte `bun:",notnull"` // 32 bytes

	// e.g. "Chrome on macOS"; display only
	DeviceLabel string `bun:",notnull,default:''"`

	RegisteredAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
