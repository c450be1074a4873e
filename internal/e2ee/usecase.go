package e2ee

import (
	"context"

	"github.com/google/uuid"
)

// Usecase is the interface the rest of the application talks to. One
// instance per signed-in session; all state (status, key cache, bundle) is
// owned by the instance, never ambient.
type Usecase interface {
	// Start ensures this device has a registered identity, then attempts a
	// silent unlock from the local remembered bundle. Returns the
	// resulting session status.
	Start(ctx context.Context, userID uuid.UUID) (Status, error)

	Status() Status

	// Enable turns encryption on for the first time: mints a key for every
	// existing direct conversation, builds the backup and recovery
	// envelopes, distributes the keys to every member device and unlocks
	// the session. The returned recovery key cannot be re-shown.
	Enable(ctx context.Context, pin string) (*EnableResult, error)

	UnlockWithPIN(ctx context.Context, pin string) error
	UnlockWithRecovery(ctx context.Context, recoveryKey string) error

	// Lock purges the in-memory backup key, bundle and key cache along
	// with the remembered bundle, moving the session back to locked.
	Lock() error

	// GetConversationKey returns what is already cached, in any state.
	GetConversationKey(conversationID uuid.UUID) []byte

	// EnsureConversationKey returns the cached key, or mints, caches and
	// distributes a fresh one. Returns nil without error while the session
	// is not unlocked. The report covers the distribution batch when a key
	// was minted.
	EnsureConversationKey(ctx context.Context, conversationID uuid.UUID) ([]byte, *DistributionReport, error)

	// ReshareConversationKey re-wraps an already-known key for every
	// current member device, without changing the key value.
	ReshareConversationKey(ctx context.Context, conversationID uuid.UUID) (*DistributionReport, error)

	// LoadDeviceKeys imports wrapped keys addressed to this device that
	// are not yet in the bundle. Idempotent; returns the number of newly
	// imported keys. Invoked after unlock and on key-delivery
	// notifications.
	LoadDeviceKeys(ctx context.Context) (int, error)
}
