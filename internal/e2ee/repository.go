package e2ee

import (
	"context"

	"github.com/google/uuid"

	models "proximity/internal/e2ee/model"
)

// KeyRepository is the backing-store contract for the key core. Everything
// stored through it is either public (device directory) or ciphertext; no
// method ever receives plaintext key material.
type KeyRepository interface {
	InsertDevice(ctx context.Context, device *models.UserDevice) error
	// DeviceExists reports whether the directory still lists this device
	// row; false means it was revoked or deleted.
	DeviceExists(ctx context.Context, userID, deviceID uuid.UUID) (bool, error)
	GetDevice(ctx context.Context, deviceID uuid.UUID) (*models.UserDevice, error)
	ListUserDevices(ctx context.Context, userIDs []uuid.UUID) ([]models.UserDevice, error)

	// Upsert keyed on (conversation_id, user_id, device_id), last write wins
	UpsertWrappedKey(ctx context.Context, key *models.ConversationKey) error
	ListWrappedKeysForDevice(ctx context.Context, deviceID uuid.UUID) ([]models.ConversationKey, error)

	UpsertKeyBackup(ctx context.Context, backup *models.UserKeyBackup) error
	GetKeyBackup(ctx context.Context, userID uuid.UUID) (*models.UserKeyBackup, error)
	// UpdateBackupCiphertext rewrites only the bundle envelope of an
	// existing backup row (salt and KDF params are immutable after enable)
	UpdateBackupCiphertext(ctx context.Context, userID uuid.UUID, backupCiphertext []byte) error

	UpsertRecoveryKey(ctx context.Context, recovery *models.UserRecoveryKey) error
	GetRecoveryKey(ctx context.Context, userID uuid.UUID) (*models.UserRecoveryKey, error)

	// Membership resolution — read-only views of collaborator tables
	ListConversationMembers(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error)
	ListDirectConversations(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
