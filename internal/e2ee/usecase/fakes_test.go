package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	models "proximity/internal/e2ee/model"
	"proximity/internal/e2ee/repository"
)

// fakeKeyRepository is an in-memory KeyRepository with the same observable
// semantics as the bun implementation: last-write-wins wrapped-key upserts,
// sentinel not-found errors, immutable salt on ciphertext updates.
type fakeKeyRepository struct {
	mu         sync.Mutex
	devices    map[uuid.UUID]models.UserDevice
	wrapped    map[string]models.ConversationKey
	backups    map[uuid.UUID]models.UserKeyBackup
	recoveries map[uuid.UUID]models.UserRecoveryKey
	members    map[uuid.UUID][]uuid.UUID
	directs    map[uuid.UUID][]uuid.UUID
}

func newFakeKeyRepository() *fakeKeyRepository {
	return &fakeKeyRepository{
		devices:    make(map[uuid.UUID]models.UserDevice),
		wrapped:    make(map[string]models.ConversationKey),
		backups:    make(map[uuid.UUID]models.UserKeyBackup),
		recoveries: make(map[uuid.UUID]models.UserRecoveryKey),
		members:    make(map[uuid.UUID][]uuid.UUID),
		directs:    make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeKeyRepository) addDirectConversation(conversationID uuid.UUID, user1, user2 uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directs[user1] = append(f.directs[user1], conversationID)
	f.directs[user2] = append(f.directs[user2], conversationID)
	f.members[conversationID] = []uuid.UUID{user1, user2}
}

func wrappedKeyID(conversationID, userID, deviceID uuid.UUID) string {
	return fmt.Sprintf("%s|%s|%s", conversationID, userID, deviceID)
}

func (f *fakeKeyRepository) InsertDevice(_ context.Context, device *models.UserDevice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	f.devices[device.ID] = *device
	return nil
}

func (f *fakeKeyRepository) DeviceExists(_ context.Context, userID, deviceID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	device, ok := f.devices[deviceID]
	return ok && device.UserID == userID, nil
}

func (f *fakeKeyRepository) GetDevice(_ context.Context, deviceID uuid.UUID) (*models.UserDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	device, ok := f.devices[deviceID]
	if !ok {
		return nil, repository.ErrDeviceNotFound
	}
	return &device, nil
}

func (f *fakeKeyRepository) ListUserDevices(_ context.Context, userIDs []uuid.UUID) ([]models.UserDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.UserDevice
	for _, device := range f.devices {
		for _, userID := range userIDs {
			if device.UserID == userID {
				out = append(out, device)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeKeyRepository) UpsertWrappedKey(_ context.Context, key *models.ConversationKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wrapped[wrappedKeyID(key.ConversationID, key.UserID, key.DeviceID)] = *key
	return nil
}

func (f *fakeKeyRepository) ListWrappedKeysForDevice(_ context.Context, deviceID uuid.UUID) ([]models.ConversationKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ConversationKey
	for _, key := range f.wrapped {
		if key.DeviceID == deviceID {
			out = append(out, key)
		}
	}
	return out, nil
}

func (f *fakeKeyRepository) UpsertKeyBackup(_ context.Context, backup *models.UserKeyBackup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backups[backup.UserID] = *backup
	return nil
}

func (f *fakeKeyRepository) GetKeyBackup(_ context.Context, userID uuid.UUID) (*models.UserKeyBackup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	backup, ok := f.backups[userID]
	if !ok {
		return nil, repository.ErrBackupNotFound
	}
	return &backup, nil
}

func (f *fakeKeyRepository) UpdateBackupCiphertext(_ context.Context, userID uuid.UUID, backupCiphertext []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	backup, ok := f.backups[userID]
	if !ok {
		return repository.ErrBackupNotFound
	}
	backup.BackupCiphertext = backupCiphertext
	f.backups[userID] = backup
	return nil
}

func (f *fakeKeyRepository) UpsertRecoveryKey(_ context.Context, recovery *models.UserRecoveryKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recoveries[recovery.UserID] = *recovery
	return nil
}

func (f *fakeKeyRepository) GetRecoveryKey(_ context.Context, userID uuid.UUID) (*models.UserRecoveryKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	recovery, ok := f.recoveries[userID]
	if !ok {
		return nil, repository.ErrRecoveryNotFound
	}
	return &recovery, nil
}

func (f *fakeKeyRepository) ListConversationMembers(_ context.Context, conversationID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.members[conversationID]...), nil
}

func (f *fakeKeyRepository) ListDirectConversations(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.directs[userID]...), nil
}

func (f *fakeKeyRepository) wrappedKeyFor(conversationID, userID, deviceID uuid.UUID) (models.ConversationKey, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, ok := f.wrapped[wrappedKeyID(conversationID, userID, deviceID)]
	return key, ok
}
