package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"proximity/config"
	"proximity/internal/e2ee"
	models "proximity/internal/e2ee/model"
	"proximity/internal/e2ee/repository"
	appErrors "proximity/pkg/errors"
	"proximity/pkg/logger"
)

// E2EEUsecase owns all mutable session state of the key core: status, the
// device identity, the decrypted bundle (which doubles as the conversation
// key cache) and the backup key. One instance per signed-in session; nothing
// here is ambient or global.
//
// bundle and backupKey are only ever mutated together under mu, so no caller
// can observe a bundle entry without its cached key or the other way around.
type E2EEUsecase struct {
	repo   e2ee.KeyRepository
	local  e2ee.DeviceStore
	logger logger.Logger
	config config.Config

	mu       sync.Mutex
	userID   uuid.UUID
	identity *models.DeviceIdentity
	status   e2ee.Status

	// decrypted bundle; bundle.Keys is the conversation key cache
	bundle models.KeyBundle
	// raw backup key while unlocked, nil otherwise
	backupKey []byte
}

var _ e2ee.Usecase = (*E2EEUsecase)(nil)

func NewE2EEUsecase(repo e2ee.KeyRepository, local e2ee.DeviceStore, logger logger.Logger, config config.Config) *E2EEUsecase {
	return &E2EEUsecase{
		repo:   repo,
		local:  local,
		logger: logger,
		config: config,
		status: e2ee.StatusDisabled,
		bundle: models.NewKeyBundle(),
	}
}

// Start ensures a registered device identity for userID, then tries a
// silent unlock from the remembered bundle. Without one it reports locked
// (an envelope exists remotely) or disabled (none does).
func (uc *E2EEUsecase) Start(ctx context.Context, userID uuid.UUID) (e2ee.Status, error) {
	identity, err := uc.ensureDevice(ctx, userID)
	if err != nil {
		return e2ee.StatusDisabled, err
	}

	uc.mu.Lock()
	uc.userID = userID
	uc.identity = identity
	uc.mu.Unlock()

	remembered, err := uc.local.GetRememberedBundle(userID)
	if err != nil {
		uc.logger.Warn("failed to read remembered bundle, falling back to locked", "err", err)
	}
	if remembered != nil {
		uc.mu.Lock()
		uc.backupKey = remembered.BackupKey
		uc.bundle = remembered.Bundle.Clone()
		uc.status = e2ee.StatusUnlocked
		uc.mu.Unlock()

		// Pull anything wrapped for this device while we were away.
		if _, err := uc.LoadDeviceKeys(ctx); err != nil {
			uc.logger.Warn("failed to load device keys after silent unlock", "err", err)
		}
		return e2ee.StatusUnlocked, nil
	}

	_, err = uc.repo.GetKeyBackup(ctx, userID)
	switch {
	case err == nil:
		uc.setStatus(e2ee.StatusLocked)
		return e2ee.StatusLocked, nil
	case errors.Is(err, repository.ErrBackupNotFound):
		uc.setStatus(e2ee.StatusDisabled)
		return e2ee.StatusDisabled, nil
	default:
		uc.logger.Error("failed to probe for key backup", "user_id", userID, "err", err)
		return e2ee.StatusDisabled, appErrors.Internal("failed to determine encryption status")
	}
}

func (uc *E2EEUsecase) Status() e2ee.Status {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.status
}

// GetConversationKey returns the cached key for a conversation or nil. It
// never mints and works in any state: while locked the cache is simply
// empty.
func (uc *E2EEUsecase) GetConversationKey(conversationID uuid.UUID) []byte {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	key, ok := uc.bundle.Keys[conversationID]
	if !ok {
		return nil
	}
	out := make([]byte, len(key))
	copy(out, key)
	return out
}

// Lock purges the in-memory backup key, bundle and cache plus the
// remembered bundle. The remote envelope is untouched, so the session moves
// to locked, not disabled.
func (uc *E2EEUsecase) Lock() error {
	uc.mu.Lock()
	userID := uc.userID
	wasUnlocked := uc.status == e2ee.StatusUnlocked
	uc.backupKey = nil
	uc.bundle = models.NewKeyBundle()
	if wasUnlocked {
		uc.status = e2ee.StatusLocked
	}
	uc.mu.Unlock()

	if err := uc.local.ClearRememberedBundle(userID); err != nil {
		uc.logger.Error("failed to clear remembered bundle", "user_id", userID, "err", err)
		return appErrors.ErrPersistenceFailed(err)
	}
	return nil
}

func (uc *E2EEUsecase) setStatus(status e2ee.Status) {
	uc.mu.Lock()
	uc.status = status
	uc.mu.Unlock()
}

func (uc *E2EEUsecase) deviceIdentity() (*models.DeviceIdentity, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.identity == nil {
		return nil, appErrors.ErrDeviceNotRegistered
	}
	return uc.identity, nil
}
