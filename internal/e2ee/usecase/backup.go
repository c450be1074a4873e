package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"proximity/config"
	"proximity/internal/e2ee"
	models "proximity/internal/e2ee/model"
	"proximity/internal/e2ee/repository"
	"proximity/pkg/crypto"
	appErrors "proximity/pkg/errors"
)

const (
	backupSaltSize = 16
	kdfAlgorithm   = "pbkdf2-sha256"
)

// Enable turns encryption on for the signed-in user: mints a key for every
// existing direct conversation, seals the bundle into a PIN-protected backup
// envelope plus a recovery envelope, persists both, then distributes each key
// to every member device. Envelope persistence is fatal; distribution is best
// effort and reported per device.
func (uc *E2EEUsecase) Enable(ctx context.Context, pin string) (*e2ee.EnableResult, error) {
	if pin == "" {
		return nil, appErrors.ErrInvalidPIN
	}

	identity, err := uc.deviceIdentity()
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	if uc.status != e2ee.StatusDisabled {
		uc.mu.Unlock()
		return nil, appErrors.ErrAlreadyEnabled
	}
	userID := uc.userID
	uc.mu.Unlock()

	conversationIDs, err := uc.repo.ListDirectConversations(ctx, userID)
	if err != nil {
		return nil, appErrors.ErrEnableFailed(err)
	}

	bundle := models.NewKeyBundle()
	for _, conversationID := range conversationIDs {
		key, err := crypto.RandomBytes(crypto.KeySize)
		if err != nil {
			return nil, appErrors.ErrEnableFailed(err)
		}
		bundle.Keys[conversationID] = key
	}

	backupKey, err := crypto.RandomBytes(crypto.KeySize)
	if err != nil {
		return nil, appErrors.ErrEnableFailed(err)
	}

	backup, err := uc.sealBackup(bundle, backupKey, pin)
	if err != nil {
		return nil, appErrors.ErrEnableFailed(err)
	}
	backup.UserID = userID
	if err := uc.repo.UpsertKeyBackup(ctx, backup); err != nil {
		uc.logger.Error("failed to persist key backup", "user_id", userID, "err", err)
		return nil, appErrors.ErrEnableFailed(err)
	}

	recoverySecret, err := crypto.RandomBytes(crypto.RecoveryKeySize)
	if err != nil {
		return nil, appErrors.ErrEnableFailed(err)
	}
	recovery, err := sealRecovery(userID, recoverySecret, backupKey)
	if err != nil {
		return nil, appErrors.ErrEnableFailed(err)
	}
	if err := uc.repo.UpsertRecoveryKey(ctx, recovery); err != nil {
		uc.logger.Error("failed to persist recovery key", "user_id", userID, "err", err)
		return nil, appErrors.ErrEnableFailed(err)
	}

	uc.mu.Lock()
	uc.bundle = bundle
	uc.backupKey = backupKey
	uc.status = e2ee.StatusUnlocked
	uc.mu.Unlock()

	reports := make([]e2ee.DistributionReport, 0, len(conversationIDs))
	for _, conversationID := range conversationIDs {
		report := uc.distributeKey(ctx, identity, conversationID, bundle.Keys[conversationID])
		reports = append(reports, *report)
	}

	if uc.config.E2EE.RememberUnlock {
		uc.rememberBundle(userID)
	}

	uc.logger.Info("encryption enabled",
		"user_id", userID, "conversations", len(conversationIDs))

	return &e2ee.EnableResult{
		RecoveryKey:   crypto.FormatRecoveryKey(recoverySecret),
		Conversations: conversationIDs,
		Reports:       reports,
	}, nil
}

// UnlockWithPIN decrypts the backup envelope with the PIN-derived key. Any
// decryption failure means wrong PIN or a corrupted envelope and leaves the
// session locked.
func (uc *E2EEUsecase) UnlockWithPIN(ctx context.Context, pin string) error {
	userID, alreadyUnlocked, err := uc.unlockPrecheck()
	if err != nil {
		return err
	}
	if alreadyUnlocked {
		return nil
	}

	backup, err := uc.repo.GetKeyBackup(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBackupNotFound) {
			return appErrors.ErrNoBackupFound
		}
		return appErrors.ErrPersistenceFailed(err)
	}

	payload, err := models.ParseBackupPayload(backup.BackupCiphertext)
	if err != nil {
		return appErrors.ErrUnlockFailed
	}

	pinKey := crypto.DeriveKeyFromPIN(pin, backup.BackupSalt, backup.KDFParams.Iterations)
	backupKey, err := crypto.Decrypt(pinKey, payload.WrappedKeyCiphertext, payload.WrappedKeyNonce)
	if err != nil {
		return appErrors.ErrUnlockFailed
	}

	return uc.finishUnlock(ctx, userID, backupKey, payload)
}

// UnlockWithRecovery decrypts the backup envelope via the recovery path: the
// pasted phrase decodes to the 32-byte secret that wraps the backup key.
func (uc *E2EEUsecase) UnlockWithRecovery(ctx context.Context, phrase string) error {
	userID, alreadyUnlocked, err := uc.unlockPrecheck()
	if err != nil {
		return err
	}
	if alreadyUnlocked {
		return nil
	}

	secret, err := crypto.ParseRecoveryKey(phrase)
	if err != nil {
		return appErrors.ErrUnlockFailed
	}

	recovery, err := uc.repo.GetRecoveryKey(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRecoveryNotFound) {
			return appErrors.ErrNoBackupFound
		}
		return appErrors.ErrPersistenceFailed(err)
	}
	recoveryPayload, err := models.ParseRecoveryPayload(recovery.RecoveryCiphertext)
	if err != nil {
		return appErrors.ErrUnlockFailed
	}

	backupKey, err := crypto.Decrypt(secret, recoveryPayload.WrappedKeyCiphertext, recoveryPayload.WrappedKeyNonce)
	if err != nil {
		return appErrors.ErrUnlockFailed
	}

	// The bundle ciphertext lives in the backup row, shared by both paths.
	backup, err := uc.repo.GetKeyBackup(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBackupNotFound) {
			return appErrors.ErrNoBackupFound
		}
		return appErrors.ErrPersistenceFailed(err)
	}
	payload, err := models.ParseBackupPayload(backup.BackupCiphertext)
	if err != nil {
		return appErrors.ErrUnlockFailed
	}

	return uc.finishUnlock(ctx, userID, backupKey, payload)
}

// unlockPrecheck validates the state transition: disabled sessions have
// nothing to unlock, unlocked sessions make unlock a no-op.
func (uc *E2EEUsecase) unlockPrecheck() (uuid.UUID, bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	switch uc.status {
	case e2ee.StatusDisabled:
		return uuid.Nil, false, appErrors.ErrNoBackupFound
	case e2ee.StatusUnlocked:
		return uc.userID, true, nil
	default:
		return uc.userID, false, nil
	}
}

func (uc *E2EEUsecase) finishUnlock(ctx context.Context, userID uuid.UUID, backupKey []byte, payload models.BackupPayload) error {
	bundleJSON, err := crypto.Decrypt(backupKey, payload.BundleCiphertext, payload.BundleNonce)
	if err != nil {
		return appErrors.ErrUnlockFailed
	}
	bundle, err := models.ParseKeyBundle(bundleJSON)
	if err != nil {
		return appErrors.ErrUnlockFailed
	}

	uc.mu.Lock()
	uc.bundle = bundle
	uc.backupKey = backupKey
	uc.status = e2ee.StatusUnlocked
	uc.mu.Unlock()

	// Pull keys other devices wrapped for this one while it was locked.
	// LoadDeviceKeys persists the merged bundle itself when it imports any.
	if _, err := uc.LoadDeviceKeys(ctx); err != nil {
		uc.logger.Warn("failed to load device keys after unlock", "user_id", userID, "err", err)
	}

	if uc.config.E2EE.RememberUnlock {
		uc.rememberBundle(userID)
	}

	uc.logger.Info("session unlocked", "user_id", userID)
	return nil
}

// persistBundleUpdate re-encrypts the current bundle under the backup key and
// rewrites the envelope's bundle fields, leaving the PIN wrap untouched. Also
// refreshes the remembered bundle when one exists so it cannot go stale.
func (uc *E2EEUsecase) persistBundleUpdate(ctx context.Context) error {
	uc.mu.Lock()
	if uc.status != e2ee.StatusUnlocked {
		uc.mu.Unlock()
		return appErrors.ErrSessionLocked
	}
	userID := uc.userID
	bundle := uc.bundle.Clone()
	backupKey := uc.backupKey
	uc.mu.Unlock()

	backup, err := uc.repo.GetKeyBackup(ctx, userID)
	if err != nil {
		return appErrors.ErrPersistenceFailed(err)
	}
	payload, err := models.ParseBackupPayload(backup.BackupCiphertext)
	if err != nil {
		return appErrors.ErrPersistenceFailed(err)
	}

	bundleJSON, err := bundle.Marshal()
	if err != nil {
		return appErrors.ErrPersistenceFailed(err)
	}
	payload.BundleCiphertext, payload.BundleNonce, err = crypto.Encrypt(backupKey, bundleJSON)
	if err != nil {
		return appErrors.ErrPersistenceFailed(err)
	}
	payloadJSON, err := payload.Marshal()
	if err != nil {
		return appErrors.ErrPersistenceFailed(err)
	}

	if err := uc.repo.UpdateBackupCiphertext(ctx, userID, payloadJSON); err != nil {
		uc.logger.Error("failed to persist bundle update", "user_id", userID, "err", err)
		return appErrors.ErrPersistenceFailed(err)
	}

	remembered, err := uc.local.GetRememberedBundle(userID)
	if err != nil {
		uc.logger.Warn("failed to read remembered bundle", "user_id", userID, "err", err)
		return nil
	}
	if remembered != nil {
		uc.rememberBundle(userID)
	}
	return nil
}

// rememberBundle snapshots the decrypted bundle and backup key into the local
// store. Failures are logged, never fatal: the remote envelope stays the
// source of truth.
func (uc *E2EEUsecase) rememberBundle(userID uuid.UUID) {
	uc.mu.Lock()
	if uc.status != e2ee.StatusUnlocked {
		uc.mu.Unlock()
		return
	}
	remembered := &models.RememberedBundle{
		UserID:    userID,
		BackupKey: uc.backupKey,
		Bundle:    uc.bundle.Clone(),
	}
	uc.mu.Unlock()

	if err := uc.local.PutRememberedBundle(remembered); err != nil {
		uc.logger.Error("failed to remember bundle", "user_id", userID, "err", err)
	}
}

func (uc *E2EEUsecase) sealBackup(bundle models.KeyBundle, backupKey []byte, pin string) (*models.UserKeyBackup, error) {
	bundleJSON, err := bundle.Marshal()
	if err != nil {
		return nil, err
	}
	bundleCiphertext, bundleNonce, err := crypto.Encrypt(backupKey, bundleJSON)
	if err != nil {
		return nil, err
	}

	salt, err := crypto.RandomBytes(backupSaltSize)
	if err != nil {
		return nil, err
	}
	iterations := uc.kdfIterations()
	pinKey := crypto.DeriveKeyFromPIN(pin, salt, iterations)
	wrappedCiphertext, wrappedNonce, err := crypto.Encrypt(pinKey, backupKey)
	if err != nil {
		return nil, err
	}

	payloadJSON, err := models.BackupPayload{
		BundleCiphertext:     bundleCiphertext,
		BundleNonce:          bundleNonce,
		WrappedKeyCiphertext: wrappedCiphertext,
		WrappedKeyNonce:      wrappedNonce,
	}.Marshal()
	if err != nil {
		return nil, err
	}

	return &models.UserKeyBackup{
		BackupCiphertext: payloadJSON,
		BackupSalt:       salt,
		KDFParams:        models.KDFParams{Algorithm: kdfAlgorithm, Iterations: iterations},
	}, nil
}

func sealRecovery(userID uuid.UUID, recoverySecret, backupKey []byte) (*models.UserRecoveryKey, error) {
	wrappedCiphertext, wrappedNonce, err := crypto.Encrypt(recoverySecret, backupKey)
	if err != nil {
		return nil, err
	}
	payloadJSON, err := models.RecoveryPayload{
		WrappedKeyCiphertext: wrappedCiphertext,
		WrappedKeyNonce:      wrappedNonce,
	}.Marshal()
	if err != nil {
		return nil, err
	}
	return &models.UserRecoveryKey{
		UserID:             userID,
		RecoveryCiphertext: payloadJSON,
	}, nil
}

func (uc *E2EEUsecase) kdfIterations() int {
	if uc.config.E2EE.KDFIterations > 0 {
		return uc.config.E2EE.KDFIterations
	}
	return config.DefaultKDFIterations
}
