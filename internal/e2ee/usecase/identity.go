package usecase

import (
	"context"

	"github.com/google/uuid"

	models "proximity/internal/e2ee/model"
	"proximity/pkg/crypto"
	appErrors "proximity/pkg/errors"
)

// ensureDevice returns the stored device identity after verifying it is
// still listed in the directory, or registers a fresh one. A locally stored
// identity whose directory row is gone was revoked: the stale identity is
// discarded and the device re-registers with a new key pair.
func (uc *E2EEUsecase) ensureDevice(ctx context.Context, userID uuid.UUID) (*models.DeviceIdentity, error) {
	identity, err := uc.local.GetDevice(userID)
	if err != nil {
		uc.logger.Error("failed to read device identity", "user_id", userID, "err", err)
		return nil, appErrors.ErrPersistenceFailed(err)
	}

	if identity != nil {
		exists, err := uc.repo.DeviceExists(ctx, userID, identity.DeviceID)
		if err != nil {
			return nil, appErrors.Wrap(appErrors.CodeInternal, "device verification failed", err)
		}
		if exists {
			return identity, nil
		}

		uc.logger.Warn("device no longer listed in directory, re-registering",
			"user_id", userID, "device_id", identity.DeviceID)
		if err := uc.local.ClearDevice(userID); err != nil {
			return nil, appErrors.ErrPersistenceFailed(err)
		}
	}

	return uc.registerDevice(ctx, userID)
}

func (uc *E2EEUsecase) registerDevice(ctx context.Context, userID uuid.UUID) (*models.DeviceIdentity, error) {
	pair, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, appErrors.Wrap(appErrors.CodeInternal, "device registration failed", err)
	}

	device := &models.UserDevice{
		UserID:      userID,
		PublicKey:   pair.Public,
		DeviceLabel: uc.config.E2EE.DeviceLabel,
	}
	if err := uc.repo.InsertDevice(ctx, device); err != nil {
		uc.logger.Error("failed to register device", "user_id", userID, "err", err)
		return nil, appErrors.Wrap(appErrors.CodeInternal, "device registration failed", err)
	}

	identity := &models.DeviceIdentity{
		UserID:     userID,
		DeviceID:   device.ID,
		PublicKey:  pair.Public,
		PrivateKey: pair.Private,
	}
	if err := uc.local.PutDevice(identity); err != nil {
		uc.logger.Error("failed to store device identity", "user_id", userID, "err", err)
		return nil, appErrors.ErrPersistenceFailed(err)
	}

	uc.logger.Info("registered new device", "user_id", userID, "device_id", device.ID)
	return identity, nil
}
