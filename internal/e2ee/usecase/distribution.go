package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"proximity/internal/e2ee"
	models "proximity/internal/e2ee/model"
	"proximity/pkg/crypto"
	appErrors "proximity/pkg/errors"
)

// EnsureConversationKey returns the conversation key, minting one if this
// session is unlocked and none is cached. The fresh key enters the cache
// before any network work, so concurrent callers for the same conversation
// converge on one key instead of racing mints. A locked or disabled session
// gets (nil, nil, nil): callers treat that as "conversation not encrypted".
//
// A non-nil error alongside a non-nil key means the key is live and cached
// but the re-encrypted bundle could not be persisted.
func (uc *E2EEUsecase) EnsureConversationKey(ctx context.Context, conversationID uuid.UUID) ([]byte, *e2ee.DistributionReport, error) {
	identity, err := uc.deviceIdentity()
	if err != nil {
		return nil, nil, err
	}

	uc.mu.Lock()
	if key, ok := uc.bundle.Keys[conversationID]; ok {
		out := make([]byte, len(key))
		copy(out, key)
		uc.mu.Unlock()
		return out, nil, nil
	}
	if uc.status != e2ee.StatusUnlocked {
		uc.mu.Unlock()
		return nil, nil, nil
	}
	key, err := crypto.RandomBytes(crypto.KeySize)
	if err != nil {
		uc.mu.Unlock()
		return nil, nil, appErrors.Wrap(appErrors.CodeInternal, "failed to mint conversation key", err)
	}
	uc.bundle.Keys[conversationID] = key
	uc.mu.Unlock()

	out := make([]byte, len(key))
	copy(out, key)

	report := uc.distributeKey(ctx, identity, conversationID, key)
	if err := uc.persistBundleUpdate(ctx); err != nil {
		uc.logger.Error("minted key cached but bundle not persisted",
			"conversation_id", conversationID, "err", err)
		return out, report, err
	}
	return out, report, nil
}

// ReshareConversationKey re-wraps the existing key for every current member
// device. Used when a member registers a new device; the key itself never
// changes.
func (uc *E2EEUsecase) ReshareConversationKey(ctx context.Context, conversationID uuid.UUID) (*e2ee.DistributionReport, error) {
	identity, err := uc.deviceIdentity()
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	if uc.status != e2ee.StatusUnlocked {
		uc.mu.Unlock()
		return nil, appErrors.ErrSessionLocked
	}
	key, ok := uc.bundle.Keys[conversationID]
	if !ok {
		uc.mu.Unlock()
		return nil, appErrors.NotFound("no key cached for this conversation")
	}
	cp := make([]byte, len(key))
	copy(cp, key)
	uc.mu.Unlock()

	return uc.distributeKey(ctx, identity, conversationID, cp), nil
}

// LoadDeviceKeys imports every wrapped key addressed to this device that the
// bundle does not hold yet, then persists the merged bundle. Idempotent:
// already-known conversations and undecryptable rows are skipped. Returns the
// number of keys imported.
func (uc *E2EEUsecase) LoadDeviceKeys(ctx context.Context) (int, error) {
	identity, err := uc.deviceIdentity()
	if err != nil {
		return 0, err
	}
	if uc.Status() != e2ee.StatusUnlocked {
		return 0, appErrors.ErrSessionLocked
	}

	rows, err := uc.repo.ListWrappedKeysForDevice(ctx, identity.DeviceID)
	if err != nil {
		return 0, appErrors.ErrPersistenceFailed(err)
	}

	type imported struct {
		conversationID uuid.UUID
		key            []byte
	}
	candidates := make([]imported, 0, len(rows))
	for _, row := range rows {
		envelope, err := models.ParseKeyEnvelope(row.KeyCiphertext)
		if err != nil {
			uc.logger.Warn("skipping malformed key envelope",
				"conversation_id", row.ConversationID, "err", err)
			continue
		}
		shared, err := crypto.DeriveSharedKey(identity.PrivateKey, envelope.EphemeralPublicKey)
		if err != nil {
			uc.logger.Warn("skipping key envelope with bad ephemeral key",
				"conversation_id", row.ConversationID, "err", err)
			continue
		}
		key, err := crypto.Decrypt(shared, envelope.Ciphertext, envelope.Nonce)
		if err != nil {
			uc.logger.Warn("skipping undecryptable key envelope",
				"conversation_id", row.ConversationID, "err", err)
			continue
		}
		candidates = append(candidates, imported{conversationID: row.ConversationID, key: key})
	}

	count := 0
	uc.mu.Lock()
	for _, c := range candidates {
		if _, ok := uc.bundle.Keys[c.conversationID]; ok {
			continue
		}
		uc.bundle.Keys[c.conversationID] = c.key
		count++
	}
	uc.mu.Unlock()

	if count == 0 {
		return 0, nil
	}
	uc.logger.Info("imported wrapped keys", "device_id", identity.DeviceID, "count", count)
	if err := uc.persistBundleUpdate(ctx); err != nil {
		return count, err
	}
	return count, nil
}

// distributeKey wraps key for every device of every conversation member and
// upserts the envelopes concurrently. Best effort: per-device failures land
// in the report and never abort the batch.
func (uc *E2EEUsecase) distributeKey(ctx context.Context, identity *models.DeviceIdentity, conversationID uuid.UUID, key []byte) *e2ee.DistributionReport {
	report := &e2ee.DistributionReport{ConversationID: conversationID}

	memberIDs, err := uc.repo.ListConversationMembers(ctx, conversationID)
	if err != nil {
		uc.logger.Error("failed to resolve conversation members",
			"conversation_id", conversationID, "err", err)
		report.Failed = append(report.Failed, e2ee.DeviceFailure{
			Reason: appErrors.ErrPersistenceFailed(err),
		})
		return report
	}
	if !containsUUID(memberIDs, identity.UserID) {
		memberIDs = append(memberIDs, identity.UserID)
	}

	devices, err := uc.repo.ListUserDevices(ctx, memberIDs)
	if err != nil {
		uc.logger.Error("failed to resolve member devices",
			"conversation_id", conversationID, "err", err)
		report.Failed = append(report.Failed, e2ee.DeviceFailure{
			Reason: appErrors.ErrPersistenceFailed(err),
		})
		return report
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, device := range devices {
		device := device
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref := e2ee.DeviceRef{UserID: device.UserID, DeviceID: device.ID}
			if err := uc.wrapForDevice(ctx, conversationID, key, device); err != nil {
				uc.logger.Warn("failed to deliver wrapped key",
					"conversation_id", conversationID,
					"user_id", device.UserID, "device_id", device.ID, "err", err)
				mu.Lock()
				report.Failed = append(report.Failed, e2ee.DeviceFailure{Device: ref, Reason: err})
				mu.Unlock()
				return
			}
			mu.Lock()
			report.Delivered = append(report.Delivered, ref)
			mu.Unlock()
		}()
	}
	wg.Wait()

	return report
}

// wrapForDevice seals key for one recipient device: ephemeral X25519
// exchange against the device's public key, AES-GCM over the shared key.
// The ephemeral private key goes out of scope immediately, so only the
// recipient can ever unwrap the envelope.
func (uc *E2EEUsecase) wrapForDevice(ctx context.Context, conversationID uuid.UUID, key []byte, device models.UserDevice) error {
	ephemeral, err := crypto.GenerateKeyPair()
	if err != nil {
		return err
	}
	shared, err := crypto.DeriveSharedKey(ephemeral.Private, device.PublicKey)
	if err != nil {
		return err
	}
	ciphertext, nonce, err := crypto.Encrypt(shared, key)
	if err != nil {
		return err
	}
	envelopeJSON, err := models.KeyEnvelope{
		Ciphertext:         ciphertext,
		Nonce:              nonce,
		EphemeralPublicKey: ephemeral.Public,
	}.Marshal()
	if err != nil {
		return err
	}

	return uc.repo.UpsertWrappedKey(ctx, &models.ConversationKey{
		ConversationID: conversationID,
		UserID:         device.UserID,
		DeviceID:       device.ID,
		KeyCiphertext:  envelopeJSON,
		UpdatedAt:      time.Now(),
	})
}

func containsUUID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
