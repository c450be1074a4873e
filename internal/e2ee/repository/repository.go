package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	models "proximity/internal/e2ee/model"
	"proximity/pkg/logger"
)

type KeyRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

var (
	ErrBackupNotFound   = errors.New("key backup not found")
	ErrRecoveryNotFound = errors.New("recovery key not found")
	ErrDeviceNotFound   = errors.New("device not found")
)

func NewKeyRepository(db *bun.DB, logger logger.Logger) *KeyRepository {
	return &KeyRepository{
		db:     db,
		logger: &logger,
	}
}

func (r *KeyRepository) InsertDevice(ctx context.Context, device *models.UserDevice) error {

	_, err := r.db.NewInsert().Model(device).Returning("*").Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "keyRepo.InsertDevice.Exec: ")
	}
	return nil
}

func (r *KeyRepository) DeviceExists(ctx context.Context, userID, deviceID uuid.UUID) (bool, error) {

	exists, err := r.db.NewSelect().
		Model((*models.UserDevice)(nil)).
		Where("id = ? AND user_id = ?", deviceID, userID).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, "keyRepo.DeviceExists.Exists: ")
	}
	return exists, nil
}

func (r *KeyRepository) GetDevice(ctx context.Context, deviceID uuid.UUID) (*models.UserDevice, error) {

	device := new(models.UserDevice)
	err := r.db.NewSelect().Model(device).Where("id = ?", deviceID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, errors.Wrap(err, "keyRepo.GetDevice.Scan: ")
	}
	return device, nil
}

func (r *KeyRepository) ListUserDevices(ctx context.Context, userIDs []uuid.UUID) ([]models.UserDevice, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var devices []models.UserDevice
	err := r.db.NewSelect().
		Model(&devices).
		Where("user_id IN (?)", bun.In(userIDs)).
		Order("registered_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "keyRepo.ListUserDevices.Scan: ")
	}
	return devices, nil
}

func (r *KeyRepository) UpsertWrappedKey(ctx context.Context, key *models.ConversationKey) error {
	_, err := r.db.NewInsert().
		Model(key).
		On("CONFLICT (conversation_id, user_id, device_id) DO UPDATE").
		// Last write wins: a newer distribution supersedes the old envelope
		Set("key_ciphertext = EXCLUDED.key_ciphertext").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, "keyRepo.UpsertWrappedKey.Exec: ")
	}
	return nil
}

func (r *KeyRepository) ListWrappedKeysForDevice(ctx context.Context, deviceID uuid.UUID) ([]models.ConversationKey, error) {

	var keys []models.ConversationKey
	err := r.db.NewSelect().
		Model(&keys).
		Where("device_id = ?", deviceID).
		Order("updated_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "keyRepo.ListWrappedKeysForDevice.Scan: ")
	}
	return keys, nil
}

func (r *KeyRepository) UpsertKeyBackup(ctx context.Context, backup *models.UserKeyBackup) error {
	_, err := r.db.NewInsert().
		Model(backup).
		On("CONFLICT (user_id) DO UPDATE").
		Set("backup_ciphertext = EXCLUDED.backup_ciphertext").
		Set("backup_salt = EXCLUDED.backup_salt").
		Set("kdf_params = EXCLUDED.kdf_params").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, "keyRepo.UpsertKeyBackup.Exec: ")
	}
	return nil
}

func (r *KeyRepository) GetKeyBackup(ctx context.Context, userID uuid.UUID) (*models.UserKeyBackup, error) {

	backup := new(models.UserKeyBackup)
	err := r.db.NewSelect().Model(backup).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBackupNotFound
		}
		return nil, errors.Wrap(err, "keyRepo.GetKeyBackup.Scan: ")
	}
	return backup, nil
}

func (r *KeyRepository) UpdateBackupCiphertext(ctx context.Context, userID uuid.UUID, backupCiphertext []byte) error {
	res, err := r.db.NewUpdate().
		Model((*models.UserKeyBackup)(nil)).
		Set("backup_ciphertext = ?", backupCiphertext).
		Set("updated_at = now()").
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "keyRepo.UpdateBackupCiphertext.Exec: ")
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrBackupNotFound
	}
	return nil
}

func (r *KeyRepository) UpsertRecoveryKey(ctx context.Context, recovery *models.UserRecoveryKey) error {
	_, err := r.db.NewInsert().
		Model(recovery).
		On("CONFLICT (user_id) DO UPDATE").
		Set("recovery_ciphertext = EXCLUDED.recovery_ciphertext").
		Returning("*").
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, "keyRepo.UpsertRecoveryKey.Exec: ")
	}
	return nil
}

func (r *KeyRepository) GetRecoveryKey(ctx context.Context, userID uuid.UUID) (*models.UserRecoveryKey, error) {

	recovery := new(models.UserRecoveryKey)
	err := r.db.NewSelect().Model(recovery).Where("user_id = ?", userID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecoveryNotFound
		}
		return nil, errors.Wrap(err, "keyRepo.GetRecoveryKey.Scan: ")
	}
	return recovery, nil
}

func (r *KeyRepository) ListConversationMembers(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error) {

	var memberIDs []uuid.UUID
	err := r.db.NewSelect().
		Model((*models.ConversationMember)(nil)).
		Column("user_id").
		Where("conversation_id = ?", conversationID).
		Scan(ctx, &memberIDs)
	if err != nil {
		return nil, errors.Wrap(err, "keyRepo.ListConversationMembers.Scan: ")
	}
	return memberIDs, nil
}

func (r *KeyRepository) ListDirectConversations(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {

	var conversationIDs []uuid.UUID
	err := r.db.NewSelect().
		Model((*models.DirectConversation)(nil)).
		Column("id").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Scan(ctx, &conversationIDs)
	if err != nil {
		return nil, errors.Wrap(err, "keyRepo.ListDirectConversations.Scan: ")
	}
	return conversationIDs, nil
}
