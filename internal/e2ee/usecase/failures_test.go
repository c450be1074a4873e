package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proximity/internal/e2ee"
	"proximity/internal/e2ee/localstore"
	"proximity/internal/e2ee/mocks"
	models "proximity/internal/e2ee/model"
	"proximity/internal/e2ee/repository"
	"proximity/pkg/crypto"
	appErrors "proximity/pkg/errors"
	"proximity/pkg/logger"
)

func newMockedSession(t *testing.T, ctrl *gomock.Controller) (*E2EEUsecase, *mocks.MockKeyRepository) {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "e2ee.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	mockRepo := mocks.NewMockKeyRepository(ctrl)
	return NewE2EEUsecase(mockRepo, store, logger.Logger{}, testConfig(false)), mockRepo
}

func TestE2EEUsecase_Start_RegistrationFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc, mockRepo := newMockedSession(t, ctrl)
	userID := uuid.New()

	mockRepo.EXPECT().
		InsertDevice(gomock.Any(), gomock.Any()).
		Return(errors.New("connection refused"))

	status, err := uc.Start(context.Background(), userID)
	assert.ErrorIs(t, err, appErrors.ErrDeviceRegistrationFailed)
	assert.Equal(t, e2ee.StatusDisabled, status)
}

func TestE2EEUsecase_Enable_BackupUpsertFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc, mockRepo := newMockedSession(t, ctrl)
	userID := uuid.New()

	g := mockRepo.EXPECT()
	g.InsertDevice(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, device *models.UserDevice) error {
			device.ID = uuid.New()
			return nil
		})
	g.GetKeyBackup(gomock.Any(), userID).Return(nil, repository.ErrBackupNotFound)

	status, err := uc.Start(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, e2ee.StatusDisabled, status)

	g.ListDirectConversations(gomock.Any(), userID).Return([]uuid.UUID{uuid.New()}, nil)
	g.UpsertKeyBackup(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err = uc.Enable(context.Background(), "1234")
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeInternal, appErrors.CodeOf(err))
	// Envelope persistence is fatal, nothing may be half-enabled.
	assert.Equal(t, e2ee.StatusDisabled, uc.Status())
}

func TestE2EEUsecase_EnsureConversationKey_PersistFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc, mockRepo := newMockedSession(t, ctrl)
	userID := uuid.New()
	conversationID := uuid.New()

	pair, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	backupKey, err := crypto.RandomBytes(crypto.KeySize)
	require.NoError(t, err)

	uc.mu.Lock()
	uc.userID = userID
	uc.identity = &models.DeviceIdentity{
		UserID:     userID,
		DeviceID:   uuid.New(),
		PublicKey:  pair.Public,
		PrivateKey: pair.Private,
	}
	uc.backupKey = backupKey
	uc.status = e2ee.StatusUnlocked
	uc.mu.Unlock()

	g := mockRepo.EXPECT()
	g.ListConversationMembers(gomock.Any(), conversationID).Return([]uuid.UUID{userID}, nil)
	g.ListUserDevices(gomock.Any(), gomock.Any()).Return([]models.UserDevice{
		{ID: uc.identity.DeviceID, UserID: userID, PublicKey: pair.Public},
	}, nil)
	g.UpsertWrappedKey(gomock.Any(), gomock.Any()).Return(nil)
	g.GetKeyBackup(gomock.Any(), userID).Return(nil, errors.New("connection reset"))

	key, report, err := uc.EnsureConversationKey(context.Background(), conversationID)
	assert.ErrorIs(t, err, appErrors.ErrPersistenceFailed(nil))

	// The minted key stays cached and distributed despite the failed persist.
	require.NotNil(t, key)
	require.NotNil(t, report)
	assert.True(t, report.AllDelivered())
	assert.Equal(t, key, uc.GetConversationKey(conversationID))
}
