package localstore

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "proximity/internal/e2ee/model"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "e2ee.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func testIdentity(userID uuid.UUID) *models.DeviceIdentity {
	pub := make([]byte, 32)
	priv := make([]byte, 32)
	for i := range pub {
		pub[i] = byte(i + 1)
		priv[i] = byte(i + 101)
	}
	return &models.DeviceIdentity{
		UserID:     userID,
		DeviceID:   uuid.New(),
		PublicKey:  pub,
		PrivateKey: priv,
	}
}

func Test_DeviceRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	userID := uuid.New()

	t.Run("absent device returns nil, nil", func(t *testing.T) {
		got, err := s.GetDevice(userID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("put then get", func(t *testing.T) {
		identity := testIdentity(userID)
		require.NoError(t, s.PutDevice(identity))

		got, err := s.GetDevice(userID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, identity.DeviceID, got.DeviceID)
		assert.Equal(t, identity.PublicKey, got.PublicKey)
		assert.Equal(t, identity.PrivateKey, got.PrivateKey)
	})

	t.Run("scoped per user", func(t *testing.T) {
		otherUser := uuid.New()
		got, err := s.GetDevice(otherUser)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("clear removes the identity", func(t *testing.T) {
		require.NoError(t, s.ClearDevice(userID))
		got, err := s.GetDevice(userID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func Test_RememberedBundleRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	userID := uuid.New()

	bundle := models.NewKeyBundle()
	convID := uuid.New()
	bundle.Keys[convID] = []byte("0123456789abcdef0123456789abcdef")

	remembered := &models.RememberedBundle{
		UserID:    userID,
		BackupKey: []byte("fedcba9876543210fedcba9876543210"),
		Bundle:    bundle,
	}

	require.NoError(t, s.PutRememberedBundle(remembered))

	got, err := s.GetRememberedBundle(userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, remembered.BackupKey, got.BackupKey)
	assert.Equal(t, bundle.Keys[convID], got.Bundle.Keys[convID])

	require.NoError(t, s.ClearRememberedBundle(userID))
	got, err = s.GetRememberedBundle(userID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func Test_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e2ee.db")
	s, err := Open(path)
	require.NoError(t, err)

	userID := uuid.New()
	identity := testIdentity(userID)
	require.NoError(t, s.PutDevice(identity))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetDevice(userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, identity.DeviceID, got.DeviceID)
	assert.Equal(t, identity.PrivateKey, got.PrivateKey)
}
