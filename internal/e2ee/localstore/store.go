package localstore

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	models "proximity/internal/e2ee/model"
)

var (
	bucketDevices    = []byte("devices")
	bucketRemembered = []byte("remembered")
)

// Store persists this installation's device identity and the opt-in
// remembered bundle in a single bbolt file. Implements e2ee.DeviceStore.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the local store file. 0600: the file holds
// private key material.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, errors.Wrap(err, "localstore.Open: ")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketDevices); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketRemembered)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "localstore.Open.CreateBuckets: ")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetDevice(userID uuid.UUID) (*models.DeviceIdentity, error) {
	identity := new(models.DeviceIdentity)
	found, err := s.get(bucketDevices, userID, identity)
	if err != nil || !found {
		return nil, err
	}
	return identity, nil
}

func (s *Store) PutDevice(identity *models.DeviceIdentity) error {
	return s.put(bucketDevices, identity.UserID, identity)
}

func (s *Store) ClearDevice(userID uuid.UUID) error {
	return s.clear(bucketDevices, userID)
}

func (s *Store) GetRememberedBundle(userID uuid.UUID) (*models.RememberedBundle, error) {
	bundle := new(models.RememberedBundle)
	found, err := s.get(bucketRemembered, userID, bundle)
	if err != nil || !found {
		return nil, err
	}
	return bundle, nil
}

func (s *Store) PutRememberedBundle(bundle *models.RememberedBundle) error {
	return s.put(bucketRemembered, bundle.UserID, bundle)
}

func (s *Store) ClearRememberedBundle(userID uuid.UUID) error {
	return s.clear(bucketRemembered, userID)
}

func (s *Store) get(bucket []byte, userID uuid.UUID, out any) (bool, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get(userID[:]); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if err != nil {
		return false, errors.Wrap(err, "localstore.get: ")
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, errors.Wrap(err, "localstore.get.Unmarshal: ")
	}
	return true, nil
}

func (s *Store) put(bucket []byte, userID uuid.UUID, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "localstore.put.Marshal: ")
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put(userID[:], raw)
	})
	return errors.Wrap(err, "localstore.put: ")
}

func (s *Store) clear(bucket []byte, userID uuid.UUID) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete(userID[:])
	})
	return errors.Wrap(err, "localstore.clear: ")
}
