package e2ee

import (
	"github.com/google/uuid"

	models "proximity/internal/e2ee/model"
)

// DeviceStore is durable storage scoped to this installation: the device's
// long-term identity and the opt-in remembered bundle. Survives restarts,
// never syncs across devices, makes no network calls.
//
// Get methods return (nil, nil) when nothing is stored.
type DeviceStore interface {
	GetDevice(userID uuid.UUID) (*models.DeviceIdentity, error)
	PutDevice(identity *models.DeviceIdentity) error
	ClearDevice(userID uuid.UUID) error

	GetRememberedBundle(userID uuid.UUID) (*models.RememberedBundle, error)
	PutRememberedBundle(bundle *models.RememberedBundle) error
	ClearRememberedBundle(userID uuid.UUID) error
}
