package e2ee

import (
	"github.com/google/uuid"
)

// NOTE: DTOs travel from usecase to callers (message-send feature, UI glue).

// DeviceRef identifies one recipient device of a key distribution.
type DeviceRef struct {
	UserID   uuid.UUID
	DeviceID uuid.UUID
}

// DeviceFailure records a per-device wrap or upsert failure. Distribution is
// best effort: failures are reported, never rolled back.
type DeviceFailure struct {
	Device DeviceRef
	Reason error
}

// DistributionReport is the partial-success report of one key distribution
// batch: which devices now hold a wrapped copy of the key and which do not.
type DistributionReport struct {
	ConversationID uuid.UUID
	Delivered      []DeviceRef
	Failed         []DeviceFailure
}

func (r *DistributionReport) AllDelivered() bool {
	return len(r.Failed) == 0
}

// EnableResult is returned once from Enable. RecoveryKey is shown to the
// user exactly once and is not stored in recoverable form anywhere.
type EnableResult struct {
	RecoveryKey   string
	Conversations []uuid.UUID
	Reports       []DistributionReport
}
