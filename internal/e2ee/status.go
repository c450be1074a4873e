package e2ee

// Status is the session state gating all key-producing operations.
type Status int

const (
	// StatusDisabled — no backup envelope exists for this user yet.
	StatusDisabled Status = iota
	// StatusLocked — an envelope exists but has not been decrypted this
	// session.
	StatusLocked
	// StatusUnlocked — bundle decrypted, cache populated; the only state
	// in which new keys may be minted.
	StatusUnlocked
)

func (s Status) String() string {
	switch s {
	case StatusDisabled:
		return "disabled"
	case StatusLocked:
		return "locked"
	case StatusUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}
