package errors

var (
	// Domain errors — used in usecase/repository
	ErrDeviceRegistrationFailed = Internal("device registration failed")
	ErrDeviceNotRegistered      = FailedPrecondition("no device identity for this session")
	ErrUnlockFailed             = Unauthorized("backup unlock failed: wrong PIN or recovery key, or corrupted envelope")
	ErrNoBackupFound            = FailedPrecondition("no key backup exists for this user")
	ErrAlreadyEnabled           = AlreadyExists("encryption is already enabled for this user")
	ErrSessionLocked            = FailedPrecondition("session is not unlocked")
	ErrInvalidPIN               = InvalidArg("PIN cannot be empty")
)

func ErrPersistenceFailed(cause error) error {
	return Wrap(CodeInternal, "failed to persist key material", cause)
}

func ErrEnableFailed(cause error) error {
	return Wrap(CodeInternal, "enabling encryption failed", cause)
}
