package domain

// Transaction statuses. Terminal states are cancelled and expired; paid is
// terminal with respect to payment but deployment may still be outstanding.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Product categories. Each maps to a panel egg in config.
const (
	CategoryLinux   = "linux"
	CategoryWindows = "windows"
	CategoryNodeJS  = "nodejs"
)

// Order lifecycle windows, in seconds from created_at.
const (
	// PendingLockSeconds: a pending order younger than this blocks new orders
	// for the same user and is not yet locally expired.
	PendingLockSeconds = 1800
	// CancelWaitSeconds: minimum order age before cancellation is allowed.
	CancelWaitSeconds = 120
)

// Gateway statuses that count as a settled payment.
var SettledStatuses = []string{"completed", "success", "settlement"}
