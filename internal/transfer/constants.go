package transfer

// State of the engine for the current transfer attempt.
type State string

const (
	StateIdle         State = "idle"
	StateOpen         State = "open"
	StateValidating   State = "validating"
	StateRejected     State = "rejected"
	StateSubmitting   State = "submitting"
	StateCommitted    State = "committed"
	StateFailedRemote State = "failed_remote"
)

// Seed caps for the default draft quantity. The list view offers a small
// default; the item detail view pre-fills up to the full holding.
const (
	ListSeedCap   = 50
	DetailSeedCap = 1000
)

// Rejection reason labels for metrics.
const (
	ReasonInvalidDestination = "invalid_destination"
	ReasonInvalidQuantity    = "invalid_quantity"
	ReasonCapacityExceeded   = "capacity_exceeded"
	ReasonUnknown            = "unknown"
)

// Log messages
const (
	LogMsgTransferOpened       = "Transfer draft opened"
	LogMsgTransferRejected     = "Transfer rejected by validation"
	LogMsgTransferCommitted    = "Transfer committed"
	LogMsgTransferFailedRemote = "Transfer failed remotely, local split retained"
)
