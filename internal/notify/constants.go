package notify

// Level of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// DefaultCapacity bounds the retained notification history.
const DefaultCapacity = 50

// Message formats. Each takes the record name (or id when the name is empty).
const (
	MsgFmtCreatedLocal   = "%s was saved locally; the warehouse service could not be reached"
	MsgFmtUpdateRetained = "Changes to %s were kept locally; the warehouse service rejected the update"
	MsgFmtDeleteAborted  = "%s was not deleted; the warehouse service rejected the request"
	MsgFmtTransferDone   = "Moved %d units to warehouse %s"
	MsgFmtTransferFailed = "Transfer of %d units was kept locally; the warehouse service reported: %s"
	MsgFmtRefreshFailed  = "Could not refresh %s; showing the last known state"
	MsgFmtAtRisk         = "Warehouse %s is at %.0f%% utilization"
)
