package store

// LocalIDPrefix marks provisional ids assigned before (or instead of) a
// server-assigned id. A row keeping this prefix is a local-only record.
const LocalIDPrefix = "local-"

// Log message constants
const (
	LogMsgCreateFellBackLocal = "Create call failed, keeping row as local-only record"
	LogMsgUpdateRetained      = "Update call failed, optimistic merge retained"
	LogMsgDeleteAborted       = "Delete call failed, local row retained"
	LogMsgRefreshFailed       = "Refresh failed, keeping previous collection"
	LogMsgReconcileSkipped    = "Reconcile skipped, row no longer present"
)
