package server

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
)

// MaxRequestBytes bounds incoming request bodies.
const MaxRequestBytes = 1 << 20 // 1MB
