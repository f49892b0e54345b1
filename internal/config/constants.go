package config

// Default configuration values
const (
	// DefaultAPIBaseURL matches the development deployment of the remote
	// warehouse service.
	DefaultAPIBaseURL = "http://localhost:8080"

	// DefaultPort is the port the console's own HTTP facade listens on.
	DefaultPort = 8090

	DefaultHTTPTimeoutSeconds = 10

	DefaultCapacityCacheSize       = 256
	DefaultCapacityCacheTTLSeconds = 30
)
