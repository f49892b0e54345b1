package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names (the console's own facade)
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Gateway metric names (calls to the remote warehouse service)
const (
	MetricNameGatewayRequestsTotal   = "gateway_requests_total"
	MetricNameGatewayRequestDuration = "gateway_request_duration_seconds"
	MetricNameCapacityCacheHits      = "capacity_cache_hits_total"
	MetricNameCapacityCacheMisses    = "capacity_cache_misses_total"
)

// Business metric names
const (
	MetricNameTransfersCommitted     = "transfers_committed_total"
	MetricNameTransfersRejected      = "transfers_rejected_total"
	MetricNameTransfersFailedRemote  = "transfers_failed_remote_total"
	MetricNameOptimisticRetained     = "optimistic_mutations_retained_total"
	MetricNameLocalOnlyRecords       = "local_only_records_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

const (
	HelpTextGatewayRequestsTotal   = "Total number of calls to the remote warehouse service"
	HelpTextGatewayRequestDuration = "Remote warehouse service call latency in seconds"
	HelpTextCapacityCacheHits      = "Total number of capacity probe cache hits"
	HelpTextCapacityCacheMisses    = "Total number of capacity probe cache misses"
)

const (
	HelpTextTransfersCommitted    = "Total number of transfers committed"
	HelpTextTransfersRejected     = "Total number of transfers rejected by validation"
	HelpTextTransfersFailedRemote = "Total number of transfers whose remote leg failed"
	HelpTextOptimisticRetained    = "Total number of optimistic mutations retained after a remote failure"
	HelpTextLocalOnlyRecords      = "Total number of rows kept as local-only after a failed create"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelReason    = "reason"
	LabelKind      = "kind"
)

// Latency histogram buckets in seconds
var (
	HTTPLatencyBuckets    = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
	GatewayLatencyBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
)
