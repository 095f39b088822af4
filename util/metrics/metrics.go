package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegisterPrometheusMetrics register all prometheus metrics with the global
// metrics handler.
func RegisterPrometheusMetrics() {
	prometheus.Register(RPCRequestTimeSeconds)
	prometheus.Register(RPCRetries)
	prometheus.Register(RPCErrors)
	prometheus.Register(BalanceQueryTimeSeconds)
	prometheus.Register(LatestBlockGauge)
}

// Prometheus metric names broken out for reuse.
const (
	RPCRequestTimeName   = "rpc_request_time_sec"
	RPCRetriesName       = "rpc_retries_total"
	RPCErrorsName        = "rpc_errors_total"
	BalanceQueryTimeName = "balance_query_time_sec"
	LatestBlockGaugeName = "latest_block"
	subsystem            = "evmquery"
	methodLabel          = "method"
	kindLabel            = "kind"
	queryLabel           = "query"
)

// Initialize the prometheus objects.
var (
	// AllMetricNames is a reference for all the custom metric names.
	AllMetricNames = []string{
		RPCRequestTimeName,
		RPCRetriesName,
		RPCErrorsName,
		BalanceQueryTimeName,
		LatestBlockGaugeName}

	RPCRequestTimeSeconds = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      RPCRequestTimeName,
			Help:      "JSON-RPC request time in seconds, including retries.",
		}, []string{methodLabel})

	RPCRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      RPCRetriesName,
			Help:      "JSON-RPC attempts retried after a transport error.",
		}, []string{methodLabel})

	RPCErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      RPCErrorsName,
			Help:      "JSON-RPC calls that failed, by error kind.",
		}, []string{methodLabel, kindLabel})

	BalanceQueryTimeSeconds = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      BalanceQueryTimeName,
			Help:      "Balance query time in seconds.",
		}, []string{queryLabel})

	LatestBlockGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Subsystem: subsystem,
			Name:      LatestBlockGaugeName,
			Help:      "The most recent block number reported by the node.",
		})
)
