package http

const (
	Ping    = "Ping"
	Version = "Version"
	Compare = "Compare"

	// Served alongside the API, but not part of it.
	Metrics = "Metrics"
)
