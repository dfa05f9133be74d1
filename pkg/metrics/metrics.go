package metrics

/*
Labels and so on for metrics used in graphdiff.
*/

const (
	LabelMethod  = "method"
	LabelSuccess = "success"

	// Labels for comparison metrics
	LabelChangeType = "change_type"

	// Labels for HTTP metrics
	LabelRoute      = "route"
	LabelStatusCode = "status_code"
)
