package logkey

// Common keys for structured log attributes so grepping logs stays predictable.
const (
	TraceID = "TRACE ID"
	ERROR   = "ERROR"
	UserID  = "USER ID"
	OrderID = "ORDER ID"
)
