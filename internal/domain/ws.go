package domain

const (
	WsTypeInit    = "init"
	WsTypeMetrics = "metrics"
	WsTypeSeries  = "series"
)

// WsEnvelope is the frame sent to streaming clients: a full snapshot
// with series on connect, thereafter metrics-only frames with a series
// frame every fifth tick.
type WsEnvelope struct {
	Type string   `json:"type"`
	Data Snapshot `json:"data"`
}
