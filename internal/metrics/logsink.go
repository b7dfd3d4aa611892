package metrics

import "go.uber.org/zap"

// LogSink writes every event to the global zap logger as a structured
// entry. It is the default sink.
type LogSink struct{}

// Event implements Sink.
func (LogSink) Event(e Event) {
	fields := []zap.Field{
		zap.String("stage", e.Stage),
		zap.String("campaign_id", e.CampaignID),
	}
	if e.Duration > 0 {
		fields = append(fields, zap.Int64("duration_ms", e.Duration.Milliseconds()))
	}
	for k, v := range e.Metadata {
		fields = append(fields, zap.Any(k, v))
	}
	zap.L().Info("pipeline event: "+e.Name, fields...)
}
