package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "podscout_pipeline_events_total",
		Help: "Total number of pipeline events by stage and outcome",
	}, []string{"stage", "event"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "podscout_stage_duration_seconds",
		Help:    "Duration of pipeline stages",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	}, []string{"stage"})

	stageRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "podscout_stage_records",
		Help: "Record count produced by the most recent run of each stage",
	}, []string{"stage"})
)

// PromSink exports pipeline events as Prometheus metrics. Event names are
// reduced to their outcome suffix ("started", "completed", "failed") so the
// label set stays bounded; campaign ids never become labels.
type PromSink struct{}

// Event implements Sink.
func (PromSink) Event(e Event) {
	eventsTotal.WithLabelValues(e.Stage, outcomeOf(e.Name)).Inc()
	if e.Duration > 0 {
		stageDuration.WithLabelValues(e.Stage).Observe(e.Duration.Seconds())
	}
	if n, ok := recordCount(e.Metadata); ok {
		stageRecords.WithLabelValues(e.Stage).Set(float64(n))
	}
}

func outcomeOf(name string) string {
	if i := strings.LastIndex(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func recordCount(md map[string]any) (int, bool) {
	v, ok := md["records"]
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}
