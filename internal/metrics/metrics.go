// Package metrics defines the event sink the pipeline reports stage
// progress to. The pipeline is the producer; sinks are pluggable so a
// deployment can log events, export them to Prometheus, or both.
package metrics

import "time"

// Event is one named pipeline occurrence: a stage starting, completing, or
// failing. Duration is zero for instantaneous events. Metadata carries
// small summary values (counts, artifact paths) and must not hold record
// payloads.
type Event struct {
	Name       string
	Stage      string
	CampaignID string
	Duration   time.Duration
	Metadata   map[string]any
}

// Sink receives pipeline events. Implementations must be safe for
// concurrent use.
type Sink interface {
	Event(e Event)
}

// NopSink discards all events.
type NopSink struct{}

// Event implements Sink.
func (NopSink) Event(Event) {}

// MultiSink fans each event out to every member sink.
type MultiSink []Sink

// Event implements Sink.
func (m MultiSink) Event(e Event) {
	for _, s := range m {
		s.Event(e)
	}
}
