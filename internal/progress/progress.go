// Package progress carries structured pipeline progress events. The
// presentation layer subscribes to an explicit sink instead of intercepting
// a shared output stream, and milestone filtering is a pure function over
// the event sequence.
package progress

import "time"

// Stage identifies a pipeline phase.
type Stage string

const (
	StageLookup  Stage = "lookup"
	StageExtract Stage = "extract"
	StageMap     Stage = "map"
	StageFill    Stage = "fill"
	StageDone    Stage = "done"
	StageFailed  Stage = "failed"
)

// Event is one progress report from a pipeline run.
type Event struct {
	RunID   string    `json:"run_id"`
	Patient string    `json:"patient"`
	Stage   Stage     `json:"stage"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Sink receives progress events. Publish must not block the pipeline.
type Sink interface {
	Publish(Event)
}

// Discard is a Sink that drops every event.
type Discard struct{}

// Publish drops the event.
func (Discard) Publish(Event) {}

// Func adapts a function to the Sink interface.
type Func func(Event)

// Publish calls the wrapped function.
func (f Func) Publish(e Event) { f(e) }

// Sinks fans events out to multiple sinks.
type Sinks []Sink

// Publish forwards the event to every sink.
func (s Sinks) Publish(e Event) {
	for _, sink := range s {
		sink.Publish(e)
	}
}

// Milestones returns the first event of each stage per run, in order. A
// stage reported repeatedly within one run appears once; this is the
// de-duplication the display layer applies to a chatty event stream.
func Milestones(events []Event) []Event {
	type key struct {
		run   string
		stage Stage
	}
	seen := make(map[key]bool)

	var out []Event
	for _, e := range events {
		k := key{run: e.RunID, stage: e.Stage}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}
