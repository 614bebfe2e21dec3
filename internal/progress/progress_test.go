package progress

import (
	"testing"
	"time"
)

func TestMilestones_DeduplicatesWithinRun(t *testing.T) {
	now := time.Now()
	events := []Event{
		{RunID: "r1", Stage: StageLookup, Message: "searching", At: now},
		{RunID: "r1", Stage: StageLookup, Message: "still searching", At: now},
		{RunID: "r1", Stage: StageExtract, Message: "normalizing", At: now},
		{RunID: "r1", Stage: StageExtract, Message: "normalizing again", At: now},
		{RunID: "r1", Stage: StageDone, Message: "complete", At: now},
	}

	got := Milestones(events)
	if len(got) != 3 {
		t.Fatalf("Expected 3 milestones, got %d", len(got))
	}
	if got[0].Stage != StageLookup || got[1].Stage != StageExtract || got[2].Stage != StageDone {
		t.Errorf("Unexpected milestone order: %+v", got)
	}
	// First occurrence wins.
	if got[0].Message != "searching" {
		t.Errorf("Expected first event kept, got %q", got[0].Message)
	}
}

func TestMilestones_SeparateRuns(t *testing.T) {
	events := []Event{
		{RunID: "r1", Stage: StageLookup},
		{RunID: "r2", Stage: StageLookup},
	}

	got := Milestones(events)
	if len(got) != 2 {
		t.Errorf("Expected per-run deduplication, got %d events", len(got))
	}
}

func TestSinks_FanOut(t *testing.T) {
	var a, b []Event
	sinks := Sinks{
		Func(func(e Event) { a = append(a, e) }),
		Func(func(e Event) { b = append(b, e) }),
	}

	sinks.Publish(Event{RunID: "r1", Stage: StageFill})

	if len(a) != 1 || len(b) != 1 {
		t.Errorf("Expected both sinks to receive the event, got %d and %d", len(a), len(b))
	}
}
