package pitch

import (
	"testing"
)

func TestCentroidTrackerFirstFrame(t *testing.T) {
	tracker := NewCentroidTrackerDefault()
	detections := []Box{
		NewBox(100, 100, 140, 180),
		NewBox(400, 200, 440, 280),
		NewBox(700, 300, 740, 380),
	}
	results := tracker.Update(detections, 0)
	if len(results) != len(detections) {
		t.Fatalf("Expected %d results, got %d", len(detections), len(results))
	}
	seen := make(map[int64]struct{})
	for i, tb := range results {
		if tb.ID <= 0 {
			t.Errorf("Track id must be positive, got %d", tb.ID)
		}
		if _, ok := seen[tb.ID]; ok {
			t.Errorf("Duplicate track id %d within one frame", tb.ID)
		}
		seen[tb.ID] = struct{}{}
		if tb.Box != detections[i] {
			t.Errorf("Result %d box mismatch", i)
		}
	}
	if tracker.Len() != 3 {
		t.Errorf("Expected 3 tracks, got %d", tracker.Len())
	}
}

func TestCentroidTrackerStableIdentity(t *testing.T) {
	tracker := NewCentroidTracker(TrackerConfig{MaxDistance: 60.0, MaxNoMatch: 75})

	frame0 := []Box{NewBox(100, 100, 140, 180), NewBox(400, 200, 440, 280)}
	frame1 := []Box{NewBox(105, 102, 145, 182), NewBox(404, 203, 444, 283)}

	results0 := tracker.Update(frame0, 0)
	results1 := tracker.Update(frame1, 1)

	if results0[0].ID != results1[0].ID {
		t.Errorf("First player changed identity: %d -> %d", results0[0].ID, results1[0].ID)
	}
	if results0[1].ID != results1[1].ID {
		t.Errorf("Second player changed identity: %d -> %d", results0[1].ID, results1[1].ID)
	}
	if tracker.Len() != 2 {
		t.Errorf("Expected 2 tracks, got %d", tracker.Len())
	}

	history, ok := tracker.History(results0[0].ID)
	if !ok {
		t.Fatal("History missing for matched track")
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 history points, got %d", len(history))
	}
	if history[0].Frame != 0 || history[1].Frame != 1 {
		t.Errorf("History frame indices wrong: %+v", history)
	}
}

func TestCentroidTrackerNewIDBeyondGate(t *testing.T) {
	tracker := NewCentroidTracker(TrackerConfig{MaxDistance: 60.0, MaxNoMatch: 75})
	results0 := tracker.Update([]Box{NewBox(100, 100, 140, 180)}, 0)
	// Far away from any stored centroid: must mint a strictly greater id
	results1 := tracker.Update([]Box{NewBox(600, 600, 640, 680)}, 1)
	if results1[0].ID <= results0[0].ID {
		t.Errorf("New id %d not strictly greater than %d", results1[0].ID, results0[0].ID)
	}
	if tracker.Len() != 2 {
		t.Errorf("Expected 2 tracks, got %d", tracker.Len())
	}
}

func TestCentroidTrackerOneToOneAssignment(t *testing.T) {
	tracker := NewCentroidTracker(TrackerConfig{MaxDistance: 60.0, MaxNoMatch: 75})
	tracker.Update([]Box{NewBox(100, 100, 140, 180)}, 0)

	// Two detections both within the gate of the single stored track.
	// Exactly one may claim it (the closer one); the other mints a new id.
	results := tracker.Update([]Box{
		NewBox(130, 100, 170, 180), // centroid 30 px away
		NewBox(110, 100, 150, 180), // centroid 10 px away
	}, 1)

	if results[0].ID == results[1].ID {
		t.Fatalf("Both detections matched the same track id %d", results[0].ID)
	}
	if results[1].ID != 1 {
		t.Errorf("Closer detection should keep the existing id 1, got %d", results[1].ID)
	}
	if results[0].ID != 2 {
		t.Errorf("Farther detection should mint id 2, got %d", results[0].ID)
	}
}

func TestCentroidTrackerEviction(t *testing.T) {
	tracker := NewCentroidTracker(TrackerConfig{MaxDistance: 60.0, MaxNoMatch: 3})
	results := tracker.Update([]Box{NewBox(100, 100, 140, 180)}, 0)
	id := results[0].ID

	// Track unmatched for more than MaxNoMatch frames leaves the active pool
	for frameIdx := 1; frameIdx <= 4; frameIdx++ {
		tracker.Update(nil, frameIdx)
	}
	if tracker.ActiveLen() != 0 {
		t.Errorf("Expected 0 active tracks, got %d", tracker.ActiveLen())
	}
	// History stays readable after deactivation
	history, ok := tracker.History(id)
	if !ok || len(history) != 1 {
		t.Errorf("Evicted track history lost: ok=%v len=%d", ok, len(history))
	}

	// A reappearing detection near the dead track must not resurrect its id
	reborn := tracker.Update([]Box{NewBox(100, 100, 140, 180)}, 5)
	if reborn[0].ID == id {
		t.Errorf("Deactivated id %d was reused for a new detection", id)
	}
}

func TestCentroidTrackerSpread(t *testing.T) {
	bboxesIterations := [][]Box{
		// Each nested vector represents set of bounding boxes on a single frame
		{NewBox(378.0, 147.0, 551.0, 390.0)},
		{NewBox(374.0, 147.0, 554.0, 400.0)},
		{NewBox(375.0, 154.0, 553.0, 410.0)},
		{NewBox(376.0, 162.0, 553.0, 429.0)},
		{NewBox(375.0, 166.0, 553.0, 434.0)},
		{NewBox(375.0, 177.0, 561.0, 443.0)},
		{NewBox(370.0, 185.0, 567.0, 458.0)},
		{NewBox(363.0, 209.0, 566.0, 473.0)},
		{NewBox(70.0, 14.0, 297.0, 268.0), NewBox(364.0, 214.0, 564.0, 476.0)},
		{NewBox(365.0, 218.0, 570.0, 481.0)},
		{NewBox(67.0, 23.0, 303.0, 269.0), NewBox(366.0, 231.0, 575.0, 491.0)},
		{NewBox(73.0, 18.0, 300.0, 282.0), NewBox(370.0, 238.0, 569.0, 497.0)},
		{NewBox(67.0, 16.0, 296.0, 287.0), NewBox(370.0, 250.0, 565.0, 514.0)},
	}

	tracker := NewCentroidTracker(TrackerConfig{MaxDistance: 60.0, MaxNoMatch: 75})
	for frameIdx, iteration := range bboxesIterations {
		results := tracker.Update(iteration, frameIdx)
		if len(results) != len(iteration) {
			t.Fatalf("Frame %d: expected %d results, got %d", frameIdx, len(iteration), len(results))
		}
	}

	correctNumOfObjects := 2
	numOfObjects := tracker.Len()
	if numOfObjects != correctNumOfObjects {
		t.Errorf("incorrect number of objects: %d, expected: %d", numOfObjects, correctNumOfObjects)
	}
}

func TestCentroidTrackerEmptyInput(t *testing.T) {
	tracker := NewCentroidTrackerDefault()
	results := tracker.Update(nil, 0)
	if len(results) != 0 {
		t.Errorf("Expected no results for empty input, got %d", len(results))
	}
	if tracker.Len() != 0 {
		t.Errorf("Expected no tracks for empty input, got %d", tracker.Len())
	}
}
