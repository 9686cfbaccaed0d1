package pitch

import (
	"testing"
)

func TestKalmanTrackerBasicMatching(t *testing.T) {
	tracker := NewKalmanTracker(TrackerConfig{MaxDistance: 60.0, MaxNoMatch: 5}, 1.0/25.0, MatchingAlgorithmGreedy)

	frame1 := []Box{
		NewBox(10, 20, 40, 60),
		NewBox(100, 200, 130, 240),
	}
	results1, err := tracker.Update(frame1, 0)
	if err != nil {
		t.Fatalf("Frame 1 failed: %v", err)
	}
	if tracker.Len() != 2 {
		t.Errorf("Expected 2 objects after frame 1, got %d", tracker.Len())
	}

	// Slightly moved detections (should match)
	frame2 := []Box{
		NewBox(12, 22, 42, 62),
		NewBox(102, 202, 132, 242),
	}
	results2, err := tracker.Update(frame2, 1)
	if err != nil {
		t.Fatalf("Frame 2 failed: %v", err)
	}
	if tracker.Len() != 2 {
		t.Errorf("Expected 2 objects after frame 2, got %d", tracker.Len())
	}
	if results1[0].ID != results2[0].ID || results1[1].ID != results2[1].ID {
		t.Errorf("Identities not stable: %v -> %v", results1, results2)
	}

	// Verify tracks are being updated
	for _, tb := range results2 {
		history, ok := tracker.History(tb.ID)
		if !ok {
			t.Fatalf("History missing for track %d", tb.ID)
		}
		if len(history) < 2 {
			t.Errorf("Track history should have at least 2 points, got %d", len(history))
		}
	}
}

func TestKalmanTrackerHungarianMatching(t *testing.T) {
	tracker := NewKalmanTracker(TrackerConfig{MaxDistance: 60.0, MaxNoMatch: 5}, 1.0/25.0, MatchingAlgorithmHungarian)

	sequences := [][]Box{
		{NewBox(10, 20, 40, 60), NewBox(100, 200, 130, 240), NewBox(300, 100, 330, 140)},
		{NewBox(13, 22, 43, 62), NewBox(103, 203, 133, 243), NewBox(303, 102, 333, 142)},
		{NewBox(16, 24, 46, 64), NewBox(106, 206, 136, 246), NewBox(306, 104, 336, 144)},
	}
	for frameIdx, frame := range sequences {
		results, err := tracker.Update(frame, frameIdx)
		if err != nil {
			t.Fatalf("Frame %d failed: %v", frameIdx, err)
		}
		if len(results) != len(frame) {
			t.Fatalf("Frame %d: expected %d results, got %d", frameIdx, len(frame), len(results))
		}
	}
	if tracker.Len() != 3 {
		t.Errorf("Expected 3 objects, got %d", tracker.Len())
	}
}

func TestKalmanTrackerEviction(t *testing.T) {
	tracker := NewKalmanTracker(TrackerConfig{MaxDistance: 60.0, MaxNoMatch: 2}, 1.0/25.0, MatchingAlgorithmGreedy)
	results, err := tracker.Update([]Box{NewBox(10, 20, 40, 60)}, 0)
	if err != nil {
		t.Fatal(err)
	}
	id := results[0].ID
	for frameIdx := 1; frameIdx <= 3; frameIdx++ {
		if _, err := tracker.Update(nil, frameIdx); err != nil {
			t.Fatal(err)
		}
	}
	if tracker.ActiveLen() != 0 {
		t.Errorf("Expected 0 active tracks, got %d", tracker.ActiveLen())
	}
	if _, ok := tracker.History(id); !ok {
		t.Error("History must stay readable after deactivation")
	}
}

func TestKalmanTrackerFarDetectionMintsNewID(t *testing.T) {
	tracker := NewKalmanTracker(TrackerConfig{MaxDistance: 60.0, MaxNoMatch: 5}, 1.0/25.0, MatchingAlgorithmHungarian)
	results0, err := tracker.Update([]Box{NewBox(10, 20, 40, 60)}, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Globally optimal assignment would still pair these, the distance gate rejects it
	results1, err := tracker.Update([]Box{NewBox(500, 500, 530, 540)}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if results1[0].ID == results0[0].ID {
		t.Error("Implausible pairing must mint a new identity")
	}
	if tracker.Len() != 2 {
		t.Errorf("Expected 2 tracks, got %d", tracker.Len())
	}
}
