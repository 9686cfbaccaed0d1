package pitch

import (
	"sort"
)

// TrackerConfig holds centroid tracker parameters.
type TrackerConfig struct {
	// Max distance (pixels) between a detection centroid and a stored track centroid to be considered the same object. Default is 60.0
	MaxDistance float64
	// Max number of consecutive frames a track may go unmatched before it leaves the active pool. Default is 75
	MaxNoMatch int
}

// DefaultTrackerConfig returns tracker parameters tuned for broadcast football footage.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		MaxDistance: 60.0,
		MaxNoMatch:  75,
	}
}

// TrackedBox pairs a detection box with the track identity assigned to it.
type TrackedBox struct {
	ID  int64
	Box Box
}

// CentroidTracker is a naive implementation of Multi-object tracker (MOT)
// matching detections to tracks by nearest centroid distance.
//
// Matching is one-to-one and deterministic: all (detection, track, distance)
// candidates below the distance gate are collected against the centroids
// stored at the start of the frame, then resolved greedily by ascending
// distance with a claimed-track set before any update commits. A detection
// that cannot claim a track gets a freshly minted identity.
//
// Identifiers are positive, strictly increasing and never reused within a
// session. Tracks that go unmatched for more than MaxNoMatch frames are
// deactivated but their history stays readable.
type CentroidTracker struct {
	// Main storage. Holds both active and deactivated tracks
	tracks map[int64]*Track
	nextID int64
	cfg    TrackerConfig
}

// NewCentroidTrackerDefault creates default instance of CentroidTracker
func NewCentroidTrackerDefault() *CentroidTracker {
	return NewCentroidTracker(DefaultTrackerConfig())
}

// NewCentroidTracker creates new instance of CentroidTracker.
// Non-positive config values fall back to defaults.
func NewCentroidTracker(cfg TrackerConfig) *CentroidTracker {
	def := DefaultTrackerConfig()
	if cfg.MaxDistance <= 0 {
		cfg.MaxDistance = def.MaxDistance
	}
	if cfg.MaxNoMatch <= 0 {
		cfg.MaxNoMatch = def.MaxNoMatch
	}
	return &CentroidTracker{
		tracks: make(map[int64]*Track),
		nextID: 0,
		cfg:    cfg,
	}
}

// Update matches the frame's detections to existing tracks and returns one
// (track id, box) pair per detection, in input order. Boxes are assumed
// well-formed; the caller filters degenerate geometry.
func (tracker *CentroidTracker) Update(detections []Box, frameIdx int) []TrackedBox {
	results := make([]TrackedBox, len(detections))
	if len(detections) == 0 {
		tracker.ageTracks(nil)
		return results
	}

	// Snapshot of active centroids at frame start. Matching is simultaneous:
	// every detection is measured against the same set of stored centroids.
	activeIDs := make([]int64, 0, len(tracker.tracks))
	for id, track := range tracker.tracks {
		if track.active {
			activeIDs = append(activeIDs, id)
		}
	}
	sort.Slice(activeIDs, func(i, j int) bool { return activeIDs[i] < activeIDs[j] })

	assignments := make([]int64, len(detections))

	if len(activeIDs) > 0 {
		priorityQueue := make(candidateHeap, 0, len(detections))
		for i, det := range detections {
			center := det.Center()
			for _, trackID := range activeIDs {
				dist := euclideanDistance(center, tracker.tracks[trackID].lastCentroid)
				if dist > tracker.cfg.MaxDistance {
					continue
				}
				priorityQueue.Push(&candidate{
					detIdx:   i,
					trackID:  trackID,
					distance: dist,
				})
			}
		}

		// We need to prevent double update of tracks.
		// Since we are using priority queue with min-heap then we guarantee
		// that each track is claimed by the closest unassigned detection only once.
		claimed := make(map[int64]struct{})
		for priorityQueue.Len() > 0 {
			cand := priorityQueue.Pop()
			if assignments[cand.detIdx] != 0 {
				continue
			}
			if _, ok := claimed[cand.trackID]; ok {
				continue
			}
			assignments[cand.detIdx] = cand.trackID
			claimed[cand.trackID] = struct{}{}
		}
	}

	matched := make(map[int64]struct{}, len(detections))
	for i, det := range detections {
		center := det.Center()
		trackID := assignments[i]
		if trackID == 0 {
			trackID = tracker.mint()
			tracker.tracks[trackID] = newTrack(trackID, center, frameIdx)
		} else {
			tracker.tracks[trackID].update(center, frameIdx)
		}
		matched[trackID] = struct{}{}
		results[i] = TrackedBox{ID: trackID, Box: det}
	}

	tracker.ageTracks(matched)
	return results
}

func (tracker *CentroidTracker) mint() int64 {
	tracker.nextID++
	return tracker.nextID
}

// ageTracks increments no-match counters of active tracks that were not
// matched this frame and deactivates those gone for too long.
func (tracker *CentroidTracker) ageTracks(matched map[int64]struct{}) {
	for id, track := range tracker.tracks {
		if !track.active {
			continue
		}
		if _, ok := matched[id]; ok {
			continue
		}
		track.noMatchTimes++
		if track.noMatchTimes > tracker.cfg.MaxNoMatch {
			track.active = false
		}
	}
}

// Len returns the total number of tracks ever minted in this session
func (tracker *CentroidTracker) Len() int {
	return len(tracker.tracks)
}

// ActiveLen returns the number of tracks still participating in matching
func (tracker *CentroidTracker) ActiveLen() int {
	n := 0
	for _, track := range tracker.tracks {
		if track.active {
			n++
		}
	}
	return n
}

// History returns a copy of the position log of a single track
func (tracker *CentroidTracker) History(id int64) ([]TrackPoint, bool) {
	track, ok := tracker.tracks[id]
	if !ok {
		return nil, false
	}
	return track.History(), true
}

// Histories returns a copy of every track's position log, deactivated tracks included
func (tracker *CentroidTracker) Histories() map[int64][]TrackPoint {
	out := make(map[int64][]TrackPoint, len(tracker.tracks))
	for id, track := range tracker.tracks {
		out[id] = track.History()
	}
	return out
}

// Track returns a read-only view of a single track record
func (tracker *CentroidTracker) Track(id int64) (*Track, bool) {
	track, ok := tracker.tracks[id]
	return track, ok
}
