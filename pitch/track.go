package pitch

// TrackPoint is a single history sample: where a track's centroid was on a given frame.
type TrackPoint struct {
	Frame int
	X     float64
	Y     float64
}

// Track is a persistent identity assigned to a sequence of detections
// believed to be the same physical player. Tracks are owned exclusively by
// the tracker that minted them; callers get copies of the mutable parts.
type Track struct {
	id           int64
	lastCentroid Point
	history      []TrackPoint
	lastSeen     int
	noMatchTimes int
	active       bool
}

func newTrack(id int64, centroid Point, frameIdx int) *Track {
	track := Track{
		id:           id,
		lastCentroid: centroid,
		history:      make([]TrackPoint, 0, 150),
		lastSeen:     frameIdx,
		active:       true,
	}
	track.history = append(track.history, TrackPoint{Frame: frameIdx, X: centroid.X, Y: centroid.Y})
	return &track
}

func (track *Track) update(centroid Point, frameIdx int) {
	track.lastCentroid = centroid
	track.lastSeen = frameIdx
	track.noMatchTimes = 0
	track.active = true
	track.history = append(track.history, TrackPoint{Frame: frameIdx, X: centroid.X, Y: centroid.Y})
}

// ID returns the track's identifier
func (track *Track) ID() int64 {
	return track.id
}

// LastCentroid returns the most recently matched centroid
func (track *Track) LastCentroid() Point {
	return track.lastCentroid
}

// LastSeen returns the index of the last frame the track was matched on
func (track *Track) LastSeen() int {
	return track.lastSeen
}

// Active reports whether the track still participates in matching
func (track *Track) Active() bool {
	return track.active
}

// NoMatchTimes returns how many consecutive frames the track went unmatched
func (track *Track) NoMatchTimes() int {
	return track.noMatchTimes
}

// History returns a copy of the track's append-only position log
func (track *Track) History() []TrackPoint {
	out := make([]TrackPoint, len(track.history))
	copy(out, track.history)
	return out
}
