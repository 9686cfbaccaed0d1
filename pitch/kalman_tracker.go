package pitch

import (
	"sort"

	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/arthurkushman/go-hungarian"
	"github.com/pkg/errors"
)

// MatchingAlgorithm is for algorithm type for matching detections to tracks
type MatchingAlgorithm uint16

const (
	// MatchingAlgorithmGreedy uses a greedy algorithm for faster but potentially suboptimal assignment
	MatchingAlgorithmGreedy MatchingAlgorithm = iota
	// MatchingAlgorithmHungarian uses the Hungarian algorithm (Kuhn-Munkres) for optimal assignment
	MatchingAlgorithmHungarian
)

// kalmanTrack is a tracked player using a 2D Kalman filter for its center position.
type kalmanTrack struct {
	id              int64
	currentBBox     Box
	currentCenter   Point
	predictedCenter Point
	history         []TrackPoint
	noMatchTimes    int
	active          bool
	filter          *kalman_filter.Kalman2D
}

func newKalmanTrack(id int64, box Box, frameIdx int, dt float64) *kalmanTrack {
	center := box.Center()

	/* Kalman filter props */
	ux := 1.0
	uy := 1.0
	stdDevA := 2.0
	stdDevMx := 0.1
	stdDevMy := 0.1
	kf := kalman_filter.NewKalman2D(dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(center.X, center.Y))
	track := kalmanTrack{
		id:              id,
		currentBBox:     box,
		currentCenter:   center,
		predictedCenter: center,
		history:         make([]TrackPoint, 0, 150),
		active:          true,
		filter:          kf,
	}
	track.history = append(track.history, TrackPoint{Frame: frameIdx, X: center.X, Y: center.Y})
	return &track
}

func (track *kalmanTrack) predictNextPosition() {
	track.filter.Predict()
	stateX, stateY := track.filter.GetState()
	track.predictedCenter = Point{X: stateX, Y: stateY}
}

func (track *kalmanTrack) predictedBBox() Box {
	halfW := track.currentBBox.Width() / 2.0
	halfH := track.currentBBox.Height() / 2.0
	return Box{
		X1: track.predictedCenter.X - halfW,
		Y1: track.predictedCenter.Y - halfH,
		X2: track.predictedCenter.X + halfW,
		Y2: track.predictedCenter.Y + halfH,
	}
}

func (track *kalmanTrack) update(box Box, frameIdx int) error {
	center := box.Center()
	// Smooth center via Kalman filter
	err := track.filter.Update(center.X, center.Y)
	if err != nil {
		return errors.Wrap(err, "Can't update track filter")
	}
	stateX, stateY := track.filter.GetState()
	diffX := stateX - center.X
	diffY := stateY - center.Y
	track.currentCenter = Point{X: stateX, Y: stateY}
	track.currentBBox = Box{
		X1: box.X1 + diffX,
		Y1: box.Y1 + diffY,
		X2: box.X2 + diffX,
		Y2: box.Y2 + diffY,
	}
	track.noMatchTimes = 0
	track.active = true
	track.history = append(track.history, TrackPoint{Frame: frameIdx, X: stateX, Y: stateY})
	return nil
}

// KalmanTracker is an alternative multi-object tracker with Kalman-filtered
// track state and a selectable one-to-one assignment step. Matching works on
// a hybrid score: IoU with the predicted box when boxes overlap, decayed
// center distance otherwise. It shares the identity and history contract of
// CentroidTracker.
type KalmanTracker struct {
	cfg       TrackerConfig
	dt        float64
	algorithm MatchingAlgorithm
	tracks    map[int64]*kalmanTrack
	nextID    int64
}

// NewKalmanTracker creates new instance of KalmanTracker.
// dt is the filter time step (1/fps); non-positive values fall back to 1.0.
func NewKalmanTracker(cfg TrackerConfig, dt float64, algorithm MatchingAlgorithm) *KalmanTracker {
	def := DefaultTrackerConfig()
	if cfg.MaxDistance <= 0 {
		cfg.MaxDistance = def.MaxDistance
	}
	if cfg.MaxNoMatch <= 0 {
		cfg.MaxNoMatch = def.MaxNoMatch
	}
	if dt <= 0 {
		dt = 1.0
	}
	return &KalmanTracker{
		cfg:       cfg,
		dt:        dt,
		algorithm: algorithm,
		tracks:    make(map[int64]*kalmanTrack),
	}
}

// Update matches the frame's detections to existing tracks and returns one
// (track id, box) pair per detection, in input order.
func (tracker *KalmanTracker) Update(detections []Box, frameIdx int) ([]TrackedBox, error) {
	results := make([]TrackedBox, len(detections))

	activeIDs := make([]int64, 0, len(tracker.tracks))
	for id, track := range tracker.tracks {
		if track.active {
			track.predictNextPosition()
			activeIDs = append(activeIDs, id)
		}
	}
	sort.Slice(activeIDs, func(i, j int) bool { return activeIDs[i] < activeIDs[j] })

	assignments := make([]int64, len(detections))

	if len(activeIDs) > 0 && len(detections) > 0 {
		scores := tracker.scoreMatrix(activeIDs, detections)
		var matches [][2]int
		switch tracker.algorithm {
		case MatchingAlgorithmHungarian:
			matches = solveHungarian(scores, len(activeIDs), len(detections))
		default:
			matches = solveGreedy(scores)
		}
		for _, match := range matches {
			trackID := activeIDs[match[0]]
			detIdx := match[1]
			// Distance gate on the raw prediction, so a globally optimal but
			// implausible pairing still mints a new identity
			dist := euclideanDistance(tracker.tracks[trackID].predictedCenter, detections[detIdx].Center())
			if dist > tracker.cfg.MaxDistance {
				continue
			}
			assignments[detIdx] = trackID
		}
	}

	matched := make(map[int64]struct{}, len(detections))
	for i, det := range detections {
		trackID := assignments[i]
		if trackID == 0 {
			trackID = tracker.mint()
			tracker.tracks[trackID] = newKalmanTrack(trackID, det, frameIdx, tracker.dt)
		} else {
			if err := tracker.tracks[trackID].update(det, frameIdx); err != nil {
				return nil, errors.Wrapf(err, "Can't update track with id %d", trackID)
			}
		}
		matched[trackID] = struct{}{}
		results[i] = TrackedBox{ID: trackID, Box: det}
	}

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
	return results, nil
}

func (tracker *KalmanTracker) mint() int64 {
	tracker.nextID++
	return tracker.nextID
}

// scoreMatrix builds rows=tracks, cols=detections similarity scores.
// Favor IoU when boxes overlap, fall back to decayed center distance.
func (tracker *KalmanTracker) scoreMatrix(activeIDs []int64, detections []Box) [][]float64 {
	scores := make([][]float64, len(activeIDs))
	for i, trackID := range activeIDs {
		track := tracker.tracks[trackID]
		predicted := track.predictedBBox()
		row := make([]float64, len(detections))
		for j, det := range detections {
			iouValue := IoU(det, predicted)
			distance := euclideanDistance(track.predictedCenter, det.Center())
			distanceScore := 1.0 / (1.0 + distance*0.01)
			if iouValue > 0.05 {
				row[j] = iouValue*0.8 + distanceScore*0.2
			} else {
				row[j] = distanceScore * 0.5
			}
		}
		scores[i] = row
	}
	return scores
}

// solveHungarian resolves the assignment with the Kuhn-Munkres algorithm.
// Rectangular matrices are padded to square with zero scores.
func solveHungarian(scores [][]float64, numTracks, numDetections int) [][2]int {
	size := numTracks
	if numDetections > size {
		size = numDetections
	}
	padded := scores
	if numTracks != numDetections {
		padded = make([][]float64, size)
		for i := 0; i < size; i++ {
			padded[i] = make([]float64, size)
			if i < numTracks {
				copy(padded[i], scores[i])
			}
		}
	}
	assignmentsMap := hungarian.SolveMax(padded)
	matches := make([][2]int, 0, numTracks)
	for trackIdx, rowMap := range assignmentsMap {
		for detIdx := range rowMap {
			if trackIdx < numTracks && detIdx < numDetections {
				matches = append(matches, [2]int{trackIdx, detIdx})
			}
			break
		}
	}
	return matches
}

// solveGreedy resolves the assignment by descending score with claimed sets.
func solveGreedy(scores [][]float64) [][2]int {
	type scoredPair struct {
		trackIdx int
		detIdx   int
		score    float64
	}
	pairs := make([]scoredPair, 0, len(scores)*4)
	for i, row := range scores {
		for j, score := range row {
			pairs = append(pairs, scoredPair{trackIdx: i, detIdx: j, score: score})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].score > pairs[j].score })

	matches := make([][2]int, 0, len(scores))
	claimedTracks := make(map[int]struct{})
	claimedDets := make(map[int]struct{})
	for _, pair := range pairs {
		if _, ok := claimedTracks[pair.trackIdx]; ok {
			continue
		}
		if _, ok := claimedDets[pair.detIdx]; ok {
			continue
		}
		claimedTracks[pair.trackIdx] = struct{}{}
		claimedDets[pair.detIdx] = struct{}{}
		matches = append(matches, [2]int{pair.trackIdx, pair.detIdx})
	}
	return matches
}

// Len returns the total number of tracks ever minted in this session
func (tracker *KalmanTracker) Len() int {
	return len(tracker.tracks)
}

// ActiveLen returns the number of tracks still participating in matching
func (tracker *KalmanTracker) ActiveLen() int {
	n := 0
	for _, track := range tracker.tracks {
		if track.active {
			n++
		}
	}
	return n
}

// History returns a copy of the position log of a single track
func (tracker *KalmanTracker) History(id int64) ([]TrackPoint, bool) {
	track, ok := tracker.tracks[id]
	if !ok {
		return nil, false
	}
	out := make([]TrackPoint, len(track.history))
	copy(out, track.history)
	return out, true
}

// Histories returns a copy of every track's position log, deactivated tracks included
func (tracker *KalmanTracker) Histories() map[int64][]TrackPoint {
	out := make(map[int64][]TrackPoint, len(tracker.tracks))
	for id, track := range tracker.tracks {
		points := make([]TrackPoint, len(track.history))
		copy(points, track.history)
		out[id] = points
	}
	return out
}
