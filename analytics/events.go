package analytics

import (
	"math"

	"github.com/LdDl/pitchtrack/pitch"
)

// Speed above which a frame counts as part of a sprint, in m/s.
const DefaultSprintThreshold = 7.0

// Minimum angle between consecutive displacement vectors to count as a
// direction change, in degrees.
const DefaultDirectionChangeAngle = 45.0

// SprintFrames returns, per track, the frames where speed reached the
// threshold. Non-positive threshold falls back to DefaultSprintThreshold.
func SprintFrames(speeds map[int64][]FrameSpeed, threshold float64) map[int64][]int {
	if threshold <= 0 {
		threshold = DefaultSprintThreshold
	}
	sprints := make(map[int64][]int, len(speeds))
	for trackID, trackSpeeds := range speeds {
		frames := make([]int, 0)
		for _, s := range trackSpeeds {
			if s.Speed >= threshold {
				frames = append(frames, s.Frame)
			}
		}
		sprints[trackID] = frames
	}
	return sprints
}

// DirectionChanges returns, per track, the frames where the movement
// direction turned by at least angleThresholdDeg between consecutive
// displacement vectors. Rough proxy for cuts and dribbles.
func DirectionChanges(history map[int64][]pitch.TrackPoint, angleThresholdDeg float64) map[int64][]int {
	if angleThresholdDeg <= 0 {
		angleThresholdDeg = DefaultDirectionChangeAngle
	}
	events := make(map[int64][]int, len(history))
	for trackID, points := range history {
		frames := make([]int, 0)
		for i := 2; i < len(points); i++ {
			v1x := points[i-1].X - points[i-2].X
			v1y := points[i-1].Y - points[i-2].Y
			v2x := points[i].X - points[i-1].X
			v2y := points[i].Y - points[i-1].Y

			mag1 := math.Hypot(v1x, v1y)
			mag2 := math.Hypot(v2x, v2y)
			if mag1 == 0 || mag2 == 0 {
				continue
			}

			cosAngle := (v1x*v2x + v1y*v2y) / (mag1 * mag2)
			cosAngle = math.Max(-1.0, math.Min(1.0, cosAngle))
			angle := math.Acos(cosAngle) * 180.0 / math.Pi

			if angle >= angleThresholdDeg {
				frames = append(frames, points[i].Frame)
			}
		}
		events[trackID] = frames
	}
	return events
}
