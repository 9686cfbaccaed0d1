// Package analytics derives per-player movement statistics, event markers and
// occupancy grids from the position logs produced by the trackers in
// package pitch. Everything here is a pure, single-pass transformation over
// recorded history; nothing mutates tracker state.
package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/LdDl/pitchtrack/pitch"
)

// FrameSpeed is a per-frame speed sample in meters per second.
type FrameSpeed struct {
	Frame int
	Speed float64
}

// DistanceTravelled computes total distance travelled per track in pixel units.
func DistanceTravelled(history map[int64][]pitch.TrackPoint) map[int64]float64 {
	distances := make(map[int64]float64, len(history))
	for trackID, points := range history {
		dist := 0.0
		for i := 1; i < len(points); i++ {
			dist += math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
		}
		distances[trackID] = dist
	}
	return distances
}

// SpeedPerFrame computes approximate per-frame speed (m/s) for each track.
// pixelToMeter converts pixel distance to meters; non-positive fps falls back
// to 25.0.
func SpeedPerFrame(history map[int64][]pitch.TrackPoint, fps, pixelToMeter float64) map[int64][]FrameSpeed {
	if fps <= 0 {
		fps = 25.0
	}
	if pixelToMeter <= 0 {
		pixelToMeter = 1.0
	}
	dt := 1.0 / fps
	speeds := make(map[int64][]FrameSpeed, len(history))
	for trackID, points := range history {
		trackSpeeds := make([]FrameSpeed, 0, len(points))
		for i := 1; i < len(points); i++ {
			distPixels := math.Hypot(points[i].X-points[i-1].X, points[i].Y-points[i-1].Y)
			// Gaps in the log (occlusion) still count as one frame step; the
			// estimate stays conservative rather than exploding over gaps
			trackSpeeds = append(trackSpeeds, FrameSpeed{
				Frame: points[i].Frame,
				Speed: distPixels * pixelToMeter / dt,
			})
		}
		speeds[trackID] = trackSpeeds
	}
	return speeds
}

// SpeedSummary aggregates per-frame speeds into mean/max/stddev.
type SpeedSummary struct {
	Mean   float64
	Max    float64
	StdDev float64
}

// SummarizeSpeeds computes summary stats over a track's speed samples.
// Empty input yields a zero summary.
func SummarizeSpeeds(speeds []FrameSpeed) SpeedSummary {
	if len(speeds) == 0 {
		return SpeedSummary{}
	}
	values := make([]float64, len(speeds))
	maxSpeed := speeds[0].Speed
	for i, s := range speeds {
		values[i] = s.Speed
		if s.Speed > maxSpeed {
			maxSpeed = s.Speed
		}
	}
	stdDev := 0.0
	if len(values) > 1 {
		stdDev = stat.StdDev(values, nil)
	}
	return SpeedSummary{
		Mean:   stat.Mean(values, nil),
		Max:    maxSpeed,
		StdDev: stdDev,
	}
}
