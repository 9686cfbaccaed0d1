package pitch

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

// KalmanBallSmoother is an alternative ball smoother using an 8-D Kalman
// filter over the full bounding box dynamics instead of a moving average.
// State vector: [cx, cy, w, h, vx, vy, vw, vh].
//
// On a miss the filter coasts on its prediction; after MaxMisses consecutive
// misses the ball is reported lost and the filter re-initializes on the next
// real observation.
type KalmanBallSmoother struct {
	dt        float64
	maxMisses int
	tracker   *kalman_filter.KalmanBBox
	misses    int
	smoothed  Box
	present   bool
}

// NewKalmanBallSmoother creates new instance of KalmanBallSmoother.
// dt is the filter time step (1/fps); non-positive values fall back to 1.0.
func NewKalmanBallSmoother(dt float64, maxMisses int) *KalmanBallSmoother {
	if dt <= 0 {
		dt = 1.0
	}
	if maxMisses <= 0 {
		maxMisses = DefaultBallConfig().MaxMisses
	}
	return &KalmanBallSmoother{
		dt:        dt,
		maxMisses: maxMisses,
	}
}

func newBallFilter(box Box, dt float64) *kalman_filter.KalmanBBox {
	center := box.Center()

	// Kalman filter props
	uCx := 1.0
	uCy := 1.0
	uW := 0.0
	uH := 0.0
	stdDevA := 2.0
	stdDevMCx := 0.1
	stdDevMCy := 0.1
	stdDevMW := 0.1
	stdDevMH := 0.1
	return kalman_filter.NewKalmanBBox(
		dt, uCx, uCy, uW, uH,
		stdDevA, stdDevMCx, stdDevMCy, stdDevMW, stdDevMH,
		kalman_filter.WithStateBBox(center.X, center.Y, box.Width(), box.Height()),
	)
}

// Update consumes the frame's raw ball observation (or absence) and returns
// the filtered ball box.
func (smoother *KalmanBallSmoother) Update(raw Box, present bool) (Box, bool, error) {
	if !present {
		smoother.misses++
		if smoother.misses >= smoother.maxMisses || smoother.tracker == nil {
			// Lost: require re-acquisition
			smoother.tracker = nil
			smoother.present = false
			return Box{}, false, nil
		}
		// Coast on the prediction
		smoother.tracker.Predict()
		smoother.smoothed = smoother.stateBox()
		return smoother.smoothed, true, nil
	}

	smoother.misses = 0
	if smoother.tracker == nil {
		smoother.tracker = newBallFilter(raw, smoother.dt)
		smoother.smoothed = raw
		smoother.present = true
		return smoother.smoothed, true, nil
	}

	smoother.tracker.Predict()
	center := raw.Center()
	err := smoother.tracker.Update(center.X, center.Y, raw.Width(), raw.Height())
	if err != nil {
		return Box{}, false, errors.Wrap(err, "Can't update ball filter")
	}
	smoother.smoothed = smoother.stateBox()
	smoother.present = true
	return smoother.smoothed, true, nil
}

func (smoother *KalmanBallSmoother) stateBox() Box {
	cx, cy, w, h := smoother.tracker.GetState()
	return Box{
		X1: cx - w/2.0,
		Y1: cy - h/2.0,
		X2: cx + w/2.0,
		Y2: cy + h/2.0,
	}
}

// Current returns the last filtered ball box without consuming a frame
func (smoother *KalmanBallSmoother) Current() (Box, bool) {
	return smoother.smoothed, smoother.present
}
