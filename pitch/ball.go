package pitch

// BallCandidate is a raw ball box proposed by the detector with its confidence score.
type BallCandidate struct {
	Box   Box
	Score float64
}

// BallConfig holds ball selection and smoothing parameters.
type BallConfig struct {
	// Number of recent observations kept by the smoother. Default is 5
	MaxHistory int
	// Minimum candidate area in px^2. Default is 4.0
	MinArea float64
	// Maximum candidate area as a fraction of the frame area. Default is 0.02
	MaxAreaFrac float64
	// Allowed width/height aspect ratio range. Defaults are [0.5, 1.8]
	MinAspect float64
	MaxAspect float64
	// Candidates whose bottom edge is above this fraction of the frame height are
	// rejected as crowd/stands detections. Default is 0.20
	MinBottomFrac float64
	// Number of trailing misses after which the ball is considered lost. Default is 3
	MaxMisses int
}

// DefaultBallConfig returns ball parameters tuned for a single broadcast camera.
func DefaultBallConfig() BallConfig {
	return BallConfig{
		MaxHistory:    5,
		MinArea:       4.0,
		MaxAreaFrac:   0.02,
		MinAspect:     0.5,
		MaxAspect:     1.8,
		MinBottomFrac: 0.20,
		MaxMisses:     3,
	}
}

func (cfg BallConfig) withDefaults() BallConfig {
	def := DefaultBallConfig()
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = def.MaxHistory
	}
	if cfg.MinArea <= 0 {
		cfg.MinArea = def.MinArea
	}
	if cfg.MaxAreaFrac <= 0 {
		cfg.MaxAreaFrac = def.MaxAreaFrac
	}
	if cfg.MinAspect <= 0 {
		cfg.MinAspect = def.MinAspect
	}
	if cfg.MaxAspect <= 0 {
		cfg.MaxAspect = def.MaxAspect
	}
	if cfg.MinBottomFrac <= 0 {
		cfg.MinBottomFrac = def.MinBottomFrac
	}
	if cfg.MaxMisses <= 0 {
		cfg.MaxMisses = def.MaxMisses
	}
	return cfg
}

// BallSelector picks at most one plausible ball box per frame out of the raw
// detector candidates using geometric plausibility filters.
type BallSelector struct {
	cfg BallConfig
}

// NewBallSelectorDefault creates default instance of BallSelector
func NewBallSelectorDefault() *BallSelector {
	return NewBallSelector(DefaultBallConfig())
}

// NewBallSelector creates new instance of BallSelector.
// Non-positive config values fall back to defaults.
func NewBallSelector(cfg BallConfig) *BallSelector {
	return &BallSelector{cfg: cfg.withDefaults()}
}

// Select returns the highest-scoring candidate that passes every plausibility
// filter, or ok=false when no candidate survives. Ties keep the first-seen
// candidate.
func (selector *BallSelector) Select(candidates []BallCandidate, frameWidth, frameHeight float64) (Box, bool) {
	var best Box
	bestScore := -1.0
	found := false

	for _, cand := range candidates {
		box := cand.Box
		if !box.Valid() {
			continue
		}
		area := box.Area()
		// Reject too small / too large
		if area < selector.cfg.MinArea || area > selector.cfg.MaxAreaFrac*frameWidth*frameHeight {
			continue
		}
		aspect := box.Width() / box.Height()
		if aspect < selector.cfg.MinAspect || aspect > selector.cfg.MaxAspect {
			continue
		}
		// Too high up the frame means crowd or stands
		if box.Y2 < selector.cfg.MinBottomFrac*frameHeight {
			continue
		}
		if cand.Score > bestScore {
			bestScore = cand.Score
			best = box
			found = true
		}
	}
	return best, found
}

type ballEntry struct {
	box     Box
	present bool
}

// BallSmoother damps single-frame detector flicker by averaging the ball box
// over a small sliding history of recent observations, absences included.
// After MaxMisses trailing absences the ball is reported lost and must be
// re-acquired; a stale box is never carried forward indefinitely.
type BallSmoother struct {
	cfg      BallConfig
	history  []ballEntry
	smoothed Box
	present  bool
}

// NewBallSmootherDefault creates default instance of BallSmoother
func NewBallSmootherDefault() *BallSmoother {
	return NewBallSmoother(DefaultBallConfig())
}

// NewBallSmoother creates new instance of BallSmoother.
// Non-positive config values fall back to defaults.
func NewBallSmoother(cfg BallConfig) *BallSmoother {
	cfg = cfg.withDefaults()
	return &BallSmoother{
		cfg:     cfg,
		history: make([]ballEntry, 0, cfg.MaxHistory),
	}
}

// Update pushes the frame's raw observation (or absence) into the history and
// returns the smoothed ball box for this frame.
func (smoother *BallSmoother) Update(raw Box, present bool) (Box, bool) {
	smoother.history = append(smoother.history, ballEntry{box: raw, present: present})
	if len(smoother.history) > smoother.cfg.MaxHistory {
		smoother.history = smoother.history[1:]
	}

	// How many trailing misses?
	trailingMisses := 0
	for i := len(smoother.history) - 1; i >= 0; i-- {
		if smoother.history[i].present {
			break
		}
		trailingMisses++
	}
	if trailingMisses >= smoother.cfg.MaxMisses {
		smoother.present = false
		return Box{}, false
	}

	var sumCx, sumCy, sumW, sumH float64
	n := 0
	for _, entry := range smoother.history {
		if !entry.present {
			continue
		}
		center := entry.box.Center()
		sumCx += center.X
		sumCy += center.Y
		sumW += entry.box.Width()
		sumH += entry.box.Height()
		n++
	}
	if n == 0 {
		// Nothing valid yet; keep the previous state
		return smoother.smoothed, smoother.present
	}

	avgCx := sumCx / float64(n)
	avgCy := sumCy / float64(n)
	avgW := sumW / float64(n)
	avgH := sumH / float64(n)

	smoother.smoothed = Box{
		X1: avgCx - avgW/2.0,
		Y1: avgCy - avgH/2.0,
		X2: avgCx + avgW/2.0,
		Y2: avgCy + avgH/2.0,
	}
	smoother.present = true
	return smoother.smoothed, true
}

// Current returns the last smoothed ball box without consuming a frame
func (smoother *BallSmoother) Current() (Box, bool) {
	return smoother.smoothed, smoother.present
}
