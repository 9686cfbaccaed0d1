package pitch

import "math"

// PossessionConfig holds possession estimation parameters.
type PossessionConfig struct {
	// Video frame rate, used to convert seconds to frames. Non-positive values fall back to 25.0
	FPS float64
	// Base distance in pixels for a player to be considered in control of the ball. Default is 60.0
	Radius float64
	// Sliding window for the displayed possession split. Shorter window means more dynamic output. Default is 3.0
	WindowSeconds float64
	// How long the last controller keeps possession while the ball is unclear or temporarily lost. Default is 0.5
	MemorySeconds float64
}

// DefaultPossessionConfig returns possession parameters for the given frame rate.
func DefaultPossessionConfig(fps float64) PossessionConfig {
	return PossessionConfig{
		FPS:           fps,
		Radius:        60.0,
		WindowSeconds: 3.0,
		MemorySeconds: 0.5,
	}
}

// PossessionShare is the A/B possession split in percent. Values are in
// [0, 100] and sum to at most 100.
type PossessionShare struct {
	A float64
	B float64
}

// Score threshold above which a frame has a clear controller.
const directWinnerThreshold = 0.25

// Flat bonus for a player moving toward the ball. Deliberately not scaled by
// how strongly the velocity points at the ball.
const motionBonus = 0.3

// PossessionTracker converts raw per-frame ball/player geometry into a
// temporally smoothed "which team controls the ball" signal.
//
// Per frame it scores every labelled player within Radius of the ball by
// proximity plus a flat bonus for moving toward the ball. The best team above
// the threshold is the frame's direct winner. Frames without a direct winner
// fall back to a short memory of the last controller so possession does not
// flicker. The displayed split is computed over a sliding window of frame
// winners, with whole-session counters as a fallback.
type PossessionTracker struct {
	radius       float64
	windowFrames int
	memoryFrames int

	// Sliding window of recent frame winners
	recentWinners []Team
	// Whole-session counters, incremented on directly observed winners only
	globalCounts    map[Team]int
	totalBallFrames int

	// Last centroid per track id, for velocity estimation
	prevCenters map[int64]Point

	// Short-term controller memory
	lastTeam       Team
	lastMemoryLeft int
}

// NewPossessionTracker creates new instance of PossessionTracker.
// Non-positive FPS falls back to 25.0 so derived frame counts are always >= 1.
func NewPossessionTracker(cfg PossessionConfig) *PossessionTracker {
	def := DefaultPossessionConfig(cfg.FPS)
	if cfg.FPS <= 0 {
		cfg.FPS = 25.0
	}
	if cfg.Radius <= 0 {
		cfg.Radius = def.Radius
	}
	if cfg.WindowSeconds <= 0 {
		cfg.WindowSeconds = def.WindowSeconds
	}
	if cfg.MemorySeconds <= 0 {
		cfg.MemorySeconds = def.MemorySeconds
	}
	windowFrames := int(math.Round(cfg.WindowSeconds * cfg.FPS))
	if windowFrames < 1 {
		windowFrames = 1
	}
	memoryFrames := int(math.Round(cfg.MemorySeconds * cfg.FPS))
	if memoryFrames < 1 {
		memoryFrames = 1
	}
	return &PossessionTracker{
		radius:        cfg.Radius,
		windowFrames:  windowFrames,
		memoryFrames:  memoryFrames,
		recentWinners: make([]Team, 0, windowFrames),
		globalCounts:  make(map[Team]int),
		prevCenters:   make(map[int64]Point),
	}
}

// WindowFrames returns the sliding window length in frames
func (pt *PossessionTracker) WindowFrames() int {
	return pt.windowFrames
}

// MemoryFrames returns the controller memory length in frames
func (pt *PossessionTracker) MemoryFrames() int {
	return pt.memoryFrames
}

// Update consumes a single frame: the frame's player tracks, their team
// labels and the smoothed ball box (ballPresent=false when the ball is lost).
func (pt *PossessionTracker) Update(tracks []TrackedBox, teams map[int64]Team, ball Box, ballPresent bool) {
	// Centroids and velocities for this frame. A track with no previous
	// centroid gets zero velocity.
	centers := make(map[int64]Point, len(tracks))
	velocities := make(map[int64]Point, len(tracks))
	order := make([]int64, 0, len(tracks))
	for _, tb := range tracks {
		if _, ok := centers[tb.ID]; ok {
			continue
		}
		center := tb.Box.Center()
		centers[tb.ID] = center
		order = append(order, tb.ID)
		if prev, ok := pt.prevCenters[tb.ID]; ok {
			velocities[tb.ID] = Point{X: center.X - prev.X, Y: center.Y - prev.Y}
		} else {
			velocities[tb.ID] = Point{}
		}
	}
	// Overwrite, not merge: tracks absent this frame drop out of the velocity map
	pt.prevCenters = centers

	winner := TeamNone
	observedDirectly := false

	if ballPresent {
		ballCenter := ball.Center()
		bestScore := 0.0
		bestTeam := TeamNone

		for _, id := range order {
			team := teams[id]
			if team != TeamA && team != TeamB {
				continue
			}
			center := centers[id]
			dist := euclideanDistance(ballCenter, center)
			if dist > pt.radius {
				// Too far to realistically control
				continue
			}
			distScore := (pt.radius - dist) / pt.radius
			if distScore < 0 {
				distScore = 0
			}

			// Flat bonus if the player moves toward the ball
			vel := velocities[id]
			toBallX := ballCenter.X - center.X
			toBallY := ballCenter.Y - center.Y
			score := distScore
			if vel.X*toBallX+vel.Y*toBallY > 0 {
				score += motionBonus
			}

			// First-seen wins ties
			if score > bestScore {
				bestScore = score
				bestTeam = team
			}
		}

		if bestTeam != TeamNone && bestScore >= directWinnerThreshold {
			winner = bestTeam
			observedDirectly = true
		}
	}

	// If unclear, fall back to the short-term controller memory
	if winner == TeamNone {
		if pt.lastMemoryLeft > 0 && pt.lastTeam != TeamNone {
			winner = pt.lastTeam
			pt.lastMemoryLeft--
		}
	}

	// A fresh direct observation fully resets the memory
	if observedDirectly {
		pt.lastTeam = winner
		pt.lastMemoryLeft = pt.memoryFrames
	}

	pt.recentWinners = append(pt.recentWinners, winner)
	if len(pt.recentWinners) > pt.windowFrames {
		pt.recentWinners = pt.recentWinners[1:]
	}

	// Memory-derived winners never inflate the global stats
	if observedDirectly {
		pt.globalCounts[winner]++
		pt.totalBallFrames++
	}
}

func (pt *PossessionTracker) windowShare() PossessionShare {
	countA, countB := 0, 0
	for _, team := range pt.recentWinners {
		switch team {
		case TeamA:
			countA++
		case TeamB:
			countB++
		}
	}
	total := countA + countB
	if total == 0 {
		return PossessionShare{}
	}
	return PossessionShare{
		A: 100.0 * float64(countA) / float64(total),
		B: 100.0 * float64(countB) / float64(total),
	}
}

// GlobalShare returns the possession split over the whole session so far
func (pt *PossessionTracker) GlobalShare() PossessionShare {
	if pt.totalBallFrames == 0 {
		return PossessionShare{}
	}
	return PossessionShare{
		A: 100.0 * float64(pt.globalCounts[TeamA]) / float64(pt.totalBallFrames),
		B: 100.0 * float64(pt.globalCounts[TeamB]) / float64(pt.totalBallFrames),
	}
}

// Share returns the window-based possession split. When the window carries no
// information yet it falls back to the whole-session split; with no
// information at all both values are zero.
func (pt *PossessionTracker) Share() PossessionShare {
	win := pt.windowShare()
	if win.A+win.B == 0 {
		return pt.GlobalShare()
	}
	return win
}
