// Package pipeline wires the per-frame processing chain together: detection
// filtering, player tracking, team classification, ball selection/smoothing
// and possession estimation. Detection and team classification are external
// collaborators behind interfaces; the pipeline itself is frame-sequential
// and single-threaded.
package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/LdDl/pitchtrack/pitch"
)

// Detection is a single detector output box with class and confidence.
type Detection struct {
	Box     pitch.Box
	Score   float64
	ClassID int
}

// TeamClassifier maps a confirmed player track to a side. Implementations
// own their pixel source; the pipeline only supplies the frame index and the
// player box. Return TeamNone for referees, crowd and unknowns.
type TeamClassifier interface {
	Classify(frameIdx int, box pitch.Box) pitch.Team
}

// Config holds pipeline parameters.
type Config struct {
	FrameWidth  float64
	FrameHeight float64
	FPS         float64
	// Detector class ids; defaults follow the COCO indices: 0 for person, 32 for sports ball
	PersonClassID int
	BallClassID   int
	// Minimum detector confidence for both players and ball candidates. Default is 0.35
	ConfThreshold float64
	// On-pitch filter: reject player boxes shorter than this fraction of the frame height. Default is 0.06
	MinPlayerHeightFrac float64
	// On-pitch filter: reject player boxes whose bottom edge is above this fraction of the frame height. Default is 0.25
	MinPlayerBottomFrac float64

	Tracker    pitch.TrackerConfig
	Ball       pitch.BallConfig
	Possession pitch.PossessionConfig
}

// DefaultConfig returns pipeline parameters for a given frame geometry and rate.
func DefaultConfig(frameWidth, frameHeight, fps float64) Config {
	return Config{
		FrameWidth:          frameWidth,
		FrameHeight:         frameHeight,
		FPS:                 fps,
		PersonClassID:       0,
		BallClassID:         32,
		ConfThreshold:       0.35,
		MinPlayerHeightFrac: 0.06,
		MinPlayerBottomFrac: 0.25,
		Tracker:             pitch.DefaultTrackerConfig(),
		Ball:                pitch.DefaultBallConfig(),
		Possession:          pitch.DefaultPossessionConfig(fps),
	}
}

// PlayerResult is a tracked, team-labelled player box for one frame.
type PlayerResult struct {
	ID   int64
	Box  pitch.Box
	Team pitch.Team
}

// FrameResult is everything downstream rendering needs for one frame.
type FrameResult struct {
	Players     []PlayerResult
	Ball        pitch.Box
	BallPresent bool
	Possession  pitch.PossessionShare
}

// Pipeline owns the per-session state of the tracking and possession chain.
type Pipeline struct {
	cfg        Config
	log        *logrus.Logger
	tracker    *pitch.CentroidTracker
	selector   *pitch.BallSelector
	smoother   *pitch.BallSmoother
	possession *pitch.PossessionTracker
	classifier TeamClassifier
	session    *SessionLog
	frames     int
}

// New creates a pipeline for one video session. classifier may not be nil.
func New(cfg Config, classifier TeamClassifier, log *logrus.Logger) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.ConfThreshold <= 0 {
		cfg.ConfThreshold = 0.35
	}
	if cfg.MinPlayerHeightFrac <= 0 {
		cfg.MinPlayerHeightFrac = 0.06
	}
	if cfg.MinPlayerBottomFrac <= 0 {
		cfg.MinPlayerBottomFrac = 0.25
	}
	if cfg.BallClassID == 0 {
		cfg.BallClassID = 32
	}
	cfg.Possession.FPS = cfg.FPS
	return &Pipeline{
		cfg:        cfg,
		log:        log,
		tracker:    pitch.NewCentroidTracker(cfg.Tracker),
		selector:   pitch.NewBallSelector(cfg.Ball),
		smoother:   pitch.NewBallSmoother(cfg.Ball),
		possession: pitch.NewPossessionTracker(cfg.Possession),
		classifier: classifier,
		session:    NewSessionLog(cfg.FPS, cfg.FrameWidth, cfg.FrameHeight),
	}
}

// onPitch rejects boxes that are too small or too high up the frame to be a
// player on the pitch (crowd and stands detections).
func (p *Pipeline) onPitch(box pitch.Box) bool {
	if box.Height() < p.cfg.MinPlayerHeightFrac*p.cfg.FrameHeight {
		return false
	}
	if box.Y2 < p.cfg.MinPlayerBottomFrac*p.cfg.FrameHeight {
		return false
	}
	return true
}

// ProcessFrame runs the whole chain for one frame's detections and returns
// the per-frame results for rendering. Malformed boxes are skipped one by
// one; they never abort the frame.
func (p *Pipeline) ProcessFrame(frameIdx int, detections []Detection) FrameResult {
	players := make([]pitch.Box, 0, len(detections))
	ballCandidates := make([]pitch.BallCandidate, 0, 4)

	for _, det := range detections {
		if !det.Box.Valid() {
			p.log.WithFields(logrus.Fields{
				"frame": frameIdx,
				"box":   det.Box,
			}).Debug("Skipping detection with degenerate box")
			continue
		}
		if det.Score < p.cfg.ConfThreshold {
			continue
		}
		switch det.ClassID {
		case p.cfg.PersonClassID:
			if p.onPitch(det.Box) {
				players = append(players, det.Box)
			}
		case p.cfg.BallClassID:
			ballCandidates = append(ballCandidates, pitch.BallCandidate{Box: det.Box, Score: det.Score})
		}
	}

	tracks := p.tracker.Update(players, frameIdx)

	teams := make(map[int64]pitch.Team, len(tracks))
	results := make([]PlayerResult, 0, len(tracks))
	for _, tb := range tracks {
		team := p.classifier.Classify(frameIdx, tb.Box)
		if team != pitch.TeamA && team != pitch.TeamB {
			// Referee / crowd / unknown
			continue
		}
		teams[tb.ID] = team
		results = append(results, PlayerResult{ID: tb.ID, Box: tb.Box, Team: team})
		p.session.Append(tb.ID, team, frameIdx, tb.Box)
	}

	rawBall, rawPresent := p.selector.Select(ballCandidates, p.cfg.FrameWidth, p.cfg.FrameHeight)
	smoothedBall, ballPresent := p.smoother.Update(rawBall, rawPresent)

	p.possession.Update(tracks, teams, smoothedBall, ballPresent)

	p.frames++
	if p.frames%50 == 0 {
		p.log.WithField("frames", p.frames).Info("Processed frames")
	}

	return FrameResult{
		Players:     results,
		Ball:        smoothedBall,
		BallPresent: ballPresent,
		Possession:  p.possession.Share(),
	}
}

// Session returns the accumulated tracking log for this session
func (p *Pipeline) Session() *SessionLog {
	return p.session
}

// Tracker exposes the player tracker for analytics over its histories
func (p *Pipeline) Tracker() *pitch.CentroidTracker {
	return p.tracker
}

// Possession exposes the possession tracker for whole-session stats
func (p *Pipeline) Possession() *pitch.PossessionTracker {
	return p.possession
}
