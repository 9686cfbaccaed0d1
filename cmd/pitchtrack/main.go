// pitchtrack consumes per-frame detection records as JSON lines, runs the
// tracking and possession chain on them and emits augmented frame records.
//
// Each input line looks like:
//
//	{"frame":12,"detections":[{"box":[x1,y1,x2,y2],"score":0.91,"class_id":0,"team":"A"}]}
//
// Team labels are supplied per person detection by the upstream
// detector/classifier process; pitchtrack itself never touches pixels.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/LdDl/pitchtrack/analytics"
	"github.com/LdDl/pitchtrack/pipeline"
	"github.com/LdDl/pitchtrack/pitch"
)

var configPath = flag.String("config", ".", "directory containing config.yaml")

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	setDefaults()
	viper.AddConfigPath(*configPath)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Error: Could not read config file, got '%v'", err)
		}
		log.Warn("No config file found, using defaults")
	}

	cfg := pipeline.DefaultConfig(
		viper.GetFloat64("video.width"),
		viper.GetFloat64("video.height"),
		viper.GetFloat64("video.fps"),
	)
	cfg.PersonClassID = viper.GetInt("detector.person_class_id")
	cfg.BallClassID = viper.GetInt("detector.ball_class_id")
	cfg.ConfThreshold = viper.GetFloat64("detector.confidence_threshold")
	cfg.Tracker.MaxDistance = viper.GetFloat64("tracker.max_distance")
	cfg.Tracker.MaxNoMatch = viper.GetInt("tracker.max_no_match")
	cfg.Ball.MaxHistory = viper.GetInt("ball.history")
	cfg.Possession.Radius = viper.GetFloat64("possession.radius")
	cfg.Possession.WindowSeconds = viper.GetFloat64("possession.window_seconds")
	cfg.Possession.MemorySeconds = viper.GetFloat64("possession.memory_seconds")

	classifier := &hintClassifier{}
	p := pipeline.New(cfg, classifier, log)

	log.WithFields(logrus.Fields{
		"fps":    cfg.FPS,
		"width":  cfg.FrameWidth,
		"height": cfg.FrameHeight,
	}).Info("Starting session")

	scanner := bufio.NewScanner(os.Stdin)
	bufsize := 10 << 20
	buf := make([]byte, bufsize)
	scanner.Buffer(buf, bufsize)

	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		frameIdx := int(gjson.GetBytes(line, "frame").Int())
		detections, hints := parseDetections(line, cfg.PersonClassID)
		classifier.setHints(hints)

		result := p.ProcessFrame(frameIdx, detections)

		out, err := augmentLine(string(line), result)
		if err != nil {
			log.WithError(err).WithField("frame", frameIdx).Error("Can't augment frame record")
			continue
		}
		fmt.Fprintln(writer, out)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Error reading detections: %v", err)
	}

	if logPath := viper.GetString("output.tracking_log"); logPath != "" {
		if err := p.Session().WriteFile(logPath); err != nil {
			log.WithError(err).Error("Can't save tracking log")
		} else {
			log.WithField("path", logPath).Info("Tracking data saved")
		}
	}

	reportMovement(log, p, cfg)
}

func setDefaults() {
	viper.SetDefault("video.fps", 25.0)
	viper.SetDefault("video.width", 1280.0)
	viper.SetDefault("video.height", 720.0)
	viper.SetDefault("detector.person_class_id", 0)
	viper.SetDefault("detector.ball_class_id", 32)
	viper.SetDefault("detector.confidence_threshold", 0.35)
	viper.SetDefault("tracker.max_distance", 60.0)
	viper.SetDefault("tracker.max_no_match", 75)
	viper.SetDefault("ball.history", 5)
	viper.SetDefault("possession.radius", 60.0)
	viper.SetDefault("possession.window_seconds", 3.0)
	viper.SetDefault("possession.memory_seconds", 0.5)
	viper.SetDefault("output.tracking_log", "")
	viper.SetDefault("analytics.sprint_threshold", analytics.DefaultSprintThreshold)
}

// parseDetections decodes one frame record and collects team hints for
// person boxes that carry them.
func parseDetections(line []byte, personClassID int) ([]pipeline.Detection, map[pitch.Box]pitch.Team) {
	items := gjson.GetBytes(line, "detections").Array()
	detections := make([]pipeline.Detection, 0, len(items))
	hints := make(map[pitch.Box]pitch.Team)
	for _, item := range items {
		coords := item.Get("box").Array()
		if len(coords) != 4 {
			continue
		}
		box := pitch.NewBox(coords[0].Float(), coords[1].Float(), coords[2].Float(), coords[3].Float())
		det := pipeline.Detection{
			Box:     box,
			Score:   item.Get("score").Float(),
			ClassID: int(item.Get("class_id").Int()),
		}
		detections = append(detections, det)
		if det.ClassID == personClassID {
			if team := pitch.ParseTeam(item.Get("team").String()); team != pitch.TeamNone {
				hints[box] = team
			}
		}
	}
	return detections, hints
}

// augmentLine writes the frame's tracking results back onto the input record.
func augmentLine(line string, result pipeline.FrameResult) (string, error) {
	out := line
	var err error

	players := make([]map[string]interface{}, 0, len(result.Players))
	for _, pl := range result.Players {
		players = append(players, map[string]interface{}{
			"id":   pl.ID,
			"team": pl.Team.String(),
			"box":  []float64{pl.Box.X1, pl.Box.Y1, pl.Box.X2, pl.Box.Y2},
		})
	}
	if out, err = sjson.Set(out, "players", players); err != nil {
		return "", err
	}

	if result.BallPresent {
		ball := result.Ball
		if out, err = sjson.Set(out, "ball", []float64{ball.X1, ball.Y1, ball.X2, ball.Y2}); err != nil {
			return "", err
		}
	} else {
		if out, err = sjson.Set(out, "ball", nil); err != nil {
			return "", err
		}
	}

	if out, err = sjson.Set(out, "possession.A", result.Possession.A); err != nil {
		return "", err
	}
	if out, err = sjson.Set(out, "possession.B", result.Possession.B); err != nil {
		return "", err
	}
	return out, nil
}

// reportMovement logs per-session movement analytics over the tracker histories.
func reportMovement(log *logrus.Logger, p *pipeline.Pipeline, cfg pipeline.Config) {
	histories := p.Tracker().Histories()
	if len(histories) == 0 {
		return
	}
	ratio := analytics.PixelToMeterRatio(cfg.FrameWidth, cfg.FrameHeight)
	speeds := analytics.SpeedPerFrame(histories, cfg.FPS, ratio)
	sprints := analytics.SprintFrames(speeds, viper.GetFloat64("analytics.sprint_threshold"))
	distances := analytics.DistanceTravelled(histories)

	for trackID, dist := range distances {
		summary := analytics.SummarizeSpeeds(speeds[trackID])
		log.WithFields(logrus.Fields{
			"track":          trackID,
			"distance_px":    fmt.Sprintf("%.1f", dist),
			"mean_speed_mps": fmt.Sprintf("%.2f", summary.Mean),
			"max_speed_mps":  fmt.Sprintf("%.2f", summary.Max),
			"sprint_frames":  len(sprints[trackID]),
		}).Info("Track movement summary")
	}

	global := p.Possession().GlobalShare()
	log.WithFields(logrus.Fields{
		"team_a": fmt.Sprintf("%.1f%%", global.A),
		"team_b": fmt.Sprintf("%.1f%%", global.B),
	}).Info("Session possession")
}
