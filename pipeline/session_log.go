package pipeline

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/LdDl/pitchtrack/pitch"
)

// TrackRecord is the persisted footprint of one track: its team and every
// box it was matched with, as [frame, x1, y1, x2, y2] integer rows.
type TrackRecord struct {
	Team    string   `json:"team"`
	History [][5]int `json:"history"`
}

// SessionLog accumulates per-track records over a session and serializes
// them after the video ends.
type SessionLog struct {
	SessionID   string                 `json:"session_id"`
	FPS         float64                `json:"fps"`
	FrameWidth  float64                `json:"frame_width"`
	FrameHeight float64                `json:"frame_height"`
	Tracks      map[int64]*TrackRecord `json:"tracks"`
}

// NewSessionLog creates an empty log with a fresh session identifier.
func NewSessionLog(fps, frameWidth, frameHeight float64) *SessionLog {
	return &SessionLog{
		SessionID:   uuid.New().String(),
		FPS:         fps,
		FrameWidth:  frameWidth,
		FrameHeight: frameHeight,
		Tracks:      make(map[int64]*TrackRecord),
	}
}

// Append records one matched, team-labelled box for a track.
func (l *SessionLog) Append(trackID int64, team pitch.Team, frameIdx int, box pitch.Box) {
	record, ok := l.Tracks[trackID]
	if !ok {
		record = &TrackRecord{Team: team.String()}
		l.Tracks[trackID] = record
	}
	record.History = append(record.History, [5]int{
		frameIdx,
		int(box.X1),
		int(box.Y1),
		int(box.X2),
		int(box.Y2),
	})
}

// TeamPoints returns all recorded centroid positions of one team, usable as
// occupancy grid input. Tracks are visited in id order so output is stable.
func (l *SessionLog) TeamPoints(team pitch.Team) []pitch.TrackPoint {
	ids := make([]int64, 0, len(l.Tracks))
	for id := range l.Tracks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	points := make([]pitch.TrackPoint, 0)
	for _, id := range ids {
		record := l.Tracks[id]
		if record.Team != team.String() {
			continue
		}
		for _, row := range record.History {
			points = append(points, pitch.TrackPoint{
				Frame: row[0],
				X:     float64(row[1]+row[3]) / 2.0,
				Y:     float64(row[2]+row[4]) / 2.0,
			})
		}
	}
	return points
}

// WriteFile serializes the log as indented JSON.
func (l *SessionLog) WriteFile(path string) error {
	data, err := json.MarshalIndent(l, "", "    ")
	if err != nil {
		return errors.Wrap(err, "Can't serialize session log")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "Can't write session log to %s", path)
	}
	return nil
}
