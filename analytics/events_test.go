package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LdDl/pitchtrack/pitch"
)

func TestSprintFrames(t *testing.T) {
	speeds := map[int64][]FrameSpeed{
		1: {
			{Frame: 1, Speed: 3.0},
			{Frame: 2, Speed: 7.0},
			{Frame: 3, Speed: 9.5},
			{Frame: 4, Speed: 6.9},
		},
	}

	t.Run("default threshold", func(t *testing.T) {
		sprints := SprintFrames(speeds, 0)
		assert.Equal(t, []int{2, 3}, sprints[1])
	})

	t.Run("custom threshold", func(t *testing.T) {
		sprints := SprintFrames(speeds, 9.0)
		assert.Equal(t, []int{3}, sprints[1])
	})
}

func TestDirectionChanges(t *testing.T) {
	t.Run("right angle turn detected", func(t *testing.T) {
		history := map[int64][]pitch.TrackPoint{
			1: {
				{Frame: 0, X: 0, Y: 0},
				{Frame: 1, X: 10, Y: 0},
				{Frame: 2, X: 10, Y: 10}, // 90 degree turn
				{Frame: 3, X: 10, Y: 20}, // straight on
			},
		}
		events := DirectionChanges(history, 45.0)
		require.Contains(t, events, int64(1))
		assert.Equal(t, []int{2}, events[1])
	})

	t.Run("standing still produces no events", func(t *testing.T) {
		history := map[int64][]pitch.TrackPoint{
			1: {
				{Frame: 0, X: 5, Y: 5},
				{Frame: 1, X: 5, Y: 5},
				{Frame: 2, X: 5, Y: 5},
			},
		}
		events := DirectionChanges(history, 45.0)
		assert.Empty(t, events[1])
	})

	t.Run("short history produces no events", func(t *testing.T) {
		history := map[int64][]pitch.TrackPoint{
			1: {{Frame: 0, X: 0, Y: 0}, {Frame: 1, X: 1, Y: 1}},
		}
		events := DirectionChanges(history, 45.0)
		assert.Empty(t, events[1])
	})
}
