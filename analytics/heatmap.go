package analytics

import (
	"github.com/pkg/errors"

	"github.com/LdDl/pitchtrack/pitch"
)

// Grid is a row-major occupancy matrix normalized to [0, 1].
// Rendering it to an image is the caller's concern.
type Grid struct {
	Cols  int
	Rows  int
	Cells []float64
}

// At returns the cell value at (col, row)
func (g Grid) At(col, row int) float64 {
	return g.Cells[row*g.Cols+col]
}

// OccupancyGrid accumulates track positions into a cols x rows grid over the
// frame and normalizes by the hottest cell. Positions outside the frame are
// skipped.
func OccupancyGrid(points []pitch.TrackPoint, frameWidth, frameHeight float64, cols, rows int) (Grid, error) {
	if frameWidth <= 0 || frameHeight <= 0 {
		return Grid{}, errors.Errorf("invalid frame dimensions %vx%v", frameWidth, frameHeight)
	}
	if cols <= 0 || rows <= 0 {
		return Grid{}, errors.Errorf("invalid grid dimensions %dx%d", cols, rows)
	}
	grid := Grid{
		Cols:  cols,
		Rows:  rows,
		Cells: make([]float64, cols*rows),
	}
	for _, p := range points {
		if p.X < 0 || p.X >= frameWidth || p.Y < 0 || p.Y >= frameHeight {
			continue
		}
		col := int(p.X / frameWidth * float64(cols))
		row := int(p.Y / frameHeight * float64(rows))
		grid.Cells[row*cols+col] += 1.0
	}
	maxCell := 0.0
	for _, v := range grid.Cells {
		if v > maxCell {
			maxCell = v
		}
	}
	if maxCell > 0 {
		for i := range grid.Cells {
			grid.Cells[i] /= maxCell
		}
	}
	return grid, nil
}
