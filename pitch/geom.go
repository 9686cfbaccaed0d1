package pitch

import (
	"image"
	"math"
)

// Box is an axis-aligned rectangle in frame pixel coordinates.
// A well-formed box has X1 < X2 and Y1 < Y2.
type Box struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

func NewBox(x1, y1, x2, y2 float64) Box {
	return Box{
		X1: x1,
		Y1: y1,
		X2: x2,
		Y2: y2,
	}
}

func NewBoxFrom(rect image.Rectangle) Box {
	return Box{
		X1: float64(rect.Min.X),
		Y1: float64(rect.Min.Y),
		X2: float64(rect.Max.X),
		Y2: float64(rect.Max.Y),
	}
}

// Center returns the geometric center of the box
func (b Box) Center() Point {
	return Point{
		X: (b.X1 + b.X2) / 2.0,
		Y: (b.Y1 + b.Y2) / 2.0,
	}
}

// Width returns the box width
func (b Box) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the box height
func (b Box) Height() float64 {
	return b.Y2 - b.Y1
}

// Area returns the box area
func (b Box) Area() float64 {
	return b.Width() * b.Height()
}

// Valid reports whether the box has positive width and height
func (b Box) Valid() bool {
	return b.Width() > 0 && b.Height() > 0
}

type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(p1.X-p2.X, 2) + math.Pow(p1.Y-p2.Y, 2))
}

// IoU calculates Intersection over Union between two boxes.
func IoU(b1, b2 Box) float64 {
	xA := math.Max(b1.X1, b2.X1)
	yA := math.Max(b1.Y1, b2.Y1)
	xB := math.Min(b1.X2, b2.X2)
	yB := math.Min(b1.Y2, b2.Y2)

	interArea := math.Max(0, xB-xA) * math.Max(0, yB-yA)
	if interArea == 0 {
		return 0.0
	}

	return interArea / (b1.Area() + b2.Area() - interArea)
}
