package pitch

import (
	"math"
	"testing"
)

const (
	eps = 0.00001
)

func TestEuclideanDistance(t *testing.T) {
	p1 := Point{X: 341, Y: 264}
	p2 := Point{X: 421, Y: 427}
	correnctAnswer := 181.57367
	answer := euclideanDistance(p1, p2)
	if math.Abs(answer-correnctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correnctAnswer)
	}
}

func TestBoxDerived(t *testing.T) {
	box := NewBox(10, 20, 40, 80)
	center := box.Center()
	if center.X != 25 || center.Y != 50 {
		t.Errorf("Wrong center: %v", center)
	}
	if box.Width() != 30 {
		t.Errorf("Wrong width: %v", box.Width())
	}
	if box.Height() != 60 {
		t.Errorf("Wrong height: %v", box.Height())
	}
	if box.Area() != 1800 {
		t.Errorf("Wrong area: %v", box.Area())
	}
	if !box.Valid() {
		t.Error("Box should be valid")
	}
	degenerate := NewBox(10, 20, 10, 80)
	if degenerate.Valid() {
		t.Error("Degenerate box should not be valid")
	}
}

func TestIoU(t *testing.T) {
	b1 := NewBox(0, 0, 10, 10)
	b2 := NewBox(5, 5, 15, 15)
	correctAnswer := 25.0 / 175.0
	answer := IoU(b1, b2)
	if math.Abs(answer-correctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correctAnswer)
	}
	disjoint := NewBox(100, 100, 110, 110)
	if IoU(b1, disjoint) != 0.0 {
		t.Errorf("Disjoint boxes should have zero IoU")
	}
}
