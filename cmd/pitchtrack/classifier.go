package main

import "github.com/LdDl/pitchtrack/pitch"

// hintClassifier resolves team labels from per-detection hints carried by the
// input records. The pipeline hands player boxes back unchanged, so an exact
// box lookup is enough.
type hintClassifier struct {
	hints map[pitch.Box]pitch.Team
}

func (c *hintClassifier) setHints(hints map[pitch.Box]pitch.Team) {
	c.hints = hints
}

func (c *hintClassifier) Classify(frameIdx int, box pitch.Box) pitch.Team {
	return c.hints[box]
}
