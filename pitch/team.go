package pitch

// Team is a side label produced by an external jersey-color classifier.
type Team uint8

const (
	// TeamNone marks referees, crowd and unclassified boxes
	TeamNone Team = iota
	TeamA
	TeamB
)

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	default:
		return ""
	}
}

// ParseTeam converts a string label to a Team. Anything but "A" or "B" maps to TeamNone.
func ParseTeam(s string) Team {
	switch s {
	case "A":
		return TeamA
	case "B":
		return TeamB
	default:
		return TeamNone
	}
}
