package models

// ViewState is the screen selected in the session.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewChallenges
	ViewProgress
	ViewLearning
	ViewAffirmations
)

var viewTitles = []string{"Coach", "Challenges", "Progress", "Learning", "Affirmations"}

// Views lists every view in navigation order.
func Views() []ViewState {
	return []ViewState{ViewDashboard, ViewChallenges, ViewProgress, ViewLearning, ViewAffirmations}
}

func (v ViewState) String() string {
	if v < 0 || int(v) >= len(viewTitles) {
		return "Unknown"
	}
	return viewTitles[v]
}

// Next returns the following view, wrapping around.
func (v ViewState) Next() ViewState {
	return ViewState((int(v) + 1) % len(viewTitles))
}

// Prev returns the preceding view, wrapping around.
func (v ViewState) Prev() ViewState {
	return ViewState((int(v) - 1 + len(viewTitles)) % len(viewTitles))
}
