package models

type ChallengeStatus string

const (
	ChallengePending   ChallengeStatus = "Pending"
	ChallengeActive    ChallengeStatus = "Active"
	ChallengeCompleted ChallengeStatus = "Completed"
)

type SubTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

type Challenge struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      ChallengeStatus `json:"status"`
	StartDate   string          `json:"startDate"` // RFC3339 timestamp
	EndDate     string          `json:"endDate"`   // RFC3339 timestamp
	SubTasks    []SubTask       `json:"subTasks"`
}

// Plan is the shape of a challenge before it is accepted: a title, a
// motivational description and the ordered sub-task titles.
type Plan struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SubTasks    []string `json:"subTasks"`
}

// ChallengeSummary feeds the progress chart.
type ChallengeSummary struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// DeriveStatus returns Completed when every sub-task is done and Active otherwise.
func DeriveStatus(subTasks []SubTask) ChallengeStatus {
	for _, st := range subTasks {
		if !st.IsCompleted {
			return ChallengeActive
		}
	}
	return ChallengeCompleted
}

// SubTaskIndex returns the position of the sub-task with the given id, or -1.
func (c Challenge) SubTaskIndex(id string) int {
	for i, st := range c.SubTasks {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// WithToggled returns a copy of the challenge with the named sub-task flipped
// and the status recomputed. The receiver is left untouched. ok is false when
// no sub-task has that id.
func (c Challenge) WithToggled(subTaskID string) (Challenge, bool) {
	idx := c.SubTaskIndex(subTaskID)
	if idx < 0 {
		return c, false
	}

	subTasks := make([]SubTask, len(c.SubTasks))
	copy(subTasks, c.SubTasks)
	subTasks[idx].IsCompleted = !subTasks[idx].IsCompleted

	c.SubTasks = subTasks
	c.Status = DeriveStatus(subTasks)
	return c, true
}

// CompletedCount returns how many sub-tasks are done.
func (c Challenge) CompletedCount() int {
	n := 0
	for _, st := range c.SubTasks {
		if st.IsCompleted {
			n++
		}
	}
	return n
}
