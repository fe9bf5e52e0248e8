package api

// StatusType is the coarse verdict class reported by the judge.
type StatusType int

const (
	StatusSuccessClass StatusType = 0
	StatusFailureClass StatusType = 1
)

// Solution is a single snapshot of a run. Every poll returns a fresh one.
type Solution struct {
	RunID          int        `json:"runId"`
	Status         string     `json:"status"`
	StatusType     StatusType `json:"statusType"`
	Processing     bool       `json:"processing"`
	AdditionalInfo string     `json:"additionalInfo"`
	AuthorID       int        `json:"authorId"`
}

// Submission is one row of a contest's submission list.
// ProblemIndex is the position of the problem in the contest's problem list.
type Submission struct {
	SubmitterID  int   `json:"submitter_id"`
	ProblemIndex int   `json:"problem_index"`
	Accepted     int   `json:"accepted"`
	Time         int64 `json:"time"`
}

// Solved is the best known state of a problem for the current user.
type Solved int

const (
	Unsolved Solved = -1
	Wrong    Solved = 0
	Accepted Solved = 1
)

func (s Solved) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Wrong:
		return "wrong"
	default:
		return "unsolved"
	}
}
