package tree

import "github.com/programme-lv/vjudge/api"

// SolvedIndicators computes the solved state of each of problemCount
// problems from a contest's submissions. Only submissions by userID count,
// and they are matched to problems by position, never by label. With an
// unknown user every problem is unsolved.
func SolvedIndicators(problemCount int, subs []api.Submission, userID int, known bool) []api.Solved {
	solved := make([]api.Solved, problemCount)
	for i := range solved {
		solved[i] = api.Unsolved
	}
	if !known {
		return solved
	}

	for _, sub := range subs {
		if sub.SubmitterID != userID {
			continue
		}
		if sub.ProblemIndex < 0 || sub.ProblemIndex >= problemCount {
			continue
		}
		state := api.Wrong
		if sub.Accepted > 0 {
			state = api.Accepted
		}
		if state > solved[sub.ProblemIndex] {
			solved[sub.ProblemIndex] = state
		}
	}
	return solved
}
