package submit

import "github.com/programme-lv/vjudge/api"

// Gatherer receives the lifecycle of one submit action.
type Gatherer interface {
	StartSubmit(contestID int, problemNum, language string, codeLength int)
	RequireCaptcha(endpoint string)
	Resubmit()
	PollStatus(snapshot *api.Solution)
	// FinishSubmit is called exactly once. runID is 0 when the judge never
	// accepted the code; err is nil unless the action was aborted.
	FinishSubmit(state State, runID int, solution *api.Solution, err error)
}

// NewGatherer builds the gatherer of one action.
type NewGatherer func(actionUuid string) Gatherer

type gatherers []Gatherer

func (gs gatherers) StartSubmit(contestID int, problemNum, language string, codeLength int) {
	for _, g := range gs {
		g.StartSubmit(contestID, problemNum, language, codeLength)
	}
}

func (gs gatherers) RequireCaptcha(endpoint string) {
	for _, g := range gs {
		g.RequireCaptcha(endpoint)
	}
}

func (gs gatherers) Resubmit() {
	for _, g := range gs {
		g.Resubmit()
	}
}

func (gs gatherers) PollStatus(snapshot *api.Solution) {
	for _, g := range gs {
		g.PollStatus(snapshot)
	}
}

func (gs gatherers) FinishSubmit(state State, runID int, solution *api.Solution, err error) {
	for _, g := range gs {
		g.FinishSubmit(state, runID, solution, err)
	}
}
