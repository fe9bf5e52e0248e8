package tree

import (
	"fmt"
	"strings"
	"time"

	"github.com/programme-lv/vjudge/api"
)

type Kind int

const (
	KindRoot Kind = iota
	KindContest
	KindProblem
)

// Node is one entry of the contest tree. Contest is set on contest and
// problem nodes, Problem only on problem nodes.
type Node struct {
	Kind        Kind
	Label       string
	Tooltip     string
	Description string

	Contest *api.Contest
	Problem *api.Problem
	// Index is the problem's position in its contest's problem list.
	Index  int
	Solved api.Solved
}

func newContestNode(contest api.Contest) *Node {
	return &Node{
		Kind:  KindContest,
		Label: strings.TrimSpace(contest.Title),
		Tooltip: fmt.Sprintf("Start Time: %s\nEnd Time: %s\nOwner: %s",
			contest.Begin.Format(time.DateTime), contest.End.Format(time.DateTime), contest.ManagerName),
		Contest: &contest,
	}
}

func newProblemNode(contest *api.Contest, problem api.Problem, index int, solved api.Solved) *Node {
	var tooltip, desc strings.Builder
	fmt.Fprintf(&tooltip, "From: %s - %s", problem.OJ, problem.ProbNum)
	for _, p := range problem.Properties {
		fmt.Fprintf(&tooltip, "\n%s: %s", p.Title, p.Content)
		fmt.Fprintf(&desc, " %s: %s", p.Title, p.Content)
	}
	return &Node{
		Kind:        KindProblem,
		Label:       fmt.Sprintf("#%s. %s", problem.Num, problem.Title),
		Tooltip:     tooltip.String(),
		Description: strings.TrimSpace(desc.String()),
		Contest:     contest,
		Problem:     &problem,
		Index:       index,
		Solved:      solved,
	}
}
