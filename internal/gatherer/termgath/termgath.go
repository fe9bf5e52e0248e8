package termgath

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/vjudge/api"
	"github.com/programme-lv/vjudge/internal/judgeerr"
	"github.com/programme-lv/vjudge/internal/submit"
)

// TerminalGatherer prints the lifecycle of one submit action.
type TerminalGatherer struct {
	StartedAt time.Time

	out        io.Writer
	actionUuid string
	lastStatus string
}

func New(out io.Writer, actionUuid string) *TerminalGatherer {
	return &TerminalGatherer{StartedAt: time.Now(), out: out, actionUuid: actionUuid}
}

func (t *TerminalGatherer) StartSubmit(contestID int, problemNum, language string, codeLength int) {
	fmt.Fprintf(t.out, "== Submit %s started ==\n", t.actionUuid)
	fmt.Fprintf(t.out, "contest=%d problem=%s language=%s code=%dB\n", contestID, problemNum, language, codeLength)
}

func (t *TerminalGatherer) RequireCaptcha(endpoint string) {
	fmt.Fprintln(t.out, color.YellowString("-- Captcha required --"))
	if endpoint != "" {
		fmt.Fprintf(t.out, "image from %s\n", endpoint)
	}
}

func (t *TerminalGatherer) Resubmit() {
	fmt.Fprintln(t.out, "-- Resubmitting with captcha --")
}

// PollStatus prints a line only when the status text changes.
func (t *TerminalGatherer) PollStatus(snapshot *api.Solution) {
	if snapshot.Status == t.lastStatus {
		return
	}
	t.lastStatus = snapshot.Status
	fmt.Fprintf(t.out, "<- Run %d: %s\n", snapshot.RunID, snapshot.Status)
}

func (t *TerminalGatherer) FinishSubmit(state submit.State, runID int, solution *api.Solution, err error) {
	dur := time.Since(t.StartedAt).Round(time.Millisecond)
	switch state {
	case submit.StateAcceptedClass:
		fmt.Fprintln(t.out, color.GreenString("== Run %d: %s (%s) ==", runID, solution.Status, dur))
	case submit.StateRejectedClass:
		fmt.Fprintln(t.out, color.RedString("== Run %d: %s (%s) ==", runID, solution.Status, dur))
	default:
		msg := "aborted"
		if err != nil {
			msg = judgeerr.Message(err)
		}
		fmt.Fprintln(t.out, color.RedString("== Submit aborted after %s: %s ==", dur, msg))
	}
}

var _ submit.Gatherer = (*TerminalGatherer)(nil)
