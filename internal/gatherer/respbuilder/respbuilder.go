package respbuilder

import (
	"time"

	"github.com/programme-lv/vjudge/api"
	"github.com/programme-lv/vjudge/internal/judgeerr"
	"github.com/programme-lv/vjudge/internal/submit"
)

// Builder gathers lifecycle events and builds an api.SubmitRecord.
type Builder struct {
	actionUuid string

	started  time.Time
	finished *time.Time

	contestID  int
	problemNum string
	language   string

	captchaEndpoint *string
	polls           int

	state        submit.State
	runID        int
	solution     *api.Solution
	errorMessage *string
}

func New(actionUuid string) *Builder {
	return &Builder{
		actionUuid: actionUuid,
		started:    time.Now(),
		state:      submit.StateDrafting,
	}
}

// StartSubmit implements submit.Gatherer.
func (b *Builder) StartSubmit(contestID int, problemNum, language string, codeLength int) {
	b.contestID = contestID
	b.problemNum = problemNum
	b.language = language
}

// RequireCaptcha implements submit.Gatherer.
func (b *Builder) RequireCaptcha(endpoint string) {
	b.captchaEndpoint = &endpoint
}

// Resubmit implements submit.Gatherer.
func (b *Builder) Resubmit() {}

// PollStatus implements submit.Gatherer.
func (b *Builder) PollStatus(snapshot *api.Solution) {
	b.polls++
}

// FinishSubmit implements submit.Gatherer.
func (b *Builder) FinishSubmit(state submit.State, runID int, solution *api.Solution, err error) {
	now := time.Now()
	b.finished = &now
	b.state = state
	b.runID = runID
	b.solution = solution
	if err != nil {
		msg := judgeerr.Message(err)
		b.errorMessage = &msg
	}
}

// Record builds the api.SubmitRecord from gathered data.
func (b *Builder) Record() api.SubmitRecord {
	start := b.started.Format(time.RFC3339)
	finish := start
	total := int64(0)
	if b.finished != nil {
		finish = b.finished.Format(time.RFC3339)
		total = b.finished.Sub(b.started).Milliseconds()
	}
	rec := api.SubmitRecord{
		ActionUuid:      b.actionUuid,
		ContestID:       b.contestID,
		ProblemNum:      b.problemNum,
		Language:        b.language,
		State:           string(b.state),
		CaptchaRequired: b.captchaEndpoint != nil,
		CaptchaEndpoint: b.captchaEndpoint,
		Polls:           b.polls,
		ErrorMessage:    b.errorMessage,
		StartTime:       start,
		FinishTime:      finish,
		TotalTimeMs:     total,
	}
	if b.runID != 0 {
		v := b.runID
		rec.RunID = &v
	}
	if b.solution != nil {
		status := b.solution.Status
		statusType := int(b.solution.StatusType)
		rec.Status = &status
		rec.StatusType = &statusType
	}
	return rec
}

var _ submit.Gatherer = (*Builder)(nil)
