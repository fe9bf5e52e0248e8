package natsgath

import (
	"log/slog"

	"github.com/programme-lv/vjudge/api"
	"github.com/programme-lv/vjudge/internal/judgeerr"
	"github.com/programme-lv/vjudge/internal/submit"
)

type natsGatherer struct {
	nc         Publisher
	subject    string
	actionUuid string
	log        *slog.Logger
}

// StartSubmit implements submit.Gatherer.
func (s *natsGatherer) StartSubmit(contestID int, problemNum, language string, codeLength int) {
	s.send(api.NewStartSubmit(s.actionUuid, contestID, problemNum, language, codeLength))
}

// RequireCaptcha implements submit.Gatherer.
func (s *natsGatherer) RequireCaptcha(endpoint string) {
	var used *string
	if endpoint != "" {
		used = &endpoint
	}
	s.send(api.NewRequireCaptcha(s.actionUuid, used))
}

// Resubmit implements submit.Gatherer.
func (s *natsGatherer) Resubmit() {
	s.send(api.NewResubmit(s.actionUuid))
}

// PollStatus implements submit.Gatherer.
func (s *natsGatherer) PollStatus(snapshot *api.Solution) {
	s.send(api.NewPollStatus(s.actionUuid, snapshot))
}

// FinishSubmit implements submit.Gatherer.
func (s *natsGatherer) FinishSubmit(state submit.State, runID int, solution *api.Solution, err error) {
	var id *int
	if runID != 0 {
		id = &runID
	}
	var errMsg *string
	if err != nil {
		msg := judgeerr.Message(err)
		errMsg = &msg
	}
	msg := api.NewFinishSubmit(s.actionUuid, string(state), id, solution, errMsg)
	if msg.AdditionalInfo != nil {
		trimmed := trimStrToRect(*msg.AdditionalInfo, api.MaxInfoHeight, api.MaxInfoWidth)
		msg.AdditionalInfo = &trimmed
	}
	s.send(msg)
}

var _ submit.Gatherer = (*natsGatherer)(nil)
