// Package submit drives one code submission from the first submit call to
// the judge's verdict.
package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/vjudge/api"
	"github.com/programme-lv/vjudge/internal/captcha"
	"github.com/programme-lv/vjudge/internal/judge"
	"github.com/programme-lv/vjudge/internal/judgeerr"
	"github.com/programme-lv/vjudge/internal/ui"
)

const ShowInfoAction = "Show additional info"

type Req struct {
	ContestID  int
	ProblemNum string
	Code       string
	Language   string
}

// Outcome is where a submit action ended.
type Outcome struct {
	ActionUuid string
	State      State
	// Trace lists every state visited, starting with StateDrafting.
	Trace []State
	// RunID is 0 if the judge never accepted the code.
	RunID    int
	Solution *api.Solution
	// Message is the text the user was shown last.
	Message string
	Err     error
}

// CaptchaSource yields a captcha image to show.
type CaptchaSource interface {
	Fetch(ctx context.Context) (*captcha.Image, error)
}

// Session is the part of the session a submit needs.
type Session interface {
	BeginAction() (release func(), err error)
	AdoptUserID(id int) bool
}

// Refresher is told to refetch the contest tree once a verdict is in.
type Refresher interface {
	Refresh()
}

// Scheduler runs fn once after d.
type Scheduler func(d time.Duration, fn func())

func AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

type Config struct {
	PollInterval time.Duration
	// MaxPollWait bounds polling. Zero polls until the judge finishes.
	MaxPollWait    time.Duration
	RefreshDelay   time.Duration
	CaptchaMarkers []string
}

type Controller struct {
	client    judge.Client
	sess      Session
	ui        ui.Adapter
	captcha   CaptchaSource
	refresher Refresher
	cfg       Config
	log       *slog.Logger

	schedule  Scheduler
	gatherers []NewGatherer
}

type Option func(*Controller)

func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.schedule = s
	}
}

func WithGatherer(g NewGatherer) Option {
	return func(c *Controller) {
		c.gatherers = append(c.gatherers, g)
	}
}

func NewController(
	client judge.Client,
	sess Session,
	adapter ui.Adapter,
	captchaSrc CaptchaSource,
	refresher Refresher,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) *Controller {
	c := &Controller{
		client:    client,
		sess:      sess,
		ui:        adapter,
		captcha:   captchaSrc,
		refresher: refresher,
		cfg:       cfg,
		log:       logger.With("component", "submit"),
		schedule:  AfterFunc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs one submit action. A verdict, accepted or not, is a nil error;
// any other ending returns the error that aborted the action.
func (c *Controller) Submit(ctx context.Context, req Req) (*Outcome, error) {
	release, err := c.sess.BeginAction()
	if err != nil {
		c.ui.Error(judgeerr.Message(err))
		return nil, err
	}
	defer release()

	actionUuid := uuid.NewString()
	a := &action{
		Controller: c,
		req:        req,
		out: &Outcome{
			ActionUuid: actionUuid,
			State:      StateDrafting,
			Trace:      []State{StateDrafting},
		},
		log: c.log.With("action", actionUuid),
	}
	for _, newGath := range c.gatherers {
		a.gath = append(a.gath, newGath(actionUuid))
	}
	return a.run(ctx)
}

type action struct {
	*Controller
	req  Req
	out  *Outcome
	gath gatherers
	log  *slog.Logger
}

func (a *action) run(ctx context.Context) (*Outcome, error) {
	a.log.Info("submitting",
		"contest_id", a.req.ContestID,
		"problem", a.req.ProblemNum,
		"language", a.req.Language,
		"code_length", len(a.req.Code),
	)
	a.gath.StartSubmit(a.req.ContestID, a.req.ProblemNum, a.req.Language, len(a.req.Code))

	err := a.ui.Progress(ctx, "Submitting Code...", a.submitStage)
	if err == nil {
		err = a.ui.Progress(ctx, "Judge", a.pollStage)
	}
	if err == nil {
		a.verdict()
	} else {
		a.abort(err)
	}

	if a.out.RunID != 0 {
		a.log.Debug("scheduling contest refresh", "delay", a.cfg.RefreshDelay)
		a.schedule(a.cfg.RefreshDelay, a.refresher.Refresh)
	}
	a.gath.FinishSubmit(a.out.State, a.out.RunID, a.out.Solution, a.out.Err)
	a.log.Info("submit finished", "state", a.out.State, "run_id", a.out.RunID, "trace", a.out.Trace)
	return a.out, a.out.Err
}

func (a *action) to(next State) {
	if err := ValidateTransition(a.out.State, next); err != nil {
		panic(err)
	}
	a.log.Debug("state", "from", a.out.State, "to", next)
	a.out.State = next
	a.out.Trace = append(a.out.Trace, next)
}

func (a *action) submitStage(ctx context.Context, r ui.Reporter) error {
	a.to(StateSubmitting)
	r.Report(30, "")

	runID, err := a.client.SubmitCode(ctx, a.submitReq(""))
	if err != nil {
		if !IsCaptchaChallenge(err, a.cfg.CaptchaMarkers) {
			return a.rejected(err)
		}
		a.log.Info("judge requires captcha")
		a.to(StateNeedsCaptcha)
		r.Report(0, "Captcha required...")

		value, err := a.solveCaptcha(ctx)
		if err != nil {
			return err
		}

		a.to(StateResubmitting)
		r.Report(0, "Retrying with captcha...")
		a.gath.Resubmit()
		runID, err = a.client.SubmitCode(ctx, a.submitReq(value))
		if err != nil {
			return a.rejected(err)
		}
	}

	a.out.RunID = runID
	a.log.Info("code accepted for judging", "run_id", runID)
	r.Report(70, "")
	return nil
}

func (a *action) submitReq(captchaValue string) judge.SubmitReq {
	return judge.SubmitReq{
		ContestID:  a.req.ContestID,
		ProblemNum: a.req.ProblemNum,
		Code:       a.req.Code,
		Language:   a.req.Language,
		Captcha:    captchaValue,
	}
}

func (a *action) solveCaptcha(ctx context.Context) (string, error) {
	img, err := a.captcha.Fetch(ctx)
	if err != nil {
		return "", err
	}
	a.gath.RequireCaptcha(img.Endpoint)

	a.to(StateAwaitingCaptcha)
	value, err := a.ui.Captcha(ctx, img.Base64)
	if err != nil {
		if errors.Is(err, ui.ErrCancelled) {
			return "", judgeerr.New(judgeerr.KindAborted, "Captcha not provided, submission aborted")
		}
		return "", fmt.Errorf("captcha form failed: %w", err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", judgeerr.New(judgeerr.KindAborted, "Captcha not provided, submission aborted")
	}
	return value, nil
}

func (a *action) rejected(err error) error {
	return judgeerr.Wrap(judgeerr.KindSubmitRejected, ExtractRejectMessage(err), err)
}

func (a *action) pollStage(ctx context.Context, r ui.Reporter) error {
	a.to(StatePolling)
	started := time.Now()
	status := "Pending"
	for {
		r.Report(0, status)
		sol, err := a.client.FetchSolution(ctx, a.out.RunID)
		if err != nil {
			return fmt.Errorf("failed to fetch solution %d: %w", a.out.RunID, err)
		}
		a.out.Solution = sol
		a.gath.PollStatus(sol)
		if !sol.Processing {
			r.Report(30, sol.Status)
			return nil
		}
		status = sol.Status

		if a.cfg.MaxPollWait > 0 && time.Since(started) >= a.cfg.MaxPollWait {
			return judgeerr.New(judgeerr.KindJudgeTimeout,
				fmt.Sprintf("Judge did not finish run %d within %s", a.out.RunID, a.cfg.MaxPollWait))
		}
		if err := sleep(ctx, a.cfg.PollInterval); err != nil {
			return judgeerr.Wrap(judgeerr.KindAborted, "Submission aborted", err)
		}
	}
}

func (a *action) verdict() {
	sol := a.out.Solution
	if a.sess.AdoptUserID(sol.AuthorID) {
		a.log.Info("user id learned from solution", "user_id", sol.AuthorID)
	}

	a.out.Message = sol.Status
	if sol.StatusType == api.StatusFailureClass {
		a.to(StateRejectedClass)
		if sol.AdditionalInfo == "" {
			a.ui.Error(sol.Status)
			return
		}
		if a.ui.Error(sol.Status, ShowInfoAction) == ShowInfoAction {
			title := fmt.Sprintf("Submission %d additional info", a.out.RunID)
			if err := a.ui.Panel(title, sol.AdditionalInfo); err != nil {
				a.log.Warn("failed to show additional info", "error", err)
			}
		}
		return
	}
	a.to(StateAcceptedClass)
	a.ui.Info(sol.Status)
}

func (a *action) abort(err error) {
	a.out.Err = err
	a.out.Message = judgeerr.Message(err)
	a.to(StateAborted)
	a.log.Warn("submit aborted", "kind", judgeerr.KindOf(err), "error", err)
	if judgeerr.KindOf(err) != judgeerr.KindAborted {
		a.ui.Error(a.out.Message)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
