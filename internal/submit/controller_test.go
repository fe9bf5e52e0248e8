package submit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/programme-lv/vjudge/api"
	"github.com/programme-lv/vjudge/internal/captcha"
	"github.com/programme-lv/vjudge/internal/config"
	"github.com/programme-lv/vjudge/internal/judge"
	"github.com/programme-lv/vjudge/internal/judge/mocks"
	"github.com/programme-lv/vjudge/internal/judgeerr"
	"github.com/programme-lv/vjudge/internal/session"
	"github.com/programme-lv/vjudge/internal/submit"
	"github.com/programme-lv/vjudge/internal/ui/uitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeCaptcha struct {
	calls int
	img   *captcha.Image
	err   error
}

func (f *fakeCaptcha) Fetch(ctx context.Context) (*captcha.Image, error) {
	f.calls++
	return f.img, f.err
}

type countingRefresher struct {
	count int
}

func (r *countingRefresher) Refresh() { r.count++ }

type recordingGatherer struct {
	uuid   string
	events []string
}

func (g *recordingGatherer) StartSubmit(contestID int, problemNum, language string, codeLength int) {
	g.events = append(g.events, "start")
}
func (g *recordingGatherer) RequireCaptcha(endpoint string) {
	g.events = append(g.events, "captcha")
}
func (g *recordingGatherer) Resubmit() { g.events = append(g.events, "resubmit") }
func (g *recordingGatherer) PollStatus(snapshot *api.Solution) {
	g.events = append(g.events, "poll:"+snapshot.Status)
}
func (g *recordingGatherer) FinishSubmit(state submit.State, runID int, solution *api.Solution, err error) {
	g.events = append(g.events, "finish:"+string(state))
}

type fixture struct {
	client    *mocks.MockClient
	ui        *uitest.Fake
	sess      *session.Session
	captcha   *fakeCaptcha
	refresher *countingRefresher
	gath      *recordingGatherer
	delays    []time.Duration
	scheduled []func()
	cfg       submit.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		client:    mocks.NewMockClient(gomock.NewController(t)),
		ui:        &uitest.Fake{},
		sess:      session.New(),
		captcha:   &fakeCaptcha{img: &captcha.Image{Base64: "aW1n", ContentType: "image/png", Endpoint: "https://vjudge.net/util/captcha?1"}},
		refresher: &countingRefresher{},
		gath:      &recordingGatherer{},
		cfg: submit.Config{
			PollInterval:   time.Millisecond,
			RefreshDelay:   15 * time.Second,
			CaptchaMarkers: config.DefaultCaptchaMarkers,
		},
	}
}

func (f *fixture) controller(src submit.CaptchaSource) *submit.Controller {
	if src == nil {
		src = f.captcha
	}
	return submit.NewController(f.client, f.sess, f.ui, src, f.refresher, f.cfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		submit.WithScheduler(func(d time.Duration, fn func()) {
			f.delays = append(f.delays, d)
			f.scheduled = append(f.scheduled, fn)
		}),
		submit.WithGatherer(func(actionUuid string) submit.Gatherer {
			f.gath.uuid = actionUuid
			return f.gath
		}),
	)
}

var req = submit.Req{ContestID: 5001, ProblemNum: "A", Code: "int main() {}", Language: "54"}

func submitReq(captchaValue string) judge.SubmitReq {
	return judge.SubmitReq{ContestID: 5001, ProblemNum: "A", Code: "int main() {}", Language: "54", Captcha: captchaValue}
}

func badRequest(body string) error {
	return &judge.HTTPError{StatusCode: 400, ContentType: "application/json", Body: []byte(body)}
}

func TestSubmitWithoutCaptcha(t *testing.T) {
	f := newFixture(t)
	gomock.InOrder(
		f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(777, nil),
		f.client.EXPECT().FetchSolution(gomock.Any(), 777).Return(&api.Solution{RunID: 777, Status: "Judging", Processing: true}, nil),
		f.client.EXPECT().FetchSolution(gomock.Any(), 777).Return(&api.Solution{RunID: 777, Status: "Accepted", StatusType: api.StatusSuccessClass, AuthorID: 42}, nil),
	)

	out, err := f.controller(nil).Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, submit.StateAcceptedClass, out.State)
	assert.Equal(t, []submit.State{
		submit.StateDrafting, submit.StateSubmitting, submit.StatePolling, submit.StateAcceptedClass,
	}, out.Trace)
	assert.Equal(t, 777, out.RunID)
	assert.Equal(t, "Accepted", out.Message)
	assert.Zero(t, f.captcha.calls)
	assert.Empty(t, f.ui.CaptchaImages)

	assert.Equal(t, []string{"Submitting Code...", "Judge"}, f.ui.ProgressTitles)
	require.Len(t, f.ui.Messages, 1)
	assert.Equal(t, uitest.Message{Text: "Accepted"}, f.ui.Messages[0])

	id, known := f.sess.UserID()
	assert.True(t, known)
	assert.Equal(t, 42, id)

	require.Len(t, f.scheduled, 1)
	assert.Equal(t, 15*time.Second, f.delays[0])
	assert.Zero(t, f.refresher.count)
	f.scheduled[0]()
	assert.Equal(t, 1, f.refresher.count)

	assert.Equal(t, out.ActionUuid, f.gath.uuid)
	assert.Equal(t, []string{"start", "poll:Judging", "poll:Accepted", "finish:accepted_class"}, f.gath.events)
}

func TestCaptchaFlowResubmitsOnce(t *testing.T) {
	f := newFixture(t)
	f.ui.CaptchaAnswers = []string{" x7k2 "}
	gomock.InOrder(
		f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(0, badRequest(`{"error":"Captcha is wrong","captcha":true}`)),
		f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("x7k2")).Return(778, nil),
		f.client.EXPECT().FetchSolution(gomock.Any(), 778).Return(&api.Solution{RunID: 778, Status: "Accepted"}, nil),
	)

	out, err := f.controller(nil).Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, f.captcha.calls)
	assert.Equal(t, []string{"aW1n"}, f.ui.CaptchaImages)
	assert.Equal(t, []submit.State{
		submit.StateDrafting, submit.StateSubmitting, submit.StateNeedsCaptcha, submit.StateAwaitingCaptcha,
		submit.StateResubmitting, submit.StatePolling, submit.StateAcceptedClass,
	}, out.Trace)
	assert.Equal(t, 778, out.RunID)
	assert.Equal(t, []string{"start", "captcha", "resubmit", "poll:Accepted", "finish:accepted_class"}, f.gath.events)
}

func TestCaptchaResubmitFailureIsTerminal(t *testing.T) {
	f := newFixture(t)
	f.ui.CaptchaAnswers = []string{"x7k2", "never-asked"}
	gomock.InOrder(
		f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(0, badRequest(`卧槽`)),
		f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("x7k2")).Return(0, badRequest(`{"error":"Captcha is wrong","captcha":true}`)),
	)

	out, err := f.controller(nil).Submit(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, judgeerr.SubmitRejected)

	assert.Equal(t, 1, f.captcha.calls)
	assert.Len(t, f.ui.CaptchaImages, 1)
	assert.Equal(t, submit.StateAborted, out.State)
	assert.Equal(t, []string{"Captcha is wrong"}, f.ui.Errors())
	assert.Empty(t, f.scheduled)
}

func TestCaptchaNotProvided(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
	}{
		{name: "form closed", answers: nil},
		{name: "blank answer", answers: []string{"   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.ui.CaptchaAnswers = tt.answers
			f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(0, badRequest(`{"captcha":true}`)).Times(1)

			out, err := f.controller(nil).Submit(context.Background(), req)
			assert.ErrorIs(t, err, judgeerr.Aborted)
			assert.Equal(t, submit.StateAborted, out.State)
			assert.Equal(t, submit.StateAwaitingCaptcha, out.Trace[len(out.Trace)-2])
			assert.Empty(t, f.ui.Errors())
			assert.Zero(t, out.RunID)
		})
	}
}

func TestRejectedSubmitSkipsCaptcha(t *testing.T) {
	f := newFixture(t)
	f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(0, badRequest(`{"error":"contest closed"}`))

	out, err := f.controller(nil).Submit(context.Background(), req)
	assert.ErrorIs(t, err, judgeerr.SubmitRejected)
	assert.Equal(t, submit.StateAborted, out.State)
	assert.Equal(t, "contest closed", out.Message)
	assert.Equal(t, []string{"contest closed"}, f.ui.Errors())
	assert.Zero(t, f.captcha.calls)
	assert.Equal(t, []string{"Submitting Code..."}, f.ui.ProgressTitles)
	assert.Equal(t, []string{"start", "finish:aborted"}, f.gath.events)
}

func TestCaptchaUnavailableAfterAllEndpoints(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()
	urls := cfg.CaptchaURLs(time.Now())
	require.Len(t, urls, 4)

	f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(0, badRequest(`need captcha`))
	f.client.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(&judge.RawResponse{StatusCode: 200, ContentType: "text/html", Body: []byte("<html/>")}, nil).
		Times(2)
	f.client.EXPECT().Get(gomock.Any(), gomock.Any()).
		Return(nil, &judge.HTTPError{StatusCode: 404}).
		Times(2)

	prober := captcha.NewProber(f.client, cfg.CaptchaURLs, slog.New(slog.NewTextHandler(io.Discard, nil)))
	out, err := f.controller(prober).Submit(context.Background(), req)
	assert.ErrorIs(t, err, judgeerr.CaptchaUnavailable)
	assert.Equal(t, submit.StateAborted, out.State)
	assert.Equal(t, []string{"Failed to get captcha image. Please try again."}, f.ui.Errors())
	assert.Empty(t, f.ui.CaptchaImages)
}

func TestFailureClassVerdict(t *testing.T) {
	t.Run("with additional info", func(t *testing.T) {
		f := newFixture(t)
		f.ui.ActionChoice = submit.ShowInfoAction
		f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(777, nil)
		f.client.EXPECT().FetchSolution(gomock.Any(), 777).Return(&api.Solution{
			RunID: 777, Status: "Compilation Error", StatusType: api.StatusFailureClass, AdditionalInfo: "<html>",
		}, nil)

		out, err := f.controller(nil).Submit(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, submit.StateRejectedClass, out.State)

		require.Len(t, f.ui.Messages, 1)
		assert.Equal(t, uitest.Message{Error: true, Text: "Compilation Error", Actions: []string{submit.ShowInfoAction}}, f.ui.Messages[0])
		assert.Equal(t, []uitest.Panel{{Title: "Submission 777 additional info", HTML: "<html>"}}, f.ui.Panels)
		assert.Len(t, f.scheduled, 1)
	})

	t.Run("without additional info", func(t *testing.T) {
		f := newFixture(t)
		f.ui.ActionChoice = submit.ShowInfoAction
		f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(777, nil)
		f.client.EXPECT().FetchSolution(gomock.Any(), 777).Return(&api.Solution{
			RunID: 777, Status: "Wrong Answer", StatusType: api.StatusFailureClass,
		}, nil)

		out, err := f.controller(nil).Submit(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, submit.StateRejectedClass, out.State)
		assert.Equal(t, []uitest.Message{{Error: true, Text: "Wrong Answer"}}, f.ui.Messages)
		assert.Empty(t, f.ui.Panels)
	})

	t.Run("info dismissed", func(t *testing.T) {
		f := newFixture(t)
		f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(777, nil)
		f.client.EXPECT().FetchSolution(gomock.Any(), 777).Return(&api.Solution{
			RunID: 777, Status: "Runtime Error", StatusType: api.StatusFailureClass, AdditionalInfo: "<pre>trace</pre>",
		}, nil)

		_, err := f.controller(nil).Submit(context.Background(), req)
		require.NoError(t, err)
		assert.Empty(t, f.ui.Panels)
	})
}

func TestPollTimeout(t *testing.T) {
	f := newFixture(t)
	f.cfg.MaxPollWait = 5 * time.Millisecond
	f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(777, nil)
	f.client.EXPECT().FetchSolution(gomock.Any(), 777).
		Return(&api.Solution{RunID: 777, Status: "Judging", Processing: true}, nil).
		MinTimes(1)

	out, err := f.controller(nil).Submit(context.Background(), req)
	assert.ErrorIs(t, err, judgeerr.JudgeTimeout)
	assert.Equal(t, submit.StateAborted, out.State)
	assert.Equal(t, 777, out.RunID)
	assert.Len(t, f.ui.Errors(), 1)
	assert.Len(t, f.scheduled, 1)
}

func TestPollErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(777, nil)
	f.client.EXPECT().FetchSolution(gomock.Any(), 777).Return(nil, errors.New("connection reset"))

	out, err := f.controller(nil).Submit(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, submit.StateAborted, out.State)
	require.Len(t, f.ui.Errors(), 1)
	assert.True(t, strings.Contains(f.ui.Errors()[0], "connection reset"))
}

func TestKnownUserIDIsKept(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.sess.AdoptUserID(5))
	f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(777, nil)
	f.client.EXPECT().FetchSolution(gomock.Any(), 777).Return(&api.Solution{RunID: 777, Status: "Accepted", AuthorID: 42}, nil)

	_, err := f.controller(nil).Submit(context.Background(), req)
	require.NoError(t, err)
	id, _ := f.sess.UserID()
	assert.Equal(t, 5, id)
}

func TestSubmitWhileBusy(t *testing.T) {
	f := newFixture(t)
	release, err := f.sess.BeginAction()
	require.NoError(t, err)
	defer release()

	out, err := f.controller(nil).Submit(context.Background(), req)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, judgeerr.Busy)
	assert.Equal(t, []string{"Another action is still in progress"}, f.ui.Errors())
	assert.Empty(t, f.gath.events)
}

func TestCaptchaFormFailureIsShown(t *testing.T) {
	f := newFixture(t)
	f.ui.CaptchaErr = errors.New("failed to write captcha image: read-only file system")
	f.client.EXPECT().SubmitCode(gomock.Any(), submitReq("")).Return(0, badRequest(`{"captcha":true}`)).Times(1)

	out, err := f.controller(nil).Submit(context.Background(), req)
	require.Error(t, err)
	assert.NotErrorIs(t, err, judgeerr.Aborted)
	assert.Equal(t, judgeerr.KindUnknown, judgeerr.KindOf(err))
	assert.Equal(t, submit.StateAborted, out.State)

	errs := f.ui.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "read-only file system")
}
