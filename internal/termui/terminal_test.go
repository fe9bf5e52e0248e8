package termui_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/vjudge/api"
	"github.com/programme-lv/vjudge/internal/termui"
	"github.com/programme-lv/vjudge/internal/tree"
	"github.com/programme-lv/vjudge/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func newTerminal(t *testing.T, input string) (*termui.Terminal, *bytes.Buffer, string) {
	t.Helper()
	var out bytes.Buffer
	dir := t.TempDir()
	return termui.New(strings.NewReader(input), &out, dir), &out, dir
}

func TestPrompt(t *testing.T) {
	term, out, _ := newTerminal(t, "alice\r\nsecret\n")

	name, err := term.Prompt(context.Background(), ui.PromptReq{Placeholder: "VJudge Username"})
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	pass, err := term.Prompt(context.Background(), ui.PromptReq{Placeholder: "VJudge Password", Secret: true})
	require.NoError(t, err)
	assert.Equal(t, "secret", pass)

	_, err = term.Prompt(context.Background(), ui.PromptReq{Placeholder: "again"})
	assert.ErrorIs(t, err, ui.ErrCancelled)
	assert.Contains(t, out.String(), "VJudge Username: ")
}

func TestMessageActions(t *testing.T) {
	term, out, _ := newTerminal(t, "1\n\n")

	assert.Equal(t, "Show additional info", term.Error("Wrong Answer", "Show additional info"))
	assert.Equal(t, "", term.Error("Wrong Answer", "Show additional info"))
	assert.Equal(t, "", term.Info("Accepted"))
	assert.Contains(t, out.String(), "[1] Show additional info")
	assert.Contains(t, out.String(), "Accepted\n")
}

func TestPanelIsWrittenToFile(t *testing.T) {
	term, out, dir := newTerminal(t, "")

	require.NoError(t, term.Panel("Submission 777 additional info", "<pre>diff</pre>"))

	path := filepath.Join(dir, "panels", "Submission-777-additional-info.html")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<pre>diff</pre>")
	assert.Contains(t, string(data), "<title>Submission 777 additional info</title>")
	assert.Contains(t, out.String(), "file://"+path)
}

func TestPanelTitleIsEscaped(t *testing.T) {
	term, out, dir := newTerminal(t, "")

	require.NoError(t, term.Panel("Run 5 <b>&", "<i>ok</i>"))

	path := filepath.Join(dir, "panels", "Run-5--b.html")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>Run 5 &lt;b&gt;&amp;</title>")
	assert.Contains(t, string(data), "<i>ok</i>")
	assert.Contains(t, out.String(), "Run 5 <b>&")
}

func TestCaptcha(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	img := base64.StdEncoding.EncodeToString(png)

	term, out, dir := newTerminal(t, " x7k2 \n")
	value, err := term.Captcha(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, "x7k2", value)

	matches, err := filepath.Glob(filepath.Join(dir, "captcha-*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Contains(t, out.String(), matches[0])

	term, _, _ = newTerminal(t, "")
	_, err = term.Captcha(context.Background(), img)
	assert.ErrorIs(t, err, ui.ErrCancelled)
}

func TestProgressReportsMessages(t *testing.T) {
	term, out, _ := newTerminal(t, "")
	err := term.Progress(context.Background(), "Judge", func(ctx context.Context, r ui.Reporter) error {
		r.Report(30, "")
		r.Report(0, "Judging")
		r.Report(90, "Accepted")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Judge\n  [ 30%] Judging\n  [100%] Accepted\n", out.String())
}

func TestRenderProblems(t *testing.T) {
	contest := &api.Contest{ID: 5001, Title: "Week 1", Begin: time.Unix(0, 0), End: time.Unix(3600, 0)}
	nodes := []*tree.Node{
		{Kind: tree.KindProblem, Label: "#A. Sum", Contest: contest, Problem: &api.Problem{Num: "A", OJ: "CodeForces", ProbNum: "1A", DescriptionID: 11, DescriptionVersion: 3}, Solved: api.Accepted},
		{Kind: tree.KindProblem, Label: "#B. Product", Contest: contest, Problem: &api.Problem{Num: "B", OJ: "AtCoder", ProbNum: "abc001_b"}, Index: 1, Solved: api.Unsolved},
	}
	var out bytes.Buffer
	termui.RenderProblems(&out, nodes)
	assert.Contains(t, out.String(), "#A. Sum")
	assert.Contains(t, out.String(), "CodeForces - 1A")
	assert.Contains(t, out.String(), "11 3")

	out.Reset()
	termui.RenderContests(&out, []*tree.Node{{Kind: tree.KindContest, Label: "Week 1", Contest: contest}})
	assert.Contains(t, out.String(), "5001")
	assert.Contains(t, out.String(), "Week 1")
}
