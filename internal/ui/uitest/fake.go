// Package uitest provides a scripted ui.Adapter for tests.
package uitest

import (
	"context"
	"sync"

	"github.com/programme-lv/vjudge/internal/ui"
)

type Message struct {
	Error   bool
	Text    string
	Actions []string
}

type Panel struct {
	Title string
	HTML  string
}

type Step struct {
	Increment int
	Message   string
}

// Fake answers prompts from queues and records everything it was asked to
// show. An exhausted prompt queue answers ui.ErrCancelled.
type Fake struct {
	mu sync.Mutex

	PromptAnswers  []string
	CaptchaAnswers []string
	// ActionChoice is returned from Info/Error when actions are offered.
	ActionChoice string
	// PromptErr and CaptchaErr, when set, fail every prompt or captcha form.
	PromptErr  error
	CaptchaErr error

	Prompts        []ui.PromptReq
	CaptchaImages  []string
	Messages       []Message
	Panels         []Panel
	ProgressTitles []string
	Steps          []Step
}

func (f *Fake) Progress(ctx context.Context, title string, fn func(ctx context.Context, r ui.Reporter) error) error {
	f.mu.Lock()
	f.ProgressTitles = append(f.ProgressTitles, title)
	f.mu.Unlock()
	return fn(ctx, f)
}

func (f *Fake) Report(increment int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Steps = append(f.Steps, Step{Increment: increment, Message: message})
}

func (f *Fake) Prompt(ctx context.Context, req ui.PromptReq) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append(f.Prompts, req)
	if f.PromptErr != nil {
		return "", f.PromptErr
	}
	if len(f.PromptAnswers) == 0 {
		return "", ui.ErrCancelled
	}
	answer := f.PromptAnswers[0]
	f.PromptAnswers = f.PromptAnswers[1:]
	return answer, nil
}

func (f *Fake) Info(msg string, actions ...string) string {
	return f.message(false, msg, actions)
}

func (f *Fake) Error(msg string, actions ...string) string {
	return f.message(true, msg, actions)
}

func (f *Fake) message(isErr bool, msg string, actions []string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Messages = append(f.Messages, Message{Error: isErr, Text: msg, Actions: actions})
	if len(actions) == 0 {
		return ""
	}
	return f.ActionChoice
}

func (f *Fake) Panel(title, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Panels = append(f.Panels, Panel{Title: title, HTML: html})
	return nil
}

func (f *Fake) Captcha(ctx context.Context, imageBase64 string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CaptchaImages = append(f.CaptchaImages, imageBase64)
	if f.CaptchaErr != nil {
		return "", f.CaptchaErr
	}
	if len(f.CaptchaAnswers) == 0 {
		return "", ui.ErrCancelled
	}
	answer := f.CaptchaAnswers[0]
	f.CaptchaAnswers = f.CaptchaAnswers[1:]
	return answer, nil
}

// Errors returns the text of every error message shown so far.
func (f *Fake) Errors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.Messages {
		if m.Error {
			out = append(out, m.Text)
		}
	}
	return out
}

var _ ui.Adapter = (*Fake)(nil)
