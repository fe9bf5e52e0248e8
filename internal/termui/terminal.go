// Package termui presents the client on a plain terminal.
package termui

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/vjudge/internal/ui"
	"golang.org/x/term"
)

// Terminal is a line based ui.Adapter. Panels and captcha images are
// written as files under dir and their paths printed.
type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
	dir string
	now func() time.Time

	// ttyFd is the input descriptor when it is a terminal, -1 otherwise.
	ttyFd int
}

func New(in io.Reader, out io.Writer, dir string) *Terminal {
	t := &Terminal{
		in:    bufio.NewReader(in),
		out:   out,
		dir:   dir,
		now:   time.Now,
		ttyFd: -1,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.ttyFd = int(f.Fd())
	}
	return t
}

// ReadLine prints prompt and reads one line. io.EOF ends input.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readLine(prompt)
}

func (t *Terminal) readLine(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) Progress(ctx context.Context, title string, fn func(ctx context.Context, r ui.Reporter) error) error {
	t.mu.Lock()
	color.New(color.FgCyan, color.Bold).Fprintln(t.out, title)
	t.mu.Unlock()
	return fn(ctx, &reporter{t: t})
}

type reporter struct {
	t       *Terminal
	percent int
}

func (r *reporter) Report(increment int, message string) {
	r.percent = min(r.percent+increment, 100)
	if message == "" {
		return
	}
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	fmt.Fprintf(r.t.out, "  [%3d%%] %s\n", r.percent, message)
}

func (t *Terminal) Prompt(ctx context.Context, req ui.PromptReq) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if req.Secret && t.ttyFd >= 0 {
		fmt.Fprint(t.out, req.Placeholder+": ")
		b, err := term.ReadPassword(t.ttyFd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", req.Placeholder, err)
		}
		return string(b), nil
	}
	line, err := t.readLine(req.Placeholder + ": ")
	if errors.Is(err, io.EOF) {
		return "", ui.ErrCancelled
	}
	return line, err
}

func (t *Terminal) Info(msg string, actions ...string) string {
	return t.message(color.New(color.FgGreen), msg, actions)
}

func (t *Terminal) Error(msg string, actions ...string) string {
	return t.message(color.New(color.FgRed), msg, actions)
}

func (t *Terminal) message(c *color.Color, msg string, actions []string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	c.Fprintln(t.out, msg)
	if len(actions) == 0 {
		return ""
	}
	for i, a := range actions {
		fmt.Fprintf(t.out, "  [%d] %s\n", i+1, a)
	}
	line, err := t.readLine("  choice (enter to dismiss): ")
	if err != nil {
		return ""
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(actions) {
		return ""
	}
	return actions[n-1]
}

// Panel writes body to an html file named after title.
func (t *Terminal) Panel(title, body string) error {
	dir := filepath.Join(t.dir, "panels")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create panel dir: %w", err)
	}
	path := filepath.Join(dir, slug(title)+".html")
	doc := fmt.Sprintf("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title></head><body>\n%s\n</body></html>\n",
		html.EscapeString(title), body)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write panel: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	color.New(color.Bold).Fprintln(t.out, title)
	fmt.Fprintf(t.out, "  file://%s\n", path)
	return nil
}

// Captcha saves the image and asks for its text. End of input cancels.
func (t *Terminal) Captcha(ctx context.Context, imageBase64 string) (string, error) {
	img, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return "", fmt.Errorf("failed to decode captcha image: %w", err)
	}
	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}
	ext := ".img"
	switch http.DetectContentType(img) {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	case "image/gif":
		ext = ".gif"
	}
	path := filepath.Join(t.dir, fmt.Sprintf("captcha-%d%s", t.now().UnixMilli(), ext))
	if err := os.WriteFile(path, img, 0644); err != nil {
		return "", fmt.Errorf("failed to write captcha image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	color.New(color.FgYellow, color.Bold).Fprintln(t.out, "Captcha required")
	fmt.Fprintf(t.out, "  image: %s\n", path)
	line, err := t.readLine("  Please enter the captcha shown in the image (empty to cancel): ")
	if errors.Is(err, io.EOF) {
		return "", ui.ErrCancelled
	}
	return strings.TrimSpace(line), err
}

func slug(title string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, title)
	s = strings.Trim(s, "-")
	if s == "" {
		return "panel"
	}
	return s
}

var _ ui.Adapter = (*Terminal)(nil)
