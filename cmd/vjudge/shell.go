package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/programme-lv/vjudge/internal/judgeerr"
)

const shellHelp = `commands:
  login
  logout
  contests
  problems <contestId>
  describe <descId> <version> ["title"]
  submit <contestId> <problemNum> <file> <lang>
  refresh
  help
  quit`

// shell runs commands line by line against one session, so logins, the
// contest cache and delayed refreshes carry over between lines.
func (a *app) shell(ctx context.Context) error {
	a.cache.OnChange(func() {
		a.log.Debug("contest cache invalidated")
	})
	fmt.Fprintln(a.out, `vjudge shell, "help" lists commands`)
	for {
		line, err := a.lines.ReadLine("vjudge> ")
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil {
			return err
		}
		if a.handle(ctx, line) {
			return nil
		}
	}
}

// handle runs one shell line and reports whether the shell should quit.
// Failures nothing has shown yet are shown here.
func (a *app) handle(ctx context.Context, line string) bool {
	args, err := splitLine(line)
	if err != nil {
		a.ui.Error(err.Error())
		return false
	}
	if len(args) == 0 {
		return false
	}
	if args[0] == "quit" || args[0] == "exit" {
		return true
	}
	if err := a.exec(ctx, args); err != nil {
		a.log.Debug("command failed", "command", args[0], "error", err)
		if !isReported(err) {
			a.ui.Error(judgeerr.Message(err))
		}
	}
	return false
}

func (a *app) exec(ctx context.Context, args []string) error {
	ints := func(n int) ([]int, error) {
		if len(args)-1 < n {
			return nil, a.fail(fmt.Errorf("%s needs %d numeric arguments", args[0], n))
		}
		out := make([]int, n)
		for i := range out {
			v, err := strconv.Atoi(args[i+1])
			if err != nil {
				return nil, a.fail(fmt.Errorf("invalid number %q", args[i+1]))
			}
			out[i] = v
		}
		return out, nil
	}

	switch args[0] {
	case "help":
		fmt.Fprintln(a.out, shellHelp)
		return nil
	case "login":
		return a.login(ctx)
	case "logout":
		a.logout()
		return nil
	case "refresh":
		a.refresh()
		return nil
	case "contests":
		return a.contests(ctx)
	case "problems":
		n, err := ints(1)
		if err != nil {
			return err
		}
		return a.problems(ctx, n[0])
	case "describe":
		n, err := ints(2)
		if err != nil {
			return err
		}
		title := ""
		if len(args) > 3 {
			title = strings.Join(args[3:], " ")
		}
		return a.describe(ctx, n[0], n[1], title)
	case "submit":
		if len(args) != 5 {
			return a.fail(errors.New("usage: submit <contestId> <problemNum> <file> <lang>"))
		}
		n, err := ints(1)
		if err != nil {
			return err
		}
		return a.submit(ctx, n[0], args[2], args[3], args[4], false)
	default:
		return a.fail(fmt.Errorf("unknown command %q, try help", args[0]))
	}
}

// splitLine splits on whitespace; double quotes group words.
func splitLine(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		hasCur  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			hasCur = true
		case !inQuote && (r == ' ' || r == '\t'):
			if hasCur {
				args = append(args, cur.String())
				cur.Reset()
				hasCur = false
			}
		default:
			cur.WriteRune(r)
			hasCur = true
		}
	}
	if inQuote {
		return nil, errors.New("unterminated quote")
	}
	if hasCur {
		args = append(args, cur.String())
	}
	return args, nil
}
