package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"github.com/nats-io/nats.go"
	"github.com/programme-lv/vjudge/internal/captcha"
	"github.com/programme-lv/vjudge/internal/config"
	"github.com/programme-lv/vjudge/internal/filestore"
	"github.com/programme-lv/vjudge/internal/gatherer/natsgath"
	"github.com/programme-lv/vjudge/internal/gatherer/respbuilder"
	"github.com/programme-lv/vjudge/internal/gatherer/termgath"
	"github.com/programme-lv/vjudge/internal/judge"
	"github.com/programme-lv/vjudge/internal/judgeerr"
	"github.com/programme-lv/vjudge/internal/session"
	"github.com/programme-lv/vjudge/internal/submit"
	"github.com/programme-lv/vjudge/internal/termui"
	"github.com/programme-lv/vjudge/internal/tree"
	"github.com/programme-lv/vjudge/internal/ui"
)

type lineReader interface {
	ReadLine(prompt string) (string, error)
}

// app holds the process-wide state every command shares.
type app struct {
	cfg *config.Config
	log *slog.Logger
	out io.Writer

	ui      ui.Adapter
	lines   lineReader
	sess    *session.Session
	manager *session.Manager
	cache   *tree.Cache
	submits *submit.Controller
	nc      *nats.Conn

	lastRecord *respbuilder.Builder
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}

func (a *app) setup(configPath string, verbose bool) error {
	a.log = newLogger(os.Stderr, verbose)
	a.out = os.Stdout

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.log.Debug("config loaded", "base_url", cfg.BaseURL, "cache_dir", cfg.CacheDir, "nats", cfg.NATS.URL != "")

	client, err := judge.NewHTTPClient(cfg.BaseURL, judge.WithTimeout(cfg.Timeout.Duration))
	if err != nil {
		return fmt.Errorf("failed to create judge client: %w", err)
	}

	term := termui.New(os.Stdin, a.out, cfg.CacheDir)
	a.lines = term
	return a.wire(cfg, client, term, verbose)
}

// wire builds the session, cache and submit controller on top of client,
// presenting through adapter.
func (a *app) wire(cfg *config.Config, client judge.Client, adapter ui.Adapter, verbose bool) error {
	a.cfg = cfg
	a.ui = adapter
	a.sess = session.New()
	a.sess.Seed(cfg.Username, cfg.Password)
	a.manager = session.NewManager(a.sess, client, a.ui,
		session.DefaultResolver(client, cfg.BaseURL, a.log), a.log)
	a.cache = tree.NewCache(client, a.sess, a.ui, a.log)
	if store, err := filestore.New(filepath.Join(cfg.CacheDir, "store"), a.log); err != nil {
		a.log.Warn("problem descriptions will not be stored", "error", err)
	} else {
		a.cache.UseDescriptionStore(store)
	}

	opts := []submit.Option{
		submit.WithGatherer(func(actionUuid string) submit.Gatherer {
			a.lastRecord = respbuilder.New(actionUuid)
			return a.lastRecord
		}),
	}
	if verbose {
		opts = append(opts, submit.WithGatherer(func(actionUuid string) submit.Gatherer {
			return termgath.New(os.Stderr, actionUuid)
		}))
	}
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("vjudge"))
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		a.nc = nc
		a.log.Info("publishing submit events", "nats_url", cfg.NATS.URL, "subject", cfg.NATS.Subject)
		opts = append(opts, submit.WithGatherer(func(actionUuid string) submit.Gatherer {
			return natsgath.New(nc, cfg.NATS.Subject, actionUuid, a.log.With("component", "natsgath"))
		}))
	}

	prober := captcha.NewProber(client, cfg.CaptchaURLs, a.log)
	a.submits = submit.NewController(client, a.sess, a.ui, prober, a.cache, submit.Config{
		PollInterval:   cfg.PollInterval.Duration,
		MaxPollWait:    cfg.MaxPollWait.Duration,
		RefreshDelay:   cfg.RefreshDelay.Duration,
		CaptchaMarkers: cfg.Captcha.Markers,
	}, a.log, opts...)
	return nil
}

func (a *app) close() {
	if a.nc == nil {
		return
	}
	if err := a.nc.Drain(); err != nil {
		a.log.Warn("failed to drain NATS connection", "error", err)
	}
}

// login leaves prompt and progress failures unshown; every error of a known
// kind has been shown by the manager.
func (a *app) login(ctx context.Context) error {
	err := a.manager.Login(ctx)
	if err != nil && judgeerr.KindOf(err) != judgeerr.KindUnknown {
		return reported(err)
	}
	return err
}

func (a *app) ensureLogin(ctx context.Context) error {
	if a.sess.LoggedIn() {
		return nil
	}
	return a.login(ctx)
}

func (a *app) contests(ctx context.Context) error {
	if err := a.ensureLogin(ctx); err != nil {
		return err
	}
	nodes, err := a.cache.Children(ctx, a.cache.Root())
	if err != nil {
		return a.fail(err)
	}
	if len(nodes) == 0 {
		a.ui.Info("No contests found.")
		return nil
	}
	termui.RenderContests(a.out, nodes)
	return nil
}

func (a *app) problems(ctx context.Context, contestID int) error {
	if err := a.ensureLogin(ctx); err != nil {
		return err
	}
	node, err := a.cache.Contest(ctx, contestID)
	if err != nil {
		return a.fail(err)
	}
	nodes, err := a.cache.Children(ctx, node)
	if err != nil {
		return a.fail(err)
	}
	if _, known := a.sess.UserID(); !known {
		a.log.Warn("user id unknown, solved state is not shown")
	}
	fmt.Fprintln(a.out, node.Label)
	termui.RenderProblems(a.out, nodes)
	return nil
}

func (a *app) describe(ctx context.Context, descID, version int, title string) error {
	if title == "" {
		title = fmt.Sprintf("Problem description %d", descID)
	}
	if err := a.cache.OpenDescription(ctx, descID, version, title); err != nil {
		return a.fail(err)
	}
	return nil
}

func (a *app) submit(ctx context.Context, contestID int, problemNum, file, lang string, asJSON bool) error {
	code, err := os.ReadFile(file)
	if err != nil {
		return a.fail(fmt.Errorf("failed to read source file: %w", err))
	}
	if err := a.ensureLogin(ctx); err != nil {
		return err
	}

	_, err = a.submits.Submit(ctx, submit.Req{
		ContestID:  contestID,
		ProblemNum: problemNum,
		Code:       string(code),
		Language:   lang,
	})
	// The controller shows every failure except a cancelled action.
	err = reported(err)
	if asJSON && a.lastRecord != nil {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(a.lastRecord.Record()); encErr != nil {
			return errors.Join(err, a.fail(fmt.Errorf("failed to encode submit record: %w", encErr)))
		}
	}
	return err
}

func (a *app) refresh() {
	a.cache.Refresh()
	a.ui.Info("Contest list will be fetched again.")
}

func (a *app) logout() {
	a.manager.Logout()
	a.cache.Refresh()
	a.ui.Info("Logged out.")
}

// fail shows err to the user and returns it for the exit status.
func (a *app) fail(err error) error {
	a.ui.Error(judgeerr.Message(err))
	return reported(err)
}

// reportedError marks an error the user has already been shown.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil || isReported(err) {
		return err
	}
	return &reportedError{err: err}
}

func isReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

