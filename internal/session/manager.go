package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/programme-lv/vjudge/internal/judge"
	"github.com/programme-lv/vjudge/internal/judgeerr"
	"github.com/programme-lv/vjudge/internal/ui"
)

type Manager struct {
	sess     *Session
	client   judge.Client
	ui       ui.Adapter
	resolver IdentityResolver
	log      *slog.Logger
}

func NewManager(sess *Session, client judge.Client, adapter ui.Adapter, resolver IdentityResolver, logger *slog.Logger) *Manager {
	return &Manager{
		sess:     sess,
		client:   client,
		ui:       adapter,
		resolver: resolver,
		log:      logger.With("component", "session"),
	}
}

func (m *Manager) Session() *Session {
	return m.sess
}

// Login prompts for whatever credentials are missing, authenticates and
// then tries to resolve the user id. Identity resolution never fails the
// login.
func (m *Manager) Login(ctx context.Context) error {
	release, err := m.sess.BeginAction()
	if err != nil {
		m.ui.Error(judgeerr.Message(err))
		return err
	}
	defer release()

	return m.ui.Progress(ctx, "Logging in...", func(ctx context.Context, r ui.Reporter) error {
		m.log.Info("login started")
		r.Report(0, "")

		username, password := m.sess.credentials()
		if username == "" {
			username, err = m.prompt(ctx, ui.PromptReq{Placeholder: "VJudge Username"})
			if err != nil {
				return err
			}
			if username == "" {
				m.ui.Error("Please type username!")
				return judgeerr.New(judgeerr.KindMissingCredentials, "username is required")
			}
		}
		if password == "" {
			password, err = m.prompt(ctx, ui.PromptReq{Placeholder: "VJudge Password", Secret: true})
			if err != nil {
				return err
			}
			if password == "" {
				m.ui.Error("Please type password!")
				return judgeerr.New(judgeerr.KindMissingCredentials, "password is required")
			}
		}
		r.Report(50, "")

		m.log.Info("calling judge login", "username", username)
		if err := m.client.Login(ctx, username, password); err != nil {
			m.log.Error("login failed", "username", username, "error", err)
			m.sess.forgetCredentials()
			m.ui.Error(err.Error())
			return judgeerr.Wrap(judgeerr.KindAuthFailure, "", err)
		}
		r.Report(50, "")

		m.sess.establish(username, password)
		m.ui.Info(fmt.Sprintf("Logged in as %s!", username))
		m.log.Info("login successful", "username", username)

		m.ResolveUserID(ctx)
		return nil
	})
}

// prompt maps a cancelled prompt to an empty answer; both mean the
// credential is missing.
func (m *Manager) prompt(ctx context.Context, req ui.PromptReq) (string, error) {
	v, err := m.ui.Prompt(ctx, req)
	if errors.Is(err, ui.ErrCancelled) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("prompt %q: %w", req.Placeholder, err)
	}
	return v, nil
}

// ResolveUserID runs the identity resolver and stores the result. Failures
// are logged, never returned.
func (m *Manager) ResolveUserID(ctx context.Context) {
	id, ok, err := m.resolver.ResolveUserID(ctx, m.sess.Username())
	if err != nil {
		m.log.Warn("failed to resolve user id", "error", err)
		return
	}
	if !ok {
		m.log.Info("user id unknown, solved state will not be shown", "reason", judgeerr.IdentityUnknown)
		return
	}
	m.sess.setUserID(id)
	m.log.Info("resolved user id", "user_id", id)
}

// Logout forgets the session so the next login prompts again.
func (m *Manager) Logout() {
	m.sess.reset()
	m.log.Info("logged out")
}
