package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/programme-lv/vjudge/internal/judge"
)

// IdentityResolver finds the numeric id of the logged in user. Not finding
// one is not an error: ok is false and solved state degrades to "no
// submissions attributable to the user".
type IdentityResolver interface {
	ResolveUserID(ctx context.Context, username string) (id int, ok bool, err error)
}

// FirstSubmitterResolver is a best-effort heuristic: it walks the user's
// contests most recent first and takes the submitter of the first
// submission of the first contest that has any. That submission is assumed,
// not known, to belong to the querying user.
type FirstSubmitterResolver struct {
	Client judge.Client
	Log    *slog.Logger
}

func (r *FirstSubmitterResolver) ResolveUserID(ctx context.Context, username string) (int, bool, error) {
	contests, err := r.Client.ListMyContests(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to list contests: %w", err)
	}
	r.Log.Debug("resolving user id from submissions", "contests", len(contests))

	for _, contest := range contests {
		subs, err := r.Client.FetchSubmissions(ctx, contest.ID)
		if err != nil {
			r.Log.Warn("failed to fetch submissions", "contest_id", contest.ID, "error", err)
			continue
		}
		if len(subs) == 0 {
			continue
		}
		r.Log.Debug("picked first submitter", "contest_id", contest.ID, "user_id", subs[0].SubmitterID)
		return subs[0].SubmitterID, true, nil
	}
	return 0, false, nil
}

// ProfileResolver reads the id from the user's public profile data.
type ProfileResolver struct {
	Client  judge.Client
	BaseURL string
}

func (r *ProfileResolver) ResolveUserID(ctx context.Context, username string) (int, bool, error) {
	if username == "" {
		return 0, false, nil
	}
	profileURL := strings.TrimRight(r.BaseURL, "/") + "/user/data/" + url.PathEscape(username)
	resp, err := r.Client.Get(ctx, profileURL)
	if err != nil {
		return 0, false, fmt.Errorf("failed to fetch profile: %w", err)
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return 0, false, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	for _, key := range []string{"id", "userId", "user_id"} {
		raw, ok := data[key]
		if !ok {
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			continue
		}
		id, err := strconv.Atoi(n.String())
		if err != nil || id == 0 {
			continue
		}
		return id, true, nil
	}
	return 0, false, nil
}

// ChainResolver asks each resolver in turn until one knows the id. A
// failing resolver is logged and skipped.
type ChainResolver struct {
	Resolvers []IdentityResolver
	Log       *slog.Logger
}

func (c *ChainResolver) ResolveUserID(ctx context.Context, username string) (int, bool, error) {
	for _, r := range c.Resolvers {
		id, ok, err := r.ResolveUserID(ctx, username)
		if err != nil {
			c.Log.Warn("identity resolver failed", "resolver", fmt.Sprintf("%T", r), "error", err)
			continue
		}
		if ok {
			return id, true, nil
		}
	}
	return 0, false, nil
}

// DefaultResolver is the submission heuristic with the profile lookup as
// fallback.
func DefaultResolver(client judge.Client, baseURL string, log *slog.Logger) IdentityResolver {
	return &ChainResolver{
		Resolvers: []IdentityResolver{
			&FirstSubmitterResolver{Client: client, Log: log},
			&ProfileResolver{Client: client, BaseURL: baseURL},
		},
		Log: log,
	}
}
