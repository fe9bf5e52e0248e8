// Package tree is the lazily expanded contest -> problem tree with the
// user's solved state.
package tree

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/programme-lv/vjudge/api"
	"github.com/programme-lv/vjudge/internal/judge"
	"github.com/programme-lv/vjudge/internal/ui"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Identity is the part of the session the tree depends on.
type Identity interface {
	LoggedIn() bool
	UserID() (int, bool)
}

// DescriptionStore keeps fetched problem descriptions. Descriptions are
// versioned, so a stored one never goes stale.
type DescriptionStore interface {
	Get(ctx context.Context, key string, download func(ctx context.Context) ([]byte, error)) ([]byte, error)
}

// Cache memoizes the root expansion (the user's contests) until Refresh.
// Contest expansions are always fetched fresh.
type Cache struct {
	client judge.Client
	ident  Identity
	ui     ui.Adapter
	log    *slog.Logger

	root *Node

	mu       sync.Mutex
	gen      uint64
	order    []int
	contests *xsync.MapOf[int, *Node]
	fetches  singleflight.Group

	listenersMu sync.Mutex
	listeners   []func()

	descriptions DescriptionStore
}

func NewCache(client judge.Client, ident Identity, adapter ui.Adapter, logger *slog.Logger) *Cache {
	return &Cache{
		client:   client,
		ident:    ident,
		ui:       adapter,
		log:      logger.With("component", "tree"),
		root:     &Node{Kind: KindRoot, Label: "Contests"},
		contests: xsync.NewMapOf[int, *Node](),
	}
}

func (c *Cache) Root() *Node {
	return c.root
}

// Children expands a node. nil yields the root.
func (c *Cache) Children(ctx context.Context, node *Node) ([]*Node, error) {
	switch {
	case node == nil:
		return []*Node{c.root}, nil
	case node == c.root:
		return c.contestNodes(ctx)
	case node.Kind == KindContest:
		return c.problemNodes(ctx, node.Contest)
	default:
		return nil, nil
	}
}

// Contest returns the cached node of a contest, expanding the root first
// if the cache is cold.
func (c *Cache) Contest(ctx context.Context, contestID int) (*Node, error) {
	nodes, err := c.contestNodes(ctx)
	if err != nil {
		return nil, err
	}
	for _, node := range nodes {
		if node.Contest.ID == contestID {
			return node, nil
		}
	}
	return nil, fmt.Errorf("contest %d is not among your contests", contestID)
}

func (c *Cache) contestNodes(ctx context.Context) ([]*Node, error) {
	if !c.ident.LoggedIn() {
		return []*Node{}, nil
	}

	if nodes := c.cachedNodes(); len(nodes) > 0 {
		return nodes, nil
	}

	res, err, _ := c.fetches.Do("contests", func() (any, error) {
		c.mu.Lock()
		gen := c.gen
		c.mu.Unlock()

		contests, err := c.client.ListMyContests(ctx)
		if err != nil {
			return nil, err
		}
		c.log.Debug("fetched contests", "count", len(contests))

		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.gen {
			// A refresh landed mid-fetch; serve this list once, keep nothing.
			c.log.Debug("contest list outdated by refresh", "gen", gen, "current", c.gen)
			nodes := make([]*Node, 0, len(contests))
			for _, contest := range contests {
				nodes = append(nodes, newContestNode(contest))
			}
			return nodes, nil
		}
		for _, contest := range contests {
			if _, ok := c.contests.Load(contest.ID); ok {
				continue
			}
			c.contests.Store(contest.ID, newContestNode(contest))
			c.order = append(c.order, contest.ID)
		}
		return c.orderedLocked(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list contests: %w", err)
	}
	return res.([]*Node), nil
}

func (c *Cache) cachedNodes() []*Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orderedLocked()
}

func (c *Cache) orderedLocked() []*Node {
	nodes := make([]*Node, 0, len(c.order))
	for _, id := range c.order {
		if node, ok := c.contests.Load(id); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func (c *Cache) cachedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

func (c *Cache) problemNodes(ctx context.Context, contest *api.Contest) ([]*Node, error) {
	var (
		detail *api.ContestDetail
		subs   []api.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = c.client.GetContestDetail(gctx, contest.ID)
		if err != nil {
			return fmt.Errorf("failed to fetch problems of contest %d: %w", contest.ID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		subs, err = c.client.FetchSubmissions(gctx, contest.ID)
		if err != nil {
			return fmt.Errorf("failed to fetch submissions of contest %d: %w", contest.ID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	userID, known := c.ident.UserID()
	solved := SolvedIndicators(len(detail.Problems), subs, userID, known)
	c.log.Debug("expanded contest",
		"contest_id", contest.ID,
		"problems", len(detail.Problems),
		"submissions", len(subs),
		"user_id", userID,
		"user_known", known,
	)

	nodes := make([]*Node, 0, len(detail.Problems))
	for i, problem := range detail.Problems {
		nodes = append(nodes, newProblemNode(contest, problem, i, solved[i]))
	}
	return nodes, nil
}

// Refresh drops the cached contest list and notifies listeners. Calling it
// again without an expansion in between changes nothing.
func (c *Cache) Refresh() {
	c.mu.Lock()
	c.gen++
	c.contests.Clear()
	c.order = nil
	c.mu.Unlock()
	c.log.Debug("contest cache cleared")

	c.listenersMu.Lock()
	listeners := append([]func(){}, c.listeners...)
	c.listenersMu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Cached reports how many contests are memoized.
func (c *Cache) Cached() int {
	return c.cachedCount()
}

// OnChange registers fn to run after every Refresh.
func (c *Cache) OnChange(fn func()) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// UseDescriptionStore makes OpenDescription go through store.
func (c *Cache) UseDescriptionStore(store DescriptionStore) {
	c.descriptions = store
}

// OpenDescription fetches a problem statement and shows it in a panel.
func (c *Cache) OpenDescription(ctx context.Context, descID, version int, title string) error {
	return c.ui.Progress(ctx, "Fetching Problem Description...", func(ctx context.Context, r ui.Reporter) error {
		r.Report(0, "")
		html, err := c.description(ctx, descID, version)
		if err != nil {
			return fmt.Errorf("failed to fetch description %d: %w", descID, err)
		}
		r.Report(50, "")
		if err := c.ui.Panel(title, html); err != nil {
			return err
		}
		r.Report(50, "")
		return nil
	})
}

func (c *Cache) description(ctx context.Context, descID, version int) (string, error) {
	if c.descriptions == nil {
		return c.client.GetProblemDescription(ctx, descID, version)
	}
	key := fmt.Sprintf("desc-%d-%d.html", descID, version)
	data, err := c.descriptions.Get(ctx, key, func(ctx context.Context) ([]byte, error) {
		html, err := c.client.GetProblemDescription(ctx, descID, version)
		return []byte(html), err
	})
	return string(data), err
}
