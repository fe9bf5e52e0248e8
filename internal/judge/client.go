// Package judge talks to the remote judging service.
package judge

import (
	"context"

	"github.com/programme-lv/vjudge/api"
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks github.com/programme-lv/vjudge/internal/judge Client

// Client is everything the client-side core needs from the judge.
type Client interface {
	Login(ctx context.Context, username, password string) error
	ListMyContests(ctx context.Context) ([]api.Contest, error)
	GetContestDetail(ctx context.Context, contestID int) (*api.ContestDetail, error)
	GetProblemDescription(ctx context.Context, id, version int) (string, error)
	SubmitCode(ctx context.Context, req SubmitReq) (int, error)
	FetchSolution(ctx context.Context, runID int) (*api.Solution, error)
	FetchSubmissions(ctx context.Context, contestID int) ([]api.Submission, error)

	// Get is a raw escape hatch for resources outside the typed API,
	// e.g. captcha images and user profiles.
	Get(ctx context.Context, url string) (*RawResponse, error)
}

type SubmitReq struct {
	ContestID  int
	ProblemNum string
	Code       string
	Language   string
	// Captcha is empty on the first attempt.
	Captcha string
}

type RawResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}
