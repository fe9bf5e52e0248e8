// Package captcha fetches the challenge image the judge wants answered.
package captcha

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/programme-lv/vjudge/internal/judge"
	"github.com/programme-lv/vjudge/internal/judgeerr"
)

// Image is a captcha ready to be shown to the user.
type Image struct {
	Base64      string
	ContentType string
	// Endpoint is the URL that served the image.
	Endpoint string
}

// Prober tries captcha endpoints in order until one serves an image.
type Prober struct {
	client judge.Client
	urls   func(now time.Time) []string
	now    func() time.Time
	log    *slog.Logger
}

// NewProber builds a prober. urls expands the endpoint list for one round;
// it is called with the current time so every round busts caches.
func NewProber(client judge.Client, urls func(now time.Time) []string, logger *slog.Logger) *Prober {
	return &Prober{
		client: client,
		urls:   urls,
		now:    time.Now,
		log:    logger.With("component", "captcha"),
	}
}

func (p *Prober) Fetch(ctx context.Context) (*Image, error) {
	var failures []error
	for _, url := range p.urls(p.now()) {
		img, err := p.try(ctx, url)
		if err == nil {
			p.log.Debug("captcha image fetched", "endpoint", url, "content_type", img.ContentType, "bytes", len(img.Base64))
			return img, nil
		}
		if ctx.Err() != nil {
			return nil, judgeerr.Wrap(judgeerr.KindAborted, "Submission aborted", ctx.Err())
		}
		p.log.Debug("captcha endpoint failed", "endpoint", url, "error", err)
		failures = append(failures, fmt.Errorf("%s: %w", url, err))
	}
	return nil, judgeerr.Wrap(judgeerr.KindCaptchaUnavailable,
		"Failed to get captcha image. Please try again.", errors.Join(failures...))
}

func (p *Prober) try(ctx context.Context, url string) (*Image, error) {
	resp, err := p.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	contentType := strings.ToLower(strings.TrimSpace(resp.ContentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("not an image: content type %q", resp.ContentType)
	}
	if len(resp.Body) == 0 {
		return nil, errors.New("empty image")
	}
	return &Image{
		Base64:      base64.StdEncoding.EncodeToString(resp.Body),
		ContentType: resp.ContentType,
		Endpoint:    url,
	}, nil
}
