package submit_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/programme-lv/vjudge/internal/config"
	"github.com/programme-lv/vjudge/internal/judge"
	"github.com/programme-lv/vjudge/internal/submit"
	"github.com/stretchr/testify/assert"
)

func TestExtractRejectMessage(t *testing.T) {
	long := strings.Repeat("x", 300)
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "error field", err: badRequest(`{"error":"contest closed"}`), want: "contest closed"},
		{name: "json without error", err: badRequest(`{"runId":0}`), want: "Submission failed"},
		{name: "plain body", err: badRequest(`nope`), want: "nope..."},
		{name: "long body", err: badRequest(long), want: strings.Repeat("x", 200) + "..."},
		{name: "empty body", err: &judge.HTTPError{StatusCode: 400},
			want: "HTTP 400 Bad Request - The server rejected the submission. This could be due to captcha requirements, invalid parameters, or contest restrictions."},
		{name: "server error", err: &judge.HTTPError{StatusCode: 502, Body: []byte("bad gateway")}, want: "Submission failed (HTTP 502)"},
		{name: "transport error", err: errors.New("request failed: dial tcp: refused"), want: "request failed: dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, submit.ExtractRejectMessage(tt.err))
		})
	}
}

func TestIsCaptchaChallenge(t *testing.T) {
	markers := config.DefaultCaptchaMarkers
	assert.True(t, submit.IsCaptchaChallenge(badRequest(`{"captcha":true}`), markers))
	assert.True(t, submit.IsCaptchaChallenge(badRequest(`卧槽`), markers))
	assert.True(t, submit.IsCaptchaChallenge(badRequest(`Captcha is wrong`), markers))
	assert.False(t, submit.IsCaptchaChallenge(badRequest(`{"error":"contest closed"}`), markers))
	assert.False(t, submit.IsCaptchaChallenge(&judge.HTTPError{StatusCode: 500, Body: []byte("captcha")}, markers))
	assert.False(t, submit.IsCaptchaChallenge(errors.New("captcha"), markers))
}
