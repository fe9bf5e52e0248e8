package judgeerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/programme-lv/vjudge/internal/judgeerr"
	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesByKind(t *testing.T) {
	err := fmt.Errorf("submit: %w", judgeerr.New(judgeerr.KindSubmitRejected, "contest closed"))

	assert.True(t, errors.Is(err, judgeerr.SubmitRejected))
	assert.False(t, errors.Is(err, judgeerr.Aborted))
	assert.Equal(t, judgeerr.KindSubmitRejected, judgeerr.KindOf(err))
	assert.Equal(t, "contest closed", judgeerr.Message(err))
}

func TestMessageFallsBackToErrorString(t *testing.T) {
	err := errors.New("connection refused")
	assert.Equal(t, "connection refused", judgeerr.Message(err))
	assert.Equal(t, judgeerr.KindUnknown, judgeerr.KindOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("bad password")
	err := judgeerr.Wrap(judgeerr.KindAuthFailure, "", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "authentication failed: bad password", err.Error())
}
