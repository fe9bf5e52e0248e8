package session_test

import (
	"testing"

	"github.com/programme-lv/vjudge/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdoptUserIDOnlyOnce(t *testing.T) {
	s := session.New()

	assert.False(t, s.AdoptUserID(0))
	assert.True(t, s.AdoptUserID(42))
	assert.False(t, s.AdoptUserID(43))

	id, ok := s.UserID()
	require.True(t, ok)
	assert.Equal(t, 42, id)
}

func TestBeginActionIsExclusive(t *testing.T) {
	s := session.New()

	release, err := s.BeginAction()
	require.NoError(t, err)

	_, err = s.BeginAction()
	require.Error(t, err)

	release()
	release() // second release is a no-op

	release2, err := s.BeginAction()
	require.NoError(t, err)
	release2()
}
