// Package session owns the login state and identity of the one user the
// client acts for.
package session

import (
	"sync"

	"github.com/programme-lv/vjudge/internal/judgeerr"
	"golang.org/x/sync/semaphore"
)

// Session lives for the process. Construct one in main and pass it by
// pointer; the password never leaves memory.
type Session struct {
	mu       sync.RWMutex
	username string
	password string
	userID   *int
	loggedIn bool

	actions *semaphore.Weighted
}

func New() *Session {
	return &Session{actions: semaphore.NewWeighted(1)}
}

// Seed pre-fills credentials, e.g. from configuration. Empty values are
// still prompted for on login.
func (s *Session) Seed(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.password = password
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

// UserID returns the resolved numeric identity, if any.
func (s *Session) UserID() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userID == nil {
		return 0, false
	}
	return *s.userID, true
}

// AdoptUserID sets the identity only if none is known yet and reports
// whether it did.
func (s *Session) AdoptUserID(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID != nil || id == 0 {
		return false
	}
	s.userID = &id
	return true
}

// BeginAction claims the session for one user-triggered action. Only one
// action runs at a time; a second one fails with judgeerr.Busy instead of
// interleaving with the first.
func (s *Session) BeginAction() (release func(), err error) {
	if !s.actions.TryAcquire(1) {
		return nil, judgeerr.New(judgeerr.KindBusy, "Another action is still in progress")
	}
	var once sync.Once
	return func() { once.Do(func() { s.actions.Release(1) }) }, nil
}

func (s *Session) credentials() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username, s.password
}

func (s *Session) establish(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.password = password
	s.loggedIn = true
}

func (s *Session) setUserID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = &id
}

func (s *Session) forgetCredentials() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = ""
	s.password = ""
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = ""
	s.password = ""
	s.userID = nil
	s.loggedIn = false
}
