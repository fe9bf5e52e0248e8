// Package judgeerr holds the user-facing error taxonomy of the client.
// Network-level failures are tagged by package judge; this package classifies
// what the user is told.
package judgeerr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindMissingCredentials
	KindAuthFailure
	KindSubmitRejected
	KindCaptchaRequired
	KindCaptchaUnavailable
	KindJudgeTimeout
	KindAborted
	KindIdentityUnknown
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindMissingCredentials:
		return "missing credentials"
	case KindAuthFailure:
		return "authentication failed"
	case KindSubmitRejected:
		return "submission rejected"
	case KindCaptchaRequired:
		return "captcha required"
	case KindCaptchaUnavailable:
		return "captcha unavailable"
	case KindJudgeTimeout:
		return "judge timeout"
	case KindAborted:
		return "aborted"
	case KindIdentityUnknown:
		return "identity unknown"
	case KindBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching by kind.
var (
	MissingCredentials = &Error{Kind: KindMissingCredentials}
	AuthFailure        = &Error{Kind: KindAuthFailure}
	SubmitRejected     = &Error{Kind: KindSubmitRejected}
	CaptchaRequired    = &Error{Kind: KindCaptchaRequired}
	CaptchaUnavailable = &Error{Kind: KindCaptchaUnavailable}
	JudgeTimeout       = &Error{Kind: KindJudgeTimeout}
	Aborted            = &Error{Kind: KindAborted}
	IdentityUnknown    = &Error{Kind: KindIdentityUnknown}
	Busy               = &Error{Kind: KindBusy}
)

type Error struct {
	Kind Kind
	// Msg is shown to the user as-is.
	Msg string
	Err error
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the text to show for err. Taxonomy errors show their own
// message; anything else shows its full error string.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return err.Error()
}
