// Package ui is the boundary between the client core and whatever presents
// it to the user.
package ui

import (
	"context"
	"errors"
)

// ErrCancelled is returned by prompts the user dismissed.
var ErrCancelled = errors.New("cancelled by user")

// Reporter receives progress steps inside a Progress scope.
type Reporter interface {
	// Report advances the progress by increment percent and shows message
	// if it is not empty.
	Report(increment int, message string)
}

type PromptReq struct {
	Placeholder string
	Secret      bool
}

type Adapter interface {
	// Progress runs fn inside a titled progress scope. The scope ends when
	// fn returns; its error is passed through.
	Progress(ctx context.Context, title string, fn func(ctx context.Context, r Reporter) error) error

	// Prompt blocks until the user enters a line or cancels.
	Prompt(ctx context.Context, req PromptReq) (string, error)

	// Info and Error show a message. When actions are given the chosen one
	// is returned, "" if the user picked none.
	Info(msg string, actions ...string) string
	Error(msg string, actions ...string) string

	// Panel renders an HTML document under a title.
	Panel(title, html string) error

	// Captcha shows a base64 encoded image and blocks until the user
	// answers or closes the form (ErrCancelled). There is no timeout.
	Captcha(ctx context.Context, imageBase64 string) (string, error)
}
