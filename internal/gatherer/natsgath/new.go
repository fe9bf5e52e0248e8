package natsgath

import (
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Publisher is the part of a NATS connection the gatherer needs.
type Publisher interface {
	Publish(subj string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// New creates a new NATS gatherer that streams lifecycle events of one
// submit action to the given subject.
func New(nc Publisher, subject string, actionUuid string, logger *slog.Logger) *natsGatherer {
	return &natsGatherer{
		nc:         nc,
		subject:    subject,
		actionUuid: actionUuid,
		log:        logger,
	}
}
