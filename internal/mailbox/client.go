// Package mailbox is the notification source: it searches a mailbox for
// candidate messages and hands decoded messages to the poller.
package mailbox

import (
	"context"
	"time"
)

// Message is a decoded mailbox message. ID is the mailbox-assigned stable
// identifier used as the dedupe key.
type Message struct {
	ID         string
	Subject    string
	ReceivedAt time.Time
	Body       string
}

// Session is one open mailbox connection. The poller opens a session per
// cycle and closes it when the cycle ends, like any other remote cursor.
type Session interface {
	// Search returns the IDs of messages from the given sender received on
	// or after since. The server-side filter is coarse (date granularity);
	// callers re-check timestamps themselves.
	Search(sender string, since time.Time) ([]string, error)
	Fetch(id string) (*Message, error)
	Close() error
}

type Client interface {
	Connect(ctx context.Context) (Session, error)
}
