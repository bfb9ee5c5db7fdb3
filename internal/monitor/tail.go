package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/skill-dispatcher/pkg/commsutil"
	"github.com/morezero/skill-dispatcher/pkg/events"
)

const tailLogPrefix = "monitor:tail"

// closedPollInterval is how often Tail checks whether the connection has closed for good.
var closedPollInterval = 500 * time.Millisecond

// Tail subscribes to subject and writes one line per dispatch event to w until
// ctx is done or nc is closed. An empty subject follows the default event subject.
// Messages that are not dispatch events are logged and skipped. A closed
// connection returns an error wrapping comms.ErrConnectionClosed.
func Tail(ctx context.Context, nc *comms.Conn, subject string, w io.Writer) error {
	if subject == "" {
		subject = commsutil.SubjectDispatched
	}

	msgs := make(chan *comms.Msg, 64)
	sub, err := nc.ChanSubscribe(subject, msgs)
	if err != nil {
		return fmt.Errorf("%s - failed to subscribe to %s: %w", tailLogPrefix, subject, err)
	}
	defer sub.Unsubscribe()

	if err := nc.Flush(); err != nil {
		return fmt.Errorf("%s - failed to flush subscription: %w", tailLogPrefix, err)
	}
	slog.Info(fmt.Sprintf("%s - Following %s", tailLogPrefix, subject))

	styles := newStyles(w)
	ticker := time.NewTicker(closedPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if nc.IsClosed() {
				return fmt.Errorf("%s - stopped following %s: %w", tailLogPrefix, subject, comms.ErrConnectionClosed)
			}
		case msg := <-msgs:
			ev, err := events.DecodeDispatchedEvent(msg.Data)
			if err != nil {
				slog.Warn(fmt.Sprintf("%s - skipping message on %s: %v", tailLogPrefix, msg.Subject, err))
				continue
			}
			if _, err := fmt.Fprintln(w, styles.formatEvent(ev)); err != nil {
				return fmt.Errorf("%s - failed to write event: %w", tailLogPrefix, err)
			}
		}
	}
}
