// Package poller turns raw mailbox messages into assignment events exactly
// once. Every message examined in a cycle ends the cycle marked processed in
// the dedupe store, whatever its disposition; only a failure to contact the
// mailbox leaves messages unmarked so they are retried next cycle.
package poller

import (
	"context"
	"strings"
	"time"

	"mrsummarizer/internal/config"
	"mrsummarizer/internal/dedupe"
	"mrsummarizer/internal/logger"
	"mrsummarizer/internal/mailbox"
	"mrsummarizer/internal/queue"
	"mrsummarizer/pkg/logging"
	"mrsummarizer/pkg/metrics"
	"mrsummarizer/pkg/models"
)

const (
	dispositionStale         = "stale"
	dispositionDuplicate     = "duplicate"
	dispositionNotAssignment = "not_assignment"
	dispositionNoReference   = "no_reference"
	dispositionEmitted       = "emitted"
)

type Poller struct {
	client   mailbox.Client
	store    dedupe.Store
	queue    *queue.Queue
	log      logger.Logger
	sender   string
	interval time.Duration
	lookback time.Duration
	maxCycle int
	markers  []string
}

func New(client mailbox.Client, store dedupe.Store, q *queue.Queue, mailboxCfg config.MailboxConfig, pollerCfg config.PollerConfig, log logger.Logger) *Poller {
	markers := make([]string, 0, len(pollerCfg.Markers))
	for _, marker := range pollerCfg.Markers {
		markers = append(markers, strings.ToLower(marker))
	}

	return &Poller{
		client:   client,
		store:    store,
		queue:    q,
		log:      log,
		sender:   mailboxCfg.SenderFilter,
		interval: time.Duration(pollerCfg.IntervalSeconds) * time.Second,
		lookback: time.Duration(mailboxCfg.LookbackHours) * time.Hour,
		maxCycle: mailboxCfg.MaxPerCycle,
		markers:  markers,
	}
}

// Run polls on a fixed interval until the context is canceled. One cycle is
// in flight at a time; a failed cycle is logged and the loop continues at the
// next tick.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Infow("Starting notification poller",
		"interval", p.interval.String(),
		"lookback", p.lookback.String(),
		"sender_filter", p.sender,
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			metrics.PollCyclesTotal.WithLabelValues("error").Inc()
			p.log.Errorw("Poll cycle failed", "error", err)
		} else {
			metrics.PollCyclesTotal.WithLabelValues("ok").Inc()
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			p.log.Info("Notification poller stopped")
			return ctx.Err()
		}
	}
}

// runCycle performs one Query -> Filter -> Classify -> Extract -> Emit pass.
func (p *Poller) runCycle(ctx context.Context) error {
	session, err := p.client.Connect(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	windowStart := time.Now().Add(-p.lookback)

	ids, err := session.Search(p.sender, windowStart)
	if err != nil {
		return err
	}
	p.log.Debugw("Poll cycle query complete", "candidates", len(ids))

	// Newest messages last in mailbox order; bound the per-cycle scan.
	if len(ids) > p.maxCycle {
		ids = ids[len(ids)-p.maxCycle:]
	}

	dirty := false
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		mctx := logging.WithMessageID(ctx, id)

		seen, err := p.store.Contains(mctx, id)
		if err != nil {
			p.log.ErrorwCtx(mctx, "Dedupe lookup failed, leaving message for next cycle", "error", err)
			continue
		}
		if seen {
			metrics.MessagesExaminedTotal.WithLabelValues(dispositionDuplicate).Inc()
			continue
		}

		msg, err := session.Fetch(id)
		if err != nil {
			p.log.WarnwCtx(mctx, "Failed to fetch message, leaving it for next cycle", "error", err)
			continue
		}

		marked, err := p.evaluate(mctx, msg, windowStart)
		if err != nil {
			return err
		}
		dirty = dirty || marked
	}

	if dirty {
		if err := p.store.Persist(ctx); err != nil {
			p.log.Errorw("Failed to persist dedupe store", "error", err)
		}
	}

	if n, err := p.store.Count(ctx); err == nil {
		metrics.SetDedupeStoreSize(n)
	}

	return ctx.Err()
}

// evaluate classifies one fetched message and emits an event when it is a
// new assignment with an extractable reference. It reports whether the
// message was marked processed without an immediate persist.
func (p *Poller) evaluate(ctx context.Context, msg *mailbox.Message, windowStart time.Time) (bool, error) {
	// Server-side SINCE filtering is date-granular and timezone-imprecise;
	// the message's own timestamp is the source of truth.
	if !msg.ReceivedAt.IsZero() && msg.ReceivedAt.Before(windowStart) {
		p.log.InfowCtx(ctx, "Skipping message outside lookback window",
			"subject", msg.Subject,
			"received_at", msg.ReceivedAt,
		)
		metrics.MessagesExaminedTotal.WithLabelValues(dispositionStale).Inc()
		return true, p.mark(ctx, msg.ID)
	}

	if !p.classify(msg.Subject, msg.Body) {
		p.log.InfowCtx(ctx, "Not an assignment notification", "subject", msg.Subject)
		metrics.MessagesExaminedTotal.WithLabelValues(dispositionNotAssignment).Inc()
		return true, p.mark(ctx, msg.ID)
	}

	reference, ok := ExtractReference(msg.Body)
	if !ok {
		p.log.WarnwCtx(ctx, "Assignment notification without an extractable reference",
			"subject", msg.Subject,
		)
		metrics.MessagesExaminedTotal.WithLabelValues(dispositionNoReference).Inc()
		return true, p.mark(ctx, msg.ID)
	}

	// Mark and persist before handing the event over, so a crash between the
	// two yields a dropped event rather than a duplicate.
	if err := p.mark(ctx, msg.ID); err != nil {
		return false, nil
	}
	if err := p.store.Persist(ctx); err != nil {
		p.log.ErrorwCtx(ctx, "Failed to persist dedupe store", "error", err)
	}

	ev := models.NewAssignmentEvent(msg.ID, reference, msg.Subject, msg.ReceivedAt)
	p.log.InfowCtx(ctx, "New assignment detected",
		"trace_id", ev.TraceID,
		"subject", msg.Subject,
		"reference", reference,
	)

	if err := p.queue.Enqueue(ctx, ev); err != nil {
		return false, err
	}

	metrics.MessagesExaminedTotal.WithLabelValues(dispositionEmitted).Inc()
	metrics.EventsEmittedTotal.Inc()
	return false, nil
}

func (p *Poller) mark(ctx context.Context, id string) error {
	if err := p.store.Add(ctx, id); err != nil {
		p.log.ErrorwCtx(ctx, "Failed to mark message processed", "error", err)
		return err
	}
	return nil
}

// classify runs the case-insensitive marker substring test over subject and
// body. A pure substring match, not NLP: the marker set is configuration.
func (p *Poller) classify(subject, body string) bool {
	text := strings.ToLower(subject + " " + body)
	for _, marker := range p.markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
