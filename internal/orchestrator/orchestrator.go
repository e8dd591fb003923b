// Package orchestrator sequences the remote calls that turn one assignment
// event into a posted summary comment. Each stage aborts the run on error;
// there are no compensating actions and no retry at this level. Dedupe at
// the poller is the only replay protection.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mrsummarizer/internal/codehost"
	"mrsummarizer/internal/logger"
	"mrsummarizer/internal/summarize"
	"mrsummarizer/pkg/logging"
	"mrsummarizer/pkg/metrics"
	"mrsummarizer/pkg/models"
)

const commentTemplate = `## AI-Generated Summary

%s

---
*This summary was automatically generated by an AI assistant.*
*Notification received: %s*
`

type Orchestrator struct {
	host          codehost.Client
	provider      summarize.Provider
	allowedStates map[string]struct{}
	log           logger.Logger
}

func New(host codehost.Client, provider summarize.Provider, allowedStates []string, log logger.Logger) *Orchestrator {
	allowed := make(map[string]struct{}, len(allowedStates))
	for _, state := range allowedStates {
		allowed[strings.ToLower(strings.TrimSpace(state))] = struct{}{}
	}
	return &Orchestrator{
		host:          host,
		provider:      provider,
		allowedStates: allowed,
		log:           log,
	}
}

// Process runs the pipeline for one event. The caller must not invoke it
// twice for the same event.
func (o *Orchestrator) Process(ctx context.Context, ev models.AssignmentEvent) Result {
	ctx = logging.WithTraceID(ctx, ev.TraceID)
	ctx = logging.WithReference(ctx, ev.Reference)

	o.log.InfowCtx(ctx, "Processing assignment event", "subject", ev.Subject)

	result := o.run(ctx, ev)

	metrics.PipelineRunsTotal.WithLabelValues(string(result.Outcome), string(result.Stage)).Inc()

	switch result.Outcome {
	case OutcomeSuccess:
		o.log.InfowCtx(ctx, "Pipeline run succeeded")
	case OutcomeSkipped:
		o.log.InfowCtx(ctx, "Pipeline run skipped", "reason", result.Reason)
	case OutcomeFailed:
		o.log.ErrorwCtx(ctx, "Pipeline run failed",
			"stage", string(result.Stage),
			"error", result.Err,
		)
	}

	return result
}

func (o *Orchestrator) run(ctx context.Context, ev models.AssignmentEvent) Result {
	ref, err := codehost.ParseReference(ev.Reference)
	if err != nil {
		return failed(StageParse, err)
	}
	o.log.InfowCtx(ctx, "Parsed work item reference",
		"project_id", ref.ProjectID,
		"item_iid", ref.ItemIID,
	)

	metadata, err := o.fetchMetadata(ctx, ref)
	if err != nil {
		return failed(StageFetchMetadata, err)
	}
	o.log.InfowCtx(ctx, "Fetched work item metadata",
		"title", metadata.Title,
		"state", metadata.State,
	)

	state := strings.ToLower(metadata.State)
	if _, ok := o.allowedStates[state]; !ok {
		o.log.InfowCtx(ctx, "Work item state not in allow-list", "state", state)
		return skipped(ReasonStateNotAllowed)
	}

	changes, err := o.fetchChanges(ctx, ref)
	if err != nil {
		return failed(StageFetchChanges, err)
	}
	o.log.InfowCtx(ctx, "Fetched work item changes",
		"files_changed", changes.Stats.FilesChanged,
		"additions", changes.Stats.Additions,
		"deletions", changes.Stats.Deletions,
	)

	summary, err := o.summarize(ctx, metadata, changes)
	if err != nil {
		return failed(StageSummarize, err)
	}
	o.log.InfowCtx(ctx, "Generated summary", "length", len(summary))

	note, err := o.postComment(ctx, ref, summary, ev.ReceivedAt)
	if err != nil {
		return failed(StagePostComment, err)
	}
	o.log.InfowCtx(ctx, "Posted summary comment", "note_url", note.WebURL)

	return success()
}

func (o *Orchestrator) fetchMetadata(ctx context.Context, ref codehost.Reference) (*codehost.Metadata, error) {
	start := time.Now()
	metadata, err := o.host.GetMergeRequest(ctx, ref)
	metrics.ObserveStageDuration(string(StageFetchMetadata), time.Since(start))
	return metadata, err
}

func (o *Orchestrator) fetchChanges(ctx context.Context, ref codehost.Reference) (*codehost.Changes, error) {
	start := time.Now()
	changes, err := o.host.GetMergeRequestChanges(ctx, ref)
	metrics.ObserveStageDuration(string(StageFetchChanges), time.Since(start))
	return changes, err
}

func (o *Orchestrator) summarize(ctx context.Context, metadata *codehost.Metadata, changes *codehost.Changes) (string, error) {
	start := time.Now()
	summary, err := o.provider.Summarize(ctx, summarize.Request{
		Title:        metadata.Title,
		Description:  metadata.Description,
		Changes:      changes.Changes,
		SourceBranch: metadata.SourceBranch,
		TargetBranch: metadata.TargetBranch,
	})
	metrics.ObserveStageDuration(string(StageSummarize), time.Since(start))
	return summary, err
}

func (o *Orchestrator) postComment(ctx context.Context, ref codehost.Reference, summary string, receivedAt time.Time) (*codehost.Note, error) {
	body := fmt.Sprintf(commentTemplate, summary, receivedAt.Format(time.RFC1123Z))

	start := time.Now()
	note, err := o.host.PostMergeRequestNote(ctx, ref, body)
	metrics.ObserveStageDuration(string(StagePostComment), time.Since(start))
	return note, err
}
