package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrsummarizer/internal/codehost"
	"mrsummarizer/internal/logger"
	"mrsummarizer/internal/summarize"
	"mrsummarizer/pkg/models"
)

type fakeHost struct {
	metadata    *codehost.Metadata
	metadataErr error
	changes     *codehost.Changes
	changesErr  error
	note        *codehost.Note
	noteErr     error

	metadataCalls int
	changesCalls  int
	noteCalls     int
	postedBody    string
}

func (h *fakeHost) GetMergeRequest(ctx context.Context, ref codehost.Reference) (*codehost.Metadata, error) {
	h.metadataCalls++
	return h.metadata, h.metadataErr
}

func (h *fakeHost) GetMergeRequestChanges(ctx context.Context, ref codehost.Reference) (*codehost.Changes, error) {
	h.changesCalls++
	return h.changes, h.changesErr
}

func (h *fakeHost) PostMergeRequestNote(ctx context.Context, ref codehost.Reference, body string) (*codehost.Note, error) {
	h.noteCalls++
	h.postedBody = body
	return h.note, h.noteErr
}

type fakeProvider struct {
	summary string
	err     error
	calls   int
}

func (p *fakeProvider) Summarize(ctx context.Context, req summarize.Request) (string, error) {
	p.calls++
	return p.summary, p.err
}

func (p *fakeProvider) Name() string { return "fake" }

func openedHost() *fakeHost {
	return &fakeHost{
		metadata: &codehost.Metadata{
			IID:          42,
			Title:        "Add request timeouts",
			State:        "opened",
			SourceBranch: "feature/timeouts",
			TargetBranch: "main",
		},
		changes: &codehost.Changes{
			Changes: []codehost.Change{{NewPath: "main.go", OldPath: "main.go", Diff: "+added"}},
			Stats:   codehost.DiffStats{FilesChanged: 1, Additions: 1},
		},
		note: &codehost.Note{ID: 7, WebURL: "https://host/g/p/-/merge_requests/42#note_7"},
	}
}

func testEvent() models.AssignmentEvent {
	return models.NewAssignmentEvent(
		"101",
		"https://host/g/p/-/merge_requests/42",
		"Jane Doe was added as an Assignee",
		time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC),
	)
}

func TestProcessSuccess(t *testing.T) {
	host := openedHost()
	provider := &fakeProvider{summary: "This MR adds timeouts to all outbound requests."}
	o := New(host, provider, []string{"opened"}, logger.NopLogger())

	result := o.Process(context.Background(), testEvent())

	require.True(t, result.Success(), "got %s", result)
	assert.Equal(t, 1, host.metadataCalls)
	assert.Equal(t, 1, host.changesCalls)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, 1, host.noteCalls)

	assert.Contains(t, host.postedBody, "## AI-Generated Summary")
	assert.Contains(t, host.postedBody, provider.summary)
	assert.Contains(t, host.postedBody, "Notification received:")
	assert.Contains(t, host.postedBody, "24 Aug 2026 10:30:00 +0000")
}

func TestProcessSkipsDisallowedState(t *testing.T) {
	host := openedHost()
	host.metadata.State = "merged"
	provider := &fakeProvider{summary: "unused"}
	o := New(host, provider, []string{"opened"}, logger.NopLogger())

	result := o.Process(context.Background(), testEvent())

	assert.Equal(t, OutcomeSkipped, result.Outcome)
	assert.Equal(t, ReasonStateNotAllowed, result.Reason)

	// Nothing downstream of the state gate runs.
	assert.Equal(t, 0, host.changesCalls)
	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, 0, host.noteCalls)
}

func TestProcessStateGateIsCaseInsensitive(t *testing.T) {
	host := openedHost()
	host.metadata.State = "Opened"
	o := New(host, &fakeProvider{summary: "s"}, []string{"OPENED"}, logger.NopLogger())

	result := o.Process(context.Background(), testEvent())
	assert.True(t, result.Success(), "got %s", result)
}

func TestProcessFailsOnUnparsableReference(t *testing.T) {
	host := openedHost()
	o := New(host, &fakeProvider{}, []string{"opened"}, logger.NopLogger())

	ev := testEvent()
	ev.Reference = "https://host/g/p/-/issues/42"
	result := o.Process(context.Background(), ev)

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, StageParse, result.Stage)
	assert.Error(t, result.Err)
	assert.Equal(t, 0, host.metadataCalls)
}

func TestProcessFailsOnMetadataError(t *testing.T) {
	host := openedHost()
	host.metadata = nil
	host.metadataErr = errors.New("503 from upstream")
	provider := &fakeProvider{}
	o := New(host, provider, []string{"opened"}, logger.NopLogger())

	result := o.Process(context.Background(), testEvent())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, StageFetchMetadata, result.Stage)
	assert.Equal(t, 0, host.changesCalls)
	assert.Equal(t, 0, provider.calls)
}

func TestProcessFailsOnChangesError(t *testing.T) {
	host := openedHost()
	host.changes = nil
	host.changesErr = errors.New("changes unavailable")
	provider := &fakeProvider{}
	o := New(host, provider, []string{"opened"}, logger.NopLogger())

	result := o.Process(context.Background(), testEvent())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, StageFetchChanges, result.Stage)
	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, 0, host.noteCalls)
}

func TestProcessFailsOnSummarizeError(t *testing.T) {
	host := openedHost()
	provider := &fakeProvider{err: errors.New("model unavailable")}
	o := New(host, provider, []string{"opened"}, logger.NopLogger())

	result := o.Process(context.Background(), testEvent())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, StageSummarize, result.Stage)
	assert.Equal(t, 0, host.noteCalls)
}

func TestProcessFailsOnPostError(t *testing.T) {
	host := openedHost()
	host.note = nil
	host.noteErr = errors.New("401 unauthorized")
	o := New(host, &fakeProvider{summary: "s"}, []string{"opened"}, logger.NopLogger())

	result := o.Process(context.Background(), testEvent())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, StagePostComment, result.Stage)
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "success", success().String())
	assert.Equal(t, "skipped(state_not_allowed)", skipped(ReasonStateNotAllowed).String())
	assert.Equal(t,
		fmt.Sprintf("failed(%s): boom", StageSummarize),
		failed(StageSummarize, errors.New("boom")).String(),
	)
}
