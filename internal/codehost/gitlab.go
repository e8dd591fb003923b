package codehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"mrsummarizer/internal/config"
	"mrsummarizer/internal/constants"
	"mrsummarizer/internal/logger"
	apperrors "mrsummarizer/pkg/errors"
	"mrsummarizer/pkg/retry"
)

// GitLabClient is a GitLab REST v4 client. Transport-level failures and 5xx
// responses are retried under the configured policy; 4xx responses are
// permanent and surface immediately.
type GitLabClient struct {
	baseURL string
	token   string
	client  *http.Client
	policy  retry.Policy
	log     logger.Logger
}

func NewGitLabClient(cfg config.CodeHostConfig, retryCfg config.RetryConfig, log logger.Logger) *GitLabClient {
	return &GitLabClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client: &http.Client{
			Timeout: constants.DefaultHTTPTimeout,
		},
		policy: retry.Policy{
			MaxAttempts:     retryCfg.MaxAttempts,
			InitialInterval: retryCfg.InitialInterval,
			MaxInterval:     retryCfg.MaxInterval,
			Multiplier:      retryCfg.Multiplier,
		},
		log: log,
	}
}

func (c *GitLabClient) GetMergeRequest(ctx context.Context, ref Reference) (*Metadata, error) {
	endpoint := fmt.Sprintf("%s/api/v4/projects/%s/merge_requests/%d",
		c.baseURL, url.PathEscape(ref.ProjectID), ref.ItemIID)

	var metadata Metadata
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &metadata); err != nil {
		return nil, fmt.Errorf("failed to fetch merge request %s: %w", ref, err)
	}
	return &metadata, nil
}

func (c *GitLabClient) GetMergeRequestChanges(ctx context.Context, ref Reference) (*Changes, error) {
	endpoint := fmt.Sprintf("%s/api/v4/projects/%s/merge_requests/%d/changes",
		c.baseURL, url.PathEscape(ref.ProjectID), ref.ItemIID)

	var payload struct {
		Changes []Change `json:"changes"`
	}
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch changes for %s: %w", ref, err)
	}

	changes := &Changes{
		Changes: payload.Changes,
		Stats: DiffStats{
			FilesChanged: len(payload.Changes),
		},
	}
	for _, change := range payload.Changes {
		changes.Stats.Additions += strings.Count(change.Diff, "\n+")
		changes.Stats.Deletions += strings.Count(change.Diff, "\n-")
	}
	return changes, nil
}

func (c *GitLabClient) PostMergeRequestNote(ctx context.Context, ref Reference, body string) (*Note, error) {
	endpoint := fmt.Sprintf("%s/api/v4/projects/%s/merge_requests/%d/notes",
		c.baseURL, url.PathEscape(ref.ProjectID), ref.ItemIID)

	request, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return nil, fmt.Errorf("failed to encode note body: %w", err)
	}

	var note Note
	if err := c.doJSON(ctx, http.MethodPost, endpoint, request, &note); err != nil {
		return nil, fmt.Errorf("failed to post note on %s: %w", ref, err)
	}

	note.WebURL = fmt.Sprintf("%s/%s/-/merge_requests/%d#note_%d",
		c.baseURL, ref.ProjectID, ref.ItemIID, note.ID)
	return &note, nil
}

func (c *GitLabClient) doJSON(ctx context.Context, method, endpoint string, body []byte, out interface{}) error {
	return retry.Retry(ctx, c.policy, func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return retry.NewFatalError(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("PRIVATE-TOKEN", c.token)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return apperrors.FromHTTPStatus(resp.StatusCode,
				fmt.Sprintf("%s %s returned %d: %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(payload))))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.NewFatalError(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	})
}
